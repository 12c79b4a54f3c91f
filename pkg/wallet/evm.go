package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"

	"ape-swap/config"
	"ape-swap/pkg/types"
)

// ERC20 transfer and balanceOf ABI
const erc20ABI = `[
	{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"}
]`

const (
	defaultERC20GasLimit = 100000
	gasBufferPercent     = 120
	baseFeeMultiplier    = 2
)

// ErrInsufficientBalance is returned when the signer holds fewer tokens than requested
var ErrInsufficientBalance = errors.New("insufficient token balance")

// ErrNoSigner is returned when a transfer is attempted without a private key
var ErrNoSigner = errors.New("private key not configured")

// ChainClient is the subset of ethclient.Client used by the wallet
type ChainClient interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	TransactionByHash(ctx context.Context, hash common.Hash) (*ethtypes.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
	Close()
}

// EVMWallet signs ERC20 transfers of a single token with a local key
type EVMWallet struct {
	client     ChainClient
	privateKey *ecdsa.PrivateKey
	from       common.Address
	token      common.Address
	chainID    *big.Int
	gasLimit   *uint64
	gasPrice   *int64
	abi        abi.ABI
}

// NewEVMWallet connects to the configured RPC endpoint
func NewEVMWallet(cfg *config.Config) (*EVMWallet, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL not configured")
	}

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	w, err := NewEVMWalletWithClient(cfg, client)
	if err != nil {
		client.Close()
		return nil, err
	}
	return w, nil
}

// NewEVMWalletWithClient builds a wallet on top of an existing chain client
func NewEVMWalletWithClient(cfg *config.Config, client ChainClient) (*EVMWallet, error) {
	if !common.IsHexAddress(cfg.TokenContract) {
		return nil, fmt.Errorf("invalid token contract address: %s", cfg.TokenContract)
	}

	parsedABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}

	w := &EVMWallet{
		client:   client,
		token:    common.HexToAddress(cfg.TokenContract),
		chainID:  big.NewInt(cfg.ChainID),
		gasLimit: cfg.GasLimit,
		gasPrice: cfg.GasPrice,
		abi:      parsedABI,
	}

	// Without a key the wallet can only read balances and receipts
	if cfg.PrivateKey != "" {
		privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		w.privateKey = privateKey
		w.from = crypto.PubkeyToAddress(privateKey.PublicKey)
	}

	return w, nil
}

// Address returns the signer's address
func (w *EVMWallet) Address() common.Address {
	return w.from
}

// Transfer sends amount base units of the token to recipient and returns the broadcast transaction
func (w *EVMWallet) Transfer(ctx context.Context, recipient common.Address, amount *big.Int) (*types.Transaction, error) {
	if w.privateKey == nil {
		return nil, ErrNoSigner
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("transfer amount must be positive")
	}

	balance, err := w.BalanceOf(ctx, w.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get token balance: %w", err)
	}
	if balance.Cmp(amount) < 0 {
		return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, balance.String(), amount.String())
	}

	data, err := w.abi.Pack("transfer", recipient, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack transfer data: %w", err)
	}

	nonce, err := w.client.PendingNonceAt(ctx, w.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasLimit := w.estimateGas(ctx, data)

	tx, err := w.buildTx(ctx, nonce, gasLimit, data)
	if err != nil {
		return nil, err
	}

	signedTx, err := ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(w.chainID), w.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := w.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	log.Debug().
		Str("hash", signedTx.Hash().Hex()).
		Str("to", recipient.Hex()).
		Str("amount", amount.String()).
		Uint64("nonce", nonce).
		Msg("Token transfer broadcast")

	return w.view(signedTx), nil
}

// buildTx picks a fee model: fixed gas price, EIP-1559 when the chain has a base fee, legacy otherwise
func (w *EVMWallet) buildTx(ctx context.Context, nonce, gasLimit uint64, data []byte) (*ethtypes.Transaction, error) {
	if w.gasPrice != nil {
		return ethtypes.NewTx(&ethtypes.LegacyTx{
			Nonce:    nonce,
			To:       &w.token,
			Value:    big.NewInt(0),
			Gas:      gasLimit,
			GasPrice: big.NewInt(*w.gasPrice),
			Data:     data,
		}), nil
	}

	header, err := w.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest header: %w", err)
	}

	if header.BaseFee != nil {
		tip, err := w.client.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get gas tip cap: %w", err)
		}
		feeCap := new(big.Int).Mul(header.BaseFee, big.NewInt(baseFeeMultiplier))
		feeCap.Add(feeCap, tip)

		return ethtypes.NewTx(&ethtypes.DynamicFeeTx{
			ChainID:   w.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gasLimit,
			To:        &w.token,
			Value:     big.NewInt(0),
			Data:      data,
		}), nil
	}

	gasPrice, err := w.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	return ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &w.token,
		Value:    big.NewInt(0),
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	}), nil
}

func (w *EVMWallet) estimateGas(ctx context.Context, data []byte) uint64 {
	if w.gasLimit != nil {
		return *w.gasLimit
	}

	msg := ethereum.CallMsg{
		From: w.from,
		To:   &w.token,
		Data: data,
	}
	estimated, err := w.client.EstimateGas(ctx, msg)
	if err != nil {
		log.Debug().Err(err).Msg("Gas estimation failed, using default ERC20 gas limit")
		return defaultERC20GasLimit
	}

	return estimated * gasBufferPercent / 100
}

// BalanceOf returns the token balance of account in base units
func (w *EVMWallet) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	data, err := w.abi.Pack("balanceOf", account)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf data: %w", err)
	}

	result, err := w.client.CallContract(ctx, ethereum.CallMsg{To: &w.token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}

	return new(big.Int).SetBytes(result), nil
}

func (w *EVMWallet) view(tx *ethtypes.Transaction) *types.Transaction {
	view := &types.Transaction{
		Hash:     tx.Hash().Hex(),
		Type:     tx.Type(),
		ChainID:  w.chainID.String(),
		Nonce:    tx.Nonce(),
		From:     w.from.Hex(),
		GasLimit: tx.Gas(),
		Value:    tx.Value().String(),
		Data:     hexutil.Encode(tx.Data()),
	}
	if tx.To() != nil {
		view.To = tx.To().Hex()
	}
	if tx.Type() == ethtypes.DynamicFeeTxType {
		view.MaxFeePerGas = tx.GasFeeCap().String()
		view.MaxPriorityFeePerGas = tx.GasTipCap().String()
	} else {
		view.GasPrice = tx.GasPrice().String()
	}
	return view
}

// TxStatus describes a transaction looked up by hash
type TxStatus struct {
	Hash        string `json:"hash"`
	Nonce       uint64 `json:"nonce"`
	To          string `json:"to"`
	GasLimit    uint64 `json:"gas_limit"`
	Pending     bool   `json:"pending"`
	BlockNumber uint64 `json:"block_number,omitempty"`
	GasUsed     uint64 `json:"gas_used,omitempty"`
	Succeeded   *bool  `json:"succeeded,omitempty"`
}

// TransactionStatus retrieves a transaction and, once mined, its receipt
func (w *EVMWallet) TransactionStatus(ctx context.Context, txHash string) (*TxStatus, error) {
	hash := common.HexToHash(txHash)

	tx, isPending, err := w.client.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	status := &TxStatus{
		Hash:     tx.Hash().Hex(),
		Nonce:    tx.Nonce(),
		GasLimit: tx.Gas(),
		Pending:  isPending,
	}
	if tx.To() != nil {
		status.To = tx.To().Hex()
	}

	if isPending {
		return status, nil
	}

	receipt, err := w.client.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}

	ok := receipt.Status == ethtypes.ReceiptStatusSuccessful
	status.BlockNumber = receipt.BlockNumber.Uint64()
	status.GasUsed = receipt.GasUsed
	status.Succeeded = &ok

	return status, nil
}

// Close closes the client connection
func (w *EVMWallet) Close() {
	if w.client != nil {
		w.client.Close()
	}
}
