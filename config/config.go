package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Network tags understood by the backend
const (
	NetworkMainnet = "MAINNET"
	NetworkTestnet = "TESTNET"
)

// Config holds the application configuration
type Config struct {
	// Backend
	APIURL string

	// Chain
	RPCURL     string
	ChainID    int64
	PrivateKey string
	GasLimit   *uint64
	GasPrice   *int64
	Network    string

	// Token pair
	TokenContract string
	Recipient     string
	Rate          decimal.Decimal
	Decimals      int32
	SourceSymbol  string
	TargetSymbol  string

	// Caller identity reported to the backend
	UserEmail  string
	UserWallet string

	// Behaviour
	NoticeDuration time.Duration
	Timeout        time.Duration
	AutoConfirm    bool
	HistoryFile    string
}

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".ape-swap")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	// Set default values
	v.SetDefault("rpc_url", "https://bsc-dataseed.binance.org")
	v.SetDefault("chain_id", 56)
	v.SetDefault("network", NetworkMainnet)
	v.SetDefault("token_contract", "0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56")
	v.SetDefault("rate", "4")
	v.SetDefault("decimals", 18)
	v.SetDefault("source_symbol", "BUSD")
	v.SetDefault("target_symbol", "APE")
	v.SetDefault("notice_duration", 6*time.Second)
	v.SetDefault("timeout", 2*time.Minute)

	// Read from environment variables
	v.SetEnvPrefix("APE_SWAP")
	v.AutomaticEnv()

	// Read config file (optional)
	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(v.GetString("rate")))
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", v.GetString("rate"), err)
	}

	cfg := &Config{
		APIURL:         strings.TrimRight(v.GetString("api_url"), "/"),
		RPCURL:         v.GetString("rpc_url"),
		ChainID:        v.GetInt64("chain_id"),
		PrivateKey:     v.GetString("private_key"),
		Network:        NormalizeNetwork(v.GetString("network")),
		TokenContract:  v.GetString("token_contract"),
		Recipient:      v.GetString("recipient"),
		Rate:           rate,
		Decimals:       v.GetInt32("decimals"),
		SourceSymbol:   strings.ToUpper(v.GetString("source_symbol")),
		TargetSymbol:   strings.ToUpper(v.GetString("target_symbol")),
		UserEmail:      v.GetString("user_email"),
		UserWallet:     v.GetString("user_wallet"),
		NoticeDuration: v.GetDuration("notice_duration"),
		Timeout:        v.GetDuration("timeout"),
		AutoConfirm:    v.GetBool("auto_confirm"),
		HistoryFile:    v.GetString("history_file"),
	}

	if v.IsSet("gas_limit") {
		gasLimit := v.GetUint64("gas_limit")
		cfg.GasLimit = &gasLimit
	}
	if v.IsSet("gas_price") {
		gasPrice := v.GetInt64("gas_price")
		cfg.GasPrice = &gasPrice
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings every command depends on
func (c *Config) Validate() error {
	if !c.Rate.IsPositive() {
		return fmt.Errorf("rate must be greater than zero, got %s", c.Rate.String())
	}
	if c.Decimals < 0 || c.Decimals > 36 {
		return fmt.Errorf("decimals must be between 0 and 36, got %d", c.Decimals)
	}
	return nil
}

// ValidateTransfer checks the settings required to sign and report a transfer
func (c *Config) ValidateTransfer() error {
	if c.APIURL == "" {
		return fmt.Errorf("API URL not found. Please set APE_SWAP_API_URL environment variable or add api_url to .ape-swap.yaml")
	}
	if c.RPCURL == "" {
		return fmt.Errorf("RPC URL not configured")
	}
	if c.PrivateKey == "" {
		return fmt.Errorf("private key not found. Please set APE_SWAP_PRIVATE_KEY environment variable")
	}
	if !common.IsHexAddress(c.TokenContract) {
		return fmt.Errorf("invalid token contract address: %s", c.TokenContract)
	}
	if !common.IsHexAddress(c.Recipient) {
		return fmt.Errorf("invalid recipient address: %q", c.Recipient)
	}
	if c.UserEmail == "" {
		return fmt.Errorf("user email not configured. Please set APE_SWAP_USER_EMAIL")
	}
	return nil
}

// NormalizeNetwork maps anything other than MAINNET to TESTNET
func NormalizeNetwork(network string) string {
	if strings.EqualFold(strings.TrimSpace(network), NetworkMainnet) {
		return NetworkMainnet
	}
	return NetworkTestnet
}
