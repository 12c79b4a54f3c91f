package swap

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"ape-swap/pkg/notify"
	"ape-swap/pkg/swapform"
	"ape-swap/pkg/types"
	"ape-swap/pkg/wallet"
)

// Status is the submitter's request state
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

const invalidAmountMessage = "Enter a valid amount"

// Wallet signs and broadcasts a token transfer
type Wallet interface {
	Transfer(ctx context.Context, recipient common.Address, amount *big.Int) (*types.Transaction, error)
}

// Reporter records a broadcast transfer with the backend
type Reporter interface {
	ApprovePayment(ctx context.Context, req *types.TransferRequest) (*types.TransferResponse, error)
}

// Notifier shows transient notices to the user
type Notifier interface {
	Notify(n notify.Notice)
}

// Hooks are caller callbacks. Nil hooks are skipped.
type Hooks struct {
	OnRefresh          func()
	OnToggleVisibility func()
	OnStatusChange     func(Status)
}

// Settings are the fixed parameters of every submission
type Settings struct {
	Recipient      common.Address
	Decimals       int32
	Network        string
	User           types.UserProfile
	NoticeDuration time.Duration
}

// Result describes a completed submission
type Result struct {
	Transaction *types.Transaction
	Message     string
}

// Submitter validates, transfers and reports a purchase
type Submitter struct {
	wallet   Wallet
	reporter Reporter
	notifier Notifier
	hooks    Hooks
	settings Settings

	mu     sync.Mutex
	status Status
}

// NewSubmitter creates an idle submitter
func NewSubmitter(w Wallet, r Reporter, n Notifier, settings Settings, hooks Hooks) *Submitter {
	return &Submitter{
		wallet:   w,
		reporter: r,
		notifier: n,
		hooks:    hooks,
		settings: settings,
		status:   StatusIdle,
	}
}

// Status returns the current request state
func (s *Submitter) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// InFlight reports whether a submission is running
func (s *Submitter) InFlight() bool {
	return s.Status() == StatusSubmitting
}

// Submit transfers sourceAmount tokens and reports the transaction.
// Every failure is shown to the user and returned as a *Failure. When the
// transfer was broadcast but the backend call failed, the Result is returned
// alongside the failure so the transaction hash is not lost.
func (s *Submitter) Submit(ctx context.Context, sourceAmount string) (*Result, error) {
	amount := swapform.ParseAmount(sourceAmount)
	if !amount.IsPositive() {
		return nil, s.reject(validationError(invalidAmountMessage))
	}

	baseUnits, err := wallet.ToBaseUnits(amount, s.settings.Decimals)
	if err != nil {
		return nil, s.reject(validationError("%s: %v", invalidAmountMessage, err))
	}

	if !s.begin() {
		return nil, ErrSubmissionInFlight
	}

	log.Debug().
		Str("amount", amount.String()).
		Str("base_units", baseUnits.String()).
		Str("recipient", s.settings.Recipient.Hex()).
		Msg("Submitting token transfer")

	tx, err := s.wallet.Transfer(ctx, s.settings.Recipient, baseUnits)
	if err != nil {
		return nil, s.fail(walletError(err))
	}

	resp, err := s.reporter.ApprovePayment(ctx, &types.TransferRequest{
		User:                 s.settings.User,
		Transaction:          tx,
		TransferedBusdAmount: amount.InexactFloat64(),
		Network:              s.settings.Network,
	})
	if err != nil {
		// The transfer is already on chain, so the hash goes back with the failure
		failure := Normalize(err)
		s.setStatus(StatusError)
		log.Debug().Err(failure.Err).Str("kind", string(failure.Kind)).Str("hash", tx.Hash).Msg("Transfer broadcast but not approved")
		s.notifier.Notify(notify.Error(fmt.Sprintf("%s (transaction %s)", failure.Message, tx.Hash)))
		return &Result{Transaction: tx}, failure
	}

	s.setStatus(StatusSuccess)
	if s.hooks.OnRefresh != nil {
		s.hooks.OnRefresh()
	}
	if s.hooks.OnToggleVisibility != nil {
		s.hooks.OnToggleVisibility()
	}
	s.notifier.Notify(notify.Success(resp.Message, s.settings.NoticeDuration))

	return &Result{Transaction: tx, Message: resp.Message}, nil
}

// begin moves to submitting unless a submission is already running
func (s *Submitter) begin() bool {
	s.mu.Lock()
	if s.status == StatusSubmitting {
		s.mu.Unlock()
		return false
	}
	s.status = StatusSubmitting
	s.mu.Unlock()

	if s.hooks.OnStatusChange != nil {
		s.hooks.OnStatusChange(StatusSubmitting)
	}
	return true
}

func (s *Submitter) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()

	if s.hooks.OnStatusChange != nil {
		s.hooks.OnStatusChange(status)
	}
}

// reject reports a failure that happened before the submission started
func (s *Submitter) reject(f *Failure) *Failure {
	s.notifier.Notify(notify.Error(f.Message))
	return f
}

func (s *Submitter) fail(f *Failure) *Failure {
	s.setStatus(StatusError)
	log.Debug().Err(f.Err).Str("kind", string(f.Kind)).Msg("Submission failed")
	s.notifier.Notify(notify.Error(f.Message))
	return f
}
