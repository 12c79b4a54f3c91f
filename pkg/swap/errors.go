package swap

import (
	"context"
	"errors"
	"fmt"

	"ape-swap/pkg/backend"
)

// Kind classifies a failed submission
type Kind string

const (
	KindValidation Kind = "validation" // Bad input, caught before any external call
	KindWallet     Kind = "wallet"     // Signing or broadcasting failed
	KindNetwork    Kind = "network"    // Backend unreachable
	KindRequest    Kind = "request"    // Backend rejected the request
)

// ErrSubmissionInFlight is returned when Submit is called while another submission runs
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// Failure is the normalized form of any submission error. Message is always non-empty.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s error: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func validationError(format string, args ...interface{}) *Failure {
	msg := fmt.Sprintf(format, args...)
	return &Failure{Kind: KindValidation, Message: msg, Err: errors.New(msg)}
}

func walletError(err error) *Failure {
	return &Failure{Kind: KindWallet, Message: messageOf(err, "wallet transfer failed"), Err: err}
}

// Normalize maps any error to a Failure. Errors that are already Failures pass through.
func Normalize(err error) *Failure {
	if err == nil {
		return nil
	}

	var failure *Failure
	if errors.As(err, &failure) {
		if failure.Message == "" {
			failure.Message = messageOf(failure.Err, "unknown error")
		}
		return failure
	}

	var reqErr *backend.RequestError
	if errors.As(err, &reqErr) {
		msg := reqErr.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", reqErr.StatusCode)
		}
		return &Failure{Kind: KindRequest, Message: msg, Err: err}
	}

	var netErr *backend.NetworkError
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Kind: KindNetwork, Message: messageOf(err, "network error"), Err: err}
	}

	return &Failure{Kind: KindRequest, Message: messageOf(err, "unknown error"), Err: err}
}

func messageOf(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
