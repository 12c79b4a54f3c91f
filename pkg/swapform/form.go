package swapform

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"ape-swap/pkg/types"
)

// Field names a side of the form
type Field string

const (
	Source Field = "source" // Amount the user sends (BUSD)
	Target Field = "target" // Amount the user receives (APE)
)

// ParseField accepts a field name or a token symbol for either side
func ParseField(name, sourceSymbol, targetSymbol string) (Field, error) {
	switch {
	case strings.EqualFold(name, string(Source)), strings.EqualFold(name, sourceSymbol):
		return Source, nil
	case strings.EqualFold(name, string(Target)), strings.EqualFold(name, targetSymbol):
		return Target, nil
	default:
		return "", fmt.Errorf("unknown field %q (expected %s or %s)", name, sourceSymbol, targetSymbol)
	}
}

// Form keeps the source and target amounts linked by a fixed rate.
// rate is the number of source units per target unit.
type Form struct {
	mu    sync.RWMutex
	rate  decimal.Decimal
	state types.FormState
}

// New creates a form with both fields at "0"
func New(rate decimal.Decimal) *Form {
	return &Form{
		rate: rate,
		state: types.FormState{
			SourceAmount: "0",
			TargetAmount: "0",
		},
	}
}

// Set stores value in field and recomputes the paired field
func (f *Form) Set(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	amount := ParseAmount(value)

	switch field {
	case Source:
		f.state = types.FormState{
			SourceAmount: value,
			TargetAmount: amount.Div(f.rate).String(),
		}
	case Target:
		f.state = types.FormState{
			SourceAmount: amount.Mul(f.rate).String(),
			TargetAmount: value,
		}
	default:
		return fmt.Errorf("unknown field %q", field)
	}

	return nil
}

// State returns a copy of the current fields
func (f *Form) State() types.FormState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// maxDigits is the number of decimal digits in the largest uint256
const maxDigits = 78

// ParseAmount parses a decimal string. Empty or non-numeric input is zero,
// and so is any value with more integer or fractional digits than a uint256 holds.
func ParseAmount(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}

	// Checked before any arithmetic: rescaling 1e300000000 never finishes
	exp := int(d.Exponent())
	if d.NumDigits()+exp > maxDigits || -exp > maxDigits {
		return decimal.Zero
	}
	return d
}
