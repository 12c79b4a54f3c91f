package wallet

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const maxUint256Digits = 78

// ToBaseUnits scales a human-readable amount to the token's smallest unit.
// e.g., 10 with 18 decimals -> 10000000000000000000
func ToBaseUnits(amount decimal.Decimal, decimals int32) (*big.Int, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative: %s", amount.String())
	}

	// Bound the exponent before rescaling so huge or tiny values fail fast
	exp := int(amount.Exponent()) + int(decimals)
	if amount.NumDigits()+exp > maxUint256Digits {
		return nil, fmt.Errorf("amount %s is too large", amount.String())
	}
	if -exp > maxUint256Digits {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", amount.String(), decimals)
	}

	scaled := amount.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", amount.String(), decimals)
	}

	units := scaled.BigInt()
	if units.BitLen() > 256 {
		return nil, fmt.Errorf("amount %s is too large", amount.String())
	}
	return units, nil
}

// FromBaseUnits converts base units back to a human-readable amount
func FromBaseUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}
