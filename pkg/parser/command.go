package parser

import (
	"fmt"
	"regexp"
	"strings"

	"ape-swap/pkg/types"
)

// Pattern: <amount> [<token> [TO|FOR <token>]]
var buyPattern = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)(?:\s+([A-Z0-9]+)(?:\s+(?:TO|FOR)\s+([A-Z0-9]+))?)?$`)

// ParseBuyCommand parses an amount command against a token pair
// Examples:
//   - "10" (amount in the source token)
//   - "10 BUSD"
//   - "2.5 APE"
//   - "buy 10 BUSD for APE"
func ParseBuyCommand(command, sourceSymbol, targetSymbol string) (*types.SwapRequest, error) {
	command = strings.Join(strings.Fields(strings.ToUpper(command)), " ")
	command = strings.TrimPrefix(command, "BUY ")
	command = strings.TrimPrefix(command, "SWAP ")

	sourceSymbol = NormalizeTokenSymbol(sourceSymbol)
	targetSymbol = NormalizeTokenSymbol(targetSymbol)

	matches := buyPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid command format. Expected: '<amount> [%s|%s]' (e.g., '10 %s')", sourceSymbol, targetSymbol, sourceSymbol)
	}

	token := sourceSymbol
	if matches[2] != "" {
		token = NormalizeTokenSymbol(matches[2])
	}

	if token != sourceSymbol && token != targetSymbol {
		return nil, fmt.Errorf("unsupported token '%s': only %s and %s are supported", matches[2], sourceSymbol, targetSymbol)
	}

	if matches[3] != "" {
		other := NormalizeTokenSymbol(matches[3])
		if other == token || (other != sourceSymbol && other != targetSymbol) {
			return nil, fmt.Errorf("invalid pair %s to %s", token, other)
		}
	}

	return &types.SwapRequest{
		Amount: matches[1],
		Token:  token,
	}, nil
}

// ValidateSwapRequest validates that a swap request has all required fields
func ValidateSwapRequest(req *types.SwapRequest) error {
	if req.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if req.Token == "" {
		return fmt.Errorf("token is required")
	}
	return nil
}

// NormalizeTokenSymbol normalizes token symbols to standard format
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	aliases := map[string]string{
		"APECOIN": "APE",
	}

	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}

	return symbol
}
