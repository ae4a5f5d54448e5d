package admin

import (
	"strconv"
	"strings"

	apperrors "zoolbot-admin/internal/common/errors"
)

// AdjustmentMode is recorded verbatim as the ledger operation.
type AdjustmentMode string

const (
	ModeAdd      AdjustmentMode = "add"
	ModeSubtract AdjustmentMode = "subtract"
	ModeSet      AdjustmentMode = "set"
)

// Adjustment is a balance change: Add(n), Subtract(n) or Set(n). Amount is never negative.
type Adjustment struct {
	Mode   AdjustmentMode
	Amount int64
}

func Add(n int64) Adjustment      { return Adjustment{Mode: ModeAdd, Amount: n} }
func Subtract(n int64) Adjustment { return Adjustment{Mode: ModeSubtract, Amount: n} }
func Set(n int64) Adjustment      { return Adjustment{Mode: ModeSet, Amount: n} }

// Apply returns the balance after the adjustment.
func (a Adjustment) Apply(balance int64) int64 {
	switch a.Mode {
	case ModeAdd:
		return balance + a.Amount
	case ModeSubtract:
		return balance - a.Amount
	default:
		return a.Amount
	}
}

// ParseAdjustment reads "+N", "-N", "=N" or a bare signed number. The digits after a sigil
// must be unsigned; "+-5" is rejected.
func ParseAdjustment(input string) (Adjustment, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Adjustment{}, apperrors.NewValidationError("balance change", "empty input")
	}

	var mode AdjustmentMode
	switch s[0] {
	case '+':
		mode = ModeAdd
	case '-':
		mode = ModeSubtract
	case '=':
		mode = ModeSet
	}
	if mode != "" {
		n, err := parseUnsigned(strings.TrimSpace(s[1:]))
		if err != nil {
			return Adjustment{}, err
		}
		return Adjustment{Mode: mode, Amount: n}, nil
	}

	n, err := parseUnsigned(s)
	if err != nil {
		return Adjustment{}, err
	}
	return Add(n), nil
}

func parseUnsigned(s string) (int64, error) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, apperrors.NewValidationError("balance change", "expected +N, -N or =N")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("balance change", "not a whole number")
	}
	return n, nil
}
