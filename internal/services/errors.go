package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicateKey      = errors.New("account number or tax id already exists")
	ErrSameAccount       = errors.New("source and destination accounts must differ")
	ErrBalanceOverflow   = errors.New("resulting balance exceeds the representable maximum")
)

const (
	SideSource      = "source"
	SideDestination = "destination"
)

// AccountNotFoundError names the missing account and, for transfers, which
// side of the transfer it was on. It matches ErrAccountNotFound.
type AccountNotFoundError struct {
	Number string
	Side   string
}

func (e *AccountNotFoundError) Error() string {
	if e.Side == "" {
		return fmt.Sprintf("account %s not found", e.Number)
	}
	return fmt.Sprintf("%s account %s not found", e.Side, e.Number)
}

func (e *AccountNotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrSameAccount):
		return "same_account"
	case errors.Is(err, ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrDuplicateKey):
		return "duplicate"
	case errors.Is(err, ErrBalanceOverflow):
		return "balance_overflow"
	default:
		return "error"
	}
}
