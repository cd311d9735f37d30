package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	ErrUserNotVerified      = errors.New("user is not verified")

	ErrAccountNotFound     = errors.New("account not found")
	ErrBankAccountNotFound = errors.New("bank account not found")

	ErrInvalidAmount        = errors.New("amount must be a positive value")
	ErrMissingCurrency      = errors.New("currency is required")
	ErrInvalidAccountNumber = errors.New("invalid bank account number")

	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrInvalidTransactionState = errors.New("transaction is not a pending withdrawal")
	ErrPermissionDenied        = errors.New("permission denied")

	// ErrVersionConflict signals a lost optimistic-lock race on an account
	// aggregate; the caller may retry against fresh state.
	ErrVersionConflict = errors.New("account was modified concurrently")
)
