package model

import (
	"errors"
)

var (
	// Validation
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidRange  = errors.New("invalid date range")
	ErrSameAccount   = errors.New("origin and destination accounts must differ")

	// Business rules
	ErrAccountInactive         = errors.New("account is not active")
	ErrIncompatibleAccounts    = errors.New("incompatible accounts")
	ErrMovementLimitReached    = errors.New("monthly movement limit reached")
	ErrOutOfWindow             = errors.New("account cannot transact today")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrLimitExceeded           = errors.New("credit limit exceeded")
	ErrAmountExceedsUsed       = errors.New("payment exceeds used amount")
	ErrCreditFullyPaid         = errors.New("credit is already fully paid")
	ErrNoAssociatedAccount     = errors.New("debit card has no associated accounts")
	ErrAllAccountsInsufficient = errors.New("no associated account has sufficient balance")

	// Lookups
	ErrNotFound     = errors.New("not found")
	ErrCardNotFound = errors.New("credit card not found")

	// Ownership
	ErrCustomerMismatch = errors.New("customer does not own the card")

	// Upstream
	ErrServiceUnavailable = errors.New("service unavailable, please retry later")
)

// ErrorCategory groups errors by how they are reported to the caller.
type ErrorCategory int

const (
	CategoryInternal ErrorCategory = iota
	CategoryValidation
	CategoryBusinessRule
	CategoryNotFound
	CategoryMismatch
	CategoryUnavailable
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryBusinessRule:
		return "business_rule"
	case CategoryNotFound:
		return "not_found"
	case CategoryMismatch:
		return "mismatch"
	case CategoryUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

var categories = []struct {
	err      error
	category ErrorCategory
}{
	{ErrInvalidType, CategoryValidation},
	{ErrMissingField, CategoryValidation},
	{ErrInvalidAmount, CategoryValidation},
	{ErrInvalidRange, CategoryValidation},
	{ErrSameAccount, CategoryValidation},
	{ErrAccountInactive, CategoryBusinessRule},
	{ErrIncompatibleAccounts, CategoryBusinessRule},
	{ErrMovementLimitReached, CategoryBusinessRule},
	{ErrOutOfWindow, CategoryBusinessRule},
	{ErrInsufficientFunds, CategoryBusinessRule},
	{ErrLimitExceeded, CategoryBusinessRule},
	{ErrAmountExceedsUsed, CategoryBusinessRule},
	{ErrCreditFullyPaid, CategoryBusinessRule},
	{ErrNoAssociatedAccount, CategoryBusinessRule},
	{ErrAllAccountsInsufficient, CategoryBusinessRule},
	{ErrCardNotFound, CategoryNotFound},
	{ErrNotFound, CategoryNotFound},
	{ErrCustomerMismatch, CategoryMismatch},
	{ErrServiceUnavailable, CategoryUnavailable},
}

// Classify returns the reporting category of err. Unknown errors are internal.
func Classify(err error) ErrorCategory {
	if err == nil {
		return CategoryInternal
	}
	for _, c := range categories {
		if errors.Is(err, c.err) {
			return c.category
		}
	}
	return CategoryInternal
}
