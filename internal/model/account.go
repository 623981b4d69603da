package model

import (
	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

type AccountType string

const (
	AccountTypeSavings   AccountType = "SAVINGS"
	AccountTypeFixedTerm AccountType = "FIXED_TERM"
	AccountTypeChecking  AccountType = "CHECKING"
)

// HasMovementCap reports whether the account type is bound by maxMonthlyMovements.
func (t AccountType) HasMovementCap() bool {
	return t == AccountTypeSavings || t == AccountTypeFixedTerm
}

type CustomerType string

const (
	CustomerTypePersonal CustomerType = "PERSONAL"
	CustomerTypeBusiness CustomerType = "BUSINESS"
)

// Account is a snapshot of an account owned by the remote account service.
type Account struct {
	ID                                 string              `json:"id"`
	AccountNumber                      string              `json:"accountNumber"`
	CustomerID                         string              `json:"customerId"`
	Balance                            decimal.NullDecimal `json:"balance"`
	Status                             AccountStatus       `json:"status"`
	AccountType                        AccountType         `json:"accountType"`
	CustomerType                       CustomerType        `json:"customerType"`
	MonthlyMovements                   int                 `json:"monthlyMovements"`
	MaxMonthlyMovements                *int                `json:"maxMonthlyMovements,omitempty"`
	MaxMonthlyMovementsNoFee           *int                `json:"maxMonthlyMovementsNoFee,omitempty"`
	TransactionCommissionFeePercentage decimal.NullDecimal `json:"transactionCommissionFeePercentage"`
	AvailableDayForMovements           *int                `json:"availableDayForMovements,omitempty"`
}

// CurrentBalance returns the balance, treating an unset balance as zero.
func (a *Account) CurrentBalance() decimal.Decimal {
	if !a.Balance.Valid {
		return decimal.Zero
	}
	return a.Balance.Decimal
}

// AccountPatch carries the fields sent back to the account service. Nil fields are left untouched.
type AccountPatch struct {
	Balance          *decimal.Decimal `json:"balance,omitempty"`
	MonthlyMovements *int             `json:"monthlyMovements,omitempty"`
}
