package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// KindSummary aggregates the records of one transaction kind.
type KindSummary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// SettlementReport summarizes the log over a period.
type SettlementReport struct {
	StartDate time.Time                       `json:"start_date"`
	EndDate   time.Time                       `json:"end_date"`
	Count     int                             `json:"count"`
	ByKind    map[TransactionKind]KindSummary `json:"by_kind"`
}

// CommissionReport lists commission fees charged per origin account.
type CommissionReport struct {
	StartDate time.Time                  `json:"start_date"`
	EndDate   time.Time                  `json:"end_date"`
	Total     decimal.Decimal            `json:"total"`
	ByAccount map[string]decimal.Decimal `json:"by_account"`
}

// CustomerStatement lists a customer's products and every record touching them,
// newest first.
type CustomerStatement struct {
	CustomerID   string        `json:"customerId"`
	Accounts     []Account     `json:"accounts"`
	CreditCards  []CreditCard  `json:"creditCards"`
	Credits      []Credit      `json:"credits"`
	Transactions []Transaction `json:"transactions"`
}
