package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Credit is a snapshot of an installment credit owned by the remote credit service.
type Credit struct {
	ID                    string              `json:"id"`
	CustomerID            string              `json:"customerId"`
	TotalAmount           decimal.Decimal     `json:"totalAmount"`
	AmountPaid            decimal.NullDecimal `json:"amountPaid"`
	MonthlyPayment        decimal.Decimal     `json:"monthlyPayment"`
	NextPaymentDueDate    time.Time           `json:"nextPaymentDueDate"`
	ExpectedPaymentToDate decimal.Decimal     `json:"expectedPaymentToDate"`
}

type CreditPatch struct {
	AmountPaid            *decimal.Decimal `json:"amountPaid,omitempty"`
	NextPaymentDueDate    *time.Time       `json:"nextPaymentDueDate,omitempty"`
	ExpectedPaymentToDate *decimal.Decimal `json:"expectedPaymentToDate,omitempty"`
}
