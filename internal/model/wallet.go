package model

import (
	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID      string          `json:"id"`
	OwnerID string          `json:"userId"`
	Balance decimal.Decimal `json:"balance"`
}

type WalletPatch struct {
	Balance decimal.Decimal `json:"balance"`
}

type ExchangeStatus string

const (
	ExchangeStatusPending  ExchangeStatus = "PENDING"
	ExchangeStatusAccepted ExchangeStatus = "ACCEPTED"
	ExchangeStatusApproved ExchangeStatus = "APPROVED"
	ExchangeStatusRejected ExchangeStatus = "REJECTED"
)

type PaymentMethod string

const (
	// PaymentMethodWallet settles the fiat leg from the requester's secondary wallet.
	PaymentMethodWallet PaymentMethod = "WALLET"
	// PaymentMethodBankTransfer settles the fiat leg outside this service.
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// ExchangeRequest is a peer-to-peer trade: the requester buys Amount units of
// the primary asset from the accepter and pays Amount x Rate on the payment rail.
type ExchangeRequest struct {
	ID              string          `json:"id"`
	TransactionID   string          `json:"transactionId"`
	RequesterUserID string          `json:"requesterUserId"`
	AccepterUserID  string          `json:"accepterUserId"`
	Amount          decimal.Decimal `json:"amount"`
	Rate            decimal.Decimal `json:"rate"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Status          ExchangeStatus  `json:"status"`
	Message         string          `json:"message,omitempty"`
}

// PaymentAmount is what the requester owes on the payment rail.
func (e *ExchangeRequest) PaymentAmount() decimal.Decimal {
	return e.Amount.Mul(e.Rate)
}

type ExchangeRequestPatch struct {
	Status  ExchangeStatus `json:"status"`
	Message string         `json:"message,omitempty"`
}
