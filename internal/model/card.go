package model

import (
	"github.com/shopspring/decimal"
)

// CreditCard is a snapshot of a card owned by the remote credit card service.
type CreditCard struct {
	ID              string              `json:"id"`
	CardNumber      string              `json:"cardNumber"`
	CreditLimit     decimal.Decimal     `json:"creditLimit"`
	UsedAmount      decimal.NullDecimal `json:"usedAmount"`
	OwnerCustomerID string              `json:"customerId"`
}

// CurrentUsed returns the drawn amount, treating an unset value as zero.
func (c *CreditCard) CurrentUsed() decimal.Decimal {
	if !c.UsedAmount.Valid {
		return decimal.Zero
	}
	return c.UsedAmount.Decimal
}

type CreditCardPatch struct {
	UsedAmount *decimal.Decimal `json:"usedAmount,omitempty"`
}

// DebitCardAssociation links a debit card to a funding account. Lower positions are tried first.
type DebitCardAssociation struct {
	AccountID string `json:"accountId"`
	Position  int    `json:"position"`
}

type DebitCard struct {
	ID           string                 `json:"id"`
	CardNumber   string                 `json:"cardNumber"`
	CustomerID   string                 `json:"customerId"`
	Associations []DebitCardAssociation `json:"associations"`
}

type Customer struct {
	ID           string       `json:"id"`
	DocumentID   string       `json:"documentId"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Email        string       `json:"email"`
	CustomerType CustomerType `json:"customerType"`
}
