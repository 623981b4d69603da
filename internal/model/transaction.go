package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind is the discriminant of the Transaction union.
type TransactionKind string

const (
	KindAccount    TransactionKind = "ACCOUNT"
	KindCreditCard TransactionKind = "CREDIT_CARD"
	KindCredit     TransactionKind = "CREDIT"
	KindDebitCard  TransactionKind = "DEBIT_CARD"
	KindWallet     TransactionKind = "WALLET"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeUsage      TransactionType = "USAGE"
	TransactionTypePayment    TransactionType = "PAYMENT"
	TransactionTypePurchase   TransactionType = "PURCHASE"
	TransactionTypeExchange   TransactionType = "EXCHANGE"
)

// Allowed types per kind.
var (
	AccountTransactionTypes    = []TransactionType{TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer}
	CreditCardTransactionTypes = []TransactionType{TransactionTypeUsage, TransactionTypePayment}
	CreditTransactionTypes     = []TransactionType{TransactionTypePayment}
	DebitCardTransactionTypes  = []TransactionType{TransactionTypePurchase, TransactionTypeWithdrawal}
	WalletTransactionTypes     = []TransactionType{TransactionTypeExchange}
)

var allowedTypes = map[TransactionKind][]TransactionType{
	KindAccount:    AccountTransactionTypes,
	KindCreditCard: CreditCardTransactionTypes,
	KindCredit:     CreditTransactionTypes,
	KindDebitCard:  DebitCardTransactionTypes,
	KindWallet:     WalletTransactionTypes,
}

// CheckType fails with ErrInvalidType listing the allowed values when t is not one of them.
func CheckType(t TransactionType, allowed []TransactionType) error {
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		if a == t {
			return nil
		}
		names = append(names, string(a))
	}
	return fmt.Errorf("%w: %q, allowed values are [%s]", ErrInvalidType, t, strings.Join(names, ", "))
}

// CheckAmount enforces amount > 0.
func CheckAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount.String())
	}
	return nil
}

type AccountDetails struct {
	OriginAccountNumber      string           `json:"originAccountNumber"`
	DestinationAccountNumber string           `json:"destinationAccountNumber,omitempty"`
	CommissionFee            *decimal.Decimal `json:"commissionFee,omitempty"`
	CommissionFeePercentage  *decimal.Decimal `json:"commissionFeePercentage,omitempty"`
}

type CreditCardDetails struct {
	CardID     string `json:"cardId"`
	CustomerID string `json:"customerId"`
}

type CreditDetails struct {
	CreditID   string `json:"creditId"`
	CustomerID string `json:"customerId"`
}

type DebitCardDetails struct {
	DebitCardID string `json:"debitCardId"`
	AccountID   string `json:"accountId"`
	CustomerID  string `json:"customerId"`
}

type WalletDetails struct {
	OriginWalletID      string `json:"originWalletId"`
	DestinationWalletID string `json:"destinationWalletId"`
	ExchangeRequestID   string `json:"exchangeRequestId,omitempty"`
}

// Transaction is a committed movement. Exactly one details field is set, the one
// matching Kind. Records are written once and never modified.
type Transaction struct {
	ID          uuid.UUID          `json:"id"`
	Kind        TransactionKind    `json:"kind"`
	Type        TransactionType    `json:"type"`
	Amount      decimal.Decimal    `json:"amount"`
	Date        time.Time          `json:"date"`
	Description string             `json:"description,omitempty"`
	Account     *AccountDetails    `json:"account,omitempty"`
	CreditCard  *CreditCardDetails `json:"creditCard,omitempty"`
	Credit      *CreditDetails     `json:"credit,omitempty"`
	DebitCard   *DebitCardDetails  `json:"debitCard,omitempty"`
	Wallet      *WalletDetails     `json:"wallet,omitempty"`
}

// Validate checks the discriminant against the populated details and the type.
func (t *Transaction) Validate() error {
	allowed, ok := allowedTypes[t.Kind]
	if !ok {
		return fmt.Errorf("%w: unknown transaction kind %q", ErrInvalidType, t.Kind)
	}
	if err := CheckType(t.Type, allowed); err != nil {
		return err
	}
	if err := CheckAmount(t.Amount); err != nil {
		return err
	}

	set := 0
	var matches bool
	for kind, present := range map[TransactionKind]bool{
		KindAccount:    t.Account != nil,
		KindCreditCard: t.CreditCard != nil,
		KindCredit:     t.Credit != nil,
		KindDebitCard:  t.DebitCard != nil,
		KindWallet:     t.Wallet != nil,
	} {
		if present {
			set++
			matches = matches || kind == t.Kind
		}
	}
	if set != 1 || !matches {
		return fmt.Errorf("%w: %s transaction must carry exactly its own details", ErrMissingField, t.Kind)
	}
	return nil
}

// References are the lookup keys a transaction is indexed by in the log.
type References struct {
	Account      string
	Counterparty string
	Card         string
	Credit       string
	Customer     string
}

func (t *Transaction) References() References {
	switch t.Kind {
	case KindAccount:
		return References{Account: t.Account.OriginAccountNumber, Counterparty: t.Account.DestinationAccountNumber}
	case KindCreditCard:
		return References{Card: t.CreditCard.CardID, Customer: t.CreditCard.CustomerID}
	case KindCredit:
		return References{Credit: t.Credit.CreditID, Customer: t.Credit.CustomerID}
	case KindDebitCard:
		return References{Account: t.DebitCard.AccountID, Card: t.DebitCard.DebitCardID, Customer: t.DebitCard.CustomerID}
	case KindWallet:
		return References{}
	}
	return References{}
}

func newTransaction(kind TransactionKind, typ TransactionType, amount decimal.Decimal, description string, now time.Time) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		Kind:        kind,
		Type:        typ,
		Amount:      amount,
		Date:        now,
		Description: description,
	}
}

func NewAccountTransaction(req AccountTransactionRequest, now time.Time) *Transaction {
	tx := newTransaction(KindAccount, req.Type, req.Amount, req.Description, now)
	tx.Account = &AccountDetails{
		OriginAccountNumber:      req.OriginAccountNumber,
		DestinationAccountNumber: req.DestinationAccountNumber,
	}
	return tx
}

func NewCreditCardTransaction(req CreditCardTransactionRequest, now time.Time) *Transaction {
	tx := newTransaction(KindCreditCard, req.Type, req.Amount, req.Description, now)
	tx.CreditCard = &CreditCardDetails{CardID: req.CardID, CustomerID: req.CustomerID}
	return tx
}

func NewCreditTransaction(req CreditPaymentRequest, now time.Time) *Transaction {
	tx := newTransaction(KindCredit, TransactionTypePayment, req.Amount, req.Description, now)
	tx.Credit = &CreditDetails{CreditID: req.CreditID, CustomerID: req.CustomerID}
	return tx
}

func NewDebitCardTransaction(req DebitCardTransactionRequest, account *Account, now time.Time) *Transaction {
	tx := newTransaction(KindDebitCard, req.Type, req.Amount, req.Description, now)
	tx.DebitCard = &DebitCardDetails{
		DebitCardID: req.DebitCardID,
		AccountID:   account.ID,
		CustomerID:  account.CustomerID,
	}
	return tx
}

func NewWalletTransaction(exchange *ExchangeRequest, origin, destination *Wallet, now time.Time) *Transaction {
	tx := newTransaction(KindWallet, TransactionTypeExchange, exchange.Amount, "peer wallet exchange", now)
	tx.Wallet = &WalletDetails{
		OriginWalletID:      origin.ID,
		DestinationWalletID: destination.ID,
		ExchangeRequestID:   exchange.ID,
	}
	return tx
}

type AccountTransactionRequest struct {
	Type                     TransactionType `json:"type"`
	Amount                   decimal.Decimal `json:"amount"`
	Description              string          `json:"description"`
	OriginAccountNumber      string          `json:"originAccountNumber"`
	DestinationAccountNumber string          `json:"destinationAccountNumber,omitempty"`
}

type CreditCardTransactionRequest struct {
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CardID      string          `json:"cardId"`
	CustomerID  string          `json:"customerId"`
}

type CreditPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreditID    string          `json:"creditId"`
	CustomerID  string          `json:"customerId"`
}

type DebitCardTransactionRequest struct {
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	DebitCardID string          `json:"debitCardId"`
	CustomerID  string          `json:"customerId"`
}

// Receipt is the caller-facing view of a persisted transaction.
type Receipt struct {
	TransactionID uuid.UUID        `json:"transactionId"`
	Kind          TransactionKind  `json:"kind"`
	Type          TransactionType  `json:"type"`
	Amount        decimal.Decimal  `json:"amount"`
	Date          time.Time        `json:"date"`
	Description   string           `json:"description,omitempty"`
	Reference     string           `json:"reference"`
	Counterparty  string           `json:"counterparty,omitempty"`
	CommissionFee *decimal.Decimal `json:"commissionFee,omitempty"`
}

func NewReceipt(t *Transaction) *Receipt {
	r := &Receipt{
		TransactionID: t.ID,
		Kind:          t.Kind,
		Type:          t.Type,
		Amount:        t.Amount,
		Date:          t.Date,
		Description:   t.Description,
	}
	switch t.Kind {
	case KindAccount:
		r.Reference = t.Account.OriginAccountNumber
		r.Counterparty = t.Account.DestinationAccountNumber
		r.CommissionFee = t.Account.CommissionFee
	case KindCreditCard:
		r.Reference = t.CreditCard.CardID
	case KindCredit:
		r.Reference = t.Credit.CreditID
	case KindDebitCard:
		r.Reference = t.DebitCard.DebitCardID
		r.Counterparty = t.DebitCard.AccountID
	case KindWallet:
		r.Reference = t.Wallet.OriginWalletID
		r.Counterparty = t.Wallet.DestinationWalletID
	}
	return r
}
