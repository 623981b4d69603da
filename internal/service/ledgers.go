package service

import (
	"context"
	"time"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

// Collaborators the orchestrators depend on. The gateway clients and the
// Postgres repository satisfy them in production.

type AccountLedger interface {
	GetByNumber(ctx context.Context, accountNumber string) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	Patch(ctx context.Context, id string, patch model.AccountPatch) (*model.Account, error)
}

type CreditCardLedger interface {
	GetByID(ctx context.Context, id string) (*model.CreditCard, error)
	Patch(ctx context.Context, id string, patch model.CreditCardPatch) (*model.CreditCard, error)
}

type CreditLedger interface {
	GetByID(ctx context.Context, id string) (*model.Credit, error)
	Patch(ctx context.Context, id string, patch model.CreditPatch) (*model.Credit, error)
}

type CustomerDirectory interface {
	GetByID(ctx context.Context, id string) (*model.Customer, error)
}

type DebitCardDirectory interface {
	GetByID(ctx context.Context, id string) (*model.DebitCard, error)
}

// ExchangeLedger owns exchange requests and the primary-asset wallets.
type ExchangeLedger interface {
	GetExchangeRequestByTransactionID(ctx context.Context, transactionID string) (*model.ExchangeRequest, error)
	GetWalletByUserID(ctx context.Context, userID string) (*model.Wallet, error)
	UpdateWallet(ctx context.Context, walletID string, patch model.WalletPatch) error
	UpdateExchangeRequest(ctx context.Context, id string, patch model.ExchangeRequestPatch) error
}

// SecondaryWalletLedger owns the wallets of the secondary payment rail.
type SecondaryWalletLedger interface {
	GetByUserID(ctx context.Context, userID string) (*model.Wallet, error)
	UpdateWallet(ctx context.Context, walletID string, patch model.WalletPatch) error
}

type TransactionLog interface {
	Save(ctx context.Context, transaction *model.Transaction) (*model.Transaction, error)
	FindByAccount(ctx context.Context, accountRef string) ([]model.Transaction, error)
	FindByCard(ctx context.Context, cardID string) ([]model.Transaction, error)
	FindByCredit(ctx context.Context, creditID string) ([]model.Transaction, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
}

// Product listings per customer, used by the customer statement.

type AccountLister interface {
	ListByCustomer(ctx context.Context, customerID string) ([]model.Account, error)
}

type CreditCardLister interface {
	ListByCustomer(ctx context.Context, customerID string) ([]model.CreditCard, error)
}

type CreditLister interface {
	ListByCustomer(ctx context.Context, customerID string) ([]model.Credit, error)
}
