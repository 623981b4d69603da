package service_test

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type MockAccountLedger struct{ mock.Mock }

func (m *MockAccountLedger) GetByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	args := m.Called(ctx, accountNumber)
	account, _ := args.Get(0).(*model.Account)
	return account, args.Error(1)
}

func (m *MockAccountLedger) GetByID(ctx context.Context, id string) (*model.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*model.Account)
	return account, args.Error(1)
}

func (m *MockAccountLedger) Patch(ctx context.Context, id string, patch model.AccountPatch) (*model.Account, error) {
	args := m.Called(ctx, id, patch)
	account, _ := args.Get(0).(*model.Account)
	return account, args.Error(1)
}

func (m *MockAccountLedger) ListByCustomer(ctx context.Context, customerID string) ([]model.Account, error) {
	args := m.Called(ctx, customerID)
	accounts, _ := args.Get(0).([]model.Account)
	return accounts, args.Error(1)
}

type MockCreditCardLedger struct{ mock.Mock }

func (m *MockCreditCardLedger) GetByID(ctx context.Context, id string) (*model.CreditCard, error) {
	args := m.Called(ctx, id)
	card, _ := args.Get(0).(*model.CreditCard)
	return card, args.Error(1)
}

func (m *MockCreditCardLedger) Patch(ctx context.Context, id string, patch model.CreditCardPatch) (*model.CreditCard, error) {
	args := m.Called(ctx, id, patch)
	card, _ := args.Get(0).(*model.CreditCard)
	return card, args.Error(1)
}

func (m *MockCreditCardLedger) ListByCustomer(ctx context.Context, customerID string) ([]model.CreditCard, error) {
	args := m.Called(ctx, customerID)
	cards, _ := args.Get(0).([]model.CreditCard)
	return cards, args.Error(1)
}

type MockCreditLedger struct{ mock.Mock }

func (m *MockCreditLedger) GetByID(ctx context.Context, id string) (*model.Credit, error) {
	args := m.Called(ctx, id)
	credit, _ := args.Get(0).(*model.Credit)
	return credit, args.Error(1)
}

func (m *MockCreditLedger) Patch(ctx context.Context, id string, patch model.CreditPatch) (*model.Credit, error) {
	args := m.Called(ctx, id, patch)
	credit, _ := args.Get(0).(*model.Credit)
	return credit, args.Error(1)
}

func (m *MockCreditLedger) ListByCustomer(ctx context.Context, customerID string) ([]model.Credit, error) {
	args := m.Called(ctx, customerID)
	credits, _ := args.Get(0).([]model.Credit)
	return credits, args.Error(1)
}

type MockCustomerDirectory struct{ mock.Mock }

func (m *MockCustomerDirectory) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	args := m.Called(ctx, id)
	customer, _ := args.Get(0).(*model.Customer)
	return customer, args.Error(1)
}

type MockDebitCardDirectory struct{ mock.Mock }

func (m *MockDebitCardDirectory) GetByID(ctx context.Context, id string) (*model.DebitCard, error) {
	args := m.Called(ctx, id)
	card, _ := args.Get(0).(*model.DebitCard)
	return card, args.Error(1)
}

type MockExchangeLedger struct{ mock.Mock }

func (m *MockExchangeLedger) GetExchangeRequestByTransactionID(ctx context.Context, transactionID string) (*model.ExchangeRequest, error) {
	args := m.Called(ctx, transactionID)
	request, _ := args.Get(0).(*model.ExchangeRequest)
	return request, args.Error(1)
}

func (m *MockExchangeLedger) GetWalletByUserID(ctx context.Context, userID string) (*model.Wallet, error) {
	args := m.Called(ctx, userID)
	wallet, _ := args.Get(0).(*model.Wallet)
	return wallet, args.Error(1)
}

func (m *MockExchangeLedger) UpdateWallet(ctx context.Context, walletID string, patch model.WalletPatch) error {
	return m.Called(ctx, walletID, patch).Error(0)
}

func (m *MockExchangeLedger) UpdateExchangeRequest(ctx context.Context, id string, patch model.ExchangeRequestPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

type MockSecondaryWalletLedger struct{ mock.Mock }

func (m *MockSecondaryWalletLedger) GetByUserID(ctx context.Context, userID string) (*model.Wallet, error) {
	args := m.Called(ctx, userID)
	wallet, _ := args.Get(0).(*model.Wallet)
	return wallet, args.Error(1)
}

func (m *MockSecondaryWalletLedger) UpdateWallet(ctx context.Context, walletID string, patch model.WalletPatch) error {
	return m.Called(ctx, walletID, patch).Error(0)
}

type MockTransactionLog struct{ mock.Mock }

func (m *MockTransactionLog) Save(ctx context.Context, transaction *model.Transaction) (*model.Transaction, error) {
	args := m.Called(ctx, transaction)
	if fn, ok := args.Get(0).(func(context.Context, *model.Transaction) (*model.Transaction, error)); ok {
		return fn(ctx, transaction)
	}
	saved, _ := args.Get(0).(*model.Transaction)
	return saved, args.Error(1)
}

func (m *MockTransactionLog) FindByAccount(ctx context.Context, accountRef string) ([]model.Transaction, error) {
	args := m.Called(ctx, accountRef)
	transactions, _ := args.Get(0).([]model.Transaction)
	return transactions, args.Error(1)
}

func (m *MockTransactionLog) FindByCard(ctx context.Context, cardID string) ([]model.Transaction, error) {
	args := m.Called(ctx, cardID)
	transactions, _ := args.Get(0).([]model.Transaction)
	return transactions, args.Error(1)
}

func (m *MockTransactionLog) FindByCredit(ctx context.Context, creditID string) ([]model.Transaction, error) {
	args := m.Called(ctx, creditID)
	transactions, _ := args.Get(0).([]model.Transaction)
	return transactions, args.Error(1)
}

func (m *MockTransactionLog) FindByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	args := m.Called(ctx, start, end)
	transactions, _ := args.Get(0).([]model.Transaction)
	return transactions, args.Error(1)
}

// expectSaveEcho makes Save return the transaction it was given.
func expectSaveEcho(log *MockTransactionLog) *mock.Call {
	return log.On("Save", mock.Anything, mock.AnythingOfType("*model.Transaction")).
		Return(func(_ context.Context, tx *model.Transaction) (*model.Transaction, error) { return tx, nil }, nil)
}

type MockReportMailer struct{ mock.Mock }

func (m *MockReportMailer) SendSettlementReport(to string, report *model.SettlementReport) error {
	return m.Called(to, report).Error(0)
}

func intPtr(v int) *int { return &v }
