package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/service"
)

func newDebitCardService() (*service.DebitCardService, *MockDebitCardDirectory, *MockAccountLedger, *MockTransactionLog) {
	cards := &MockDebitCardDirectory{}
	accounts := &MockAccountLedger{}
	transactions := &MockTransactionLog{}
	return service.NewDebitCardService(cards, accounts, transactions, silentLogger()), cards, accounts, transactions
}

func fundingAccount(id string, balance int64) *model.Account {
	return &model.Account{
		ID:         id,
		CustomerID: "owner-" + id,
		Balance:    decimal.NewNullDecimal(decimal.NewFromInt(balance)),
		Status:     model.AccountStatusActive,
	}
}

func purchase(amount int64) model.DebitCardTransactionRequest {
	return model.DebitCardTransactionRequest{
		Type:        model.TransactionTypePurchase,
		Amount:      decimal.NewFromInt(amount),
		DebitCardID: "dc-1",
		CustomerID:  "cust-1",
	}
}

func TestCreateDebitCardTransaction_CascadesByPosition(t *testing.T) {
	svc, cards, accounts, transactions := newDebitCardService()
	// Listed out of order; routing follows position.
	cards.On("GetByID", mock.Anything, "dc-1").Return(&model.DebitCard{
		ID: "dc-1",
		Associations: []model.DebitCardAssociation{
			{AccountID: "a3", Position: 3},
			{AccountID: "a1", Position: 1},
			{AccountID: "a2", Position: 2},
		},
	}, nil)

	var order []string
	record := func(args mock.Arguments) { order = append(order, args.String(1)) }
	accounts.On("GetByID", mock.Anything, "a1").Run(record).Return(fundingAccount("a1", 50), nil)
	accounts.On("GetByID", mock.Anything, "a2").Run(record).Return(fundingAccount("a2", 75), nil)
	accounts.On("GetByID", mock.Anything, "a3").Run(record).Return(fundingAccount("a3", 150), nil)
	expectSaveEcho(transactions)
	accounts.On("Patch", mock.Anything, "a3", mock.MatchedBy(func(p model.AccountPatch) bool {
		return p.Balance != nil && p.Balance.Equal(decimal.NewFromInt(50)) && p.MonthlyMovements == nil
	})).Return(fundingAccount("a3", 50), nil)

	receipt, err := svc.CreateDebitCardTransaction(context.Background(), purchase(100))
	require.NoError(t, err)

	assert.Equal(t, []string{"a1", "a2", "a3"}, order)
	assert.Equal(t, "a3", receipt.Counterparty)
	accounts.AssertNumberOfCalls(t, "Patch", 1)
	accounts.AssertNotCalled(t, "Patch", mock.Anything, "a1", mock.Anything)
	accounts.AssertNotCalled(t, "Patch", mock.Anything, "a2", mock.Anything)

	saved := transactions.Calls[0].Arguments.Get(1).(*model.Transaction)
	assert.Equal(t, "a3", saved.DebitCard.AccountID)
	assert.Equal(t, "owner-a3", saved.DebitCard.CustomerID)
}

func TestCreateDebitCardTransaction_AllInsufficient(t *testing.T) {
	svc, cards, accounts, transactions := newDebitCardService()
	cards.On("GetByID", mock.Anything, "dc-1").Return(&model.DebitCard{
		ID: "dc-1",
		Associations: []model.DebitCardAssociation{
			{AccountID: "a1", Position: 1},
			{AccountID: "a2", Position: 2},
		},
	}, nil)
	accounts.On("GetByID", mock.Anything, "a1").Return(fundingAccount("a1", 10), nil)
	accounts.On("GetByID", mock.Anything, "a2").Return(fundingAccount("a2", 20), nil)

	_, err := svc.CreateDebitCardTransaction(context.Background(), purchase(100))

	assert.ErrorIs(t, err, model.ErrAllAccountsInsufficient)
	assert.Contains(t, err.Error(), "tried 2 accounts")
	accounts.AssertNumberOfCalls(t, "GetByID", 2)
	transactions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	accounts.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDebitCardTransaction_SkipsInactiveAccount(t *testing.T) {
	svc, cards, accounts, transactions := newDebitCardService()
	cards.On("GetByID", mock.Anything, "dc-1").Return(&model.DebitCard{
		ID: "dc-1",
		Associations: []model.DebitCardAssociation{
			{AccountID: "a1", Position: 1},
			{AccountID: "a2", Position: 2},
		},
	}, nil)
	inactive := fundingAccount("a1", 1000)
	inactive.Status = model.AccountStatusInactive
	accounts.On("GetByID", mock.Anything, "a1").Return(inactive, nil)
	accounts.On("GetByID", mock.Anything, "a2").Return(fundingAccount("a2", 200), nil)
	expectSaveEcho(transactions)
	accounts.On("Patch", mock.Anything, "a2", mock.Anything).Return(fundingAccount("a2", 100), nil)

	_, err := svc.CreateDebitCardTransaction(context.Background(), purchase(100))
	require.NoError(t, err)

	accounts.AssertNotCalled(t, "Patch", mock.Anything, "a1", mock.Anything)
}

func TestCreateDebitCardTransaction_NoAssociations(t *testing.T) {
	svc, cards, accounts, _ := newDebitCardService()
	cards.On("GetByID", mock.Anything, "dc-1").Return(&model.DebitCard{ID: "dc-1"}, nil)

	_, err := svc.CreateDebitCardTransaction(context.Background(), purchase(10))

	assert.ErrorIs(t, err, model.ErrNoAssociatedAccount)
	accounts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreateDebitCardTransaction_UnsetBalanceCountsAsZero(t *testing.T) {
	svc, cards, accounts, transactions := newDebitCardService()
	cards.On("GetByID", mock.Anything, "dc-1").Return(&model.DebitCard{
		ID:           "dc-1",
		Associations: []model.DebitCardAssociation{{AccountID: "a1", Position: 1}},
	}, nil)
	account := fundingAccount("a1", 0)
	account.Balance = decimal.NullDecimal{}
	accounts.On("GetByID", mock.Anything, "a1").Return(account, nil)

	_, err := svc.CreateDebitCardTransaction(context.Background(), purchase(1))
	assert.ErrorIs(t, err, model.ErrAllAccountsInsufficient)
	transactions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	accounts.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDebitCardTransaction_Withdrawal(t *testing.T) {
	svc, cards, accounts, transactions := newDebitCardService()
	cards.On("GetByID", mock.Anything, "dc-1").Return(&model.DebitCard{
		ID:           "dc-1",
		Associations: []model.DebitCardAssociation{{AccountID: "a1", Position: 1}},
	}, nil)
	accounts.On("GetByID", mock.Anything, "a1").Return(fundingAccount("a1", 100), nil)
	expectSaveEcho(transactions)
	accounts.On("Patch", mock.Anything, "a1", mock.Anything).Return(fundingAccount("a1", 0), nil)

	req := purchase(100)
	req.Type = model.TransactionTypeWithdrawal
	receipt, err := svc.CreateDebitCardTransaction(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionTypeWithdrawal, receipt.Type)
}

func TestCreateDebitCardTransaction_RejectsUnknownType(t *testing.T) {
	svc, cards, _, _ := newDebitCardService()

	req := purchase(10)
	req.Type = model.TransactionTypeTransfer
	_, err := svc.CreateDebitCardTransaction(context.Background(), req)

	assert.ErrorIs(t, err, model.ErrInvalidType)
	cards.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
