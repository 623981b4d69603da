package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/service"
)

type exchangeFixture struct {
	svc          *service.ExchangeService
	exchanges    *MockExchangeLedger
	secondary    *MockSecondaryWalletLedger
	transactions *MockTransactionLog
}

func newExchangeFixture() exchangeFixture {
	return newExchangeFixtureWithLogger(silentLogger())
}

func newExchangeFixtureWithLogger(logger *logrus.Logger) exchangeFixture {
	f := exchangeFixture{
		exchanges:    &MockExchangeLedger{},
		secondary:    &MockSecondaryWalletLedger{},
		transactions: &MockTransactionLog{},
	}
	f.svc = service.NewExchangeService(f.exchanges, f.secondary, f.transactions, logger)
	return f
}

func exchangeRequest(amount int64, method model.PaymentMethod) *model.ExchangeRequest {
	return &model.ExchangeRequest{
		ID:              "ex-1",
		TransactionID:   "tx-1",
		RequesterUserID: "buyer",
		AccepterUserID:  "seller",
		Amount:          decimal.NewFromInt(amount),
		Rate:            decimal.RequireFromString("3.5"),
		PaymentMethod:   method,
		Status:          model.ExchangeStatusAccepted,
	}
}

func wallet(id, owner string, balance int64) *model.Wallet {
	return &model.Wallet{ID: id, OwnerID: owner, Balance: decimal.NewFromInt(balance)}
}

func walletPatch(balance string) interface{} {
	want := decimal.RequireFromString(balance)
	return mock.MatchedBy(func(p model.WalletPatch) bool { return p.Balance.Equal(want) })
}

func statusPatch(status model.ExchangeStatus) interface{} {
	return mock.MatchedBy(func(p model.ExchangeRequestPatch) bool { return p.Status == status })
}

func (f exchangeFixture) givenWallets(requesterBalance, accepterBalance int64) {
	f.exchanges.On("GetWalletByUserID", mock.Anything, "buyer").Return(wallet("w-buyer", "buyer", requesterBalance), nil)
	f.exchanges.On("GetWalletByUserID", mock.Anything, "seller").Return(wallet("w-seller", "seller", accepterBalance), nil)
}

func TestProcessExchange_WalletRailApproved(t *testing.T) {
	f := newExchangeFixture()
	f.exchanges.On("GetExchangeRequestByTransactionID", mock.Anything, "tx-1").Return(exchangeRequest(10, model.PaymentMethodWallet), nil)
	f.givenWallets(5, 40)
	f.secondary.On("GetByUserID", mock.Anything, "buyer").Return(wallet("s-buyer", "buyer", 100), nil)
	f.secondary.On("UpdateWallet", mock.Anything, "s-buyer", walletPatch("65")).Return(nil)
	f.exchanges.On("UpdateWallet", mock.Anything, "w-buyer", walletPatch("15")).Return(nil)
	f.exchanges.On("UpdateWallet", mock.Anything, "w-seller", walletPatch("30")).Return(nil)
	f.exchanges.On("UpdateExchangeRequest", mock.Anything, "ex-1", statusPatch(model.ExchangeStatusApproved)).Return(nil)
	expectSaveEcho(f.transactions)

	err := f.svc.ProcessExchange(context.Background(), "tx-1")
	require.NoError(t, err)

	f.exchanges.AssertExpectations(t)
	f.secondary.AssertExpectations(t)

	saved := f.transactions.Calls[0].Arguments.Get(1).(*model.Transaction)
	assert.Equal(t, model.KindWallet, saved.Kind)
	assert.Equal(t, "w-seller", saved.Wallet.OriginWalletID)
	assert.Equal(t, "w-buyer", saved.Wallet.DestinationWalletID)
	assert.Equal(t, "ex-1", saved.Wallet.ExchangeRequestID)
}

func TestProcessExchange_BankTransferApproved(t *testing.T) {
	f := newExchangeFixture()
	f.exchanges.On("GetExchangeRequestByTransactionID", mock.Anything, "tx-1").Return(exchangeRequest(10, model.PaymentMethodBankTransfer), nil)
	f.givenWallets(5, 40)
	f.exchanges.On("UpdateWallet", mock.Anything, "w-buyer", walletPatch("15")).Return(nil)
	f.exchanges.On("UpdateWallet", mock.Anything, "w-seller", walletPatch("30")).Return(nil)
	f.exchanges.On("UpdateExchangeRequest", mock.Anything, "ex-1", statusPatch(model.ExchangeStatusApproved)).Return(nil)
	expectSaveEcho(f.transactions)

	err := f.svc.ProcessExchange(context.Background(), "tx-1")
	require.NoError(t, err)

	f.exchanges.AssertExpectations(t)
	assert.Empty(t, f.secondary.Calls)
	f.transactions.AssertNumberOfCalls(t, "Save", 1)
}

func TestProcessExchange_ApprovalFailureLogsUpdatedWallets(t *testing.T) {
	logger, hook := test.NewNullLogger()
	f := newExchangeFixtureWithLogger(logger)
	approveErr := fmt.Errorf("exchange-service: %w", model.ErrServiceUnavailable)
	f.exchanges.On("GetExchangeRequestByTransactionID", mock.Anything, "tx-1").Return(exchangeRequest(10, model.PaymentMethodWallet), nil)
	f.givenWallets(5, 40)
	f.secondary.On("GetByUserID", mock.Anything, "buyer").Return(wallet("s-buyer", "buyer", 100), nil)
	f.secondary.On("UpdateWallet", mock.Anything, "s-buyer", mock.Anything).Return(nil)
	f.exchanges.On("UpdateWallet", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.exchanges.On("UpdateExchangeRequest", mock.Anything, "ex-1", statusPatch(model.ExchangeStatusApproved)).Return(approveErr)

	err := f.svc.ProcessExchange(context.Background(), "tx-1")

	assert.ErrorIs(t, err, model.ErrServiceUnavailable)
	f.transactions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	var reconcile *logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Data["updated_wallets"] != nil {
			reconcile = entry
		}
	}
	require.NotNil(t, reconcile)
	assert.Equal(t, "ex-1", reconcile.Data["exchange_id"])
	assert.ElementsMatch(t, []string{"s-buyer", "w-buyer", "w-seller"}, reconcile.Data["updated_wallets"])
}

func TestProcessExchange_InsufficientPrimaryBalance(t *testing.T) {
	f := newExchangeFixture()
	f.exchanges.On("GetExchangeRequestByTransactionID", mock.Anything, "tx-1").Return(exchangeRequest(30, model.PaymentMethodWallet), nil)
	f.givenWallets(0, 20)
	f.exchanges.On("UpdateExchangeRequest", mock.Anything, "ex-1", mock.MatchedBy(func(p model.ExchangeRequestPatch) bool {
		return p.Status == model.ExchangeStatusRejected && p.Message == "accepter has insufficient primary wallet balance"
	})).Return(nil)

	err := f.svc.ProcessExchange(context.Background(), "tx-1")
	require.NoError(t, err)

	f.exchanges.AssertExpectations(t)
	f.exchanges.AssertNotCalled(t, "UpdateWallet", mock.Anything, mock.Anything, mock.Anything)
	f.secondary.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
	f.secondary.AssertNotCalled(t, "UpdateWallet", mock.Anything, mock.Anything, mock.Anything)
	f.transactions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProcessExchange_InsufficientSecondaryBalance(t *testing.T) {
	f := newExchangeFixture()
	f.exchanges.On("GetExchangeRequestByTransactionID", mock.Anything, "tx-1").Return(exchangeRequest(10, model.PaymentMethodWallet), nil)
	f.givenWallets(0, 40)
	f.secondary.On("GetByUserID", mock.Anything, "buyer").Return(wallet("s-buyer", "buyer", 34), nil)
	f.exchanges.On("UpdateExchangeRequest", mock.Anything, "ex-1", mock.MatchedBy(func(p model.ExchangeRequestPatch) bool {
		return p.Status == model.ExchangeStatusRejected && p.Message == "requester has insufficient secondary wallet balance"
	})).Return(nil)

	err := f.svc.ProcessExchange(context.Background(), "tx-1")
	require.NoError(t, err)

	f.exchanges.AssertExpectations(t)
	f.secondary.AssertNotCalled(t, "UpdateWallet", mock.Anything, mock.Anything, mock.Anything)
	f.exchanges.AssertNotCalled(t, "UpdateWallet", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessExchange_SecondaryDebitFails(t *testing.T) {
	f := newExchangeFixture()
	f.exchanges.On("GetExchangeRequestByTransactionID", mock.Anything, "tx-1").Return(exchangeRequest(10, model.PaymentMethodWallet), nil)
	f.givenWallets(0, 40)
	f.secondary.On("GetByUserID", mock.Anything, "buyer").Return(wallet("s-buyer", "buyer", 100), nil)
	f.secondary.On("UpdateWallet", mock.Anything, "s-buyer", mock.Anything).
		Return(fmt.Errorf("secondary-wallet-service: %w", model.ErrServiceUnavailable))
	f.exchanges.On("UpdateExchangeRequest", mock.Anything, "ex-1", statusPatch(model.ExchangeStatusRejected)).Return(nil)

	err := f.svc.ProcessExchange(context.Background(), "tx-1")

	assert.ErrorIs(t, err, model.ErrServiceUnavailable)
	f.exchanges.AssertExpectations(t)
	f.exchanges.AssertNotCalled(t, "UpdateWallet", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessExchange_PrimaryUpdateFailsRejectsRequest(t *testing.T) {
	f := newExchangeFixture()
	f.exchanges.On("GetExchangeRequestByTransactionID", mock.Anything, "tx-1").Return(exchangeRequest(10, model.PaymentMethodBankTransfer), nil)
	f.givenWallets(0, 40)
	f.exchanges.On("UpdateWallet", mock.Anything, "w-buyer", mock.Anything).Return(nil)
	f.exchanges.On("UpdateWallet", mock.Anything, "w-seller", mock.Anything).
		Return(fmt.Errorf("exchange-service: %w", model.ErrServiceUnavailable))
	f.exchanges.On("UpdateExchangeRequest", mock.Anything, "ex-1", mock.MatchedBy(func(p model.ExchangeRequestPatch) bool {
		return p.Status == model.ExchangeStatusRejected && p.Message == "failed to update primary wallets"
	})).Return(nil)

	err := f.svc.ProcessExchange(context.Background(), "tx-1")

	assert.ErrorIs(t, err, model.ErrServiceUnavailable)
	f.exchanges.AssertExpectations(t)
	f.exchanges.AssertNumberOfCalls(t, "UpdateWallet", 2)
	f.secondary.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
	f.transactions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProcessExchange_CompensationFailureKeepsOriginalError(t *testing.T) {
	f := newExchangeFixture()
	updateErr := errors.New("wallet locked")
	f.exchanges.On("GetExchangeRequestByTransactionID", mock.Anything, "tx-1").Return(exchangeRequest(10, model.PaymentMethodBankTransfer), nil)
	f.givenWallets(0, 40)
	f.exchanges.On("UpdateWallet", mock.Anything, mock.Anything, mock.Anything).Return(updateErr)
	f.exchanges.On("UpdateExchangeRequest", mock.Anything, "ex-1", mock.Anything).Return(errors.New("exchange service down"))

	err := f.svc.ProcessExchange(context.Background(), "tx-1")

	assert.ErrorIs(t, err, updateErr)
	assert.NotContains(t, err.Error(), "exchange service down")
}

func TestProcessExchange_MissingRequestIsNoop(t *testing.T) {
	f := newExchangeFixture()
	f.exchanges.On("GetExchangeRequestByTransactionID", mock.Anything, "tx-404").Return(nil, nil)

	err := f.svc.ProcessExchange(context.Background(), "tx-404")
	require.NoError(t, err)

	f.exchanges.AssertNotCalled(t, "GetWalletByUserID", mock.Anything, mock.Anything)
	f.exchanges.AssertNotCalled(t, "UpdateExchangeRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessExchange_WalletLookupFailureAborts(t *testing.T) {
	f := newExchangeFixture()
	f.exchanges.On("GetExchangeRequestByTransactionID", mock.Anything, "tx-1").Return(exchangeRequest(10, model.PaymentMethodWallet), nil)
	f.exchanges.On("GetWalletByUserID", mock.Anything, "buyer").Return(wallet("w-buyer", "buyer", 0), nil)
	f.exchanges.On("GetWalletByUserID", mock.Anything, "seller").Return(nil, model.ErrNotFound)

	err := f.svc.ProcessExchange(context.Background(), "tx-1")

	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Contains(t, err.Error(), "seller")
	f.exchanges.AssertNotCalled(t, "UpdateExchangeRequest", mock.Anything, mock.Anything, mock.Anything)
	f.exchanges.AssertNotCalled(t, "UpdateWallet", mock.Anything, mock.Anything, mock.Anything)
}
