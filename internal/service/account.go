package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

type AccountService struct {
	accounts     AccountLedger
	transactions TransactionLog
	logger       *logrus.Logger
	now          func() time.Time
}

func NewAccountService(accounts AccountLedger, transactions TransactionLog, logger *logrus.Logger) *AccountService {
	return &AccountService{
		accounts:     accounts,
		transactions: transactions,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock replaces the clock used for the fixed-term window and record dates.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	s.now = now
	return s
}

// CreateAccountTransaction settles a deposit, withdrawal or transfer.
func (s *AccountService) CreateAccountTransaction(ctx context.Context, req model.AccountTransactionRequest) (*model.Receipt, error) {
	if err := s.validateRequest(&req); err != nil {
		s.logger.WithError(err).Warn("Rejected account transaction request")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"type":        req.Type,
		"origin":      req.OriginAccountNumber,
		"destination": req.DestinationAccountNumber,
		"amount":      req.Amount.String(),
	}).Info("Processing account transaction")

	origin, destination, err := s.fetchAccounts(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	fee, percentage := s.commission(req, origin)
	if err := s.checkRules(req, origin, destination, fee, now); err != nil {
		s.logger.WithError(err).WithField("origin", origin.AccountNumber).Warn("Account transaction rejected")
		return nil, err
	}

	transaction := model.NewAccountTransaction(req, now)
	transaction.Account.CommissionFee = fee
	transaction.Account.CommissionFeePercentage = percentage

	saved, err := s.transactions.Save(ctx, transaction)
	if err != nil {
		s.logger.WithError(err).Error("Failed to persist account transaction")
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	if err := s.patchAccounts(ctx, saved, origin, destination); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"transaction_id": saved.ID,
		"type":           saved.Type,
	}).Info("Account transaction settled")
	return model.NewReceipt(saved), nil
}

func (s *AccountService) validateRequest(req *model.AccountTransactionRequest) error {
	if err := model.CheckType(req.Type, model.AccountTransactionTypes); err != nil {
		return err
	}
	if err := model.CheckAmount(req.Amount); err != nil {
		return err
	}
	if req.OriginAccountNumber == "" {
		return missingField("originAccountNumber")
	}
	if req.Type != model.TransactionTypeTransfer {
		// Only transfers have a counterparty.
		req.DestinationAccountNumber = ""
		return nil
	}
	if req.DestinationAccountNumber == "" {
		return missingField("destinationAccountNumber (required for TRANSFER)")
	}
	if req.DestinationAccountNumber == req.OriginAccountNumber {
		return fmt.Errorf("%w: %s", model.ErrSameAccount, req.OriginAccountNumber)
	}
	return nil
}

func (s *AccountService) fetchAccounts(ctx context.Context, req model.AccountTransactionRequest) (*model.Account, *model.Account, error) {
	var origin, destination *model.Account

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		account, err := s.accounts.GetByNumber(gctx, req.OriginAccountNumber)
		if err != nil {
			return lookupError(err, "account", req.OriginAccountNumber)
		}
		origin = account
		return nil
	})
	if req.DestinationAccountNumber != "" {
		g.Go(func() error {
			account, err := s.accounts.GetByNumber(gctx, req.DestinationAccountNumber)
			if err != nil {
				return lookupError(err, "account", req.DestinationAccountNumber)
			}
			destination = account
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.WithError(err).Warn("Failed to load accounts")
		return nil, nil, err
	}
	return origin, destination, nil
}

func (s *AccountService) checkRules(req model.AccountTransactionRequest, origin, destination *model.Account, fee *decimal.Decimal, now time.Time) error {
	for _, account := range []*model.Account{origin, destination} {
		if account != nil && account.Status != model.AccountStatusActive {
			return fmt.Errorf("%w: account %s is %s", model.ErrAccountInactive, account.AccountNumber, account.Status)
		}
	}

	if destination != nil && origin.CustomerType != destination.CustomerType {
		return fmt.Errorf("%w: cannot transfer between %s and %s accounts",
			model.ErrIncompatibleAccounts, origin.CustomerType, destination.CustomerType)
	}

	if origin.AccountType.HasMovementCap() && origin.MaxMonthlyMovements != nil &&
		origin.MonthlyMovements >= *origin.MaxMonthlyMovements {
		return fmt.Errorf("%w: account %s already has %d of %d movements this month",
			model.ErrMovementLimitReached, origin.AccountNumber, origin.MonthlyMovements, *origin.MaxMonthlyMovements)
	}

	if origin.AccountType == model.AccountTypeFixedTerm {
		if origin.AvailableDayForMovements == nil {
			return fmt.Errorf("%w: fixed-term account %s has no movement day configured", model.ErrOutOfWindow, origin.AccountNumber)
		}
		if now.Day() != *origin.AvailableDayForMovements {
			return fmt.Errorf("%w: fixed-term account %s only transacts on day %d of the month",
				model.ErrOutOfWindow, origin.AccountNumber, *origin.AvailableDayForMovements)
		}
	}

	if req.Type == model.TransactionTypeWithdrawal || req.Type == model.TransactionTypeTransfer {
		// The fee comes out of the same balance.
		required := req.Amount
		if fee != nil {
			required = required.Add(*fee)
		}
		if origin.CurrentBalance().LessThan(required) {
			return fmt.Errorf("%w: account %s balance %s is below %s",
				model.ErrInsufficientFunds, origin.AccountNumber, origin.CurrentBalance().String(), required.String())
		}
	}
	return nil
}

// commission returns the fee and its percentage once the free monthly
// movements are used up, or nils. Transfers never carry a fee.
func (s *AccountService) commission(req model.AccountTransactionRequest, origin *model.Account) (*decimal.Decimal, *decimal.Decimal) {
	if req.Type != model.TransactionTypeDeposit && req.Type != model.TransactionTypeWithdrawal {
		return nil, nil
	}
	if origin.MaxMonthlyMovementsNoFee == nil || origin.MonthlyMovements <= *origin.MaxMonthlyMovementsNoFee {
		return nil, nil
	}
	if !origin.TransactionCommissionFeePercentage.Valid {
		return nil, nil
	}

	percentage := origin.TransactionCommissionFeePercentage.Decimal
	fee := req.Amount.Mul(percentage)

	s.logger.WithFields(logrus.Fields{
		"account": origin.AccountNumber,
		"fee":     fee.String(),
	}).Debug("Commission fee applied")
	return &fee, &percentage
}

func (s *AccountService) patchAccounts(ctx context.Context, transaction *model.Transaction, origin, destination *model.Account) error {
	originStrategy, err := ResolveStrategy(transaction.Type, RoleOrigin)
	if err != nil {
		return err
	}

	originPatch := originStrategy.Patch(origin, transaction.Amount, transaction.Account.CommissionFee)
	if _, err := s.accounts.Patch(ctx, origin.ID, originPatch); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"transaction_id": transaction.ID,
			"account":        origin.AccountNumber,
		}).Error("Failed to update origin account")
		return err
	}

	if transaction.Type != model.TransactionTypeTransfer {
		return nil
	}

	destinationStrategy, err := ResolveStrategy(transaction.Type, RoleDestination)
	if err != nil {
		return err
	}
	if _, err := s.accounts.Patch(ctx, destination.ID, destinationStrategy.Patch(destination, transaction.Amount, nil)); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"transaction_id": transaction.ID,
			"account":        destination.AccountNumber,
		}).Error("Failed to update destination account")
		s.revertOrigin(ctx, transaction, origin)
		return err
	}
	return nil
}

// revertOrigin restores the origin account to its pre-transfer snapshot.
func (s *AccountService) revertOrigin(ctx context.Context, transaction *model.Transaction, origin *model.Account) {
	balance := origin.CurrentBalance()
	movements := origin.MonthlyMovements
	patch := model.AccountPatch{Balance: &balance, MonthlyMovements: &movements}

	if _, err := s.accounts.Patch(context.WithoutCancel(ctx), origin.ID, patch); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"transaction_id": transaction.ID,
			"account":        origin.AccountNumber,
		}).Error("Failed to revert origin account after transfer failure")
		return
	}
	s.logger.WithField("transaction_id", transaction.ID).Warn("Origin account reverted after transfer failure")
}
