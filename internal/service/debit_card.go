package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

type DebitCardService struct {
	debitCards   DebitCardDirectory
	accounts     AccountLedger
	transactions TransactionLog
	logger       *logrus.Logger
	now          func() time.Time
}

func NewDebitCardService(
	debitCards DebitCardDirectory,
	accounts AccountLedger,
	transactions TransactionLog,
	logger *logrus.Logger,
) *DebitCardService {
	return &DebitCardService{
		debitCards:   debitCards,
		accounts:     accounts,
		transactions: transactions,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateDebitCardTransaction charges the first associated account, by
// position, that is active and can cover the amount.
func (s *DebitCardService) CreateDebitCardTransaction(ctx context.Context, req model.DebitCardTransactionRequest) (*model.Receipt, error) {
	if err := validateDebitCardRequest(req); err != nil {
		s.logger.WithError(err).Warn("Rejected debit card transaction request")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"type":          req.Type,
		"debit_card_id": req.DebitCardID,
		"amount":        req.Amount.String(),
	}).Info("Processing debit card transaction")

	card, err := s.debitCards.GetByID(ctx, req.DebitCardID)
	if err != nil {
		s.logger.WithError(err).WithField("debit_card_id", req.DebitCardID).Warn("Failed to load debit card")
		return nil, lookupError(err, "debit card", req.DebitCardID)
	}
	if len(card.Associations) == 0 {
		s.logger.WithField("debit_card_id", card.ID).Warn("Debit card has no associated accounts")
		return nil, fmt.Errorf("%w: %s", model.ErrNoAssociatedAccount, card.ID)
	}

	account, err := s.route(ctx, card, req.Amount)
	if err != nil {
		return nil, err
	}

	saved, err := s.transactions.Save(ctx, model.NewDebitCardTransaction(req, account, s.now()))
	if err != nil {
		s.logger.WithError(err).Error("Failed to persist debit card transaction")
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	// route only selects accounts whose balance covers the amount.
	balance := account.CurrentBalance().Sub(req.Amount)
	if _, err := s.accounts.Patch(ctx, account.ID, model.AccountPatch{Balance: &balance}); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"transaction_id": saved.ID,
			"account_id":     account.ID,
		}).Error("Failed to update funding account")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"transaction_id": saved.ID,
		"account_id":     account.ID,
	}).Info("Debit card transaction settled")
	return model.NewReceipt(saved), nil
}

// route walks the associations in ascending position. Every fetched account is
// marked tried; inactive accounts are skipped before their balance is checked.
func (s *DebitCardService) route(ctx context.Context, card *model.DebitCard, amount decimal.Decimal) (*model.Account, error) {
	tried := make(map[string]struct{}, len(card.Associations))

	for {
		next := nextAssociation(card.Associations, tried)
		if next == nil {
			err := fmt.Errorf("%w: tried %d accounts of card %s", model.ErrAllAccountsInsufficient, len(tried), card.ID)
			s.logger.WithError(err).Warn("Debit card routing exhausted")
			return nil, err
		}
		tried[next.AccountID] = struct{}{}

		account, err := s.accounts.GetByID(ctx, next.AccountID)
		if err != nil {
			s.logger.WithError(err).WithField("account_id", next.AccountID).Warn("Failed to load associated account")
			return nil, lookupError(err, "account", next.AccountID)
		}

		fields := logrus.Fields{"account_id": account.ID, "position": next.Position}
		if account.Status != model.AccountStatusActive {
			s.logger.WithFields(fields).Debug("Skipping inactive account")
			continue
		}
		if account.CurrentBalance().LessThan(amount) {
			s.logger.WithFields(fields).Debug("Skipping account with insufficient balance")
			continue
		}

		s.logger.WithFields(fields).Debug("Selected funding account")
		return account, nil
	}
}

func nextAssociation(associations []model.DebitCardAssociation, tried map[string]struct{}) *model.DebitCardAssociation {
	var next *model.DebitCardAssociation
	for i := range associations {
		candidate := &associations[i]
		if _, done := tried[candidate.AccountID]; done {
			continue
		}
		if next == nil || candidate.Position < next.Position {
			next = candidate
		}
	}
	return next
}

func validateDebitCardRequest(req model.DebitCardTransactionRequest) error {
	if err := model.CheckType(req.Type, model.DebitCardTransactionTypes); err != nil {
		return err
	}
	if err := model.CheckAmount(req.Amount); err != nil {
		return err
	}
	if req.DebitCardID == "" {
		return missingField("debitCardId")
	}
	return nil
}
