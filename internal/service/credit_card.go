package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

type CreditCardService struct {
	cards        CreditCardLedger
	customers    CustomerDirectory
	transactions TransactionLog
	logger       *logrus.Logger
	now          func() time.Time
}

func NewCreditCardService(
	cards CreditCardLedger,
	customers CustomerDirectory,
	transactions TransactionLog,
	logger *logrus.Logger,
) *CreditCardService {
	return &CreditCardService{
		cards:        cards,
		customers:    customers,
		transactions: transactions,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateCreditCardTransaction settles a USAGE against the card limit or a
// PAYMENT against the used amount.
func (s *CreditCardService) CreateCreditCardTransaction(ctx context.Context, req model.CreditCardTransactionRequest) (*model.Receipt, error) {
	if err := validateCreditCardRequest(req); err != nil {
		s.logger.WithError(err).Warn("Rejected credit card transaction request")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"type":    req.Type,
		"card_id": req.CardID,
		"amount":  req.Amount.String(),
	}).Info("Processing credit card transaction")

	card, err := s.cards.GetByID(ctx, req.CardID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.WithField("card_id", req.CardID).Warn("Credit card not found")
			return nil, fmt.Errorf("%w: %s", model.ErrCardNotFound, req.CardID)
		}
		return nil, err
	}

	if err := s.checkOwnership(ctx, req, card); err != nil {
		return nil, err
	}

	used := card.CurrentUsed()
	switch req.Type {
	case model.TransactionTypeUsage:
		if used.Add(req.Amount).GreaterThan(card.CreditLimit) {
			err := fmt.Errorf("%w: used %s + %s exceeds limit %s",
				model.ErrLimitExceeded, used.String(), req.Amount.String(), card.CreditLimit.String())
			s.logger.WithError(err).WithField("card_id", card.ID).Warn("Credit card usage rejected")
			return nil, err
		}
	case model.TransactionTypePayment:
		if req.Amount.GreaterThan(used) {
			err := fmt.Errorf("%w: payment %s is greater than used amount %s",
				model.ErrAmountExceedsUsed, req.Amount.String(), used.String())
			s.logger.WithError(err).WithField("card_id", card.ID).Warn("Credit card payment rejected")
			return nil, err
		}
	}

	saved, err := s.transactions.Save(ctx, model.NewCreditCardTransaction(req, s.now()))
	if err != nil {
		s.logger.WithError(err).Error("Failed to persist credit card transaction")
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	if !card.UsedAmount.Valid {
		s.logger.WithField("card_id", card.ID).Warn("Credit card has no used amount, skipping update")
		return model.NewReceipt(saved), nil
	}

	newUsed := used.Add(req.Amount)
	if req.Type == model.TransactionTypePayment {
		newUsed = used.Sub(req.Amount)
	}
	if _, err := s.cards.Patch(ctx, card.ID, model.CreditCardPatch{UsedAmount: &newUsed}); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"transaction_id": saved.ID,
			"card_id":        card.ID,
		}).Error("Failed to update credit card used amount")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"transaction_id": saved.ID,
		"used_amount":    newUsed.String(),
	}).Info("Credit card transaction settled")
	return model.NewReceipt(saved), nil
}

// checkOwnership verifies the payer exists for payments and the card owner
// for usage.
func (s *CreditCardService) checkOwnership(ctx context.Context, req model.CreditCardTransactionRequest, card *model.CreditCard) error {
	if req.Type == model.TransactionTypePayment {
		if _, err := s.customers.GetByID(ctx, req.CustomerID); err != nil {
			s.logger.WithError(err).WithField("customer_id", req.CustomerID).Warn("Failed to load paying customer")
			return lookupError(err, "customer", req.CustomerID)
		}
		return nil
	}

	if req.CustomerID != card.OwnerCustomerID {
		s.logger.WithFields(logrus.Fields{
			"card_id":     card.ID,
			"customer_id": req.CustomerID,
		}).Warn("Credit card usage by non-owner")
		return fmt.Errorf("%w: card %s", model.ErrCustomerMismatch, card.ID)
	}
	return nil
}

func validateCreditCardRequest(req model.CreditCardTransactionRequest) error {
	if err := model.CheckType(req.Type, model.CreditCardTransactionTypes); err != nil {
		return err
	}
	if err := model.CheckAmount(req.Amount); err != nil {
		return err
	}
	if req.CardID == "" {
		return missingField("cardId")
	}
	if req.CustomerID == "" {
		return missingField("customerId")
	}
	return nil
}
