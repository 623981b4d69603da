package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

type CreditPaymentService struct {
	credits      CreditLedger
	customers    CustomerDirectory
	transactions TransactionLog
	logger       *logrus.Logger
	now          func() time.Time
}

func NewCreditPaymentService(
	credits CreditLedger,
	customers CustomerDirectory,
	transactions TransactionLog,
	logger *logrus.Logger,
) *CreditPaymentService {
	return &CreditPaymentService{
		credits:      credits,
		customers:    customers,
		transactions: transactions,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateCreditPaymentTransaction pays one installment of a credit. The credit
// always advances by its monthly payment.
func (s *CreditPaymentService) CreateCreditPaymentTransaction(ctx context.Context, req model.CreditPaymentRequest) (*model.Receipt, error) {
	if err := validateCreditPaymentRequest(req); err != nil {
		s.logger.WithError(err).Warn("Rejected credit payment request")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"credit_id": req.CreditID,
		"amount":    req.Amount.String(),
	}).Info("Processing credit payment")

	credit, err := s.credits.GetByID(ctx, req.CreditID)
	if err != nil {
		s.logger.WithError(err).WithField("credit_id", req.CreditID).Warn("Failed to load credit")
		return nil, lookupError(err, "credit", req.CreditID)
	}

	if _, err := s.customers.GetByID(ctx, req.CustomerID); err != nil {
		s.logger.WithError(err).WithField("customer_id", req.CustomerID).Warn("Failed to load customer")
		return nil, lookupError(err, "customer", req.CustomerID)
	}

	paid := credit.AmountPaid.Decimal
	if paid.Add(credit.MonthlyPayment).GreaterThan(credit.TotalAmount) {
		err := fmt.Errorf("%w: credit %s has %s of %s paid", model.ErrCreditFullyPaid,
			credit.ID, paid.String(), credit.TotalAmount.String())
		s.logger.WithError(err).Warn("Credit payment rejected")
		return nil, err
	}

	saved, err := s.transactions.Save(ctx, model.NewCreditTransaction(req, s.now()))
	if err != nil {
		s.logger.WithError(err).Error("Failed to persist credit payment")
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	if !credit.AmountPaid.Valid {
		s.logger.WithField("credit_id", credit.ID).Warn("Credit has no amount paid, skipping update")
		return model.NewReceipt(saved), nil
	}

	amountPaid := paid.Add(credit.MonthlyPayment)
	nextDue := credit.NextPaymentDueDate.AddDate(0, 1, 0)
	expected := credit.ExpectedPaymentToDate.Add(credit.MonthlyPayment)
	patch := model.CreditPatch{
		AmountPaid:            &amountPaid,
		NextPaymentDueDate:    &nextDue,
		ExpectedPaymentToDate: &expected,
	}
	if _, err := s.credits.Patch(ctx, credit.ID, patch); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"transaction_id": saved.ID,
			"credit_id":      credit.ID,
		}).Error("Failed to update credit")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"transaction_id": saved.ID,
		"amount_paid":    amountPaid.String(),
		"next_due":       nextDue.Format("2006-01-02"),
	}).Info("Credit payment settled")
	return model.NewReceipt(saved), nil
}

func validateCreditPaymentRequest(req model.CreditPaymentRequest) error {
	if err := model.CheckAmount(req.Amount); err != nil {
		return err
	}
	if req.CreditID == "" {
		return missingField("creditId")
	}
	if req.CustomerID == "" {
		return missingField("customerId")
	}
	return nil
}
