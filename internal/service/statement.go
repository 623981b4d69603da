package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

// StatementService assembles a customer's products and their transaction history.
type StatementService struct {
	customers    CustomerDirectory
	accounts     AccountLister
	creditCards  CreditCardLister
	credits      CreditLister
	transactions TransactionLog
	logger       *logrus.Logger
}

func NewStatementService(
	customers CustomerDirectory,
	accounts AccountLister,
	creditCards CreditCardLister,
	credits CreditLister,
	transactions TransactionLog,
	logger *logrus.Logger,
) *StatementService {
	return &StatementService{
		customers:    customers,
		accounts:     accounts,
		creditCards:  creditCards,
		credits:      credits,
		transactions: transactions,
		logger:       logger,
	}
}

// CustomerStatement returns the accounts, credit cards and credits of the
// customer with every record that references one of them.
func (s *StatementService) CustomerStatement(ctx context.Context, customerID string) (*model.CustomerStatement, error) {
	if customerID == "" {
		return nil, missingField("customerId")
	}

	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, lookupError(err, "customer", customerID)
	}

	statement := &model.CustomerStatement{CustomerID: customerID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := s.accounts.ListByCustomer(gctx, customerID)
		statement.Accounts = accounts
		return err
	})
	g.Go(func() error {
		cards, err := s.creditCards.ListByCustomer(gctx, customerID)
		statement.CreditCards = cards
		return err
	})
	g.Go(func() error {
		credits, err := s.credits.ListByCustomer(gctx, customerID)
		statement.Credits = credits
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("Failed to list customer products")
		return nil, err
	}

	transactions, err := s.history(ctx, statement)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("Failed to load customer transactions")
		return nil, err
	}
	statement.Transactions = transactions

	s.logger.WithFields(logrus.Fields{
		"customer_id":  customerID,
		"accounts":     len(statement.Accounts),
		"credit_cards": len(statement.CreditCards),
		"credits":      len(statement.Credits),
		"transactions": len(transactions),
	}).Debug("Customer statement built")
	return statement, nil
}

// history merges the log lookups of every product. A transfer between two of
// the customer's accounts is listed once.
func (s *StatementService) history(ctx context.Context, statement *model.CustomerStatement) ([]model.Transaction, error) {
	var lookups []func() ([]model.Transaction, error)
	for _, account := range statement.Accounts {
		// Debit card records reference the funding account by id.
		for _, ref := range []string{account.AccountNumber, account.ID} {
			ref := ref
			lookups = append(lookups, func() ([]model.Transaction, error) { return s.transactions.FindByAccount(ctx, ref) })
		}
	}
	for _, card := range statement.CreditCards {
		id := card.ID
		lookups = append(lookups, func() ([]model.Transaction, error) { return s.transactions.FindByCard(ctx, id) })
	}
	for _, credit := range statement.Credits {
		id := credit.ID
		lookups = append(lookups, func() ([]model.Transaction, error) { return s.transactions.FindByCredit(ctx, id) })
	}

	seen := make(map[uuid.UUID]struct{})
	merged := []model.Transaction{}
	for _, lookup := range lookups {
		found, err := lookup()
		if err != nil {
			return nil, err
		}
		for _, tx := range found {
			if _, ok := seen[tx.ID]; ok {
				continue
			}
			seen[tx.ID] = struct{}{}
			merged = append(merged, tx)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Date.After(merged[j].Date) })
	return merged, nil
}
