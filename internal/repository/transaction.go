package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

// ErrDuplicateTransaction is returned when a record with the same id already exists.
var ErrDuplicateTransaction = errors.New("transaction already recorded")

// TransactionRepository is the append-only transaction log.
type TransactionRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewTransactionRepository(db *sql.DB, logger *logrus.Logger) *TransactionRepository {
	return &TransactionRepository{db: db, logger: logger}
}

const selectColumns = `SELECT id, kind, type, amount, description, created_at, details FROM transactions`

// Save writes the record once. The variant details are stored as JSON next to
// the discriminant; lookup keys are copied into indexed columns.
func (r *TransactionRepository) Save(ctx context.Context, transaction *model.Transaction) (*model.Transaction, error) {
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"transaction_id": transaction.ID,
		"kind":           transaction.Kind,
		"type":           transaction.Type,
		"amount":         transaction.Amount.String(),
	}).Info("Recording transaction")

	details, err := encodeDetails(transaction)
	if err != nil {
		return nil, err
	}
	refs := transaction.References()

	query := `
        INSERT INTO transactions (id, kind, type, amount, description, created_at,
                                  account_ref, counterparty_ref, card_ref, credit_ref, customer_id, details)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `

	_, err = r.db.ExecContext(
		ctx,
		query,
		transaction.ID,
		transaction.Kind,
		transaction.Type,
		transaction.Amount,
		transaction.Description,
		transaction.Date,
		nullable(refs.Account),
		nullable(refs.Counterparty),
		nullable(refs.Card),
		nullable(refs.Credit),
		nullable(refs.Customer),
		details,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrDuplicateTransaction
		}
		r.logger.WithError(err).Error("Failed to record transaction")
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	return transaction, nil
}

// FindByAccount returns records where the account is origin, destination or funding account.
func (r *TransactionRepository) FindByAccount(ctx context.Context, accountRef string) ([]model.Transaction, error) {
	return r.query(ctx, selectColumns+` WHERE account_ref = $1 OR counterparty_ref = $1 ORDER BY created_at DESC`, accountRef)
}

// FindByCard returns records of a credit or debit card.
func (r *TransactionRepository) FindByCard(ctx context.Context, cardID string) ([]model.Transaction, error) {
	return r.query(ctx, selectColumns+` WHERE card_ref = $1 ORDER BY created_at DESC`, cardID)
}

func (r *TransactionRepository) FindByCredit(ctx context.Context, creditID string) ([]model.Transaction, error) {
	return r.query(ctx, selectColumns+` WHERE credit_ref = $1 ORDER BY created_at DESC`, creditID)
}

// FindByDateRange returns records with start <= created_at < end.
func (r *TransactionRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	r.logger.WithFields(logrus.Fields{
		"start_date": start.Format(time.RFC3339),
		"end_date":   end.Format(time.RFC3339),
	}).Debug("Querying transactions by period")

	return r.query(ctx, selectColumns+` WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at DESC`, start, end)
}

func (r *TransactionRepository) query(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query transactions")
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		var (
			tx          model.Transaction
			amount      decimal.Decimal
			description sql.NullString
			details     []byte
		)
		if err := rows.Scan(&tx.ID, &tx.Kind, &tx.Type, &amount, &description, &tx.Date, &details); err != nil {
			r.logger.WithError(err).Error("Failed to scan transaction row")
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Amount = amount
		tx.Description = description.String
		if err := decodeDetails(&tx, details); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		r.logger.WithError(err).Error("Failed to iterate transaction rows")
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	r.logger.WithField("count", len(transactions)).Debug("Transactions loaded")
	return transactions, nil
}

func encodeDetails(t *model.Transaction) ([]byte, error) {
	var details any
	switch t.Kind {
	case model.KindAccount:
		details = t.Account
	case model.KindCreditCard:
		details = t.CreditCard
	case model.KindCredit:
		details = t.Credit
	case model.KindDebitCard:
		details = t.DebitCard
	case model.KindWallet:
		details = t.Wallet
	default:
		return nil, fmt.Errorf("%w: unknown transaction kind %q", model.ErrInvalidType, t.Kind)
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction details: %w", err)
	}
	return payload, nil
}

func decodeDetails(t *model.Transaction, payload []byte) error {
	var target any
	switch t.Kind {
	case model.KindAccount:
		t.Account = &model.AccountDetails{}
		target = t.Account
	case model.KindCreditCard:
		t.CreditCard = &model.CreditCardDetails{}
		target = t.CreditCard
	case model.KindCredit:
		t.Credit = &model.CreditDetails{}
		target = t.Credit
	case model.KindDebitCard:
		t.DebitCard = &model.DebitCardDetails{}
		target = t.DebitCard
	case model.KindWallet:
		t.Wallet = &model.WalletDetails{}
		target = t.Wallet
	default:
		return fmt.Errorf("unknown transaction kind %q in log", t.Kind)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("failed to decode %s details: %w", t.Kind, err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
