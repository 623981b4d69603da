package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

const (
	msgInsufficientPrimary   = "accepter has insufficient primary wallet balance"
	msgInsufficientSecondary = "requester has insufficient secondary wallet balance"
	msgSecondaryDebitFailed  = "failed to debit secondary wallet"
	msgWalletUpdateFailed    = "failed to update primary wallets"
)

// ExchangeService settles peer wallet exchanges.
type ExchangeService struct {
	exchanges    ExchangeLedger
	secondary    SecondaryWalletLedger
	transactions TransactionLog
	logger       *logrus.Logger
	now          func() time.Time
}

func NewExchangeService(
	exchanges ExchangeLedger,
	secondary SecondaryWalletLedger,
	transactions TransactionLog,
	logger *logrus.Logger,
) *ExchangeService {
	return &ExchangeService{
		exchanges:    exchanges,
		secondary:    secondary,
		transactions: transactions,
		logger:       logger,
		now:          time.Now,
	}
}

// ProcessExchange settles the exchange request created for transactionID.
// A missing request completes without error. Business rejections mark the
// request REJECTED and also complete without error.
func (s *ExchangeService) ProcessExchange(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return missingField("transactionId")
	}

	exchange, err := s.exchanges.GetExchangeRequestByTransactionID(ctx, transactionID)
	if err != nil {
		s.logger.WithError(err).WithField("transaction_id", transactionID).Error("Failed to load exchange request")
		return err
	}
	if exchange == nil {
		s.logger.WithField("transaction_id", transactionID).Info("No exchange request for transaction, nothing to settle")
		return nil
	}

	log := s.logger.WithFields(logrus.Fields{
		"exchange_id":    exchange.ID,
		"transaction_id": transactionID,
		"amount":         exchange.Amount.String(),
		"payment_method": exchange.PaymentMethod,
	})
	log.Info("Settling exchange request")

	requester, accepter, err := s.fetchPrimaryWallets(ctx, exchange)
	if err != nil {
		log.WithError(err).Error("Failed to load primary wallets")
		return err
	}

	if accepter.Balance.LessThan(exchange.Amount) {
		log.WithField("accepter_balance", accepter.Balance.String()).Warn("Exchange rejected: insufficient primary balance")
		return s.updateStatus(ctx, exchange, model.ExchangeStatusRejected, msgInsufficientPrimary)
	}

	updated := []string{}
	if exchange.PaymentMethod == model.PaymentMethodWallet {
		secondary, err := s.settleSecondaryLeg(ctx, exchange, log)
		if err != nil || secondary == nil {
			return err
		}
		updated = append(updated, secondary.ID)
	}

	if err := s.updatePrimaryWallets(ctx, exchange, requester, accepter); err != nil {
		log.WithError(err).Error("Failed to update primary wallets")
		s.rejectBestEffort(ctx, exchange, msgWalletUpdateFailed)
		return fmt.Errorf("exchange %s: %w", exchange.ID, err)
	}

	updated = append(updated, requester.ID, accepter.ID)

	if err := s.updateStatus(ctx, exchange, model.ExchangeStatusApproved, ""); err != nil {
		log.WithError(err).WithField("updated_wallets", updated).
			Error("Wallets updated but exchange request not approved, reconcile manually")
		return err
	}

	if _, err := s.transactions.Save(ctx, model.NewWalletTransaction(exchange, accepter, requester, s.now())); err != nil {
		log.WithError(err).Error("Exchange approved but wallet transaction was not recorded")
		return fmt.Errorf("failed to persist transaction: %w", err)
	}

	log.Info("Exchange request approved")
	return nil
}

func (s *ExchangeService) fetchPrimaryWallets(ctx context.Context, exchange *model.ExchangeRequest) (*model.Wallet, *model.Wallet, error) {
	var requester, accepter *model.Wallet

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wallet, err := s.exchanges.GetWalletByUserID(gctx, exchange.RequesterUserID)
		if err != nil {
			return lookupError(err, "wallet of user", exchange.RequesterUserID)
		}
		requester = wallet
		return nil
	})
	g.Go(func() error {
		wallet, err := s.exchanges.GetWalletByUserID(gctx, exchange.AccepterUserID)
		if err != nil {
			return lookupError(err, "wallet of user", exchange.AccepterUserID)
		}
		accepter = wallet
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return requester, accepter, nil
}

// settleSecondaryLeg debits the requester's secondary wallet by amount x rate.
// It returns the debited wallet, or nil when the exchange was rejected and
// settlement must stop.
func (s *ExchangeService) settleSecondaryLeg(ctx context.Context, exchange *model.ExchangeRequest, log *logrus.Entry) (*model.Wallet, error) {
	wallet, err := s.secondary.GetByUserID(ctx, exchange.RequesterUserID)
	if err != nil {
		log.WithError(err).Error("Failed to load secondary wallet")
		return nil, lookupError(err, "secondary wallet of user", exchange.RequesterUserID)
	}

	payment := exchange.PaymentAmount()
	if wallet.Balance.LessThan(payment) {
		log.WithFields(logrus.Fields{
			"secondary_balance": wallet.Balance.String(),
			"payment":           payment.String(),
		}).Warn("Exchange rejected: insufficient secondary balance")
		return nil, s.updateStatus(ctx, exchange, model.ExchangeStatusRejected, msgInsufficientSecondary)
	}

	if err := s.secondary.UpdateWallet(ctx, wallet.ID, model.WalletPatch{Balance: wallet.Balance.Sub(payment)}); err != nil {
		log.WithError(err).Error("Failed to debit secondary wallet")
		s.rejectBestEffort(ctx, exchange, msgSecondaryDebitFailed)
		return nil, fmt.Errorf("exchange %s: %w", exchange.ID, err)
	}
	return wallet, nil
}

// updatePrimaryWallets issues both primary wallet updates and waits for both.
// One failing does not cancel the other.
func (s *ExchangeService) updatePrimaryWallets(ctx context.Context, exchange *model.ExchangeRequest, requester, accepter *model.Wallet) error {
	var g errgroup.Group
	g.Go(func() error {
		return s.exchanges.UpdateWallet(ctx, requester.ID, model.WalletPatch{Balance: requester.Balance.Add(exchange.Amount)})
	})
	g.Go(func() error {
		return s.exchanges.UpdateWallet(ctx, accepter.ID, model.WalletPatch{Balance: accepter.Balance.Sub(exchange.Amount)})
	})
	return g.Wait()
}

func (s *ExchangeService) updateStatus(ctx context.Context, exchange *model.ExchangeRequest, status model.ExchangeStatus, message string) error {
	err := s.exchanges.UpdateExchangeRequest(ctx, exchange.ID, model.ExchangeRequestPatch{Status: status, Message: message})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"exchange_id": exchange.ID,
			"status":      status,
		}).Error("Failed to update exchange request status")
		return err
	}
	return nil
}

// rejectBestEffort marks the exchange rejected after a partial failure. Its own
// failure is only logged so the original error reaches the caller.
func (s *ExchangeService) rejectBestEffort(ctx context.Context, exchange *model.ExchangeRequest, message string) {
	patch := model.ExchangeRequestPatch{Status: model.ExchangeStatusRejected, Message: message}
	if err := s.exchanges.UpdateExchangeRequest(context.WithoutCancel(ctx), exchange.ID, patch); err != nil {
		s.logger.WithError(err).WithField("exchange_id", exchange.ID).Error("Failed to reject exchange request after partial failure")
	}
}
