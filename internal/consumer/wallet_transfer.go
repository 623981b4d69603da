package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

// Message types accepted on the wallet transfer queue.
const (
	MessageWalletExchange     = "WALLET_EXCHANGE"
	MessageAccountTransaction = "ACCOUNT_TRANSACTION"
)

const prefetchCount = 10

var ErrUnknownMessage = errors.New("unknown message type")

// Envelope is the JSON body of a queue message.
type Envelope struct {
	Type          string                           `json:"type"`
	TransactionID string                           `json:"transactionId,omitempty"`
	Transaction   *model.AccountTransactionRequest `json:"transaction,omitempty"`
}

// Channel is the subset of *amqp.Channel the consumer needs.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type ExchangeProcessor interface {
	ProcessExchange(ctx context.Context, transactionID string) error
}

type AccountTransactionCreator interface {
	CreateAccountTransaction(ctx context.Context, req model.AccountTransactionRequest) (*model.Receipt, error)
}

// WalletTransferConsumer feeds queued wallet transfers into the orchestrators.
// Each message is processed in its own goroutine; the outcome is only logged.
type WalletTransferConsumer struct {
	channel   Channel
	queue     string
	exchanges ExchangeProcessor
	accounts  AccountTransactionCreator
	logger    *logrus.Logger
	inflight  sync.WaitGroup
}

func NewWalletTransferConsumer(
	channel Channel,
	queue string,
	exchanges ExchangeProcessor,
	accounts AccountTransactionCreator,
	logger *logrus.Logger,
) *WalletTransferConsumer {
	return &WalletTransferConsumer{
		channel:   channel,
		queue:     queue,
		exchanges: exchanges,
		accounts:  accounts,
		logger:    logger,
	}
}

// Run consumes until ctx is done or the broker closes the delivery channel.
func (c *WalletTransferConsumer) Run(ctx context.Context) error {
	if _, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.queue, err)
	}
	if err := c.channel.Qos(prefetchCount, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	c.logger.WithField("queue", c.queue).Info("Consuming wallet transfer messages")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed by broker")
			}
			c.handleDelivery(ctx, d)
		}
	}
}

func (c *WalletTransferConsumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	if err := c.HandleMessage(ctx, d.Body); err != nil {
		c.logger.WithError(err).WithField("delivery_tag", d.DeliveryTag).Warn("Rejecting message")
		if nackErr := d.Nack(false, false); nackErr != nil {
			c.logger.WithError(nackErr).Error("Failed to nack message")
		}
		return
	}

	if err := d.Ack(false); err != nil {
		c.logger.WithError(err).Error("Failed to ack message")
	}
}

// HandleMessage decodes body and dispatches it. A nil error means the message
// was accepted for processing, not that processing succeeded.
func (c *WalletTransferConsumer) HandleMessage(ctx context.Context, body []byte) error {
	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}

	// Processing outlives the delivery loop.
	ctx = context.WithoutCancel(ctx)

	switch envelope.Type {
	case MessageWalletExchange:
		if envelope.TransactionID == "" {
			return fmt.Errorf("%w: transactionId", model.ErrMissingField)
		}
		c.dispatch(func() {
			log := c.logger.WithField("transaction_id", envelope.TransactionID)
			if err := c.exchanges.ProcessExchange(ctx, envelope.TransactionID); err != nil {
				log.WithError(err).Error("Exchange settlement failed")
				return
			}
			log.Debug("Exchange message processed")
		})
	case MessageAccountTransaction:
		if envelope.Transaction == nil {
			return fmt.Errorf("%w: transaction", model.ErrMissingField)
		}
		req := *envelope.Transaction
		c.dispatch(func() {
			log := c.logger.WithFields(logrus.Fields{
				"type":   req.Type,
				"origin": req.OriginAccountNumber,
			})
			receipt, err := c.accounts.CreateAccountTransaction(ctx, req)
			if err != nil {
				log.WithError(err).Error("Queued account transaction failed")
				return
			}
			log.WithField("transaction_id", receipt.TransactionID).Info("Queued account transaction settled")
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, envelope.Type)
	}

	return nil
}

func (c *WalletTransferConsumer) dispatch(fn func()) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		fn()
	}()
}

// Wait blocks until every dispatched message has finished processing.
func (c *WalletTransferConsumer) Wait() {
	c.inflight.Wait()
}
