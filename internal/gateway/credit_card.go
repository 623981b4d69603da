package gateway

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

const creditCardService = "credit-card-service"

type CreditCardClient struct {
	rest   *restClient
	caller *Caller
	logger *logrus.Logger
}

func NewCreditCardClient(baseURL string, timeout time.Duration, caller *Caller, logger *logrus.Logger) *CreditCardClient {
	return &CreditCardClient{rest: newRESTClient(baseURL, timeout), caller: caller, logger: logger}
}

func (c *CreditCardClient) getCard(ctx context.Context, path string) (*model.CreditCard, error) {
	return Call(ctx, c.caller, creditCardService, func(ctx context.Context) (*model.CreditCard, error) {
		var card model.CreditCard
		if err := c.rest.get(ctx, path, &card); err != nil {
			return nil, err
		}
		return &card, nil
	})
}

func (c *CreditCardClient) GetByID(ctx context.Context, id string) (*model.CreditCard, error) {
	c.logger.WithField("card_id", id).Debug("Fetching credit card")
	return c.getCard(ctx, "/api/credit-cards/"+url.PathEscape(id))
}

func (c *CreditCardClient) GetByCardNumber(ctx context.Context, cardNumber string) (*model.CreditCard, error) {
	return c.getCard(ctx, "/api/credit-cards/number/"+url.PathEscape(cardNumber))
}

func (c *CreditCardClient) Patch(ctx context.Context, id string, patch model.CreditCardPatch) (*model.CreditCard, error) {
	c.logger.WithField("card_id", id).Debug("Patching credit card")
	return Call(ctx, c.caller, creditCardService, func(ctx context.Context) (*model.CreditCard, error) {
		var card model.CreditCard
		if err := c.rest.patch(ctx, "/api/credit-cards/"+url.PathEscape(id), patch, &card); err != nil {
			return nil, err
		}
		return &card, nil
	})
}

func (c *CreditCardClient) ListByCustomer(ctx context.Context, customerID string) ([]model.CreditCard, error) {
	return Call(ctx, c.caller, creditCardService, func(ctx context.Context) ([]model.CreditCard, error) {
		var cards []model.CreditCard
		if err := c.rest.get(ctx, "/api/credit-cards/customer/"+url.PathEscape(customerID), &cards); err != nil {
			return nil, err
		}
		return cards, nil
	})
}
