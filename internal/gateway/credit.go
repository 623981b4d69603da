package gateway

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

const creditService = "credit-service"

type CreditClient struct {
	rest   *restClient
	caller *Caller
	logger *logrus.Logger
}

func NewCreditClient(baseURL string, timeout time.Duration, caller *Caller, logger *logrus.Logger) *CreditClient {
	return &CreditClient{rest: newRESTClient(baseURL, timeout), caller: caller, logger: logger}
}

func (c *CreditClient) GetByID(ctx context.Context, id string) (*model.Credit, error) {
	c.logger.WithField("credit_id", id).Debug("Fetching credit")
	return Call(ctx, c.caller, creditService, func(ctx context.Context) (*model.Credit, error) {
		var credit model.Credit
		if err := c.rest.get(ctx, "/api/credits/"+url.PathEscape(id), &credit); err != nil {
			return nil, err
		}
		return &credit, nil
	})
}

func (c *CreditClient) Patch(ctx context.Context, id string, patch model.CreditPatch) (*model.Credit, error) {
	c.logger.WithField("credit_id", id).Debug("Patching credit")
	return Call(ctx, c.caller, creditService, func(ctx context.Context) (*model.Credit, error) {
		var credit model.Credit
		if err := c.rest.patch(ctx, "/api/credits/"+url.PathEscape(id), patch, &credit); err != nil {
			return nil, err
		}
		return &credit, nil
	})
}

func (c *CreditClient) ListByCustomer(ctx context.Context, customerID string) ([]model.Credit, error) {
	return Call(ctx, c.caller, creditService, func(ctx context.Context) ([]model.Credit, error) {
		var credits []model.Credit
		if err := c.rest.get(ctx, "/api/credits/customer/"+url.PathEscape(customerID), &credits); err != nil {
			return nil, err
		}
		return credits, nil
	})
}
