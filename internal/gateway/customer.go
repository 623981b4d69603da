package gateway

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

const customerService = "customer-service"

// CustomerClient looks customers up by internal id or by national document.
type CustomerClient struct {
	rest   *restClient
	caller *Caller
	logger *logrus.Logger
}

func NewCustomerClient(baseURL string, timeout time.Duration, caller *Caller, logger *logrus.Logger) *CustomerClient {
	return &CustomerClient{rest: newRESTClient(baseURL, timeout), caller: caller, logger: logger}
}

func (c *CustomerClient) get(ctx context.Context, path string) (*model.Customer, error) {
	return Call(ctx, c.caller, customerService, func(ctx context.Context) (*model.Customer, error) {
		var customer model.Customer
		if err := c.rest.get(ctx, path, &customer); err != nil {
			return nil, err
		}
		return &customer, nil
	})
}

func (c *CustomerClient) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	c.logger.WithField("customer_id", id).Debug("Fetching customer")
	return c.get(ctx, "/api/customers/"+url.PathEscape(id))
}

// GetByDNI finds a personal customer by national identity document.
func (c *CustomerClient) GetByDNI(ctx context.Context, dni string) (*model.Customer, error) {
	return c.get(ctx, "/api/customers/dni/"+url.PathEscape(dni))
}

// GetByRUC finds a business customer by tax registry number.
func (c *CustomerClient) GetByRUC(ctx context.Context, ruc string) (*model.Customer, error) {
	return c.get(ctx, "/api/customers/ruc/"+url.PathEscape(ruc))
}
