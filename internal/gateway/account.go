package gateway

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

const accountService = "account-service"

// AccountClient reads and patches accounts owned by the account service.
type AccountClient struct {
	rest   *restClient
	caller *Caller
	logger *logrus.Logger
}

func NewAccountClient(baseURL string, timeout time.Duration, caller *Caller, logger *logrus.Logger) *AccountClient {
	return &AccountClient{rest: newRESTClient(baseURL, timeout), caller: caller, logger: logger}
}

func (c *AccountClient) GetByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	c.logger.WithField("account_number", accountNumber).Debug("Fetching account by number")
	return Call(ctx, c.caller, accountService, func(ctx context.Context) (*model.Account, error) {
		var account model.Account
		if err := c.rest.get(ctx, "/api/accounts/number/"+url.PathEscape(accountNumber), &account); err != nil {
			return nil, err
		}
		return &account, nil
	})
}

func (c *AccountClient) GetByID(ctx context.Context, id string) (*model.Account, error) {
	c.logger.WithField("account_id", id).Debug("Fetching account by id")
	return Call(ctx, c.caller, accountService, func(ctx context.Context) (*model.Account, error) {
		var account model.Account
		if err := c.rest.get(ctx, "/api/accounts/"+url.PathEscape(id), &account); err != nil {
			return nil, err
		}
		return &account, nil
	})
}

func (c *AccountClient) Patch(ctx context.Context, id string, patch model.AccountPatch) (*model.Account, error) {
	c.logger.WithField("account_id", id).Debug("Patching account")
	return Call(ctx, c.caller, accountService, func(ctx context.Context) (*model.Account, error) {
		var account model.Account
		if err := c.rest.patch(ctx, "/api/accounts/"+url.PathEscape(id), patch, &account); err != nil {
			return nil, err
		}
		return &account, nil
	})
}

func (c *AccountClient) ListByCustomer(ctx context.Context, customerID string) ([]model.Account, error) {
	return Call(ctx, c.caller, accountService, func(ctx context.Context) ([]model.Account, error) {
		var accounts []model.Account
		if err := c.rest.get(ctx, "/api/accounts/customer/"+url.PathEscape(customerID), &accounts); err != nil {
			return nil, err
		}
		return accounts, nil
	})
}
