package gateway

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

const exchangeService = "exchange-service"

// ExchangeClient talks to the peer exchange service that owns exchange
// requests and the primary-asset wallets.
type ExchangeClient struct {
	rest   *restClient
	caller *Caller
	logger *logrus.Logger
}

func NewExchangeClient(baseURL string, timeout time.Duration, caller *Caller, logger *logrus.Logger) *ExchangeClient {
	return &ExchangeClient{rest: newRESTClient(baseURL, timeout), caller: caller, logger: logger}
}

// GetExchangeRequestByTransactionID returns nil, nil when no request matches.
func (c *ExchangeClient) GetExchangeRequestByTransactionID(ctx context.Context, transactionID string) (*model.ExchangeRequest, error) {
	request, err := Call(ctx, c.caller, exchangeService, func(ctx context.Context) (*model.ExchangeRequest, error) {
		var request model.ExchangeRequest
		if err := c.rest.get(ctx, "/api/exchange-requests/transaction/"+url.PathEscape(transactionID), &request); err != nil {
			return nil, err
		}
		return &request, nil
	})
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	return request, err
}

func (c *ExchangeClient) GetWalletByUserID(ctx context.Context, userID string) (*model.Wallet, error) {
	return Call(ctx, c.caller, exchangeService, func(ctx context.Context) (*model.Wallet, error) {
		var wallet model.Wallet
		if err := c.rest.get(ctx, "/api/wallets/user/"+url.PathEscape(userID), &wallet); err != nil {
			return nil, err
		}
		return &wallet, nil
	})
}

func (c *ExchangeClient) UpdateWallet(ctx context.Context, walletID string, patch model.WalletPatch) error {
	_, err := Call(ctx, c.caller, exchangeService, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.rest.put(ctx, "/api/wallets/"+url.PathEscape(walletID), patch, nil)
	})
	return err
}

func (c *ExchangeClient) UpdateExchangeRequest(ctx context.Context, id string, patch model.ExchangeRequestPatch) error {
	_, err := Call(ctx, c.caller, exchangeService, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.rest.patch(ctx, "/api/exchange-requests/"+url.PathEscape(id), patch, nil)
	})
	return err
}
