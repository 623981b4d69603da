package gateway

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

const secondaryWalletService = "secondary-wallet-service"

// SecondaryWalletClient talks to the fiat payment-wallet service.
type SecondaryWalletClient struct {
	rest   *restClient
	caller *Caller
	logger *logrus.Logger
}

func NewSecondaryWalletClient(baseURL string, timeout time.Duration, caller *Caller, logger *logrus.Logger) *SecondaryWalletClient {
	return &SecondaryWalletClient{rest: newRESTClient(baseURL, timeout), caller: caller, logger: logger}
}

func (c *SecondaryWalletClient) getWallet(ctx context.Context, path string) (*model.Wallet, error) {
	return Call(ctx, c.caller, secondaryWalletService, func(ctx context.Context) (*model.Wallet, error) {
		var wallet model.Wallet
		if err := c.rest.get(ctx, path, &wallet); err != nil {
			return nil, err
		}
		return &wallet, nil
	})
}

func (c *SecondaryWalletClient) GetByUserID(ctx context.Context, userID string) (*model.Wallet, error) {
	return c.getWallet(ctx, "/api/wallets/user/"+url.PathEscape(userID))
}

func (c *SecondaryWalletClient) GetByID(ctx context.Context, id string) (*model.Wallet, error) {
	return c.getWallet(ctx, "/api/wallets/"+url.PathEscape(id))
}

func (c *SecondaryWalletClient) UpdateWallet(ctx context.Context, walletID string, patch model.WalletPatch) error {
	c.logger.WithField("wallet_id", walletID).Debug("Updating secondary wallet")
	_, err := Call(ctx, c.caller, secondaryWalletService, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.rest.put(ctx, "/api/wallets/"+url.PathEscape(walletID), patch, nil)
	})
	return err
}
