package gateway

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

const debitCardService = "debit-card-service"

type DebitCardClient struct {
	rest   *restClient
	caller *Caller
	logger *logrus.Logger
}

func NewDebitCardClient(baseURL string, timeout time.Duration, caller *Caller, logger *logrus.Logger) *DebitCardClient {
	return &DebitCardClient{rest: newRESTClient(baseURL, timeout), caller: caller, logger: logger}
}

func (c *DebitCardClient) GetByID(ctx context.Context, id string) (*model.DebitCard, error) {
	c.logger.WithField("debit_card_id", id).Debug("Fetching debit card")
	return Call(ctx, c.caller, debitCardService, func(ctx context.Context) (*model.DebitCard, error) {
		var card model.DebitCard
		if err := c.rest.get(ctx, "/api/debit-cards/"+url.PathEscape(id), &card); err != nil {
			return nil, err
		}
		return &card, nil
	})
}
