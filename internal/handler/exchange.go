package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ExchangeProcessor interface {
	ProcessExchange(ctx context.Context, transactionID string) error
}

type ExchangeHandler struct {
	exchanges ExchangeProcessor
	logger    *logrus.Logger
}

func NewExchangeHandler(exchanges ExchangeProcessor, logger *logrus.Logger) *ExchangeHandler {
	return &ExchangeHandler{
		exchanges: exchanges,
		logger:    logger,
	}
}

func (h *ExchangeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/{transactionId}/settle", h.Settle).Methods("POST")
}

// Settle runs the exchange settlement for the given wallet transaction.
// An unknown transaction is a no-op and still answers 202.
func (h *ExchangeHandler) Settle(w http.ResponseWriter, r *http.Request) {
	transactionID := mux.Vars(r)["transactionId"]

	if err := h.exchanges.ProcessExchange(r.Context(), transactionID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"transactionId": transactionID, "status": "processed"})
}
