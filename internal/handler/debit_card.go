package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

type DebitCardTransactionCreator interface {
	CreateDebitCardTransaction(ctx context.Context, req model.DebitCardTransactionRequest) (*model.Receipt, error)
}

type DebitCardHandler struct {
	debitCards DebitCardTransactionCreator
	history    TransactionHistory
	logger     *logrus.Logger
}

func NewDebitCardHandler(debitCards DebitCardTransactionCreator, history TransactionHistory, logger *logrus.Logger) *DebitCardHandler {
	return &DebitCardHandler{
		debitCards: debitCards,
		history:    history,
		logger:     logger,
	}
}

func (h *DebitCardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.CreateTransaction).Methods("POST")
	router.HandleFunc("/{cardId}", h.ListTransactions).Methods("GET")
}

// CreateTransaction charges the first associated account, by position, that can cover the amount.
func (h *DebitCardHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req model.DebitCardTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadPayload(w, h.logger, err)
		return
	}

	receipt, err := h.debitCards.CreateDebitCardTransaction(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

func (h *DebitCardHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.history.ByCard(r.Context(), mux.Vars(r)["cardId"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}
