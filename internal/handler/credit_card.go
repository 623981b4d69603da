package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

type CreditCardTransactionCreator interface {
	CreateCreditCardTransaction(ctx context.Context, req model.CreditCardTransactionRequest) (*model.Receipt, error)
}

type CreditCardHandler struct {
	cards   CreditCardTransactionCreator
	history TransactionHistory
	logger  *logrus.Logger
}

func NewCreditCardHandler(cards CreditCardTransactionCreator, history TransactionHistory, logger *logrus.Logger) *CreditCardHandler {
	return &CreditCardHandler{
		cards:   cards,
		history: history,
		logger:  logger,
	}
}

func (h *CreditCardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.CreateTransaction).Methods("POST")
	router.HandleFunc("/{cardId}", h.ListTransactions).Methods("GET")
}

func (h *CreditCardHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req model.CreditCardTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadPayload(w, h.logger, err)
		return
	}

	receipt, err := h.cards.CreateCreditCardTransaction(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

func (h *CreditCardHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.history.ByCard(r.Context(), mux.Vars(r)["cardId"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}
