package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

type CreditPaymentCreator interface {
	CreateCreditPaymentTransaction(ctx context.Context, req model.CreditPaymentRequest) (*model.Receipt, error)
}

type CreditHandler struct {
	credits CreditPaymentCreator
	history TransactionHistory
	logger  *logrus.Logger
}

func NewCreditHandler(credits CreditPaymentCreator, history TransactionHistory, logger *logrus.Logger) *CreditHandler {
	return &CreditHandler{
		credits: credits,
		history: history,
		logger:  logger,
	}
}

func (h *CreditHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.MakePayment).Methods("POST")
	router.HandleFunc("/{creditId}", h.ListTransactions).Methods("GET")
}

// MakePayment pays one installment of a credit
func (h *CreditHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	var req model.CreditPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadPayload(w, h.logger, err)
		return
	}

	receipt, err := h.credits.CreateCreditPaymentTransaction(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

func (h *CreditHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.history.ByCredit(r.Context(), mux.Vars(r)["creditId"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}
