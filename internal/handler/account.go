package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

// AccountTransactionCreator runs deposits, withdrawals and transfers.
type AccountTransactionCreator interface {
	CreateAccountTransaction(ctx context.Context, req model.AccountTransactionRequest) (*model.Receipt, error)
}

// AccountHandler serves account transactions
type AccountHandler struct {
	accounts AccountTransactionCreator
	history  TransactionHistory
	logger   *logrus.Logger
}

func NewAccountHandler(accounts AccountTransactionCreator, history TransactionHistory, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		history:  history,
		logger:   logger,
	}
}

func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.CreateTransaction).Methods("POST")
	router.HandleFunc("/{accountNumber}", h.ListTransactions).Methods("GET")
}

func (h *AccountHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req model.AccountTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadPayload(w, h.logger, err)
		return
	}

	receipt, err := h.accounts.CreateAccountTransaction(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

// ListTransactions returns every record touching the account, as origin,
// destination or debit-card funding account.
func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountNumber := mux.Vars(r)["accountNumber"]

	transactions, err := h.history.ByAccount(r.Context(), accountNumber)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}
