package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

type StatementBuilder interface {
	CustomerStatement(ctx context.Context, customerID string) (*model.CustomerStatement, error)
}

type CustomerHandler struct {
	statements StatementBuilder
	logger     *logrus.Logger
}

func NewCustomerHandler(statements StatementBuilder, logger *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{
		statements: statements,
		logger:     logger,
	}
}

func (h *CustomerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/{customerId}/statement", h.GetStatement).Methods("GET")
}

// GetStatement returns the customer's products and their transactions
func (h *CustomerHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	statement, err := h.statements.CustomerStatement(r.Context(), mux.Vars(r)["customerId"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, statement)
}
