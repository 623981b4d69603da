package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

const dateLayout = "2006-01-02"

// TransactionHistory is the read side of the transaction log.
type TransactionHistory interface {
	ByAccount(ctx context.Context, accountNumber string) ([]model.Transaction, error)
	ByCard(ctx context.Context, cardID string) ([]model.Transaction, error)
	ByCredit(ctx context.Context, creditID string) ([]model.Transaction, error)
	ByPeriod(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error)
}

type TransactionHandler struct {
	history TransactionHistory
	logger  *logrus.Logger
}

func NewTransactionHandler(history TransactionHistory, logger *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{
		history: history,
		logger:  logger,
	}
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.ListByPeriod).Methods("GET")
}

// ListByPeriod returns the records dated between start and end, both days included.
func (h *TransactionHandler) ListByPeriod(w http.ResponseWriter, r *http.Request) {
	startDate, endDate, err := parseDateRange(r, time.Now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"start_date": startDate.Format(dateLayout),
		"end_date":   endDate.Format(dateLayout),
	}).Debug("Listing transactions by period")

	transactions, err := h.history.ByPeriod(r.Context(), startDate, endDate)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}

// parseDateRange reads start and end (YYYY-MM-DD), defaulting to the last month.
// Ordering is checked by the report service.
func parseDateRange(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	startDate := now.AddDate(0, -1, 0)
	endDate := now

	if startParam := r.URL.Query().Get("start"); startParam != "" {
		t, err := time.Parse(dateLayout, startParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start %q, use YYYY-MM-DD", model.ErrInvalidRange, startParam)
		}
		startDate = t
	}

	if endParam := r.URL.Query().Get("end"); endParam != "" {
		t, err := time.Parse(dateLayout, endParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end %q, use YYYY-MM-DD", model.ErrInvalidRange, endParam)
		}
		endDate = t
	}

	return startDate, endDate, nil
}
