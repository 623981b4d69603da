package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

type ReportBuilder interface {
	CommissionReport(ctx context.Context, startDate, endDate time.Time) (*model.CommissionReport, error)
	Summarize(ctx context.Context, startDate, endDate time.Time) (*model.SettlementReport, error)
}

type ReportHandler struct {
	reports ReportBuilder
	logger  *logrus.Logger
}

func NewReportHandler(reports ReportBuilder, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/commissions", h.GetCommissions).Methods("GET")
	router.HandleFunc("/settlement", h.GetSettlement).Methods("GET")
}

// GetCommissions returns the fees charged per origin account in the period
func (h *ReportHandler) GetCommissions(w http.ResponseWriter, r *http.Request) {
	startDate, endDate, err := parseDateRange(r, time.Now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	report, err := h.reports.CommissionReport(r.Context(), startDate, endDate)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GetSettlement returns count and total amount per transaction kind in the period
func (h *ReportHandler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	startDate, endDate, err := parseDateRange(r, time.Now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	report, err := h.reports.Summarize(r.Context(), startDate, endDate)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
