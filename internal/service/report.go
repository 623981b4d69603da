package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

// ReportMailer delivers settlement reports.
type ReportMailer interface {
	SendSettlementReport(to string, report *model.SettlementReport) error
}

// ReportService is the read side of the transaction log.
type ReportService struct {
	transactions TransactionLog
	mailer       ReportMailer
	recipient    string
	logger       *logrus.Logger
	now          func() time.Time
}

func NewReportService(transactions TransactionLog, mailer ReportMailer, recipient string, logger *logrus.Logger) *ReportService {
	return &ReportService{
		transactions: transactions,
		mailer:       mailer,
		recipient:    recipient,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock replaces the clock that decides which day the daily report covers.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

func (s *ReportService) ByAccount(ctx context.Context, accountNumber string) ([]model.Transaction, error) {
	s.logger.WithField("account", accountNumber).Debug("Listing account transactions")
	return s.transactions.FindByAccount(ctx, accountNumber)
}

func (s *ReportService) ByCard(ctx context.Context, cardID string) ([]model.Transaction, error) {
	s.logger.WithField("card_id", cardID).Debug("Listing card transactions")
	return s.transactions.FindByCard(ctx, cardID)
}

func (s *ReportService) ByCredit(ctx context.Context, creditID string) ([]model.Transaction, error) {
	s.logger.WithField("credit_id", creditID).Debug("Listing credit transactions")
	return s.transactions.FindByCredit(ctx, creditID)
}

// ByPeriod returns the records dated from the start of startDate through the
// end of endDate.
func (s *ReportService) ByPeriod(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error) {
	start, end, err := dayRange(startDate, endDate)
	if err != nil {
		s.logger.WithError(err).Warn("Rejected transaction period")
		return nil, err
	}
	return s.transactions.FindByDateRange(ctx, start, end)
}

// CommissionReport sums the commission fees charged in the period per origin account.
func (s *ReportService) CommissionReport(ctx context.Context, startDate, endDate time.Time) (*model.CommissionReport, error) {
	transactions, err := s.ByPeriod(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	report := &model.CommissionReport{
		StartDate: startDate,
		EndDate:   endDate,
		Total:     decimal.Zero,
		ByAccount: make(map[string]decimal.Decimal),
	}
	for _, tx := range transactions {
		if tx.Kind != model.KindAccount || tx.Account.CommissionFee == nil {
			continue
		}
		fee := *tx.Account.CommissionFee
		account := tx.Account.OriginAccountNumber
		report.ByAccount[account] = report.ByAccount[account].Add(fee)
		report.Total = report.Total.Add(fee)
	}

	s.logger.WithFields(logrus.Fields{
		"accounts": len(report.ByAccount),
		"total":    report.Total.String(),
	}).Info("Commission report calculated")
	return report, nil
}

// Summarize aggregates count and amount per transaction kind over the period.
func (s *ReportService) Summarize(ctx context.Context, startDate, endDate time.Time) (*model.SettlementReport, error) {
	transactions, err := s.ByPeriod(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	report := &model.SettlementReport{
		StartDate: startDate,
		EndDate:   endDate,
		Count:     len(transactions),
		ByKind:    make(map[model.TransactionKind]model.KindSummary),
	}
	for _, tx := range transactions {
		summary := report.ByKind[tx.Kind]
		summary.Count++
		summary.Total = summary.Total.Add(tx.Amount)
		report.ByKind[tx.Kind] = summary
	}
	return report, nil
}

// SendDailyReport summarizes yesterday and mails it to the configured recipient.
func (s *ReportService) SendDailyReport(ctx context.Context) error {
	yesterday := s.now().AddDate(0, 0, -1)

	report, err := s.Summarize(ctx, yesterday, yesterday)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build daily settlement report")
		return fmt.Errorf("failed to build daily report: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"date":  yesterday.Format("2006-01-02"),
		"count": report.Count,
	}).Info("Daily settlement report built")

	if s.recipient == "" {
		s.logger.Warn("No report recipient configured, daily report not sent")
		return nil
	}
	return s.mailer.SendSettlementReport(s.recipient, report)
}

func dayRange(startDate, endDate time.Time) (time.Time, time.Time, error) {
	start := truncateDay(startDate)
	end := truncateDay(endDate)
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start date %s is after end date %s",
			model.ErrInvalidRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return start, end.AddDate(0, 0, 1), nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
