package service

import (
	"crypto/tls"
	"fmt"
	"sort"
	"strings"

	"github.com/go-mail/mail/v2"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/config"
	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

type EmailSender struct {
	dialer  *mail.Dialer
	from    string
	logger  *logrus.Logger
	enabled bool
}

func NewEmailSender(cfg *config.Config, logger *logrus.Logger) *EmailSender {
	d := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.SMTPHost,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	return &EmailSender{
		dialer:  d,
		from:    cfg.SMTPUser,
		logger:  logger,
		enabled: cfg.EmailEnabled,
	}
}

func (es *EmailSender) SendSettlementReport(to string, report *model.SettlementReport) error {
	if !es.enabled {
		es.logger.Warn("Email sending is disabled")
		return nil
	}

	subject := fmt.Sprintf("Settlement report %s", report.StartDate.Format("2006-01-02"))
	return es.sendEmail(to, subject, renderSettlementReport(report))
}

func renderSettlementReport(report *model.SettlementReport) string {
	kinds := make([]string, 0, len(report.ByKind))
	for kind := range report.ByKind {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	var rows strings.Builder
	for _, kind := range kinds {
		summary := report.ByKind[model.TransactionKind(kind)]
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>%s</td></tr>", kind, summary.Count, summary.Total.StringFixed(2))
	}

	return fmt.Sprintf(`
		<h1>Settlement report</h1>
		<p>Period: <strong>%s</strong> to <strong>%s</strong></p>
		<p>Transactions: <strong>%d</strong></p>
		<table>
			<tr><th>Kind</th><th>Count</th><th>Total</th></tr>
			%s
		</table>
		<small>This is an automated message, please do not reply</small>
	`, report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02"), report.Count, rows.String())
}

func (es *EmailSender) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", es.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := es.dialer.DialAndSend(m); err != nil {
		es.logger.WithError(err).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	es.logger.Infof("Email sent to %s", to)
	return nil
}
