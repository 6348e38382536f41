// Package dispatch emails the rendered newsletter to the recipient list.
package dispatch

import (
	"fmt"
	"mime"
	"net/smtp"
	"os"
	"strings"
	"time"

	"sprachbrief/internal/config"
	"sprachbrief/internal/logger"
	"sprachbrief/internal/metrics"
)

const subjectTemplate = "📰 Votre newsletter quotidienne - %s"

// SendError records one failed recipient.
type SendError struct {
	Recipient string
	Err       error
}

// Result reports per-recipient outcomes of one dispatch.
type Result struct {
	Sent   int
	Failed int
	Errors []SendError
}

// Mailer sends the newsletter over SMTP, one attempt per recipient. A failed
// recipient does not stop the others.
type Mailer struct {
	host     string
	port     int
	from     string
	fromName string
	password string
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		from:     cfg.From,
		fromName: cfg.FromName,
		// Gmail displays app passwords with spaces; strip them.
		password: strings.ReplaceAll(cfg.Password, " ", ""),
	}
}

// Send loads the rendered document and mails it to every recipient.
func (m *Mailer) Send(htmlPath string, recipients []string, date time.Time) (Result, error) {
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		return Result{}, fmt.Errorf("read newsletter %s: %w", htmlPath, err)
	}

	subject := fmt.Sprintf(subjectTemplate, date.Format("02/01/2006"))
	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var res Result
	for _, recipient := range recipients {
		msg := m.buildMessage(recipient, subject, string(html))
		if err := smtp.SendMail(addr, auth, m.from, []string{recipient}, msg); err != nil {
			logger.Warn("send failed", "recipient", recipient, "error", err)
			res.Failed++
			res.Errors = append(res.Errors, SendError{Recipient: recipient, Err: err})
			continue
		}
		logger.Info("newsletter sent", "recipient", recipient)
		res.Sent++
	}

	metrics.Global.AddEmailsSent(res.Sent)
	metrics.Global.AddEmailsFailed(res.Failed)
	return res, nil
}

func (m *Mailer) buildMessage(recipient, subject, html string) []byte {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s <%s>\r\n", mime.BEncoding.Encode("utf-8", m.fromName), m.from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.BEncoding.Encode("utf-8", subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}
