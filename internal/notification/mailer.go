package notification

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Mailer sends a plain-text email.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// SMTPMailer sends through an SMTP relay with PLAIN auth when credentials
// are configured.
type SMTPMailer struct {
	addr     string
	host     string
	from     string
	username string
	password string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		host:     host,
		from:     from,
		username: username,
		password: password,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var a smtp.Auth
	if m.username != "" {
		a = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := smtp.SendMail(m.addr, a, m.from, to, composeMessage(m.from, to, subject, body)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.addr, err)
	}
	return nil
}

func composeMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct {
	log logrus.FieldLogger
}

func NewLogMailer(log logrus.FieldLogger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, to []string, subject, body string) error {
	m.log.WithFields(logrus.Fields{
		"to":      strings.Join(to, ","),
		"subject": subject,
	}).Info("[DEV-EMAIL] " + body)
	return nil
}
