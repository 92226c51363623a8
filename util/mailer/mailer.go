// util/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer is the outbound mail collaborator. The reminder sweep is its only
// caller.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type SMTP struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTP(host string, port int, username, password, from string) *SMTP {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTP{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

func (s *SMTP) Send(_ context.Context, m Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(m.Body)
	return smtp.SendMail(s.addr, s.auth, s.from, []string{m.To}, []byte(b.String()))
}

// Log writes messages to the log instead of sending them. Used when no SMTP
// host is configured (dev setups).
type Log struct {
	L *slog.Logger
}

func (l *Log) Send(_ context.Context, m Message) error {
	l.L.Info("mail (log backend)", "to", m.To, "subject", m.Subject, "body", m.Body)
	return nil
}
