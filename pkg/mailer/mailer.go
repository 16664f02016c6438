// Package mailer sends email over SMTP as multipart/alternative messages
// with an HTML body and a plain-text fallback.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds the SMTP server details.
type Config struct {
	Addr     string // host:port
	From     string
	Username string // optional; enables PLAIN auth together with Password
	Password string
}

// Mailer sends email through a single SMTP server.
type Mailer struct {
	cfg Config
}

// New creates a new Mailer.
func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers one message. The boolean mirrors the SMS client's contract:
// a non-nil error is a transport failure, and the boolean is simply whether
// the send went through.
func (m *Mailer) Send(subject, recipient, htmlBody, textBody string) (bool, error) {
	msg := m.buildMessage(subject, recipient, htmlBody, textBody)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		host := m.cfg.Addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, host)
	}

	if err := smtp.SendMail(m.cfg.Addr, auth, m.cfg.From, []string{recipient}, msg); err != nil {
		return false, fmt.Errorf("failed to send mail to %s: %w", recipient, err)
	}
	return true, nil
}

func (m *Mailer) buildMessage(subject, recipient, htmlBody, textBody string) []byte {
	const boundary = "duka-mail-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
