package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"codelens/internal/logger"
)

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	cfg  SMTPConfig
	send sendFunc
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	if strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("invalid recipient address")
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := buildResetMessage(m.cfg.From, to, link)
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	logger.FromContext(ctx).Info("password reset email sent", "to", to)
	return nil
}

func buildResetMessage(from, to, link string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Reset your password\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString("Someone asked to reset the password of your codelens account.\r\n")
	b.WriteString("Follow this link to choose a new one:\r\n\r\n")
	b.WriteString(link + "\r\n\r\n")
	b.WriteString("If this wasn't you, ignore this email.\r\n")
	return []byte(b.String())
}

// LogMailer writes reset links to the log; used when no SMTP host is set.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	logger.FromContext(ctx).Warn("SMTP not configured, logging password reset link", "to", to, "link", link)
	return nil
}
