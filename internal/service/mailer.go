package service

import (
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/provider-registration/internal/config"
)

// Mailer dispatches verification emails. Implementations must be safe for
// concurrent use; callers treat dispatch as fire-and-forget.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, toEmail, fullName, token string) error
}

// SMTPMailer delivers verification emails over plain SMTP.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer builds a mailer from SMTP settings.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendVerificationEmail sends the account verification message.
func (m *SMTPMailer) SendVerificationEmail(_ context.Context, toEmail, fullName, token string) error {
	verifyURL := fmt.Sprintf("%s?token=%s", m.cfg.VerificationURL, url.QueryEscape(token))

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", toEmail)
	msg.WriteString("Subject: Verify your provider account\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "Hello %s,\r\n\r\n", fullName)
	msg.WriteString("Thank you for registering as a healthcare provider.\r\n")
	msg.WriteString("To activate your account, verify your email address by opening this link:\r\n\r\n")
	fmt.Fprintf(&msg, "%s\r\n\r\n", verifyURL)
	msg.WriteString("This verification link expires in 24 hours.\r\n")
	msg.WriteString("If you did not create this account, please ignore this email.\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	return smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{toEmail}, []byte(msg.String()))
}

// LogMailer records the would-be email instead of sending it. Used when no
// SMTP host is configured (local development, tests).
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer builds the logging stand-in.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendVerificationEmail logs the dispatch. The token itself is not logged.
func (m *LogMailer) SendVerificationEmail(_ context.Context, toEmail, fullName, _ string) error {
	m.logger.Info("verification email suppressed (no SMTP host configured)",
		zap.String("to", toEmail),
		zap.String("name", fullName),
	)
	return nil
}
