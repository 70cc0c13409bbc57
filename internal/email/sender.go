// Package email delivers outbound mail over SMTP.
package email

import (
	"context"

	"leadconvert/platform/config"
	"leadconvert/platform/logger"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NewSender returns the SMTP sender, or a log-only sender when email is
// disabled so development environments work without an SMTP server.
func NewSender(cfg config.SMTPConfig, log *logger.Logger) Sender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		log.Warn("email sending disabled; messages will only be logged")
		return &logSender{log: log}
	}
	return NewSMTPSender(cfg)
}

type logSender struct {
	log *logger.Logger
}

func (s *logSender) Send(_ context.Context, toEmail, subject, _ string) error {
	s.log.Info("email suppressed (sending disabled)", "to", toEmail, "subject", subject)
	return nil
}
