package services

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/localloop/localloop-backend/internal/config"
)

// Mailer delivers magic-link sign-in emails over SMTP. Without an SMTP_HOST
// it logs the link instead, which is the local development mode.
type Mailer struct {
	cfg *config.Config
}

func NewMailer(cfg *config.Config) *Mailer {
	if cfg.SMTPHost == "" {
		slog.Warn("SMTP_HOST not set, sign-in links will be logged instead of emailed")
	}
	return &Mailer{cfg: cfg}
}

func (m *Mailer) SendMagicLink(to, link string, validFor time.Duration) error {
	if m.cfg.SMTPHost == "" {
		slog.Info("magic link issued", "email", to, "link", link)
		return nil
	}

	minutes := int(validFor.Minutes())
	body := strings.Join([]string{
		"From: " + m.cfg.SMTPFrom,
		"To: " + to,
		"Subject: Your LocalLoop sign-in link",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Tap the link below to sign in to LocalLoop:",
		"",
		link,
		"",
		fmt.Sprintf("The link is valid for %d minutes and can be used once.", minutes),
		"If you didn't request this, you can ignore this email.",
	}, "\r\n")

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, envelopeAddress(m.cfg.SMTPFrom), []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// envelopeAddress strips a display name, "Name <a@b>" becomes "a@b".
func envelopeAddress(from string) string {
	if start := strings.LastIndex(from, "<"); start != -1 {
		if end := strings.LastIndex(from, ">"); end > start {
			return from[start+1 : end]
		}
	}
	return from
}
