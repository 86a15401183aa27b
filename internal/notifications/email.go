package notifications

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/matheusmosca/orders-api/internal/config"
)

// EmailChannel delivers notifications over SMTP with STARTTLS.
type EmailChannel struct {
	cfg config.Config
}

func NewEmailChannel(cfg config.Config) *EmailChannel {
	return &EmailChannel{cfg: cfg}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Send(ctx context.Context, recipient, subject, message string) error {
	if c.cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP host not configured")
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.SMTPHost, c.cfg.SMTPPort)
	auth := smtp.PlainAuth("", c.cfg.SMTPUser, c.cfg.SMTPPassword, c.cfg.SMTPHost)

	body := fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		c.cfg.EmailsFromName, c.cfg.EmailsFromEmail, recipient, subject, message,
	)

	if err := smtp.SendMail(addr, auth, c.cfg.EmailsFromEmail, []string{recipient}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
