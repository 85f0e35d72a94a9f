package service

import (
	"context"
	"fmt"
	"log"

	"carrental/internal/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridSender(cfg config.MailConfig) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *SendGridSender) SendEmail(ctx context.Context, toAddress, toName, subject, plainText, html string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toAddress)
	message := mail.NewSingleEmail(from, subject, to, plainText, html)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email through SendGrid: %w", err)
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		log.Printf("Email sent to %s (Subject: %s). Status: %d", toAddress, subject, response.StatusCode)
		return nil
	}
	return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
}

// NewEmailSender picks SendGrid when an API key is configured, then SMTP.
// It returns nil when neither is configured.
func NewEmailSender(cfg config.MailConfig) EmailSender {
	switch {
	case cfg.SendGridAPIKey != "":
		return NewSendGridSender(cfg)
	case cfg.SMTPHost != "":
		return NewSMTPSender(cfg)
	}
	log.Println("Warning: neither SENDGRID_API_KEY nor SMTP_HOST is set. Emails will not be sent.")
	return nil
}

// NewSMSSender returns nil unless every Twilio credential is set.
func NewSMSSender(cfg config.TwilioConfig) SMSSender {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		log.Println("Warning: Twilio credentials are not fully configured. SMS will not be sent.")
		return nil
	}
	return NewTwilioSender(cfg)
}
