package service

import (
	"fmt"
	"net/smtp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/dinewise/backend/config"
	"github.com/pageza/dinewise/backend/internal/logging"
	"github.com/pageza/dinewise/backend/internal/models"
)

type EmailService struct {
	cfg config.SMTPConfig
	// send is smtp.SendMail outside tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	logging.Info().
		Str("smtp_host", cfg.Host).
		Bool("enabled", cfg.Enabled()).
		Msg("email service initialized")
	return &EmailService{cfg: cfg, send: smtp.SendMail}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	// If SMTP is not configured, log the email instead
	if !s.cfg.Enabled() {
		logging.WithComponent("email").Info().
			Str("to", to).
			Str("subject", subject).
			Str("body", body).
			Msg("SMTP not configured, logging email")
		return nil
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: DineWise <%s>\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, s.cfg.From, subject, body))

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) SendWelcomeEmail(user *models.User) error {
	caser := cases.Title(language.English)
	name := caser.String(user.Username)
	subject := fmt.Sprintf("Welcome to DineWise, %s!", name)
	body := fmt.Sprintf("Hi %s,\n\n"+
		"Thanks for joining DineWise. Favorite a few restaurants you love and "+
		"we will suggest more places nearby that you are likely to enjoy.\n\n"+
		"Happy dining,\nThe DineWise Team", name)
	return s.SendEmail(user.Email, subject, body)
}
