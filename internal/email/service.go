package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medhq/hospital-api/internal/config"
)

// Service sends the transactional mails the application needs. Sending
// is best-effort at every call site: failures are logged, never fatal.
type Service interface {
	SendVerification(ctx context.Context, to string, token string) error
	SendDoctorInvite(ctx context.Context, to string, name string, tempPassword string) error
}

type service struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

func NewService(cfg config.SMTPConfig) Service {
	return &service{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *service) SendVerification(ctx context.Context, to string, token string) error {
	body := fmt.Sprintf(
		"Welcome to %s.\n\nPlease confirm your email address by visiting:\n%s/auth/verify?token=%s\n",
		s.cfg.FromName, s.cfg.BaseURL, token,
	)
	return s.send(to, "Confirm your email address", body)
}

func (s *service) SendDoctorInvite(ctx context.Context, to string, name string, tempPassword string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nAn account has been created for you at %s.\nYour temporary password is: %s\n\nPlease sign in and change it.\n",
		name, s.cfg.FromName, tempPassword,
	)
	return s.send(to, "Your account details", body)
}

func (s *service) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.From, s.cfg.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
