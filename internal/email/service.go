package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/jwalitptl/portal-api/internal/model"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, booking *model.Booking) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(_ context.Context, booking *model.Booking) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", booking.Email)
	m.SetHeader("Subject", fmt.Sprintf("Your %s appointment is confirmed", booking.TreatmentName))
	m.SetBody("text/html", fmt.Sprintf(
		"<h3>Your appointment for %s is confirmed</h3>"+
			"<p>Date: %s<br>Time: %s</p>"+
			"<p>Please arrive 10 minutes early and bring your booking reference %s.</p>",
		booking.TreatmentName, booking.TreatmentDate, booking.Time, booking.ID,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}
