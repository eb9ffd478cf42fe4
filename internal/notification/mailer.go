package notification

import (
	"gopkg.in/gomail.v2"

	"github.com/mfirmanda/helpdesk-management/internal"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(to, subject, body string) error
}

// GomailSender sends mail over SMTP.
type GomailSender struct {
	dialer   *gomail.Dialer
	fromAddr string
	fromName string
}

func NewGomailSender(cfg internal.SMTPConfig) *GomailSender {
	return &GomailSender{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		fromAddr: cfg.FromAddress,
		fromName: cfg.FromName,
	}
}

func (s *GomailSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.fromAddr, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.dialer.DialAndSend(m)
}
