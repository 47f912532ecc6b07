package utils

import (
	"gopkg.in/gomail.v2"
)

// Mailer sends plain text mail through one SMTP account.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, user, password, from string) *Mailer {
	return &Mailer{dialer: gomail.NewDialer(host, port, user, password), from: from}
}

func (m *Mailer) Send(to []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}
