// Package mail sends the transactional verification email over SMTP.
package mail

import (
	"bytes"
	"html/template"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

const verificationSubject = "Verifica tu correo electrónico"

var verificationBody = template.Must(template.New("verification").Parse(
	`Por favor, verifica tu correo electrónico haciendo clic <a href="{{.URL}}">aquí</a>.`,
))

// SMTPMailer sends mail through a pooled gomail dialer.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendVerification emails the verification link to a single recipient.
func (m *SMTPMailer) SendVerification(to, verificationURL string) error {
	var body bytes.Buffer
	if err := verificationBody.Execute(&body, struct{ URL string }{URL: verificationURL}); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", verificationSubject)
	msg.SetBody("text/html", body.String())

	return m.dialer.DialAndSend(msg)
}
