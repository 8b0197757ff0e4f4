package pkg

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether SMTP delivery is usable; the forum treats
// mail as strictly optional.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port != 0
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

// WelcomeHTML is the body of the post-registration greeting.
func WelcomeHTML(username, uid string) string {
	return fmt.Sprintf(`<p>Hi %s,</p><p>Welcome to the campus forum. Your forum ID is <b>%s</b>. You can log in with it, your username, or your email.</p>`, username, uid)
}
