package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

// smtpConfig reads the SMTP settings at call time, after main has had the
// chance to load a .env file.
func smtpConfig() (host string, port int, user, pass, from string, skipTLSVerify bool) {
	host = os.Getenv("SMTP_HOST")
	port, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	user = os.Getenv("SMTP_USER")
	pass = os.Getenv("SMTP_PASS")
	from = os.Getenv("SMTP_FROM") // e.g. "Arsip DLH <no-reply@dlh.go.id>"
	skipTLSVerify = os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1"
	return
}

// MailEnabled reports whether outgoing mail is configured at all.
func MailEnabled() bool {
	host, _, _, _, from, _ := smtpConfig()
	return host != "" && from != ""
}

func SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	host, port, user, pass, from, skipTLSVerify := smtpConfig()
	if host == "" || from == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(host, port, user, pass)

	// Mandatory STARTTLS on 587; ServerName must match the SMTP hostname.
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: skipTLSVerify, // dev only
	}

	return d.DialAndSend(m)
}
