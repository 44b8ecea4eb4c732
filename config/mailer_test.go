package config

import (
	"testing"
)

func TestMailEnabledReadsEnvAtCallTime(t *testing.T) {
	// Settings must be picked up per call: main loads .env after this
	// package is initialized.
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_FROM", "")
	if MailEnabled() {
		t.Fatal("MailEnabled() = true without SMTP settings")
	}

	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "Arsip DLH <no-reply@example.com>")
	if !MailEnabled() {
		t.Fatal("MailEnabled() = false after setting SMTP_HOST and SMTP_FROM")
	}
}

func TestSendMailWithoutRecipientsIsNoOp(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_FROM", "")
	if err := SendMail(nil, "subject", "<p>body</p>"); err != nil {
		t.Fatalf("SendMail with no recipients returned error: %v", err)
	}
}

func TestSendMailRequiresConfiguration(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_FROM", "")
	if err := SendMail([]string{"user@example.com"}, "subject", "<p>body</p>"); err == nil {
		t.Fatal("SendMail without SMTP settings returned nil error")
	}
}
