// Package mail delivers account emails, either over SMTP or to the log when
// no SMTP account is configured.
package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"

	"github.com/crud-app/records-api/internal/core/ports"
)

// Config carries SMTP settings. An empty User selects the console mailer.
type Config struct {
	Host   string
	Port   int
	User   string
	Pass   string
	Secure bool
	From   string
}

// New returns the SMTP mailer when credentials are present, else the console mailer.
func New(cfg Config, log zerolog.Logger) (ports.Mailer, error) {
	if cfg.User == "" {
		log.Warn().Msg("SMTP_USER not set, account emails will be written to the log")
		return NewConsoleMailer(log), nil
	}
	return NewSMTPMailer(cfg, log)
}

type message struct {
	Subject string
	HTML    string
	Text    string
}

var verificationTmpl = template.Must(template.New("verification").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #667eea;">{{.Title}}</h2>
  <p>Hello <strong>{{.Name}}</strong>,</p>
  <p>{{.Intro}}</p>
  <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; text-align: center; border-radius: 10px; margin: 20px 0;">
    <h1 style="margin: 0; font-size: 2.5rem; letter-spacing: 5px;">{{.OTP}}</h1>
  </div>
  <p><strong>This code will expire in {{.ValidFor}}.</strong></p>
  <p>If you didn't create an account with us, please ignore this email.</p>
  <p>Best regards,<br>CRUD App Team</p>
</div>`))

var resetTmpl = template.Must(template.New("reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #667eea;">Password Reset Request</h2>
  <p>Hello <strong>{{.Name}}</strong>,</p>
  <p>You requested a password reset for your CRUD App account.</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.URL}}" style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
  </div>
  <p><strong>This link will expire in {{.ValidFor}}.</strong></p>
  <p>If you didn't request this password reset, please ignore this email.</p>
  <p>Best regards,<br>CRUD App Team</p>
</div>`))

func verificationMessage(name, otp string, validFor time.Duration) (message, error) {
	data := struct {
		Title, Intro, Name, OTP, ValidFor string
	}{
		Title:    "Email Verification",
		Intro:    "Thank you for registering with our CRUD App. To complete your registration, please use the verification code below:",
		Name:     name,
		OTP:      otp,
		ValidFor: humanDuration(validFor),
	}
	var buf bytes.Buffer
	if err := verificationTmpl.Execute(&buf, data); err != nil {
		return message{}, fmt.Errorf("render verification email: %w", err)
	}
	return message{
		Subject: "Email Verification - CRUD App",
		HTML:    buf.String(),
		Text: fmt.Sprintf("Hello %s,\n\nYour verification code is %s.\nThis code will expire in %s.\n\nCRUD App Team\n",
			name, otp, data.ValidFor),
	}, nil
}

func resetMessage(name, resetURL string, validFor time.Duration) (message, error) {
	data := struct {
		Name, URL, ValidFor string
	}{Name: name, URL: resetURL, ValidFor: humanDuration(validFor)}
	var buf bytes.Buffer
	if err := resetTmpl.Execute(&buf, data); err != nil {
		return message{}, fmt.Errorf("render reset email: %w", err)
	}
	return message{
		Subject: "Password Reset Request - CRUD App",
		HTML:    buf.String(),
		Text: fmt.Sprintf("Hello %s,\n\nReset your password here: %s\nThis link will expire in %s.\n\nCRUD App Team\n",
			name, resetURL, data.ValidFor),
	}, nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	default:
		return d.String()
	}
}
