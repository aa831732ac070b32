package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// EmailNotifier forwards subscriber events via SMTP email.
type EmailNotifier struct {
	to       string
	from     string
	subject  string
	smtpHost string
	smtpPort string
	username string
	password string
}

// NewEmailNotifier creates a new email notifier.
// SMTP configuration is read from environment variables:
//   - SMTP_HOST: SMTP server hostname
//   - SMTP_PORT: SMTP server port (default: 587)
//   - SMTP_USER: SMTP authentication username
//   - SMTP_PASS: SMTP authentication password
//   - SMTP_FROM: Sender email address
func NewEmailNotifier(to, subject string) (*EmailNotifier, error) {
	if to == "" {
		return nil, fmt.Errorf("email recipient (to) is required")
	}

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST environment variable not set")
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587" // Default to TLS port
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		return nil, fmt.Errorf("SMTP_FROM environment variable not set")
	}

	if subject == "" {
		subject = "New subscriber on your page"
	}

	return &EmailNotifier{
		to:       to,
		from:     from,
		subject:  subject,
		smtpHost: host,
		smtpPort: port,
		username: os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASS"),
	}, nil
}

// NewEmailNotifierWithConfig creates an email notifier with explicit configuration.
// This is primarily useful for testing.
func NewEmailNotifierWithConfig(to, from, subject, smtpHost, smtpPort, username, password string) (*EmailNotifier, error) {
	if to == "" {
		return nil, fmt.Errorf("email recipient (to) is required")
	}
	if from == "" {
		return nil, fmt.Errorf("sender email (from) is required")
	}
	if smtpHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if smtpPort == "" {
		smtpPort = "587"
	}
	if subject == "" {
		subject = "New subscriber on your page"
	}

	return &EmailNotifier{
		to:       to,
		from:     from,
		subject:  subject,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		username: username,
		password: password,
	}, nil
}

// Name returns "email".
func (e *EmailNotifier) Name() string {
	return "email"
}

// Send delivers an email describing the captured subscriber.
func (e *EmailNotifier) Send(ctx context.Context, ev Event) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", e.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", e.to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", e.subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(ev.Message())
	if !ev.When.IsZero() {
		msg.WriteString(fmt.Sprintf("\r\n\r\nCaptured at %s", ev.When.Format("2006-01-02 15:04:05 MST")))
	}

	addr := e.smtpHost + ":" + e.smtpPort

	var auth smtp.Auth
	if e.username != "" && e.password != "" {
		auth = smtp.PlainAuth("", e.username, e.password, e.smtpHost)
	}

	// smtp.SendMail has no context support, so run it in a goroutine and
	// race it against ctx.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, e.from, []string{e.to}, []byte(msg.String()))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close is a no-op for email notifiers.
func (e *EmailNotifier) Close() error {
	return nil
}
