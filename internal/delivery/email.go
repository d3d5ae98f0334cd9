package delivery

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/Backland-Labs/courier/internal/config"
	"github.com/Backland-Labs/courier/internal/logger"
)

const smtpTimeout = 30 * time.Second

// SMTPSender submits mail over SMTP with STARTTLS and PLAIN auth
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	startTLS bool
}

// NewSMTPSender creates an SMTPSender from email settings
func NewSMTPSender(settings config.EmailSettings) *SMTPSender {
	return &SMTPSender{
		host:     settings.SMTPHost,
		port:     settings.SMTPPort,
		username: settings.Username,
		password: settings.Password,
		from:     settings.From,
		startTLS: settings.StartTLS,
	}
}

// authError marks failures during the AUTH exchange
type authError struct {
	err error
}

func (e *authError) Error() string { return e.err.Error() }
func (e *authError) Unwrap() error { return e.err }

// smtpError marks failures after the SMTP session was established
type smtpError struct {
	err error
}

func (e *smtpError) Error() string { return e.err.Error() }
func (e *smtpError) Unwrap() error { return e.err }

// Send delivers one plain-text email to every recipient
func (s *SMTPSender) Send(ctx context.Context, recipients []string, subject, body string) Result {
	log := logger.WithFields(map[string]interface{}{
		"smtp_host":  s.host,
		"recipients": len(recipients),
	})

	err := s.send(ctx, recipients, subject, body)
	if err == nil {
		log.Info("Email sent")
		return Result{
			Success:    true,
			Message:    fmt.Sprintf("Email sent successfully to %d recipient(s)", len(recipients)),
			Recipients: append([]string{}, recipients...),
		}
	}

	var msg string
	var ae *authError
	var se *smtpError
	switch {
	case errors.As(err, &ae):
		msg = "SMTP authentication failed: " + ae.Error()
	case errors.As(err, &se):
		msg = "SMTP error: " + se.Error()
	default:
		msg = "Failed to send email: " + err.Error()
	}
	log.WithError(err).Warn("Email delivery failed")
	return Result{Success: false, Message: msg}
}

func (s *SMTPSender) send(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return errors.New("no recipients")
	}
	if s.host == "" {
		return errors.New("SMTP host is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, smtpTimeout)
	defer cancel()

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(s.host, strconv.Itoa(s.port)))
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return &smtpError{err}
	}
	defer client.Close()

	if err := client.Hello("localhost"); err != nil {
		return &smtpError{err}
	}

	if s.startTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return &smtpError{errors.New("server does not support STARTTLS")}
		}
		tlsConfig := &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsConfig); err != nil {
			return &smtpError{err}
		}
	}

	if s.username != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			return &authError{err}
		}
	}

	if err := client.Mail(s.from); err != nil {
		return &smtpError{err}
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return &smtpError{err}
		}
	}

	w, err := client.Data()
	if err != nil {
		return &smtpError{err}
	}
	if _, err := w.Write(buildMessage(s.from, recipients, subject, body)); err != nil {
		return &smtpError{err}
	}
	if err := w.Close(); err != nil {
		return &smtpError{err}
	}
	if err := client.Quit(); err != nil {
		return &smtpError{err}
	}
	return nil
}

func buildMessage(from string, recipients []string, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(recipients, ", ") + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
