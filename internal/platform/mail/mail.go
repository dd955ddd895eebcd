// Copyright (c) 2026 Revuo. All rights reserved.

/*
Package mail delivers outbound notification email.

Delivery is strictly best-effort: the only mail Revuo sends is the
registration confirmation code, and a failed send must never fail the
registration itself. Callers log errors returned from Send and move on.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Sender is the outbound notification contract consumed by the auth service.
type Sender interface {
	// Send delivers a plain-text message. Errors are advisory; callers
	// treat delivery as best-effort.
	Send(ctx context.Context, recipient, subject, body string) error
}

// # SMTP Delivery

// SMTPSender sends mail through a single SMTP relay.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string

	// dialTimeout bounds the TCP connect; SMTP servers that hang are
	// treated as delivery failures, not request stalls.
	dialTimeout time.Duration
}

// NewSMTPSender constructs an [SMTPSender] for the given relay.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		from:        from,
		dialTimeout: 10 * time.Second,
	}
}

// Send implements [Sender] over SMTP with optional PLAIN authentication.
func (sender *SMTPSender) Send(ctx context.Context, recipient, subject, body string) error {
	addr := net.JoinHostPort(sender.host, fmt.Sprintf("%d", sender.port))

	message := sender.buildMessage(recipient, subject, body)

	// Honor any remaining request deadline, capped by the dial timeout.
	timeout := sender.dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, sender.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("mail: smtp handshake: %w", err)
	}
	defer client.Close()

	if sender.username != "" {
		auth := smtp.PlainAuth("", sender.username, sender.password, sender.host)
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return fmt.Errorf("mail: auth: %w", err)
			}
		}
	}

	if err := client.Mail(sender.from); err != nil {
		return fmt.Errorf("mail: MAIL FROM: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("mail: RCPT TO: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("mail: DATA: %w", err)
	}
	if _, err := writer.Write([]byte(message)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("mail: write body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("mail: finalize body: %w", err)
	}

	return client.Quit()
}

// buildMessage assembles a minimal RFC 5322 plain-text message.
func (sender *SMTPSender) buildMessage(recipient, subject, body string) string {
	var builder strings.Builder
	builder.WriteString("From: " + sender.from + "\r\n")
	builder.WriteString("To: " + recipient + "\r\n")
	builder.WriteString("Subject: " + subject + "\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(body)
	builder.WriteString("\r\n")
	return builder.String()
}

// # Development Fallback

// LogSender writes messages to the structured log instead of the network.
// Used in development when no SMTP relay is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs a [LogSender].
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements [Sender] by logging the message.
func (sender *LogSender) Send(ctx context.Context, recipient, subject, body string) error {
	sender.logger.InfoContext(ctx, "mail_logged_instead_of_sent",
		slog.String("recipient", recipient),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
