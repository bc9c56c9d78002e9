// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer delivers confirmation codes out-of-band.

The confirmation secret is the sole proof of account ownership, so the
delivery channel sits behind a small port: SMTP in production, a debug-level
log sink in development. Production paths never log the secret in cleartext.
*/
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer is the outbound delivery port for confirmation codes.
type Mailer interface {
	// SendConfirmationCode delivers the freshly issued code to the user.
	SendConfirmationCode(ctx context.Context, toEmail, username, code string) error
}

// # Development Delivery

// LogMailer writes the code to the structured log at DEBUG level.
//
// It must only be wired in development environments; the code is a live
// credential and has no business in production log streams.
type LogMailer struct {
	Logger *slog.Logger
}

// SendConfirmationCode implements [Mailer] by logging the code.
func (m *LogMailer) SendConfirmationCode(ctx context.Context, toEmail, username, code string) error {
	m.Logger.DebugContext(ctx, "confirmation_code_issued",
		slog.String("email", toEmail),
		slog.String("username", username),
		slog.String("code", code),
	)
	return nil
}

// # SMTP Delivery

// SMTPMailer sends the confirmation code as a plain-text email.
type SMTPMailer struct {
	// Addr is the SMTP server address, host:port.
	Addr string
	// From is the sender address.
	From string
}

// SendConfirmationCode implements [Mailer] over SMTP.
func (m *SMTPMailer) SendConfirmationCode(ctx context.Context, toEmail, username, code string) error {
	body := strings.Join([]string{
		"From: " + m.From,
		"To: " + toEmail,
		"Subject: Your Revuo confirmation code",
		"",
		fmt.Sprintf("Hello %s,", username),
		"",
		"Your confirmation code is: " + code,
		"",
		"Exchange it for an access token at POST /api/v1/auth/token.",
	}, "\r\n")

	if err := smtp.SendMail(m.Addr, nil, m.From, []string{toEmail}, []byte(body)); err != nil {
		// The error may embed SMTP dialogue but never the code itself.
		return fmt.Errorf("mailer: smtp send failed: %w", err)
	}
	return nil
}
