package services

import (
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
)

// EmailSender delivers verification mail. The auth service depends on this
// interface so tests can capture outbound mail.
type EmailSender interface {
	SendVerificationEmail(email, verificationType, token, code string) error
}

type ResendEmailSender struct {
	client      *resend.Client
	from        string
	frontendURL string
}

func NewResendEmailSender(apiKey, from, frontendURL string) *ResendEmailSender {
	return &ResendEmailSender{
		client:      resend.NewClient(apiKey),
		from:        from,
		frontendURL: frontendURL,
	}
}

func (s *ResendEmailSender) SendVerificationEmail(email, verificationType, token, code string) error {
	var body strings.Builder
	body.WriteString("Welcome! Use one of the methods below to sign in:\n\n")

	if (verificationType == "magic_link" || verificationType == "both") && token != "" {
		fmt.Fprintf(&body, "Magic Link:\nClick here to sign in: %s/verify?token=%s\n\n", s.frontendURL, token)
	}
	if (verificationType == "token" || verificationType == "both") && code != "" {
		fmt.Fprintf(&body, "Verification Code:\nEnter this code: %s\n\n", code)
	}

	body.WriteString("This link/code will expire in 30 minutes.\n\n")
	body.WriteString("If you didn't request this, you can safely ignore this email.")

	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{email},
		Subject: "Sign in to Train Seat Survey",
		Text:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}
