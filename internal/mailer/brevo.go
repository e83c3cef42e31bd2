package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/suydacity/syuda/internal/apperror"
	"github.com/suydacity/syuda/internal/config"
)

// brevoEndpoint is the Brevo transactional email API.
const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoSender implements Sender against the Brevo HTTP API.
type BrevoSender struct {
	apiKey        string
	senderName    string
	senderAddress string
	endpoint      string
	client        *http.Client
}

// NewBrevoSender creates a Brevo-backed sender from mail config.
func NewBrevoSender(cfg config.MailConfig) *BrevoSender {
	return &BrevoSender{
		apiKey:        cfg.APIKey,
		senderName:    cfg.SenderName,
		senderAddress: cfg.SenderAddress,
		endpoint:      brevoEndpoint,
		client:        &http.Client{Timeout: 15 * time.Second},
	}
}

// IsConfigured reports whether an API key is present.
func (s *BrevoSender) IsConfigured() bool {
	return s.apiKey != ""
}

// brevoRequest is the request body for the Brevo send endpoint.
type brevoRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

// brevoAddress identifies a sender or recipient.
type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// brevoError is the error body Brevo returns on a rejected send.
type brevoError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Send posts one HTML email to the Brevo API. A missing API key is a
// configuration error; a rejected send propagates Brevo's message.
func (s *BrevoSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !s.IsConfigured() {
		return apperror.NewConfiguration("Missing BREVO_API_KEY env var")
	}

	payload, err := json.Marshal(brevoRequest{
		Sender:      brevoAddress{Name: s.senderName, Email: s.senderAddress},
		To:          []brevoAddress{{Email: to}},
		Subject:     subject,
		HTMLContent: htmlBody,
	})
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("marshaling brevo request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("building brevo request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return apperror.NewDelivery("Failed to send email", fmt.Errorf("calling brevo: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		slog.Info("email sent",
			slog.String("to", to),
			slog.String("subject", subject),
		)
		return nil
	}

	// Surface the provider's message so the client can show it.
	var brevoErr brevoError
	message := "Failed to send email via Brevo"
	if err := json.NewDecoder(resp.Body).Decode(&brevoErr); err == nil && brevoErr.Message != "" {
		message = brevoErr.Message
	}

	slog.Error("brevo rejected send",
		slog.Int("status", resp.StatusCode),
		slog.String("code", brevoErr.Code),
		slog.String("message", brevoErr.Message),
	)

	return apperror.NewDelivery(message, fmt.Errorf("brevo status %d", resp.StatusCode))
}
