package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/suydacity/syuda/internal/apperror"
	"github.com/suydacity/syuda/internal/config"
)

func newTestSender(apiKey, endpoint string) *BrevoSender {
	s := NewBrevoSender(config.MailConfig{
		APIKey:        apiKey,
		SenderName:    "SYUDA",
		SenderAddress: "noreply@syuda.app",
	})
	if endpoint != "" {
		s.endpoint = endpoint
	}
	return s
}

func TestBrevoSender_Send(t *testing.T) {
	var got brevoRequest
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sender := newTestSender("key-123", srv.URL)
	err := sender.Send(context.Background(), "alice@example.com", "Вход в SYUDA", "<p>hi</p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "key-123" {
		t.Errorf("expected api-key header, got %q", gotKey)
	}
	if len(got.To) != 1 || got.To[0].Email != "alice@example.com" {
		t.Errorf("unexpected recipients: %+v", got.To)
	}
	if got.Sender.Email != "noreply@syuda.app" || got.Sender.Name != "SYUDA" {
		t.Errorf("unexpected sender: %+v", got.Sender)
	}
	if got.Subject != "Вход в SYUDA" {
		t.Errorf("unexpected subject: %q", got.Subject)
	}
	if got.HTMLContent != "<p>hi</p>" {
		t.Errorf("unexpected body: %q", got.HTMLContent)
	}
}

func TestBrevoSender_RejectionPassesProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(brevoError{Code: "invalid_parameter", Message: "Invalid email address"})
	}))
	defer srv.Close()

	sender := newTestSender("key-123", srv.URL)
	err := sender.Send(context.Background(), "broken", "subject", "body")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T", err)
	}
	if appErr.Message != "Invalid email address" {
		t.Errorf("expected provider message passed through, got %q", appErr.Message)
	}
}

func TestBrevoSender_Unconfigured(t *testing.T) {
	sender := newTestSender("", "")
	if sender.IsConfigured() {
		t.Error("expected IsConfigured false without a key")
	}

	err := sender.Send(context.Background(), "a@b.c", "s", "b")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T", err)
	}
	if appErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", appErr.Code)
	}
}
