package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"boproperties/internal/config"
	"boproperties/internal/metrics"
)

const postmarkAPIURL = "https://api.postmarkapp.com/email"

// Email is a single outbound transactional message
type Email struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer sends one transactional email per call. Route handlers depend on
// this interface so tests can substitute a fake provider.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// EmailService sends transactional email through the Postmark API
type EmailService struct {
	cfg        *config.EmailConfig
	apiURL     string
	httpClient *http.Client
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{
		cfg:        cfg,
		apiURL:     postmarkAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewEmailServiceWithURL creates an email service against an explicit API
// endpoint. Used by tests.
func NewEmailServiceWithURL(cfg *config.EmailConfig, apiURL string) *EmailService {
	svc := NewEmailService(cfg)
	svc.apiURL = apiURL
	return svc
}

// IsEnabled returns whether email sending is enabled
func (s *EmailService) IsEnabled() bool {
	return s.cfg.Enabled
}

// postmarkRequest is the provider's send-email request body
type postmarkRequest struct {
	From          string `json:"From"`
	To            string `json:"To"`
	Subject       string `json:"Subject"`
	HTMLBody      string `json:"HtmlBody,omitempty"`
	TextBody      string `json:"TextBody,omitempty"`
	MessageStream string `json:"MessageStream,omitempty"`
}

// postmarkError is the provider's error response body
type postmarkError struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

// Send sends one email through the provider. In development mode (email
// disabled) the message is logged instead of sent.
func (s *EmailService) Send(ctx context.Context, email Email) error {
	if !s.cfg.Enabled {
		log.Printf("[EMAIL] Would send to %s: %s", email.To, email.Subject)
		return nil
	}

	if s.cfg.ServerToken == "" {
		return fmt.Errorf("email service not properly configured")
	}

	from := s.cfg.FromEmail
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}

	payload := postmarkRequest{
		From:          from,
		To:            email.To,
		Subject:       email.Subject,
		HTMLBody:      email.HTMLBody,
		TextBody:      email.TextBody,
		MessageStream: s.cfg.MessageStream,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", s.cfg.ServerToken)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	metrics.RecordProviderRequest("postmark", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var provErr postmarkError
		_ = json.NewDecoder(resp.Body).Decode(&provErr)
		return fmt.Errorf("email provider error (status %d, code %d): %s", resp.StatusCode, provErr.ErrorCode, provErr.Message)
	}

	return nil
}

// joinRecipients builds a provider-style comma-separated recipient list
func joinRecipients(recipients []string) string {
	return strings.Join(recipients, ", ")
}
