package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"boproperties/internal/config"
	"boproperties/internal/metrics"
)

// ErrMemberExists indicates the address is already on the mailing list.
// The subscribe route turns this into its distinguishable 400, which the
// client side treats as a success-equivalent outcome.
var ErrMemberExists = errors.New("member already subscribed")

// ProviderError carries a mailing list provider failure through to the route,
// which passes the status and detail text on to the client.
type ProviderError struct {
	StatusCode int
	Detail     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("mailing list provider error (status %d): %s", e.StatusCode, e.Detail)
}

// MailingList adds one address to the newsletter audience per call
type MailingList interface {
	Subscribe(ctx context.Context, email string) error
}

// MailingListService subscribes addresses through the Mailchimp API
type MailingListService struct {
	cfg        *config.MailingListConfig
	baseURL    string
	httpClient *http.Client
}

// NewMailingListService creates a new mailing list service
func NewMailingListService(cfg *config.MailingListConfig) *MailingListService {
	return &MailingListService{
		cfg:        cfg,
		baseURL:    fmt.Sprintf("https://%s.api.mailchimp.com/3.0", cfg.Datacenter),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewMailingListServiceWithURL creates a mailing list service against an
// explicit API endpoint. Used by tests.
func NewMailingListServiceWithURL(cfg *config.MailingListConfig, baseURL string) *MailingListService {
	svc := NewMailingListService(cfg)
	svc.baseURL = baseURL
	return svc
}

// memberRequest is the provider's member-creation request body
type memberRequest struct {
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

// memberError is the provider's problem response body. The title field is the
// documented machine-readable problem name; detail is free text.
type memberError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

// Subscribe adds the address to the configured audience
func (s *MailingListService) Subscribe(ctx context.Context, email string) error {
	payload := memberRequest{
		EmailAddress: email,
		Status:       "subscribed",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal member request: %w", err)
	}

	url := fmt.Sprintf("%s/lists/%s/members", s.baseURL, s.cfg.AudienceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create member request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "apikey "+s.cfg.APIKey)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	metrics.RecordProviderRequest("mailchimp", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to send member request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var provErr memberError
	_ = json.NewDecoder(resp.Body).Decode(&provErr)

	if provErr.Title == "Member Exists" {
		return ErrMemberExists
	}

	detail := provErr.Detail
	if detail == "" {
		detail = "Failed to subscribe"
	}
	log.Printf("[MAILCHIMP] Subscribe failed: status=%d title=%q detail=%q", resp.StatusCode, provErr.Title, provErr.Detail)
	return &ProviderError{StatusCode: resp.StatusCode, Detail: detail}
}
