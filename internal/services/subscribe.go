package services

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"

	"boproperties/internal/config"
	"boproperties/internal/domain"
	"boproperties/internal/metrics"
)

var subscribeEmailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// SubscribeService handles newsletter signups
type SubscribeService struct {
	cfg  *config.MailingListConfig
	list MailingList
}

// NewSubscribeService creates a new subscribe service
func NewSubscribeService(cfg *config.MailingListConfig, list MailingList) *SubscribeService {
	return &SubscribeService{
		cfg:  cfg,
		list: list,
	}
}

// Submit handles POST /api/subscribe. Missing mailing list configuration
// short-circuits with a 500 before any provider call. An already-subscribed
// address returns the distinguishable 400 that the client side renders as a
// success-styled message; any other provider failure passes through its
// status code and detail text.
func (s *SubscribeService) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide a valid email address")
		return
	}

	if req.Email == "" || !subscribeEmailRegex.MatchString(req.Email) {
		writeError(w, http.StatusBadRequest, "Please provide a valid email address")
		return
	}

	if !s.cfg.IsConfigured() {
		log.Printf("[SUBSCRIBE] Submit failed: mailing list configuration is missing")
		writeError(w, http.StatusInternalServerError, "Mailchimp configuration is missing")
		return
	}

	log.Printf("[SUBSCRIBE] Submit request: email=%s", req.Email)

	if err := s.list.Subscribe(r.Context(), req.Email); err != nil {
		if errors.Is(err, ErrMemberExists) {
			log.Printf("[SUBSCRIBE] Already subscribed: email=%s", req.Email)
			metrics.RecordNewsletterSignup("already_subscribed")
			writeError(w, http.StatusBadRequest, "This email is already subscribed")
			return
		}

		var provErr *ProviderError
		if errors.As(err, &provErr) {
			metrics.RecordNewsletterSignup("failure")
			writeError(w, provErr.StatusCode, provErr.Detail)
			return
		}

		log.Printf("[SUBSCRIBE] Submit failed: provider error: %v", err)
		metrics.RecordNewsletterSignup("failure")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Printf("[SUBSCRIBE] Submit successful: email=%s", req.Email)
	metrics.RecordNewsletterSignup("subscribed")
	writeSuccess(w)
}
