package services

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"

	"boproperties/internal/config"
	"boproperties/internal/domain"
	"boproperties/internal/metrics"
)

// ContactService handles general contact form submissions
type ContactService struct {
	cfg    *config.EmailConfig
	mailer Mailer
}

// NewContactService creates a new contact service
func NewContactService(cfg *config.EmailConfig, mailer Mailer) *ContactService {
	return &ContactService{
		cfg:    cfg,
		mailer: mailer,
	}
}

// Submit handles POST /api/contact. It re-checks required-field presence in
// case client validation was bypassed, forwards exactly one notification to
// the internal sales recipient, and never lets a provider error escape.
func (s *ContactService) Submit(w http.ResponseWriter, r *http.Request) {
	var inquiry domain.ContactInquiry
	if err := json.NewDecoder(r.Body).Decode(&inquiry); err != nil {
		log.Printf("[CONTACT] Submit failed: invalid body: %v", err)
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if !inquiry.HasRequiredFields() {
		log.Printf("[CONTACT] Submit failed: missing required fields")
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	log.Printf("[CONTACT] Submit request: name=%s, email=%s", strings.TrimSpace(inquiry.FullName), strings.TrimSpace(inquiry.Email))

	email := Email{
		To:       s.cfg.ContactRecipient,
		Subject:  fmt.Sprintf("New Contact Form Submission: %s", inquiry.Inquiry.Label()),
		HTMLBody: contactNotificationHTML(&inquiry),
		TextBody: contactNotificationText(&inquiry),
	}

	if err := s.mailer.Send(r.Context(), email); err != nil {
		log.Printf("[CONTACT] Submit failed: notification send error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Printf("[CONTACT] Submit successful: name=%s, email=%s", inquiry.FullName, inquiry.Email)
	metrics.RecordContactSubmission()
	writeSuccess(w)
}

// contactNotificationHTML builds the HTML notification body
func contactNotificationHTML(inquiry *domain.ContactInquiry) string {
	message := inquiry.Message
	if message == "" {
		message = "No message provided."
	}
	return fmt.Sprintf(`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Inquiry:</strong> %s</p>
<p><strong>Message:</strong> %s</p>`,
		html.EscapeString(inquiry.FullName),
		html.EscapeString(inquiry.Email),
		html.EscapeString(inquiry.Phone),
		html.EscapeString(inquiry.Inquiry.Label()),
		html.EscapeString(message))
}

// contactNotificationText builds the plain text notification body
func contactNotificationText(inquiry *domain.ContactInquiry) string {
	message := inquiry.Message
	if message == "" {
		message = "No message provided."
	}
	return fmt.Sprintf(`New Contact Form Submission
---------------------------
Name: %s
Email: %s
Phone: %s
Inquiry: %s
Message: %s`,
		inquiry.FullName, inquiry.Email, inquiry.Phone, inquiry.Inquiry.Label(), message)
}
