package services

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/http"

	"boproperties/internal/config"
	"boproperties/internal/domain"
	"boproperties/internal/metrics"
)

// ConsultationService handles consultation request submissions
type ConsultationService struct {
	cfg    *config.EmailConfig
	mailer Mailer
}

// NewConsultationService creates a new consultation service
func NewConsultationService(cfg *config.EmailConfig, mailer Mailer) *ConsultationService {
	return &ConsultationService{
		cfg:    cfg,
		mailer: mailer,
	}
}

// Submit handles POST /api/consultation. Two sends happen per request: the
// internal notification first, then the acknowledgement to the submitter.
// Both must succeed; a failure in either reports as a 500.
func (s *ConsultationService) Submit(w http.ResponseWriter, r *http.Request) {
	var inquiry domain.ConsultationInquiry
	if err := json.NewDecoder(r.Body).Decode(&inquiry); err != nil {
		log.Printf("[CONSULT] Submit failed: invalid body: %v", err)
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if !inquiry.HasRequiredFields() {
		log.Printf("[CONSULT] Submit failed: missing required fields")
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	log.Printf("[CONSULT] Submit request: name=%s, service=%s", inquiry.FullName, inquiry.ServiceLabel())

	notification := Email{
		To:       joinRecipients(s.cfg.ConsultationRecipients),
		Subject:  fmt.Sprintf("New Consultation Request: %s", inquiry.ServiceLabel()),
		HTMLBody: consultationNotificationHTML(&inquiry),
		TextBody: consultationNotificationText(&inquiry),
	}
	if err := s.mailer.Send(r.Context(), notification); err != nil {
		log.Printf("[CONSULT] Submit failed: notification send error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	acknowledgement := Email{
		To:       inquiry.Email,
		Subject:  fmt.Sprintf("Thank you for your consultation request, %s", inquiry.FullName),
		HTMLBody: consultationAckHTML(&inquiry),
		TextBody: consultationAckText(&inquiry),
	}
	if err := s.mailer.Send(r.Context(), acknowledgement); err != nil {
		log.Printf("[CONSULT] Submit failed: acknowledgement send error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Printf("[CONSULT] Submit successful: name=%s, email=%s", inquiry.FullName, inquiry.Email)
	metrics.RecordConsultationRequest()
	writeSuccess(w)
}

func consultationNotificationHTML(inquiry *domain.ConsultationInquiry) string {
	message := inquiry.Message
	if message == "" {
		message = "No additional information provided."
	}
	return fmt.Sprintf(`<h2>New Consultation Request</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Service:</strong> %s</p>
<p><strong>Message:</strong> %s</p>`,
		html.EscapeString(inquiry.FullName),
		html.EscapeString(inquiry.Email),
		html.EscapeString(inquiry.Phone),
		html.EscapeString(inquiry.ServiceLabel()),
		html.EscapeString(message))
}

func consultationNotificationText(inquiry *domain.ConsultationInquiry) string {
	message := inquiry.Message
	if message == "" {
		message = "No additional information provided."
	}
	return fmt.Sprintf(`New Consultation Request
---------------------------
Name: %s
Email: %s
Phone: %s
Service: %s
Message: %s`,
		inquiry.FullName, inquiry.Email, inquiry.Phone, inquiry.ServiceLabel(), message)
}

func consultationAckHTML(inquiry *domain.ConsultationInquiry) string {
	service := "our services"
	if inquiry.Service != "" {
		service = inquiry.Service
	}
	return fmt.Sprintf(`<h2>Thank You for Your Request</h2>
<p>Dear %s,</p>
<p>We have received your consultation request regarding %s.
One of our experts will contact you shortly to discuss further.</p>
<p>Best regards,<br>BO Properties Team</p>`,
		html.EscapeString(inquiry.FullName), html.EscapeString(service))
}

func consultationAckText(inquiry *domain.ConsultationInquiry) string {
	service := "our services"
	if inquiry.Service != "" {
		service = inquiry.Service
	}
	return fmt.Sprintf(`Thank You for Your Request
---------------------------
Dear %s,

We have received your consultation request regarding %s.
One of our experts will contact you shortly to discuss further.

Best regards,
BO Properties Team`, inquiry.FullName, service)
}
