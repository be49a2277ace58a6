package domain

// Inquiries are transient: they exist from form submission to the forwarding
// call and are never stored. Each form gets its own type with its own
// required-field set instead of one bag of optional fields.

// InquiryKind categorizes a contact inquiry
type InquiryKind string

const (
	InquiryPropertySale       InquiryKind = "property-sale"
	InquiryPropertyPurchase   InquiryKind = "property-purchase"
	InquiryPropertyManagement InquiryKind = "property-management"
	InquiryConsultation       InquiryKind = "consultation"
	InquiryOther              InquiryKind = "other"
)

// Label returns the human-readable label for the inquiry kind.
// Unknown or empty kinds fall back to "General Inquiry".
func (k InquiryKind) Label() string {
	switch k {
	case InquiryPropertySale:
		return "Property Sale"
	case InquiryPropertyPurchase:
		return "Property Purchase"
	case InquiryPropertyManagement:
		return "Property Management"
	case InquiryConsultation:
		return "Consultation"
	case InquiryOther:
		return "Other"
	default:
		return "General Inquiry"
	}
}

// ContactInquiry represents a general contact form submission
type ContactInquiry struct {
	FullName string      `json:"fullName"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	Inquiry  InquiryKind `json:"inquiry,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// ConsultationInquiry represents a consultation request submission
type ConsultationInquiry struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Service  string `json:"service,omitempty"`
	Message  string `json:"message,omitempty"`
}

// SubscriptionRequest represents a newsletter signup
type SubscriptionRequest struct {
	Email string `json:"email"`
}

// HasRequiredFields reports whether all server-side required fields are present
func (c *ContactInquiry) HasRequiredFields() bool {
	return c.FullName != "" && c.Email != "" && c.Phone != ""
}

// HasRequiredFields reports whether all server-side required fields are present
func (c *ConsultationInquiry) HasRequiredFields() bool {
	return c.FullName != "" && c.Email != "" && c.Phone != ""
}

// ServiceLabel returns the requested service, or a fallback for the
// notification subject when none was selected.
func (c *ConsultationInquiry) ServiceLabel() string {
	if c.Service == "" {
		return "General Inquiry"
	}
	return c.Service
}
