package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boproperties/internal/config"
)

// fakeMailer records sends and can be told to fail the nth send
type fakeMailer struct {
	mu        sync.Mutex
	sent      []Email
	failIndex int // 0-based index of the send to fail; -1 for none
	err       error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failIndex: -1}
}

func (m *fakeMailer) Send(_ context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIndex >= 0 && len(m.sent) == m.failIndex {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *fakeMailer) sentEmails() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Email(nil), m.sent...)
}

func emailTestConfig() *config.EmailConfig {
	return &config.EmailConfig{
		Enabled:                true,
		FromEmail:              "contact@boproperties.com",
		ContactRecipient:       "sales@bopropertiesng.com",
		ConsultationRecipients: []string{"bopropertiesng@gmail.com", "admin@boproperties.com"},
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestContactSubmitSuccess(t *testing.T) {
	mailer := newFakeMailer()
	svc := NewContactService(emailTestConfig(), mailer)

	rec := postJSON(t, svc.Submit, `{
		"fullName": "Jane Doe",
		"email": "jane@x.com",
		"phone": "08012345678",
		"inquiry": "property-purchase",
		"message": "Hello there, I am interested."
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	sent := mailer.sentEmails()
	require.Len(t, sent, 1, "exactly one notification send expected")
	assert.Equal(t, "sales@bopropertiesng.com", sent[0].To)
	assert.Equal(t, "New Contact Form Submission: Property Purchase", sent[0].Subject)
	assert.Contains(t, sent[0].TextBody, "Jane Doe")
	assert.Contains(t, sent[0].HTMLBody, "jane@x.com")
}

func TestContactSubmitEmptyBody(t *testing.T) {
	mailer := newFakeMailer()
	svc := NewContactService(emailTestConfig(), mailer)

	rec := postJSON(t, svc.Submit, ``)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing required fields"}`, rec.Body.String())
	assert.Empty(t, mailer.sentEmails())
}

func TestContactSubmitMissingFields(t *testing.T) {
	mailer := newFakeMailer()
	svc := NewContactService(emailTestConfig(), mailer)

	rec := postJSON(t, svc.Submit, `{"fullName":"Jane Doe","email":"jane@x.com"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing required fields"}`, rec.Body.String())
	assert.Empty(t, mailer.sentEmails())
}

func TestContactSubmitProviderFailure(t *testing.T) {
	mailer := newFakeMailer()
	mailer.failIndex = 0
	mailer.err = assert.AnError
	svc := NewContactService(emailTestConfig(), mailer)

	rec := postJSON(t, svc.Submit, `{"fullName":"Jane Doe","email":"jane@x.com","phone":"08012345678"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestContactSubmitDefaultsInquiryKind(t *testing.T) {
	mailer := newFakeMailer()
	svc := NewContactService(emailTestConfig(), mailer)

	rec := postJSON(t, svc.Submit, `{"fullName":"Jane Doe","email":"jane@x.com","phone":"08012345678"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	sent := mailer.sentEmails()
	require.Len(t, sent, 1)
	assert.Equal(t, "New Contact Form Submission: General Inquiry", sent[0].Subject)
}

func TestContactNotificationEscapesHTML(t *testing.T) {
	mailer := newFakeMailer()
	svc := NewContactService(emailTestConfig(), mailer)

	rec := postJSON(t, svc.Submit, `{"fullName":"<script>alert(1)</script> Doe","email":"jane@x.com","phone":"08012345678"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	sent := mailer.sentEmails()
	require.Len(t, sent, 1)
	assert.NotContains(t, sent[0].HTMLBody, "<script>")
}
