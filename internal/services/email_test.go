package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boproperties/internal/config"
)

func TestEmailServiceSend(t *testing.T) {
	var gotToken string
	var gotBody postmarkRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"ErrorCode":0,"Message":"OK"}`)
	}))
	defer srv.Close()

	cfg := &config.EmailConfig{
		Enabled:       true,
		ServerToken:   "server-token",
		FromEmail:     "contact@boproperties.com",
		FromName:      "BO Properties",
		MessageStream: "outbound",
	}
	svc := NewEmailServiceWithURL(cfg, srv.URL)

	err := svc.Send(context.Background(), Email{
		To:       "sales@bopropertiesng.com",
		Subject:  "New Contact Form Submission: Other",
		HTMLBody: "<p>hi</p>",
		TextBody: "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, "server-token", gotToken)
	assert.Equal(t, "BO Properties <contact@boproperties.com>", gotBody.From)
	assert.Equal(t, "sales@bopropertiesng.com", gotBody.To)
	assert.Equal(t, "outbound", gotBody.MessageStream)
	assert.Equal(t, "<p>hi</p>", gotBody.HTMLBody)
}

func TestEmailServiceProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"ErrorCode":300,"Message":"Invalid 'To' address"}`)
	}))
	defer srv.Close()

	cfg := &config.EmailConfig{Enabled: true, ServerToken: "tok", FromEmail: "a@b.co"}
	svc := NewEmailServiceWithURL(cfg, srv.URL)

	err := svc.Send(context.Background(), Email{To: "bad", Subject: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid 'To' address")
}

func TestEmailServiceDisabledLogsInsteadOfSending(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := &config.EmailConfig{Enabled: false, FromEmail: "a@b.co"}
	svc := NewEmailServiceWithURL(cfg, srv.URL)

	err := svc.Send(context.Background(), Email{To: "x@y.co", Subject: "s"})
	require.NoError(t, err)
	assert.False(t, called, "disabled service must not call the provider")
}

func TestEmailServiceMissingToken(t *testing.T) {
	cfg := &config.EmailConfig{Enabled: true, FromEmail: "a@b.co"}
	svc := NewEmailService(cfg)

	err := svc.Send(context.Background(), Email{To: "x@y.co", Subject: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not properly configured")
}
