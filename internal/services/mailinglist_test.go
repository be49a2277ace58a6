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
)

func TestMailingListSubscribe(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody memberRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"id":"x","email_address":"jane@x.com","status":"subscribed"}`)
	}))
	defer srv.Close()

	svc := NewMailingListServiceWithURL(mailingListTestConfig(), srv.URL)
	err := svc.Subscribe(context.Background(), "jane@x.com")
	require.NoError(t, err)

	assert.Equal(t, "apikey key-us21", gotAuth)
	assert.Equal(t, "/lists/abc123/members", gotPath)
	assert.Equal(t, "jane@x.com", gotBody.EmailAddress)
	assert.Equal(t, "subscribed", gotBody.Status)
}

func TestMailingListSubscribeMemberExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"title":"Member Exists","status":400,"detail":"jane@x.com is already a list member."}`)
	}))
	defer srv.Close()

	svc := NewMailingListServiceWithURL(mailingListTestConfig(), srv.URL)
	err := svc.Subscribe(context.Background(), "jane@x.com")
	assert.ErrorIs(t, err, ErrMemberExists)
}

func TestMailingListSubscribeProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"title":"Invalid Resource","status":422,"detail":"Please provide a valid email address."}`)
	}))
	defer srv.Close()

	svc := NewMailingListServiceWithURL(mailingListTestConfig(), srv.URL)
	err := svc.Subscribe(context.Background(), "bad@example")

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnprocessableEntity, provErr.StatusCode)
	assert.Equal(t, "Please provide a valid email address.", provErr.Detail)
}

func TestMailingListSubscribeUnparsableError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `gateway timeout`)
	}))
	defer srv.Close()

	svc := NewMailingListServiceWithURL(mailingListTestConfig(), srv.URL)
	err := svc.Subscribe(context.Background(), "jane@x.com")

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadGateway, provErr.StatusCode)
	assert.Equal(t, "Failed to subscribe", provErr.Detail)
}
