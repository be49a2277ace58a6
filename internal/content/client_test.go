package content

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
	"boproperties/pkg/errors"
)

func testConfig() *config.ContentConfig {
	return &config.ContentConfig{
		ProjectID:  "abc123",
		Dataset:    "production",
		APIVersion: "2025-05-07",
		PageSize:   6,
	}
}

func TestListPosts(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		fmt.Fprint(w, `{"result":[
			{"title":"First","slug":"first","author":"Idris Momoh","publishedAt":"2024-01-15T09:00:00Z","categories":["Market Analysis"]},
			{"title":"Second","slug":"second","publishedAt":"2023-12-28T09:00:00Z"}
		]}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testConfig(), srv.URL)
	posts, err := c.ListPosts(context.Background(), 0, 6)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "First", posts[0].Title)
	assert.Equal(t, "first", posts[0].Slug)
	assert.Equal(t, "Idris Momoh", posts[0].Author)
	assert.Equal(t, []string{"Market Analysis"}, posts[0].Categories)
	assert.Contains(t, gotQuery, "[0...6]")
	assert.Contains(t, gotQuery, `order(publishedAt desc)`)
}

func TestCountPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("query"), "count(")
		fmt.Fprint(w, `{"result":14}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testConfig(), srv.URL)
	count, err := c.CountPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 14, count)
}

func TestGetPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var slug string
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("$slug")), &slug))
		assert.Equal(t, "first", slug)
		fmt.Fprint(w, `{"result":{"title":"First","slug":"first","body":"## Heading\n\nBody text.","publishedAt":"2024-01-15T09:00:00Z"}}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testConfig(), srv.URL)
	post, err := c.GetPost(context.Background(), "first")
	require.NoError(t, err)
	assert.Equal(t, "First", post.Title)
	assert.Contains(t, post.Body, "Heading")
}

func TestGetPostNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":null}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testConfig(), srv.URL)
	_, err := c.GetPost(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestQuerySendsToken(t *testing.T) {
	cfg := testConfig()
	cfg.Token = "secret-token"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"result":0}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(cfg, srv.URL)
	_, err := c.CountPosts(context.Background())
	require.NoError(t, err)
}

func TestQueryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testConfig(), srv.URL)
	_, err := c.CountPosts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))
}

func TestNewClientHostSelection(t *testing.T) {
	cfg := testConfig()
	cfg.UseCDN = true
	c := NewClient(cfg)
	assert.Contains(t, c.baseURL, "apicdn.sanity.io")

	cfg.Token = "tok"
	c = NewClient(cfg)
	assert.Contains(t, c.baseURL, "//abc123.api.sanity.io")
}
