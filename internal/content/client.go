// Package content implements the read-only client for the headless content
// store that owns the blog articles. Queries go to the store's HTTP query
// endpoint; this system never mutates content.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"boproperties/internal/config"
	"boproperties/internal/domain"
	"boproperties/pkg/errors"
)

const queryTimeout = 10 * time.Second

// postProjection selects the ContentPost fields from a post document
const postProjection = `{
  title,
  "slug": slug.current,
  excerpt,
  body,
  "author": author->name,
  publishedAt,
  "coverImage": mainImage.asset->url,
  "categories": categories[]->title
}`

// Client queries the content store's data API
type Client struct {
	cfg        *config.ContentConfig
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a content store client. The CDN host is used for
// unauthenticated reads; requests carrying a token go to the live API host.
func NewClient(cfg *config.ContentConfig) *Client {
	host := "api.sanity.io"
	if cfg.UseCDN && cfg.Token == "" {
		host = "apicdn.sanity.io"
	}
	return &Client{
		cfg:        cfg,
		baseURL:    fmt.Sprintf("https://%s.%s/v%s/data/query/%s", cfg.ProjectID, host, cfg.APIVersion, cfg.Dataset),
		httpClient: &http.Client{Timeout: queryTimeout},
	}
}

// NewClientWithBaseURL creates a client against an explicit query endpoint.
// Used by tests to point at a local server.
func NewClientWithBaseURL(cfg *config.ContentConfig, baseURL string) *Client {
	return &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: queryTimeout},
	}
}

// queryEnvelope is the store's response wrapper
type queryEnvelope struct {
	Result json.RawMessage `json:"result"`
}

// query executes a GROQ query and decodes the result into out
func (c *Client) query(ctx context.Context, groq string, params map[string]string, out interface{}) error {
	values := url.Values{}
	values.Set("query", groq)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode query param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, "content store request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(errors.ErrCodeUnavailable, fmt.Sprintf("content store returned status %d", resp.StatusCode))
	}

	var envelope queryEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, "failed to decode content store response", err)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return errors.Wrap(errors.ErrCodeUnavailable, "unexpected content store result shape", err)
		}
	}
	return nil
}

// ListPosts returns published posts ordered newest first, sliced [offset, offset+limit)
func (c *Client) ListPosts(ctx context.Context, offset, limit int) ([]domain.ContentPost, error) {
	groq := fmt.Sprintf(`*[_type == "post"] | order(publishedAt desc) [%d...%d] %s`, offset, offset+limit, postProjection)

	var posts []domain.ContentPost
	if err := c.query(ctx, groq, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts returns the total number of published posts
func (c *Client) CountPosts(ctx context.Context) (int, error) {
	var count int
	if err := c.query(ctx, `count(*[_type == "post"])`, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetPost returns a single post by slug
func (c *Client) GetPost(ctx context.Context, slug string) (*domain.ContentPost, error) {
	groq := fmt.Sprintf(`*[_type == "post" && slug.current == $slug][0] %s`, postProjection)

	var post *domain.ContentPost
	if err := c.query(ctx, groq, map[string]string{"slug": slug}, &post); err != nil {
		return nil, err
	}
	if post == nil || post.Slug == "" {
		return nil, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("post not found: %s", slug))
	}
	return post, nil
}
