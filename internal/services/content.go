package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"boproperties/internal/cache"
	"boproperties/internal/config"
	"boproperties/internal/domain"
	"boproperties/internal/metrics"
	apperrors "boproperties/pkg/errors"
)

// ContentStore is the read-only view of the external content store
type ContentStore interface {
	ListPosts(ctx context.Context, offset, limit int) ([]domain.ContentPost, error)
	CountPosts(ctx context.Context) (int, error)
	GetPost(ctx context.Context, slug string) (*domain.ContentPost, error)
}

var (
	markdown  = goldmark.New(goldmark.WithExtensions(extension.GFM))
	sanitizer = bluemonday.UGCPolicy()
)

// ContentService serves the blog listing and post detail endpoints, with a
// read-through cache in front of the external store.
type ContentService struct {
	cfg   *config.ContentConfig
	store ContentStore
	cache cache.Cache
}

// NewContentService creates a new content service
func NewContentService(cfg *config.ContentConfig, store ContentStore, c cache.Cache) *ContentService {
	return &ContentService{
		cfg:   cfg,
		store: store,
		cache: c,
	}
}

// List handles GET /api/posts. Pagination state is derived from the page
// query parameter on every request.
func (s *ContentService) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	result, err := s.loadPage(r.Context(), page)
	if err != nil {
		log.Printf("[CONTENT] List failed: page=%d: %v", page, err)
		writeError(w, http.StatusBadGateway, "Failed to load posts")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /api/posts/{slug}
func (s *ContentService) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	key := "post:" + slug
	if cached, err := s.cache.Get(r.Context(), key); err == nil {
		metrics.RecordContentCache(true)
		var post domain.ContentPost
		if err := json.Unmarshal(cached, &post); err == nil {
			writeJSON(w, http.StatusOK, &post)
			return
		}
	}
	metrics.RecordContentCache(false)

	post, err := s.store.GetPost(r.Context(), slug)
	if err != nil {
		if apperrors.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		log.Printf("[CONTENT] Get failed: slug=%s: %v", slug, err)
		writeError(w, http.StatusBadGateway, "Failed to load post")
		return
	}

	if post.Body != "" {
		rendered, err := renderMarkdown(post.Body)
		if err != nil {
			log.Printf("[CONTENT] Markdown render failed: slug=%s: %v", slug, err)
		} else {
			post.BodyHTML = rendered
		}
	}

	if encoded, err := json.Marshal(post); err == nil {
		if err := s.cache.Set(r.Context(), key, encoded, 0); err != nil {
			log.Printf("[CONTENT] Cache set failed: key=%s: %v", key, err)
		}
	}

	writeJSON(w, http.StatusOK, post)
}

// WarmCache loads the first listing page into the cache. Called at startup
// and from the periodic refresh job.
func (s *ContentService) WarmCache(ctx context.Context) error {
	_ = s.cache.Delete(ctx, s.pageKey(1))
	_, err := s.loadPage(ctx, 1)
	return err
}

func (s *ContentService) pageKey(page int) string {
	return fmt.Sprintf("posts:page:%d:size:%d", page, s.cfg.PageSize)
}

// loadPage returns one listing page, from cache when possible
func (s *ContentService) loadPage(ctx context.Context, page int) (*domain.PostPage, error) {
	key := s.pageKey(page)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		metrics.RecordContentCache(true)
		var result domain.PostPage
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}
	metrics.RecordContentCache(false)

	total, err := s.store.CountPosts(ctx)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * s.cfg.PageSize
	posts, err := s.store.ListPosts(ctx, offset, s.cfg.PageSize)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.ContentPost{}
	}

	totalPages := (total + s.cfg.PageSize - 1) / s.cfg.PageSize

	result := &domain.PostPage{
		Posts:      posts,
		Page:       page,
		PageSize:   s.cfg.PageSize,
		TotalPosts: total,
		TotalPages: totalPages,
	}

	if encoded, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, encoded, 0); err != nil {
			log.Printf("[CONTENT] Cache set failed: key=%s: %v", key, err)
		}
	}

	return result, nil
}

// renderMarkdown converts a markdown post body to sanitized HTML
func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return sanitizer.Sanitize(buf.String()), nil
}
