package domain

import (
	"time"
)

// ContentPost is a blog article owned by the external content store.
// This system only queries and renders it, never mutates it.
type ContentPost struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Body        string    `json:"body,omitempty"`
	BodyHTML    string    `json:"bodyHtml,omitempty"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	CoverImage  string    `json:"coverImage,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
}

// PostPage is one page of the blog listing. Pagination state is derived
// per-request from the page query parameter and never persisted.
type PostPage struct {
	Posts      []ContentPost `json:"posts"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPosts int           `json:"totalPosts"`
	TotalPages int           `json:"totalPages"`
}
