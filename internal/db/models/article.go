package models

import "time"

// Article represents an editorial article published on the public portal.
type Article struct {
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	Body          string     `json:"body"`
	AuthorID      *string    `json:"author_id,omitempty"`
	ParkID        *string    `json:"park_id,omitempty"`
	CoverImageURL string     `json:"cover_image_url"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	// Joined fields (not stored in articles table)
	AuthorName *string `json:"author_name,omitempty"` // Author name (joined from users table)
}
