package models

import "time"

// Announcement audiences.
const (
	AudiencePublic = "public"
	AudienceAdmins = "admins"
)

// Announcement represents a time-windowed notice shown on the portal.
// StartsAt/EndsAt bound the display window; nil means open-ended.
type Announcement struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Audience  string     `json:"audience"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	Active    bool       `json:"active"`
	CreatedBy *string    `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// VisibleAt reports whether the announcement should be displayed at the
// given instant: it must be active and the instant must fall within the
// display window.
func (a *Announcement) VisibleAt(t time.Time) bool {
	if !a.Active {
		return false
	}
	if a.StartsAt != nil && t.Before(*a.StartsAt) {
		return false
	}
	if a.EndsAt != nil && t.After(*a.EndsAt) {
		return false
	}
	return true
}
