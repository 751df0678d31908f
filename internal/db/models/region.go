// Package models defines the data structures persisted by the portal's
// repositories: administrative regions, users, parks, species records,
// editorial content, and biodiversity assessments.
package models

import "time"

// Region represents an administrative region (province-level grouping)
// that parks and regional admin accounts are scoped to.
type Region struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Province  string    `json:"province"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
