package models

import "time"

// Park represents a Taman Kehati conservation park.
type Park struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	RegionID        string    `json:"region_id"`
	Address         string    `json:"address"`
	Description     string    `json:"description"`
	AreaHectares    *float64  `json:"area_hectares,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	EstablishedYear *int      `json:"established_year,omitempty"`
	ManagingAgency  string    `json:"managing_agency"`
	CoverImageURL   string    `json:"cover_image_url"`
	Published       bool      `json:"published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	// Joined fields (not stored in parks table)
	RegionName *string `json:"region_name,omitempty"` // Region name (joined from regions table)
}

// ParkSummary is returned by dashboard queries and includes species counts
// and the latest approved assessment fetched in a single query to avoid
// N+1 lookups.
type ParkSummary struct {
	Park
	FloraCount  int     `json:"flora_count"`
	FaunaCount  int     `json:"fauna_count"`
	LatestScore *int    `json:"latest_score,omitempty"`
	LatestBand  *string `json:"latest_band,omitempty"`
}
