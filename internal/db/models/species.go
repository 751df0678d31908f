package models

import "time"

// Species kingdoms. The portal tracks flora and fauna separately because
// they carry different weights in the biodiversity score.
const (
	KingdomFlora = "flora"
	KingdomFauna = "fauna"
)

// IUCN Red List status codes accepted by the species registry.
var ValidIUCNStatuses = map[string]bool{
	"EX": true, // Extinct
	"EW": true, // Extinct in the Wild
	"CR": true, // Critically Endangered
	"EN": true, // Endangered
	"VU": true, // Vulnerable
	"NT": true, // Near Threatened
	"LC": true, // Least Concern
	"DD": true, // Data Deficient
	"NE": true, // Not Evaluated
}

// Species represents a flora or fauna record registered to a park.
type Species struct {
	ID             string    `json:"id"`
	ParkID         string    `json:"park_id"`
	Kingdom        string    `json:"kingdom"`
	ScientificName string    `json:"scientific_name"`
	LocalName      string    `json:"local_name"`
	Family         string    `json:"family"`
	IUCNStatus     string    `json:"iucn_status"`
	Endemic        bool      `json:"endemic"`
	Description    string    `json:"description"`
	ImageURL       string    `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	// Joined fields (not stored in species table)
	ParkName *string `json:"park_name,omitempty"` // Park name (joined from parks table)
}
