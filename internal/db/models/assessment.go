package models

import (
	"fmt"
	"time"
)

// Assessment workflow statuses.
const (
	AssessmentStatusDraft    = "draft"
	AssessmentStatusPending  = "pending"
	AssessmentStatusApproved = "approved"
	AssessmentStatusRejected = "rejected"
)

// assessmentTransitions lists the allowed status transitions. Rejected
// assessments go back to draft for rework rather than being terminal.
var assessmentTransitions = map[string][]string{
	AssessmentStatusDraft:    {AssessmentStatusPending},
	AssessmentStatusPending:  {AssessmentStatusApproved, AssessmentStatusRejected},
	AssessmentStatusRejected: {AssessmentStatusDraft},
}

// CanTransitionAssessment reports whether an assessment may move from one
// status to another.
func CanTransitionAssessment(from, to string) bool {
	for _, allowed := range assessmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateAssessmentStatus checks that a status string is one of the known
// workflow states.
func ValidateAssessmentStatus(status string) error {
	switch status {
	case AssessmentStatusDraft, AssessmentStatusPending, AssessmentStatusApproved, AssessmentStatusRejected:
		return nil
	}
	return fmt.Errorf("invalid assessment status: %s", status)
}

// Assessment represents a yearly biodiversity assessment for a park.
// The overall score and band are computed from the component scores at
// write time and stored denormalized for querying.
type Assessment struct {
	ID             string     `json:"id"`
	ParkID         string     `json:"park_id"`
	AssessmentYear int        `json:"assessment_year"`
	FloraScore     float64    `json:"flora_score"`
	FaunaScore     float64    `json:"fauna_score"`
	EcosystemScore float64    `json:"ecosystem_score"`
	OverallScore   int        `json:"overall_score"`
	Band           string     `json:"band"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes"`
	AssessedBy     *string    `json:"assessed_by,omitempty"`
	ReviewedBy     *string    `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	// Joined fields (not stored in biodiversity_assessments table)
	ParkName       *string `json:"park_name,omitempty"`        // Park name (joined from parks table)
	AssessedByName *string `json:"assessed_by_name,omitempty"` // Assessor name (joined from users table)
}
