// Package auditlog defines the append-only audit trail for the portal: the entry
// type recorded for every state-changing action, the closed enums describing what
// happened, and the pure filter/summary machinery used by the audit query endpoint.
//
// Audit entries are intentionally separate from application logs — application
// logs are ephemeral debug output, while the audit trail is an immutable record
// consumed by administrators and subject to retention requirements. Entries are
// never updated or deleted through the API; OccurredAt is set at write time.
package auditlog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/taman-kehati/taman-kehati/internal/validation"
)

// Action identifies what the actor did.
type Action string

const (
	ActionCreate          Action = "create"
	ActionUpdate          Action = "update"
	ActionDelete          Action = "delete"
	ActionLogin           Action = "login"
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionSubmitForReview Action = "submit_for_review"
	ActionExport          Action = "export"
	ActionBackup          Action = "backup"
)

// EntityType identifies the kind of record the action affected.
type EntityType string

const (
	EntityPark         EntityType = "park"
	EntitySpecies      EntityType = "species"
	EntityArticle      EntityType = "article"
	EntityAnnouncement EntityType = "announcement"
	EntityAssessment   EntityType = "assessment"
	EntityUser         EntityType = "user"
	EntitySystem       EntityType = "system"
)

// Category groups entries for filtering and dashboard breakdowns.
type Category string

const (
	CategorySecurity   Category = "security"
	CategoryDataChange Category = "data_change"
	CategoryWorkflow   Category = "workflow"
	CategorySystem     Category = "system"
	CategoryAccess     Category = "access"
)

// Severity ranks how security-relevant an entry is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var (
	validActions = map[Action]bool{
		ActionCreate: true, ActionUpdate: true, ActionDelete: true,
		ActionLogin: true, ActionApprove: true, ActionReject: true,
		ActionSubmitForReview: true, ActionExport: true, ActionBackup: true,
	}
	validEntities = map[EntityType]bool{
		EntityPark: true, EntitySpecies: true, EntityArticle: true,
		EntityAnnouncement: true, EntityAssessment: true, EntityUser: true,
		EntitySystem: true,
	}
	validCategories = map[Category]bool{
		CategorySecurity: true, CategoryDataChange: true, CategoryWorkflow: true,
		CategorySystem: true, CategoryAccess: true,
	}
	validSeverities = map[Severity]bool{
		SeverityLow: true, SeverityMedium: true, SeverityHigh: true,
		SeverityCritical: true,
	}
)

// ParseAction validates a raw action string. Matching is case-insensitive
// (clients historically sent uppercase values), but unrecognized values are
// rejected rather than forwarded to the query layer, where they would
// silently match nothing.
func ParseAction(s string) (Action, error) {
	if a := Action(strings.ToLower(s)); validActions[a] {
		return a, nil
	}
	return "", validation.NewValidationError("action", s, "unrecognized action")
}

// ParseEntityType validates a raw entity type string.
func ParseEntityType(s string) (EntityType, error) {
	if e := EntityType(strings.ToLower(s)); validEntities[e] {
		return e, nil
	}
	return "", validation.NewValidationError("entity", s, "unrecognized entity type")
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	if c := Category(strings.ToLower(s)); validCategories[c] {
		return c, nil
	}
	return "", validation.NewValidationError("category", s, "unrecognized category")
}

// ParseSeverity validates a raw severity string.
func ParseSeverity(s string) (Severity, error) {
	if sv := Severity(strings.ToLower(s)); validSeverities[sv] {
		return sv, nil
	}
	return "", validation.NewValidationError("severity", s, "unrecognized severity")
}

// FieldChange records one field-level difference captured by an update.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Entry is one immutable audit record.
type Entry struct {
	ID            string          `json:"id" db:"id"`
	ActorID       *string         `json:"actor_id,omitempty" db:"actor_id"` // nil for system actions
	ActorName     string          `json:"actor_name" db:"actor_name"`
	ActorRole     string          `json:"actor_role" db:"actor_role"`
	ActorRegionID *string         `json:"actor_region_id,omitempty" db:"actor_region_id"`
	Action        Action          `json:"action" db:"action"`
	EntityType    EntityType      `json:"entity_type" db:"entity_type"`
	EntityID      *string         `json:"entity_id,omitempty" db:"entity_id"`
	Before        json.RawMessage `json:"before,omitempty" db:"before_snapshot"`
	After         json.RawMessage `json:"after,omitempty" db:"after_snapshot"`
	Changes       []FieldChange   `json:"changes,omitempty" db:"-"`
	IPAddress     *string         `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent     *string         `json:"user_agent,omitempty" db:"user_agent"`
	Description   string          `json:"description" db:"description"`
	Category      Category        `json:"category" db:"category"`
	Severity      Severity        `json:"severity" db:"severity"`
	OccurredAt    time.Time       `json:"occurred_at" db:"occurred_at"`
}
