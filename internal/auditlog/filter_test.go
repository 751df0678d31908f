package auditlog

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/taman-kehati/taman-kehati/internal/auth"
	"github.com/taman-kehati/taman-kehati/internal/validation"
)

func strPtr(s string) *string { return &s }

// fixtureEntries mirrors a day of dashboard activity: six entries across the
// data-change, security, workflow, and system categories.
func fixtureEntries(base time.Time) []*Entry {
	return []*Entry{
		{
			ID: "e1", ActorID: strPtr("u-rina"), ActorName: "Rina Wulandari",
			ActorRegionID: strPtr("reg-jabar"),
			Action:        ActionCreate, EntityType: EntityPark,
			Category: CategoryDataChange, Severity: SeverityMedium,
			Description: "Created park Taman Kehati Sentarum",
			OccurredAt:  base.Add(1 * time.Hour),
		},
		{
			ID: "e2", ActorID: strPtr("u-rina"), ActorName: "Rina Wulandari",
			ActorRegionID: strPtr("reg-jabar"),
			Action:        ActionUpdate, EntityType: EntitySpecies,
			Category: CategoryDataChange, Severity: SeverityLow,
			Description: "Updated species Rafflesia arnoldii",
			OccurredAt:  base.Add(2 * time.Hour),
		},
		{
			ID: "e3", ActorID: strPtr("u-budi"), ActorName: "Budi Santoso",
			ActorRegionID: strPtr("reg-jatim"),
			Action:        ActionLogin, EntityType: EntityUser,
			Category: CategorySecurity, Severity: SeverityLow,
			Description: "Successful login",
			OccurredAt:  base.Add(3 * time.Hour),
		},
		{
			ID: "e4", ActorID: strPtr("u-budi"), ActorName: "Budi Santoso",
			ActorRegionID: strPtr("reg-jatim"),
			Action:        ActionSubmitForReview, EntityType: EntityAssessment,
			Category: CategoryWorkflow, Severity: SeverityMedium,
			Description: "Submitted assessment for review",
			OccurredAt:  base.Add(4 * time.Hour),
		},
		{
			ID: "e5", ActorID: strPtr("u-sari"), ActorName: "Sari Dewi",
			Action: ActionApprove, EntityType: EntityAssessment,
			Category: CategoryWorkflow, Severity: SeverityHigh,
			Description: "Approved assessment",
			OccurredAt:  base.Add(5 * time.Hour),
		},
		{
			ID: "e6", ActorName: "system",
			Action: ActionBackup, EntityType: EntitySystem,
			Category: CategorySystem, Severity: SeverityLow,
			Description: "Nightly database backup completed",
			OccurredAt:  base.Add(6 * time.Hour),
		},
	}
}

func TestParseFilterQuery_RejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name  string
		parse func() (FilterQuery, error)
		field string
	}{
		{"bad action", func() (FilterQuery, error) {
			return ParseFilterQuery("destroy", "", "", "", "", "", "", "")
		}, "action"},
		{"bad entity", func() (FilterQuery, error) {
			return ParseFilterQuery("", "spaceship", "", "", "", "", "", "")
		}, "entity"},
		{"bad category", func() (FilterQuery, error) {
			return ParseFilterQuery("", "", "gossip", "", "", "", "", "")
		}, "category"},
		{"bad severity", func() (FilterQuery, error) {
			return ParseFilterQuery("", "", "", "catastrophic", "", "", "", "")
		}, "severity"},
		{"bad date", func() (FilterQuery, error) {
			return ParseFilterQuery("", "", "", "", "", "yesterday", "", "")
		}, "date_from"},
		{"inverted range", func() (FilterQuery, error) {
			return ParseFilterQuery("", "", "", "", "", "2026-02-01", "2026-01-01", "")
		}, "date_from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parse()
			var ve *validation.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want *validation.ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestParseFilterQuery_UppercaseEnumsAccepted(t *testing.T) {
	q, err := ParseFilterQuery("CREATE", "PARK", "DATA_CHANGE", "HIGH", "", "", "", "")
	if err != nil {
		t.Fatalf("ParseFilterQuery: %v", err)
	}
	if q.Action != ActionCreate {
		t.Errorf("Action = %q, want %q", q.Action, ActionCreate)
	}
	if q.EntityType != EntityPark {
		t.Errorf("EntityType = %q, want %q", q.EntityType, EntityPark)
	}
	if q.Category != CategoryDataChange {
		t.Errorf("Category = %q, want %q", q.Category, CategoryDataChange)
	}
	if q.Severity != SeverityHigh {
		t.Errorf("Severity = %q, want %q", q.Severity, SeverityHigh)
	}
}

func TestParseFilterQuery_BareDateToCoversWholeDay(t *testing.T) {
	q, err := ParseFilterQuery("", "", "", "", "", "", "2026-03-15", "")
	if err != nil {
		t.Fatalf("ParseFilterQuery: %v", err)
	}
	endOfDay := time.Date(2026, 3, 15, 23, 59, 59, 999999999, time.Local)
	if !q.DateTo.Equal(endOfDay) {
		t.Errorf("DateTo = %v, want %v", q.DateTo, endOfDay)
	}
}

func TestBuildFilters_EmptyQueryMatchesEverything(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	entries := fixtureEntries(base)

	ps := BuildFilters(FilterQuery{}, auth.RoleSuperAdmin, "")
	got := ps.Apply(entries)
	if len(got) != len(entries) {
		t.Fatalf("matched %d entries, want %d", len(got), len(entries))
	}

	// Newest first.
	if got[0].ID != "e6" || got[len(got)-1].ID != "e1" {
		t.Errorf("ordering wrong: first=%s last=%s", got[0].ID, got[len(got)-1].ID)
	}
}

func TestBuildFilters_CategoryWorkflow(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	entries := fixtureEntries(base)

	ps := BuildFilters(FilterQuery{Category: CategoryWorkflow}, auth.RoleSuperAdmin, "")
	got := ps.Apply(entries)
	if len(got) != 2 {
		t.Fatalf("matched %d entries, want 2", len(got))
	}
	if got[0].ID != "e5" || got[1].ID != "e4" {
		t.Errorf("got entries %s, %s; want e5, e4", got[0].ID, got[1].ID)
	}

	stats := Summarize(got, base.Add(26*time.Hour))
	if stats.CriticalEvents != 0 {
		t.Errorf("CriticalEvents = %d, want 0", stats.CriticalEvents)
	}
}

func TestBuildFilters_ConjunctionOfActionAndSeverity(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	entries := fixtureEntries(base)

	ps := BuildFilters(FilterQuery{Action: ActionCreate, Severity: SeverityMedium}, auth.RoleSuperAdmin, "")
	got := ps.Apply(entries)
	if len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("got %d entries, want exactly e1", len(got))
	}

	// Same action with a severity no entry has: conjunction must eliminate all.
	ps = BuildFilters(FilterQuery{Action: ActionCreate, Severity: SeverityCritical}, auth.RoleSuperAdmin, "")
	if got := ps.Apply(entries); len(got) != 0 {
		t.Errorf("got %d entries, want 0", len(got))
	}
}

func TestBuildFilters_FreeTextSearchIsCaseInsensitive(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	entries := fixtureEntries(base)

	// Matches the actor name on e3/e4 regardless of case.
	ps := BuildFilters(FilterQuery{Search: "bUdI"}, auth.RoleSuperAdmin, "")
	got := ps.Apply(entries)
	if len(got) != 2 {
		t.Fatalf("matched %d entries, want 2", len(got))
	}

	// Matches the description on e6.
	ps = BuildFilters(FilterQuery{Search: "BACKUP COMPLETED"}, auth.RoleSuperAdmin, "")
	got = ps.Apply(entries)
	if len(got) != 1 || got[0].ID != "e6" {
		t.Fatalf("search over description failed: got %d entries", len(got))
	}
}

func TestBuildFilters_DateRangeIsInclusive(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	entries := fixtureEntries(base)

	ps := BuildFilters(FilterQuery{
		DateFrom: base.Add(2 * time.Hour), // exactly e2
		DateTo:   base.Add(4 * time.Hour), // exactly e4
	}, auth.RoleSuperAdmin, "")
	got := ps.Apply(entries)
	if len(got) != 3 {
		t.Fatalf("matched %d entries, want 3 (e2..e4 inclusive)", len(got))
	}
}

func TestBuildFilters_RegionalAdminScopedToOwnRegion(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	entries := fixtureEntries(base)

	ps := BuildFilters(FilterQuery{}, auth.RoleRegionalAdmin, "reg-jabar")
	got := ps.Apply(entries)
	if len(got) != 2 {
		t.Fatalf("matched %d entries, want 2 (reg-jabar only)", len(got))
	}
	for _, e := range got {
		if e.ActorRegionID == nil || *e.ActorRegionID != "reg-jabar" {
			t.Errorf("entry %s leaked outside caller's region", e.ID)
		}
	}

	// Super admins with a region set are still unscoped.
	ps = BuildFilters(FilterQuery{}, auth.RoleSuperAdmin, "reg-jabar")
	if got := ps.Apply(entries); len(got) != len(entries) {
		t.Errorf("super admin saw %d entries, want all %d", len(got), len(entries))
	}
}

func TestBuildFilters_TieBreakByIDAscending(t *testing.T) {
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	entries := []*Entry{
		{ID: "b", Action: ActionCreate, Category: CategoryDataChange, Severity: SeverityLow, OccurredAt: ts},
		{ID: "a", Action: ActionCreate, Category: CategoryDataChange, Severity: SeverityLow, OccurredAt: ts},
		{ID: "c", Action: ActionCreate, Category: CategoryDataChange, Severity: SeverityLow, OccurredAt: ts.Add(-time.Minute)},
	}

	got := BuildFilters(FilterQuery{}, auth.RoleSuperAdmin, "").Apply(entries)
	wantOrder := []string{"a", "b", "c"}
	for i, e := range got {
		if e.ID != wantOrder[i] {
			t.Fatalf("position %d = %s, want %s", i, e.ID, wantOrder[i])
		}
	}
}

func TestBuildFilters_SQLRendering(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	ps := BuildFilters(FilterQuery{
		Action:   ActionApprove,
		Severity: SeverityHigh,
		DateFrom: from,
		Search:   "assessment",
	}, auth.RoleRegionalAdmin, "reg-jabar")

	fragment, args := ps.SQL(1)
	want := " AND action = $1 AND severity = $2 AND occurred_at >= $3" +
		" AND (description ILIKE $4 OR actor_name ILIKE $4) AND actor_region_id = $5"
	if fragment != want {
		t.Errorf("fragment = %q\nwant       %q", fragment, want)
	}
	wantArgs := []interface{}{"approve", "high", from, "%assessment%", "reg-jabar"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}

	// Placeholder numbering must honour the start index for queries that
	// already consumed parameters.
	fragment, _ = ps.SQL(3)
	if want := " AND action = $3"; fragment[:len(want)] != want {
		t.Errorf("fragment with start index 3 = %q", fragment)
	}
}

func TestBuildFilters_Idempotent(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	entries := fixtureEntries(base)
	q := FilterQuery{Category: CategoryWorkflow, Search: "assessment"}

	first := BuildFilters(q, auth.RoleSuperAdmin, "").Apply(entries)
	second := BuildFilters(q, auth.RoleSuperAdmin, "").Apply(entries)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different results")
	}

	f1, a1 := BuildFilters(q, auth.RoleSuperAdmin, "").SQL(1)
	f2, a2 := BuildFilters(q, auth.RoleSuperAdmin, "").SQL(1)
	if f1 != f2 || !reflect.DeepEqual(a1, a2) {
		t.Error("identical inputs produced different SQL")
	}
}

func TestSummarize(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	entries := fixtureEntries(base)

	// "now" is the same calendar day as the last three fixture entries hours
	// 4–6; pick a now where only entries on that date count. All fixtures are
	// on base's date, so every entry is "today".
	now := base.Add(23 * time.Hour)
	stats := Summarize(entries, now)

	if stats.Total != 6 {
		t.Errorf("Total = %d, want 6", stats.Total)
	}
	if stats.CriticalEvents != 0 {
		t.Errorf("CriticalEvents = %d, want 0", stats.CriticalEvents)
	}
	if stats.TodayEvents != 6 {
		t.Errorf("TodayEvents = %d, want 6", stats.TodayEvents)
	}
	// u-rina, u-budi, u-sari; the system backup entry has no actor.
	if stats.DistinctActors != 3 {
		t.Errorf("DistinctActors = %d, want 3", stats.DistinctActors)
	}
}

func TestSummarize_TodayBoundary(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	entries := fixtureEntries(base) // entries at base+1h .. base+6h

	// The next calendar day: none of the entries count as "today".
	stats := Summarize(entries, base.Add(25*time.Hour))
	if stats.TodayEvents != 0 {
		t.Errorf("TodayEvents = %d, want 0", stats.TodayEvents)
	}
	if stats.Total != 6 {
		t.Errorf("Total = %d, want 6", stats.Total)
	}
}

func TestSummarize_CountsCritical(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	entries := []*Entry{
		{ID: "x1", Severity: SeverityCritical, OccurredAt: now},
		{ID: "x2", Severity: SeverityHigh, OccurredAt: now},
		{ID: "x3", Severity: SeverityCritical, OccurredAt: now},
	}
	stats := Summarize(entries, now)
	if stats.CriticalEvents != 2 {
		t.Errorf("CriticalEvents = %d, want 2", stats.CriticalEvents)
	}
}
