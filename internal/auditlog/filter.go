// filter.go builds the conjunctive predicate set applied to audit entries by the
// query endpoint. BuildFilters is pure: it validates the caller's filter values,
// applies the role-based region-scoping policy, and returns a PredicateSet that
// the repository renders to SQL and that tests evaluate in memory.
package auditlog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/taman-kehati/taman-kehati/internal/auth"
	"github.com/taman-kehati/taman-kehati/internal/validation"
)

// FilterQuery is the transient set of optional constraints a caller supplies.
// Zero values mean "not filtered".
type FilterQuery struct {
	Action     Action
	EntityType EntityType
	Category   Category
	Severity   Severity
	ActorID    string
	DateFrom   time.Time // inclusive
	DateTo     time.Time // inclusive
	Search     string    // case-insensitive substring over description + actor name
}

// ParseFilterQuery validates raw query-string values into a FilterQuery. Empty
// strings are treated as absent; anything else must parse into its closed enum.
// Dates accept RFC 3339 or plain YYYY-MM-DD (a bare date_to covers the whole day).
func ParseFilterQuery(action, entity, category, severity, actorID, dateFrom, dateTo, search string) (FilterQuery, error) {
	var q FilterQuery
	var err error

	if action != "" {
		if q.Action, err = ParseAction(action); err != nil {
			return FilterQuery{}, err
		}
	}
	if entity != "" {
		if q.EntityType, err = ParseEntityType(entity); err != nil {
			return FilterQuery{}, err
		}
	}
	if category != "" {
		if q.Category, err = ParseCategory(category); err != nil {
			return FilterQuery{}, err
		}
	}
	if severity != "" {
		if q.Severity, err = ParseSeverity(severity); err != nil {
			return FilterQuery{}, err
		}
	}
	q.ActorID = actorID
	q.Search = search

	if dateFrom != "" {
		if q.DateFrom, err = parseDate("date_from", dateFrom, false); err != nil {
			return FilterQuery{}, err
		}
	}
	if dateTo != "" {
		if q.DateTo, err = parseDate("date_to", dateTo, true); err != nil {
			return FilterQuery{}, err
		}
	}
	if err = validation.ValidateDateRange(q.DateFrom, q.DateTo); err != nil {
		return FilterQuery{}, err
	}

	return q, nil
}

// parseDate accepts RFC 3339 timestamps or bare dates. A bare end-of-range date
// is extended to 23:59:59.999999999 so the range stays inclusive of that day.
func parseDate(field, value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, validation.NewValidationError(field, value, "must be RFC 3339 or YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// predicate is one conjunct: a SQL column condition plus its in-memory equivalent.
type predicate struct {
	sql   func(argIndex int) (string, []interface{})
	match func(e *Entry) bool
}

// PredicateSet is the conjunction of filter conditions applied to the audit log.
// An empty set matches every entry.
type PredicateSet struct {
	predicates []predicate
}

// regionScopePolicy maps a caller role to the region restriction it operates
// under. Roles absent from the table (or mapped to nil) see all entries. Keeping
// this as a table rather than branching inside BuildFilters means new roles get
// their visibility rule in exactly one place.
var regionScopePolicy = map[auth.Role]func(regionID string) *predicate{
	auth.RoleRegionalAdmin: func(regionID string) *predicate {
		return &predicate{
			sql: func(i int) (string, []interface{}) {
				return fmt.Sprintf(" AND actor_region_id = $%d", i), []interface{}{regionID}
			},
			match: func(e *Entry) bool {
				return e.ActorRegionID != nil && *e.ActorRegionID == regionID
			},
		}
	},
	// Super admins and viewers see the full log; viewers are admitted to the
	// endpoint at all only because the RBAC middleware allows read access.
}

// BuildFilters converts a validated FilterQuery plus the caller's identity into
// the conjunctive predicate set for the audit query. The query values are assumed
// to have passed ParseFilterQuery; a zero FilterQuery yields a set that matches
// all records the caller's role may see.
func BuildFilters(q FilterQuery, callerRole auth.Role, callerRegionID string) PredicateSet {
	var ps PredicateSet

	if q.Action != "" {
		ps.add(eqPredicate("action", string(q.Action), func(e *Entry) string { return string(e.Action) }))
	}
	if q.EntityType != "" {
		ps.add(eqPredicate("entity_type", string(q.EntityType), func(e *Entry) string { return string(e.EntityType) }))
	}
	if q.Category != "" {
		ps.add(eqPredicate("category", string(q.Category), func(e *Entry) string { return string(e.Category) }))
	}
	if q.Severity != "" {
		ps.add(eqPredicate("severity", string(q.Severity), func(e *Entry) string { return string(e.Severity) }))
	}
	if q.ActorID != "" {
		actorID := q.ActorID
		ps.add(predicate{
			sql: func(i int) (string, []interface{}) {
				return fmt.Sprintf(" AND actor_id = $%d", i), []interface{}{actorID}
			},
			match: func(e *Entry) bool { return e.ActorID != nil && *e.ActorID == actorID },
		})
	}
	if !q.DateFrom.IsZero() {
		from := q.DateFrom
		ps.add(predicate{
			sql: func(i int) (string, []interface{}) {
				return fmt.Sprintf(" AND occurred_at >= $%d", i), []interface{}{from}
			},
			match: func(e *Entry) bool { return !e.OccurredAt.Before(from) },
		})
	}
	if !q.DateTo.IsZero() {
		to := q.DateTo
		ps.add(predicate{
			sql: func(i int) (string, []interface{}) {
				return fmt.Sprintf(" AND occurred_at <= $%d", i), []interface{}{to}
			},
			match: func(e *Entry) bool { return !e.OccurredAt.After(to) },
		})
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		ps.add(predicate{
			sql: func(i int) (string, []interface{}) {
				return fmt.Sprintf(" AND (description ILIKE $%d OR actor_name ILIKE $%d)", i, i),
					[]interface{}{"%" + q.Search + "%"}
			},
			match: func(e *Entry) bool {
				return strings.Contains(strings.ToLower(e.Description), needle) ||
					strings.Contains(strings.ToLower(e.ActorName), needle)
			},
		})
	}

	if scope, ok := regionScopePolicy[callerRole]; ok && scope != nil {
		if p := scope(callerRegionID); p != nil {
			ps.add(*p)
		}
	}

	return ps
}

func (ps *PredicateSet) add(p predicate) {
	ps.predicates = append(ps.predicates, p)
}

func eqPredicate(column, value string, extract func(e *Entry) string) predicate {
	return predicate{
		sql: func(i int) (string, []interface{}) {
			return fmt.Sprintf(" AND %s = $%d", column, i), []interface{}{value}
		},
		match: func(e *Entry) bool { return extract(e) == value },
	}
}

// SQL renders the predicate set as a conjunctive WHERE fragment starting at the
// given placeholder index. The fragment begins with " AND" so it can be appended
// to a query that already has "WHERE 1=1" (the repository convention). A shared
// argument (the ILIKE needle) occupies one placeholder even when referenced
// twice, so placeholder numbering follows len(args).
func (ps PredicateSet) SQL(startIndex int) (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0, len(ps.predicates))

	idx := startIndex
	for _, p := range ps.predicates {
		fragment, fragArgs := p.sql(idx)
		sb.WriteString(fragment)
		args = append(args, fragArgs...)
		idx += len(fragArgs)
	}

	return sb.String(), args
}

// Matches evaluates the conjunction against a single entry in memory. An empty
// predicate set matches everything.
func (ps PredicateSet) Matches(e *Entry) bool {
	for _, p := range ps.predicates {
		if !p.match(e) {
			return false
		}
	}
	return true
}

// Apply filters and orders a slice of entries in memory: the conjunction is
// evaluated per entry and survivors are sorted by occurred_at descending with id
// ascending as the stable tiebreak — the same ordering the repository requests
// from SQL.
func (ps PredicateSet) Apply(entries []*Entry) []*Entry {
	matched := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if ps.Matches(e) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].OccurredAt.Equal(matched[j].OccurredAt) {
			return matched[i].OccurredAt.After(matched[j].OccurredAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return matched
}
