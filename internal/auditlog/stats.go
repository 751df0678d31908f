// stats.go derives the summary counters shown alongside filtered audit results.
package auditlog

import "time"

// SummaryStats aggregates the filtered set of audit entries for the dashboard
// header: total rows, critical-severity rows, rows from the current server-local
// calendar day, and the number of distinct actors.
type SummaryStats struct {
	Total          int `json:"total"`
	CriticalEvents int `json:"critical_events"`
	TodayEvents    int `json:"today_events"`
	DistinctActors int `json:"distinct_actors"`
}

// Summarize computes SummaryStats over an already-filtered set of entries.
// "Today" is the calendar day of now in now's location. Entries without an actor
// (system actions) do not contribute to the distinct-actor count.
func Summarize(entries []*Entry, now time.Time) SummaryStats {
	stats := SummaryStats{Total: len(entries)}

	y, m, d := now.Date()
	actors := make(map[string]struct{})

	for _, e := range entries {
		if e.Severity == SeverityCritical {
			stats.CriticalEvents++
		}
		ey, em, ed := e.OccurredAt.In(now.Location()).Date()
		if ey == y && em == m && ed == d {
			stats.TodayEvents++
		}
		if e.ActorID != nil {
			actors[*e.ActorID] = struct{}{}
		}
	}

	stats.DistinctActors = len(actors)
	return stats
}
