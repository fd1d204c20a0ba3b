// Package ordering applies the dashboard's display sort to a page of records.
package ordering

import (
	"sort"
	"strings"
	"time"

	"github.com/okian/octofit/internal/domain/model"
)

// Date layouts accepted for activity dates, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// SortedView returns a copy of items ordered by key. The input slice is not
// modified and the sort is stable, so records with equal keys keep their
// server order.
func SortedView(items []model.Record, key model.SortKey) []model.Record {
	out := make([]model.Record, len(items))
	copy(out, items)

	switch key {
	case model.SortByTeam:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Str("team_name") < out[j].Str("team_name")
		})
	case model.SortByActivityDate:
		latest := make(map[int]time.Time, len(out))
		idx := make([]int, len(out))
		for i, rec := range out {
			idx[i] = i
			if t, ok := LatestActivity(rec); ok {
				latest[i] = t
			}
		}
		sort.SliceStable(idx, func(a, b int) bool {
			ta, okA := latest[idx[a]]
			tb, okB := latest[idx[b]]
			switch {
			case okA && okB:
				return ta.After(tb)
			case okA:
				return true
			default:
				return false
			}
		})
		sorted := make([]model.Record, len(out))
		for i, j := range idx {
			sorted[i] = out[j]
		}
		out = sorted
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Str("name") < out[j].Str("name")
		})
	}
	return out
}

// LatestActivity returns the most recent parseable date among the record's
// nested activities.
func LatestActivity(rec model.Record) (time.Time, bool) {
	var (
		best  time.Time
		found bool
	)
	for _, act := range rec.List("activities") {
		t, ok := ParseDate(act.Str("date"))
		if !ok {
			continue
		}
		if !found || t.After(best) {
			best, found = t, true
		}
	}
	return best, found
}

// ParseDate parses an activity date in any of the layouts the API emits.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
