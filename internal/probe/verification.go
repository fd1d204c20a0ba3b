package probe

import (
	"encoding/json"
	"fmt"
	"sort"
)

// verifySnapshot checks a settled snapshot for internal consistency and
// returns every violation found.
func verifySnapshot(snap Snapshot) []error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s %s: "+format, append([]any{snap.Resource, snap.ID}, args...)...))
	}

	switch snap.State.Status {
	case statusError:
		if snap.State.Message == "" {
			add("error state without a message")
		}
		return errs
	case statusSuccess:
	default:
		add("unexpected status %q", snap.State.Status)
		return errs
	}

	if len(snap.Cards) != len(snap.State.Items) {
		add("%d cards for %d items", len(snap.Cards), len(snap.State.Items))
	}
	if snap.Empty != (len(snap.State.Items) == 0) {
		add("empty flag %v with %d items", snap.Empty, len(snap.State.Items))
	}
	if snap.Empty && snap.Notice == "" {
		add("empty view without a notice")
	}

	if snap.Resource != usersResource {
		if snap.Page != nil {
			add("unpaged resource reports paging")
		}
		return errs
	}

	p := snap.Page
	if p == nil {
		add("users view without paging")
		return errs
	}
	if len(snap.State.Items) > p.Size {
		add("%d items exceed page size %d", len(snap.State.Items), p.Size)
	}
	if want := (snap.State.TotalCount + p.Size - 1) / p.Size; p.TotalPages != want {
		add("total pages %d, want %d", p.TotalPages, want)
	}
	if p.Current < 1 || (p.TotalPages > 0 && p.Current > p.TotalPages) {
		add("current page %d outside 1..%d", p.Current, p.TotalPages)
	}
	if p.TotalPages > 0 && !windowHas(snap, p.Current) {
		add("window does not include current page %d", p.Current)
	}
	if p.SortKey == defaultSortName && !sortedByName(snap) {
		add("page not sorted by name")
	}
	return errs
}

func windowHas(snap Snapshot, page int) bool {
	for _, m := range snap.Page.Window {
		if !m.Ellipsis && m.Page == page {
			return true
		}
	}
	return false
}

func sortedByName(snap Snapshot) bool {
	names := make([]string, len(snap.State.Items))
	for i, raw := range snap.State.Items {
		var item struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(raw, &item)
		names[i] = item.Name
	}
	return sort.StringsAreSorted(names)
}
