package model

import (
	"fmt"
	"strings"
)

// SortKey selects the display order applied within the current page.
type SortKey string

// Supported display sort keys.
const (
	SortByName         SortKey = "name"
	SortByTeam         SortKey = "team"
	SortByActivityDate SortKey = "activity_date"
)

// ParseSortKey validates a raw sort key.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case SortByName, SortByTeam, SortByActivityDate:
		return key, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
	}
}
