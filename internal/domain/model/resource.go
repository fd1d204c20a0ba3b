// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Resource names one collection exposed by the fitness API.
type Resource string

// Known resources. The value doubles as the API path segment.
const (
	ResourceUsers       Resource = "users"
	ResourceTeams       Resource = "teams"
	ResourceActivities  Resource = "activities"
	ResourceLeaderboard Resource = "leaderboard"
	ResourceWorkouts    Resource = "workouts"
)

var resources = []Resource{
	ResourceUsers,
	ResourceTeams,
	ResourceActivities,
	ResourceLeaderboard,
	ResourceWorkouts,
}

// Resources returns every known resource in navigation order.
func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

// ParseResource maps a path segment to a Resource.
func ParseResource(s string) (Resource, error) {
	candidate := Resource(strings.ToLower(strings.TrimSpace(s)))
	for _, r := range resources {
		if r == candidate {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResource, s)
}

// Segment returns the API path segment for the resource.
func (r Resource) Segment() string { return string(r) }

// Paged reports whether the resource is fetched page by page.
// Only users are paged; every other collection is fetched whole.
func (r Resource) Paged() bool { return r == ResourceUsers }
