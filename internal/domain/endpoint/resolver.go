// Package endpoint derives upstream API addresses from the process environment.
package endpoint

import (
	"net/url"
	"strings"
)

// Upstream addressing constants.
const (
	DefaultSandboxDomain = "app.github.dev"
	apiPort              = "8000"
	localHost            = "localhost:" + apiPort
)

// Environment is the process-wide context the resolver depends on. It is
// read once at startup and never mutated afterwards.
type Environment struct {
	// SandboxID identifies a hosted sandbox. Empty means local development.
	SandboxID string
	// SandboxDomain is the domain hosted sandboxes are published under.
	SandboxDomain string
}

// Resolver builds collection URLs for the fitness API.
type Resolver struct {
	scheme string
	host   string
}

// NewResolver fixes the scheme and host for the lifetime of the process.
func NewResolver(env Environment) *Resolver {
	id := strings.TrimSpace(env.SandboxID)
	if id == "" {
		return &Resolver{scheme: "http", host: localHost}
	}
	domain := strings.TrimSpace(env.SandboxDomain)
	if domain == "" {
		domain = DefaultSandboxDomain
	}
	return &Resolver{scheme: "https", host: id + "-" + apiPort + "." + domain}
}

// Base returns the API root, e.g. "http://localhost:8000/api/".
func (r *Resolver) Base() string {
	return r.scheme + "://" + r.host + "/api/"
}

// Resolve returns the collection URL for segment with query appended.
// The path always ends in a slash, matching the API's trailing-slash routes.
func (r *Resolver) Resolve(segment string, query url.Values) string {
	u := url.URL{
		Scheme: r.scheme,
		Host:   r.host,
		Path:   "/api/" + strings.Trim(segment, "/") + "/",
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
