// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/octofit/internal/app"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Mount(ctx context.Context, resource string) (Snapshot, error)
	Snapshot(ctx context.Context, id string) (Snapshot, error)
	SetPage(ctx context.Context, id string, page int) (Snapshot, error)
	SetSort(ctx context.Context, id, key string) (Snapshot, error)
	Refresh(ctx context.Context, id string) (Snapshot, error)
	Unmount(ctx context.Context, id string) error
	Views(ctx context.Context) ([]Summary, error)
}

// Snapshot is the read model returned for a single view.
type Snapshot = service.Snapshot

// Summary is the list entry returned by GET /views.
type Summary = service.Summary

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	viewsHandler     *ViewsHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		viewsHandler:     NewViewsHandler(deps),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/dashboard", s.dashboardHandler.HandleDashboard)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	v := s.viewsHandler
	r.Route("/views", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(v.HandleList, "views_list"))
		// {view} names a resource on POST and a view id everywhere else.
		r.Post("/{view}", MetricsMiddleware(v.HandleMount, "views_mount"))
		r.Get("/{view}", MetricsMiddleware(v.HandleGet, "views_get"))
		r.Delete("/{view}", MetricsMiddleware(v.HandleUnmount, "views_unmount"))
		r.Put("/{view}/page", MetricsMiddleware(v.HandleSetPage, "views_page"))
		r.Put("/{view}/sort", MetricsMiddleware(v.HandleSetSort, "views_sort"))
		r.Post("/{view}/refresh", MetricsMiddleware(v.HandleRefresh, "views_refresh"))
	})
}
