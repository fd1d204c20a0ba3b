package service

import (
	"github.com/okian/octofit/internal/domain/resource"
	"github.com/okian/octofit/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithResolver sets how collection URLs are built.
func WithResolver(r resource.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithFetcher sets the upstream fetcher.
func WithFetcher(f resource.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithQueueSize sets the maximum number of pending view events.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxViews bounds the number of mounted views.
func WithMaxViews(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxViews = n
		}
	}
}

// WithPageSize sets the users page size.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
