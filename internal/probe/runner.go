package probe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/octofit/pkg/logger"
)

// Run executes a complete probe against a running dashboard.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	if config.Settle <= 0 {
		config.Settle = DefaultSettle
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Verbose {
		_ = logger.SetLevelString("debug")
	}
	log := logger.Get().Named("probe")

	log.Info(ctx, "starting dashboard probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("rounds", config.Rounds),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("pageWalk", config.PageWalk))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check dashboard health
	if err := client.health(ctx); err != nil {
		return stats, fmt.Errorf("dashboard health check failed: %w", err)
	}

	// Step 2: Mount, settle, verify and unmount views concurrently
	exerciseViews(ctx, log, client, config, stats)

	// Step 3: Walk every users page
	if config.PageWalk {
		if err := walkUsers(ctx, log, client, config, stats); err != nil {
			return stats, fmt.Errorf("users page walk failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	if stats.ViewsSettled > 0 {
		stats.SettleLatency = stats.settleTotalDur / time.Duration(stats.ViewsSettled)
	}
	displayFinalStats(ctx, log, stats)

	if stats.Violations > 0 {
		return stats, fmt.Errorf("%d snapshot violations", stats.Violations)
	}
	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

type viewResult struct {
	mounted     bool
	settled     bool
	failed      bool
	busy        bool
	settleAfter time.Duration
	violations  []error
}

func exerciseViews(ctx context.Context, log logger.Logger, client *HTTPClient, config *Config, stats *Stats) {
	jobs := make(chan string, config.Workers*WorkerChannelMultiplier)
	results := make(chan viewResult, config.Workers*WorkerChannelMultiplier)

	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for resource := range jobs {
				results <- exerciseView(ctx, client, config, resource)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for round := 0; round < config.Rounds; round++ {
			for _, res := range Resources {
				select {
				case <-ctx.Done():
					return
				case jobs <- res:
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		if r.mounted {
			stats.ViewsMounted++
		}
		if r.busy {
			stats.Backpressured++
		}
		if r.settled {
			stats.ViewsSettled++
			stats.settleTotalDur += r.settleAfter
		} else if r.mounted && !r.failed {
			stats.ViewsTimedOut++
		}
		if r.failed {
			stats.ViewsFailed++
		}
		for _, v := range r.violations {
			stats.Violations++
			log.Warn(ctx, "snapshot violation", logger.Error(v))
		}
		if config.Verbose {
			log.Debug(ctx, "view exercised",
				logger.Bool("settled", r.settled),
				logger.Duration("settleAfter", r.settleAfter))
		}
	}
}

func exerciseView(ctx context.Context, client *HTTPClient, config *Config, resource string) viewResult {
	var r viewResult
	start := time.Now()

	snap, err := client.mount(ctx, resource)
	if err != nil {
		r.busy = errors.Is(err, ErrBackpressure)
		r.failed = !r.busy
		return r
	}
	r.mounted = true
	defer func() { _ = client.unmount(context.WithoutCancel(ctx), snap.ID) }()

	settled, ok, err := client.settle(ctx, snap.ID, config.Settle)
	if err != nil {
		r.failed = true
		return r
	}
	if !ok {
		return r
	}
	r.settled = true
	r.settleAfter = time.Since(start)
	r.violations = verifySnapshot(settled)
	return r
}

// walkUsers mounts one users view and visits every page in order.
func walkUsers(ctx context.Context, log logger.Logger, client *HTTPClient, config *Config, stats *Stats) error {
	snap, err := client.mount(ctx, usersResource)
	if err != nil {
		return err
	}
	defer func() { _ = client.unmount(context.WithoutCancel(ctx), snap.ID) }()

	first, ok, err := client.settle(ctx, snap.ID, config.Settle)
	if err != nil {
		return err
	}
	if !ok || first.Page == nil {
		return fmt.Errorf("users view did not settle")
	}
	stats.PagesVisited++

	for page := 2; page <= first.Page.TotalPages; page++ {
		if _, err := client.setPage(ctx, snap.ID, page); err != nil {
			return err
		}
		got, ok, err := client.settle(ctx, snap.ID, config.Settle)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("page %d did not settle", page)
		}
		stats.PagesVisited++
		for _, v := range verifySnapshot(got) {
			stats.Violations++
			log.Warn(ctx, "snapshot violation", logger.Int("page", page), logger.Error(v))
		}
	}
	log.Info(ctx, "users pages walked", logger.Int("pages", stats.PagesVisited))
	return nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "final statistics",
		logger.Int("viewsMounted", stats.ViewsMounted),
		logger.Int("viewsSettled", stats.ViewsSettled),
		logger.Int("viewsFailed", stats.ViewsFailed),
		logger.Int("viewsTimedOut", stats.ViewsTimedOut),
		logger.Int("backpressured", stats.Backpressured),
		logger.Int("pagesVisited", stats.PagesVisited),
		logger.Int("violations", stats.Violations),
		logger.Duration("meanSettle", stats.SettleLatency),
		logger.Duration("duration", stats.Duration))
}
