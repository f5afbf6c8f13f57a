package scheduler

import (
	"context"
	"time"

	"github.com/minedex/minedex/internal/domain"
	"github.com/minedex/minedex/internal/logger"
	"github.com/minedex/minedex/internal/registry"
	redisstore "github.com/minedex/minedex/internal/store/redis"
)

// Prober is the outbound status dependency of the refresher.
type Prober interface {
	Probe(ctx context.Context, host string, port int) domain.Status
}

// StatusRefresher periodically probes every registered server and warms the
// status cache, so list pages read warm data instead of waiting on probes.
type StatusRefresher struct {
	registry      *registry.Store
	prober        Prober
	cache         *redisstore.Store
	logger        logger.Logger
	interval      time.Duration
	ttl           time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewStatusRefresher builds a refresher. manualTrigger lets the HTTP layer
// request an immediate refresh.
func NewStatusRefresher(
	reg *registry.Store,
	prober Prober,
	cache *redisstore.Store,
	log logger.Logger,
	interval time.Duration,
	ttl time.Duration,
	manualTrigger chan struct{},
) *StatusRefresher {
	return &StatusRefresher{
		registry:      reg,
		prober:        prober,
		cache:         cache,
		logger:        log,
		interval:      interval,
		ttl:           ttl,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start launches the refresh loop. The first refresh runs asynchronously so
// a slow probe round never delays boot.
func (sr *StatusRefresher) Start(ctx context.Context) {
	ticker := time.NewTicker(sr.interval)
	go func() {
		defer ticker.Stop()
		sr.Refresh(ctx)
		for {
			select {
			case <-ticker.C:
				sr.Refresh(ctx)
			case <-sr.manualTrigger:
				sr.logger.Info("manual status refresh triggered")
				sr.Refresh(ctx)
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the refresh loop.
func (sr *StatusRefresher) Stop() {
	close(sr.stopCh)
}

// Refresh probes all registered servers sequentially and caches each result.
// Sequential is fine for a directory-sized list; each probe is individually
// bounded by the prober's timeout.
func (sr *StatusRefresher) Refresh(ctx context.Context) {
	entries, err := sr.registry.List()
	if err != nil {
		sr.logger.Warn("status refresh reading registry failed", logger.Error(err))
	}
	if len(entries) == 0 {
		return
	}

	start := time.Now()
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		st := sr.prober.Probe(ctx, entry.Host, entry.Port)
		if err := sr.cache.SetStatus(ctx, entry.ID, st, sr.ttl); err != nil {
			sr.logger.Warn("failed to cache refreshed status",
				logger.String("id", entry.ID),
				logger.Error(err))
		}
	}
	sr.logger.Info("status refresh completed",
		logger.Int("servers", len(entries)),
		logger.Duration("elapsed", time.Since(start)))
}
