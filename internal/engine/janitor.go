package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/savannahworks/uliza/internal/observability"
	"github.com/savannahworks/uliza/pkg/ports"
)

// Janitor sweeps expired sessions on a fixed interval, decoupled from
// request handling. Sweeps run one at a time; the store's purge
// operation re-checks expiry just before each delete, so the janitor
// never races a request that is actively extending a session.
type Janitor struct {
	store    ports.SessionStore
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewJanitor creates a janitor sweeping every interval. Each sweep is
// bounded by timeout.
func NewJanitor(store ports.SessionStore, interval, timeout time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		store:    store,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Start begins the background sweep schedule.
func (j *Janitor) Start() error {
	j.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := j.cron.AddFunc("@every "+j.interval.String(), j.sweep); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}

// Sweep runs one purge pass immediately. Exposed for the CLI and
// tests; Start schedules it.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	purged, err := j.store.PurgeExpired(ctx)
	if err != nil {
		observability.RecordStoreError("purge")
		return purged, err
	}
	observability.RecordPurged(purged)
	return purged, nil
}

func (j *Janitor) sweep() {
	purged, err := j.Sweep(context.Background())
	if err != nil {
		j.logger.Warn("session sweep failed", "err", err)
		return
	}
	if purged > 0 {
		j.logger.Info("purged expired sessions", "count", purged)
	}
}
