package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"

	"github.com/MrSnakeDoc/inbox/internal/logger"
)

// DefaultSchedule runs housekeeping once a day.
const DefaultSchedule = "@every 24h"

// ErrAlreadyRunning is returned by Run when a previous pass has not finished.
var ErrAlreadyRunning = errors.New("housekeeping already running")

// Target is the part of the record store housekeeping needs.
type Target interface {
	Count(ctx context.Context) (int64, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Report summarizes one housekeeping pass.
type Report struct {
	Records int64
	Purged  int64
}

// Housekeeper periodically logs the store size and, when a retention is
// configured, purges records older than it.
type Housekeeper struct {
	target    Target
	logger    logger.Logger
	schedule  string
	retention time.Duration
	now       func() time.Time

	cron    *cron.Cron
	running atomic.Bool
	stop    sync.Once
	cancel  context.CancelFunc
}

// NewHousekeeper creates a housekeeper. A zero retention never purges.
func NewHousekeeper(
	target Target,
	log logger.Logger,
	schedule string,
	retention time.Duration,
) *Housekeeper {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	return &Housekeeper{
		target:    target,
		logger:    log,
		schedule:  schedule,
		retention: retention,
		now:       time.Now,
		cron:      cron.New(),
	}
}

// Start runs one pass immediately and then follows the cron schedule until
// Stop is called or ctx is done.
func (h *Housekeeper) Start(ctx context.Context) error {
	ctx, h.cancel = context.WithCancel(ctx)

	if err := h.cron.AddFunc(h.schedule, func() { h.tick(ctx) }); err != nil {
		h.cancel()
		return fmt.Errorf("invalid housekeeping schedule %q: %w", h.schedule, err)
	}

	if _, err := h.Run(ctx); err != nil {
		h.logger.Warn("initial housekeeping failed", logger.Error(err))
	}

	h.cron.Start()
	go func() {
		<-ctx.Done()
		h.Stop()
	}()

	h.logger.Info("housekeeping scheduled",
		logger.String("schedule", h.schedule),
		logger.Duration("retention", h.retention))
	return nil
}

// Stop halts the schedule. It is safe to call more than once.
func (h *Housekeeper) Stop() {
	h.stop.Do(func() {
		h.cron.Stop()
		if h.cancel != nil {
			h.cancel()
		}
	})
}

func (h *Housekeeper) tick(ctx context.Context) {
	if _, err := h.Run(ctx); err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			h.logger.Warn("housekeeping skipped, previous pass still running")
			return
		}
		h.logger.Error("housekeeping failed", logger.Error(err))
	}
}

// Run performs one pass. Overlapping calls return ErrAlreadyRunning.
func (h *Housekeeper) Run(ctx context.Context) (Report, error) {
	if !h.running.CompareAndSwap(false, true) {
		return Report{}, ErrAlreadyRunning
	}
	defer h.running.Store(false)

	var rep Report

	if h.retention > 0 {
		cutoff := h.now().Add(-h.retention)
		n, err := h.target.PurgeOlderThan(ctx, cutoff)
		if err != nil {
			return rep, fmt.Errorf("purge records older than %s: %w", cutoff.Format(time.RFC3339), err)
		}
		rep.Purged = n
		if n > 0 {
			h.logger.Info("purged expired records",
				logger.Int64("purged", n),
				logger.Time("cutoff", cutoff))
		}
	}

	count, err := h.target.Count(ctx)
	if err != nil {
		return rep, fmt.Errorf("count records: %w", err)
	}
	rep.Records = count

	h.logger.Info("housekeeping completed",
		logger.Int64("records", rep.Records),
		logger.Int64("purged", rep.Purged))
	return rep, nil
}
