package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dwightmulcahy/PeakHODLer/internal/coinglass"
	"github.com/dwightmulcahy/PeakHODLer/internal/prefs"
	"github.com/dwightmulcahy/PeakHODLer/internal/state"
)

// Refresher drives periodic indicator polls. A single goroutine consumes
// timer ticks and manual refresh requests, so polls never overlap; a manual
// request arriving while a poll is in flight coalesces into at most one
// queued run.
type Refresher struct {
	store    *state.Store
	prefs    *prefs.Store
	fetch    coinglass.IndicatorFetcher
	log      *zap.Logger
	onUpdate func(state.Snapshot)

	kick    chan struct{}
	resched chan time.Duration
}

// NewRefresher wires the refresh loop to its collaborators. onUpdate is
// invoked after every poll, successful or not, and may be nil.
func NewRefresher(store *state.Store, prefStore *prefs.Store, fetch coinglass.IndicatorFetcher, log *zap.Logger, onUpdate func(state.Snapshot)) *Refresher {
	return &Refresher{
		store:    store,
		prefs:    prefStore,
		fetch:    fetch,
		log:      log,
		onUpdate: onUpdate,
		kick:     make(chan struct{}, 1),
		resched:  make(chan time.Duration, 1),
	}
}

// Start launches the poll loop. It returns immediately.
func (r *Refresher) Start(ctx context.Context) {
	go r.loop(ctx)
}

// RefreshNow requests an out-of-band poll. Requests made while a poll is in
// flight collapse into a single queued run.
func (r *Refresher) RefreshNow() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Reschedule moves the periodic timer to a new interval in minutes. The
// next scheduled tick fires one full interval from now.
func (r *Refresher) Reschedule(minutes int) {
	d := time.Duration(prefs.ClampRefresh(minutes)) * time.Minute
	// only the newest pending reschedule matters
	select {
	case <-r.resched:
	default:
	}
	r.resched <- d
}

func (r *Refresher) loop(ctx context.Context) {
	interval := time.Duration(r.prefs.Current().RefreshMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.poll(ctx)
		case <-r.kick:
			r.poll(ctx)
		case d := <-r.resched:
			ticker.Reset(d)
			r.log.Info("refresh interval changed", zap.Duration("interval", d))
		}
	}
}

func (r *Refresher) poll(ctx context.Context) {
	key := r.prefs.Current().APIKey
	reading, err := r.fetch.Fetch(ctx, key)
	r.store.Update(reading)

	switch {
	case err == nil:
		r.log.Info("indicator updated",
			zap.Float64("hold_pct", reading.HoldPct),
			zap.Float64("sell_pct", reading.SellPct),
			zap.String("signal", reading.Label),
			zap.Int("triggered", len(reading.Triggered)))
	case errors.Is(err, coinglass.ErrMissingKey):
		r.log.Warn("no api key configured; poll skipped")
	default:
		r.log.Error("indicator update failed",
			zap.String("status", string(reading.Status)),
			zap.Error(err))
	}

	if r.onUpdate != nil {
		r.onUpdate(r.store.Snapshot())
	}
}
