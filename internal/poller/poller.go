// Package poller keeps a fresh KPI snapshot per station by polling the
// backend on a fixed cadence. Dashboard page loads read the latest snapshot
// instead of calling the backend inline, so a slow or failing backend delays
// data freshness but never page rendering.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bsv-th/solar-dashboard/internal/catalog"
	"github.com/bsv-th/solar-dashboard/internal/metrics"
	"github.com/bsv-th/solar-dashboard/internal/solarapi"
)

const (
	// seafdecInterval matches the legacy feed's refresh cadence.
	seafdecInterval = 5 * time.Minute
	// defaultInterval is the cadence for every other station.
	defaultInterval = 10 * time.Minute

	pollTimeout = 30 * time.Second
)

// KPIFetcher is the slice of the backend client the poller needs.
type KPIFetcher interface {
	KPIToday(ctx context.Context, sourceKey string) (*solarapi.KPI, error)
	SeafdecLatest(ctx context.Context) (*solarapi.KPI, error)
}

// Snapshot is the latest known KPI state for one station.
type Snapshot struct {
	// KPI is the most recent successfully fetched payload, nil until the
	// first poll succeeds.
	KPI *solarapi.KPI
	// FetchedAt is when KPI was fetched. Stale relative to LastAttempt
	// when recent polls have been failing.
	FetchedAt time.Time
	// LastAttempt is when the poller last tried, successful or not.
	LastAttempt time.Time
	// LastErr is the error from the most recent attempt, nil on success.
	LastErr error
}

// Poller runs one polling loop per catalog station.
type Poller struct {
	client KPIFetcher
	logger *slog.Logger

	seafdecEvery time.Duration
	defaultEvery time.Duration

	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// Option configures a Poller.
type Option func(*Poller)

// WithIntervals overrides the polling cadences. Used by tests.
func WithIntervals(seafdec, others time.Duration) Option {
	return func(p *Poller) {
		p.seafdecEvery = seafdec
		p.defaultEvery = others
	}
}

// New creates a Poller. Run must be called to start polling.
func New(client KPIFetcher, logger *slog.Logger, opts ...Option) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Poller{
		client:       client,
		logger:       logger,
		seafdecEvery: seafdecInterval,
		defaultEvery: defaultInterval,
		snapshots:    make(map[string]Snapshot),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls every station until ctx is cancelled, then returns after all
// station loops have stopped. Each station polls once immediately and then
// on its cadence.
func (p *Poller) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, st := range catalog.All() {
		wg.Add(1)
		go func(st catalog.Station) {
			defer wg.Done()
			p.loop(ctx, st)
		}(st)
	}
	wg.Wait()
}

func (p *Poller) loop(ctx context.Context, st catalog.Station) {
	interval := p.defaultEvery
	if st.PollSeafdecEndpoints {
		interval = p.seafdecEvery
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.poll(ctx, st)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx, st)
		}
	}
}

func (p *Poller) poll(ctx context.Context, st catalog.Station) {
	ctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	var kpi *solarapi.KPI
	var err error
	if st.PollSeafdecEndpoints {
		kpi, err = p.client.SeafdecLatest(ctx)
	} else {
		kpi, err = p.client.KPIToday(ctx, st.SourceKey)
	}

	now := time.Now()
	p.mu.Lock()
	snap := p.snapshots[st.Key]
	snap.LastAttempt = now
	snap.LastErr = err
	if err == nil {
		snap.KPI = kpi
		snap.FetchedAt = now
	}
	p.snapshots[st.Key] = snap
	p.mu.Unlock()

	if err != nil {
		// A failed poll keeps the previous snapshot; the page shows the
		// last good numbers with their fetch time.
		if ctx.Err() == nil {
			p.logger.Warn("kpi poll failed", "station", st.Key, "error", err)
		}
		metrics.RecordKPIPoll(st.Key, "error")
		return
	}
	metrics.RecordKPIPoll(st.Key, "ok")
}

// Snapshot returns the latest snapshot for a station key. ok is false when
// the key has never been polled.
func (p *Poller) Snapshot(key string) (Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snap, ok := p.snapshots[key]
	return snap, ok
}
