package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/blist/internal/adapter/metrics"
	"github.com/pscheid92/blist/internal/domain"
	"github.com/pscheid92/blist/internal/platform/correlation"
	apperrors "github.com/pscheid92/blist/internal/platform/errors"
)

const DefaultAutopostMinutes = 30

// Autoposter periodically reports server and shard counts to the listing service.
// At most one ticker is armed at a time; Start while running is an error, not a restart.
type Autoposter struct {
	sink    domain.StatsSink
	session domain.Session
	clock   clockwork.Clock
	metrics *metrics.AutopostMetrics
	onError func(error)

	mu       sync.Mutex
	stopCh   chan struct{}
	interval time.Duration
}

// NewAutoposter creates an idle scheduler. metrics and onError may be nil.
func NewAutoposter(sink domain.StatsSink, session domain.Session, clock clockwork.Clock, m *metrics.AutopostMetrics, onError func(error)) *Autoposter {
	return &Autoposter{
		sink:    sink,
		session: session,
		clock:   clock,
		metrics: m,
		onError: onError,
	}
}

// Start arms a ticker that posts every minutes minutes, the first post happening on the first tick.
// provider may be nil, in which case every tick reports the session's own counts.
func (a *Autoposter) Start(minutes int, provider domain.StatsProvider) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return domain.ErrAlreadyRunning
	}
	if minutes <= 0 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidInterval, minutes)
	}
	if provider == nil {
		provider = func() domain.Stats { return domain.Stats{} }
	}

	a.interval = time.Duration(minutes) * time.Minute
	a.stopCh = make(chan struct{})
	ticker := a.clock.NewTicker(a.interval)
	go a.run(ticker, a.stopCh, provider)

	a.metrics.SetRunning(true)
	slog.Info("Autopost started", "interval", a.interval)
	return nil
}

// Stop disarms the ticker. It reports false when nothing was running.
// Posts already in flight are not interrupted.
func (a *Autoposter) Stop() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh == nil {
		return false
	}
	close(a.stopCh)
	a.stopCh = nil
	a.interval = 0

	a.metrics.SetRunning(false)
	slog.Info("Autopost stopped")
	return true
}

func (a *Autoposter) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopCh != nil
}

// Interval returns the period of the armed ticker, or zero when idle.
func (a *Autoposter) Interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

// PostStats submits one report for the session's bot. It never touches scheduler state.
// servers <= 0 falls back to the session's guild count; shards <= 0 to its shard count, then 1.
func (a *Autoposter) PostStats(ctx context.Context, servers, shards int) error {
	botID := a.session.BotID()
	if botID == "" {
		return domain.ErrMissingIdentity
	}

	if servers <= 0 {
		servers = a.session.GuildCount()
	}
	if shards <= 0 {
		shards = a.session.ShardCount()
	}
	if shards <= 0 {
		shards = 1
	}

	err := a.sink.PatchStats(ctx, botID, domain.Stats{ServerCount: servers, ShardCount: shards})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrUnauthorized):
		return fmt.Errorf("%w: %w", domain.ErrStatsUnauthorized, err)
	case errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("%w: %w", domain.ErrBotNotListed, err)
	default:
		return fmt.Errorf("failed to post stats: %w", err)
	}
}

func (a *Autoposter) run(ticker clockwork.Ticker, stopCh chan struct{}, provider domain.StatsProvider) {
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			if !a.armed(stopCh) {
				return
			}
			// Ticks are not coalesced: a slow post never delays the next one.
			go a.tick(provider)
		}
	}
}

func (a *Autoposter) armed(stopCh chan struct{}) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopCh == stopCh
}

func (a *Autoposter) tick(provider domain.StatsProvider) {
	ctx := correlation.WithID(context.Background(), correlation.NewID())
	result := "success"

	a.metrics.PostStarted()
	defer func() {
		if r := recover(); r != nil {
			result = "panic"
			slog.ErrorContext(ctx, "Autopost tick panicked", "panic", r)
		}
		a.metrics.PostFinished(result)
	}()

	stats := provider()
	err := a.PostStats(ctx, stats.ServerCount, stats.ShardCount)
	if err == nil {
		slog.DebugContext(ctx, "Autopost: stats posted", "servers", stats.ServerCount, "shards", stats.ShardCount)
		return
	}

	result = resultLabel(err)
	switch {
	case errors.Is(err, domain.ErrStatsUnauthorized):
		slog.ErrorContext(ctx, "Autopost: token rejected, check that it belongs to this bot", "error", err)
	case errors.Is(err, domain.ErrBotNotListed):
		slog.ErrorContext(ctx, "Autopost: bot is not listed", "error", err)
	default:
		slog.WarnContext(ctx, "Autopost: post failed", "error", err)
	}
	if a.onError != nil {
		a.onError(err)
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingIdentity):
		return "missing_identity"
	case errors.Is(err, domain.ErrStatsUnauthorized):
		return string(apperrors.TypeUnauthorized)
	case errors.Is(err, domain.ErrBotNotListed):
		return string(apperrors.TypeNotFound)
	default:
		return string(apperrors.AsStructuredError(err).Type)
	}
}
