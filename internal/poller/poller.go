// Package poller keeps the dashboard's active session set in step with the streaming service.
package poller

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the fixed polling cadence.
const DefaultInterval = 5 * time.Second

// Lister fetches the identifiers of the currently active sessions.
type Lister interface {
	ListActive(ctx context.Context) ([]string, error)
}

// Sink receives each successfully fetched session set.
type Sink interface {
	ReplaceSessions(ids []string)
}

// Poller fetches the active session set on a fixed cadence. Failures are logged and otherwise
// ignored: the sink keeps the last good set until a later fetch succeeds.
type Poller struct {
	lister   Lister
	sink     Sink
	interval time.Duration
	logger   *zap.Logger
}

// New creates a poller. A non-positive interval uses DefaultInterval.
func New(lister Lister, sink Sink, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{lister: lister, sink: sink, interval: interval, logger: logger}
}

// Run fetches immediately and then once per interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("session poller stopping")
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh performs one fetch outside the regular cadence.
func (p *Poller) Refresh(ctx context.Context) {
	ids, err := p.lister.ListActive(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("failed to fetch active streams", zap.Error(err))
		return
	}
	p.sink.ReplaceSessions(ids)
}
