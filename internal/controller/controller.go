// Package controller orchestrates the operator's actions against the streaming service: the
// two-step publish workflow, stopping sessions, and the lifetime of the dashboard poll loop.
package controller

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/streamflow/console/internal/remote"
	"github.com/streamflow/console/internal/state"
)

// StreamService is the subset of the streaming service the controller drives.
type StreamService interface {
	Upload(ctx context.Context, name, mediaType string, content io.Reader) (string, error)
	Start(ctx context.Context, req remote.StartRequest) (string, error)
	Stop(ctx context.Context, streamID string) error
}

// Dashboard keeps the active session set fresh.
type Dashboard interface {
	Run(ctx context.Context)
	Refresh(ctx context.Context)
}

// Controller owns the poll loop and runs user actions against the store.
type Controller struct {
	store     *state.Store
	service   StreamService
	dashboard Dashboard
	logger    *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a controller. Call Start to begin polling and Close to tear it down.
func New(store *state.Store, service StreamService, dashboard Dashboard, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{store: store, service: service, dashboard: dashboard, logger: logger}
}

// Start launches the dashboard poll loop. Calling it again while running is a no-op.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		c.dashboard.Run(ctx)
	}(c.done)
	c.logger.Info("session poller started")
}

// Close stops the poll loop and waits for it to exit. In-flight actions are not interrupted.
func (c *Controller) Close() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	c.logger.Info("session poller stopped")
}
