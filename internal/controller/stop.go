package controller

import (
	"context"

	"go.uber.org/zap"
)

// Stop asks the service to end streamID. The id is sent as-is, whether or not the dashboard
// currently lists it, and the busy flag is neither checked nor changed. On success the dashboard
// is refreshed; on failure it is left for the next scheduled poll.
func (c *Controller) Stop(ctx context.Context, streamID string) error {
	c.store.SetStatus(msgStopping(streamID))

	if err := c.service.Stop(ctx, streamID); err != nil {
		c.logger.Warn("stream stop failed", zap.String("stream_id", streamID), zap.Error(err))
		c.store.SetStatus(msgStopFailed(err))
		return err
	}

	c.store.SetStatus(msgStopped(streamID))
	c.logger.Info("stream stopped", zap.String("stream_id", streamID))
	c.dashboard.Refresh(ctx)
	return nil
}
