package controller

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/streamflow/console/internal/remote"
)

// Outcome names the terminal state of one publish attempt.
type Outcome string

const (
	OutcomeInvalid      Outcome = "invalid"
	OutcomeUploadFailed Outcome = "upload_failed"
	OutcomeStartFailed  Outcome = "start_failed"
	OutcomeStarted      Outcome = "started"
)

// Result reports how a publish attempt ended.
type Result struct {
	Outcome  Outcome `json:"outcome"`
	StreamID string  `json:"streamId,omitempty"`
	Err      error   `json:"-"`
}

// Publish uploads the selected file and starts streaming it with the current keys.
//
// The selection and keys are captured on entry, so later edits do not affect this attempt. The
// busy flag is held only while the upload and start calls are outstanding and is released on
// every path. Publish does not guard against concurrent calls; callers must not invoke it while
// the store reports busy.
func (c *Controller) Publish(ctx context.Context) Result {
	snap := c.store.Snapshot()
	file, creds := snap.File, snap.Credentials
	if file == nil || creds.YouTubeKey == "" {
		c.store.SetStatus(MsgValidation)
		return Result{Outcome: OutcomeInvalid}
	}

	c.store.SetBusy(true)
	release := sync.OnceFunc(func() { c.store.SetBusy(false) })
	defer release()
	c.store.SetStatus(MsgUploading)

	serverPath, err := c.upload(ctx, file.Name, file.MediaType, file.Open)
	if err != nil {
		c.logger.Warn("video upload failed", zap.String("file", file.Name), zap.Error(err))
		c.store.SetStatus(msgFailed(err))
		return Result{Outcome: OutcomeUploadFailed, Err: err}
	}
	c.store.SetStatus(msgStarting(file.Name))

	streamID, err := c.service.Start(ctx, remote.StartRequest{
		VideoPath:   serverPath,
		YouTubeKey:  creds.YouTubeKey,
		FacebookKey: creds.FacebookKey,
	})
	if err != nil {
		c.logger.Warn("stream start failed", zap.String("server_path", serverPath), zap.Error(err))
		c.store.SetStatus(msgFailed(err))
		return Result{Outcome: OutcomeStartFailed, Err: err}
	}

	c.store.SetStatus(msgStarted(streamID))
	release()
	c.logger.Info("stream started", zap.String("stream_id", streamID), zap.String("file", file.Name))

	c.dashboard.Refresh(ctx)
	return Result{Outcome: OutcomeStarted, StreamID: streamID}
}

func (c *Controller) upload(ctx context.Context, name, mediaType string, open func() (io.ReadCloser, error)) (string, error) {
	rc, err := open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	return c.service.Upload(ctx, name, mediaType, rc)
}
