// Package console exposes the operator actions and console state over HTTP.
package console

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/streamflow/console/internal/controller"
	"github.com/streamflow/console/internal/state"
	"github.com/streamflow/console/pkg/response"
)

// Actions are the operator actions backed by the controller.
type Actions interface {
	Publish(ctx context.Context) controller.Result
	Stop(ctx context.Context, streamID string) error
}

// Handler serves the console API.
type Handler struct {
	store   *state.Store
	actions Actions
	logger  *zap.Logger

	// publishing disables the publish action while one is running, like the busy button in
	// the browser view.
	publishing atomic.Bool
}

// NewHandler creates a console handler.
func NewHandler(store *state.Store, actions Actions, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, actions: actions, logger: logger}
}

// Register mounts the console routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/state", h.State)
	r.POST("/file", h.SelectFile)
	r.PUT("/credentials", h.SetCredentials)
	r.POST("/publish", h.Publish)
	r.POST("/streams/:id/stop", h.Stop)
}

type selectFileRequest struct {
	Path string `json:"path" binding:"required"`
}

type credentialsRequest struct {
	YouTubeKey  *string `json:"youtubeKey"`
	FacebookKey *string `json:"facebookKey"`
}

type actionResponse struct {
	Outcome  controller.Outcome `json:"outcome,omitempty"`
	StreamID string             `json:"streamId,omitempty"`
	State    state.View         `json:"state"`
}

// State handles GET /state.
func (h *Handler) State(c *gin.Context) {
	response.OK(c, h.store.Snapshot().View())
}

// SelectFile handles POST /file. Only video files are accepted.
func (h *Handler) SelectFile(c *gin.Context) {
	var req selectFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "path is required")
		return
	}
	f, err := state.OpenLocalFile(req.Path)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrNotVideo):
			response.BadRequest(c, "please choose a video file")
		case errors.Is(err, os.ErrNotExist):
			response.BadRequest(c, "file not found")
		default:
			h.logger.Warn("select file failed", zap.String("path", req.Path), zap.Error(err))
			response.BadRequest(c, err.Error())
		}
		return
	}
	h.store.SelectFile(f)
	response.OK(c, h.store.Snapshot().View())
}

// SetCredentials handles PUT /credentials. Omitted fields keep their current value.
func (h *Handler) SetCredentials(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid body")
		return
	}
	if req.YouTubeKey != nil {
		h.store.SetYouTubeKey(*req.YouTubeKey)
	}
	if req.FacebookKey != nil {
		h.store.SetFacebookKey(*req.FacebookKey)
	}
	response.OK(c, h.store.Snapshot().View())
}

// Publish handles POST /publish. It is refused with 409 while a publish is already running.
func (h *Handler) Publish(c *gin.Context) {
	if !h.publishing.CompareAndSwap(false, true) {
		response.Conflict(c, "a publish is already in progress", actionResponse{State: h.store.Snapshot().View()})
		return
	}
	defer h.publishing.Store(false)

	// the workflow outlives a dropped browser connection
	res := h.actions.Publish(context.WithoutCancel(c.Request.Context()))
	body := actionResponse{Outcome: res.Outcome, StreamID: res.StreamID, State: h.store.Snapshot().View()}
	switch res.Outcome {
	case controller.OutcomeStarted:
		response.OK(c, body)
	case controller.OutcomeInvalid:
		response.Fail(c, http.StatusUnprocessableEntity, body.State.Message, body)
	default:
		response.BadGateway(c, body.State.Message, body)
	}
}

// Stop handles POST /streams/:id/stop.
func (h *Handler) Stop(c *gin.Context) {
	id := c.Param("id")
	err := h.actions.Stop(context.WithoutCancel(c.Request.Context()), id)
	body := actionResponse{State: h.store.Snapshot().View()}
	if err != nil {
		response.BadGateway(c, body.State.Message, body)
		return
	}
	response.OK(c, body)
}
