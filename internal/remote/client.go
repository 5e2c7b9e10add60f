// Package remote is the HTTP client for the streaming service that ingests uploaded videos and
// republishes them to the configured destinations.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	pathStreams = "/api/streams"
	pathUpload  = "/api/upload"
	pathStart   = "/api/stream/start"
	pathStop    = "/api/stream/stop/"

	// UploadField is the multipart field carrying the video.
	UploadField = "video"

	maxErrorBody = 64 * 1024
)

// StartRequest asks the service to stream an uploaded file. An empty FacebookKey skips that
// destination.
type StartRequest struct {
	VideoPath   string `json:"videoPath"`
	YouTubeKey  string `json:"youtubeKey"`
	FacebookKey string `json:"facebookKey"`
}

type listResponse struct {
	ActiveStreams []string `json:"activeStreams"`
}

type uploadResponse struct {
	ServerPath string `json:"serverPath"`
}

type startResponse struct {
	StreamID string `json:"streamId"`
}

// Client talks to the streaming service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a client for the service at baseURL. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// ListActive returns the identifiers of the sessions currently streaming, in server order.
func (c *Client) ListActive(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathStreams, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	var out listResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.ActiveStreams == nil {
		return []string{}, nil
	}
	return out.ActiveStreams, nil
}

// Upload streams content to the service as a multipart form and returns the server-side path
// of the stored file.
func (c *Client) Upload(ctx context.Context, name, mediaType string, content io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, UploadField, quoteEscaper.Replace(name)))
		if mediaType == "" {
			mediaType = "application/octet-stream"
		}
		h.Set("Content-Type", mediaType)
		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, content)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathUpload, pr)
	if err != nil {
		pr.CloseWithError(err)
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.ServerPath == "" {
		return "", errors.New("upload response missing serverPath")
	}
	return out.ServerPath, nil
}

// Start begins streaming a previously uploaded file and returns the new session id.
func (c *Client) Start(ctx context.Context, in StartRequest) (string, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathStart, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out startResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.StreamID == "" {
		return "", errors.New("start response missing streamId")
	}
	return out.StreamID, nil
}

// Stop terminates the session with the given id.
func (c *Client) Stop(ctx context.Context, streamID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathStop+url.PathEscape(streamID), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, nil)
}

// do sends req and decodes a 2xx JSON body into out when out is non-nil. Non-2xx responses
// become *APIError; transport failures are returned as they are.
func (c *Client) do(req *http.Request, out interface{}) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("remote call failed",
			zap.String("request_id", requestID),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("remote call",
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
