package remote

import (
	"context"
	"errors"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client(), nil)
}

func TestListActive(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/streams", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"activeStreams":["b","a"]}`)
	})

	ids, err := c.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids)
}

func TestListActiveNullIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"activeStreams":null}`)
	})

	ids, err := c.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{}, ids)
}

func TestUploadSendsMultipartVideoField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/upload", r.URL.Path)
		f, hdr, err := r.FormFile("video")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "demo.mp4", hdr.Filename)
		assert.Equal(t, "video/mp4", hdr.Header.Get("Content-Type"))
		assert.Equal(t, "frames", string(data))
		_, _ = io.WriteString(w, `{"serverPath":"/tmp/demo.mp4"}`)
	})

	path, err := c.Upload(context.Background(), "demo.mp4", "video/mp4", strings.NewReader("frames"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/demo.mp4", path)
}

func TestUploadMissingServerPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := c.Upload(context.Background(), "demo.mp4", "video/mp4", strings.NewReader("frames"))
	assert.EqualError(t, err, "upload response missing serverPath")
}

func TestStartSendsKeys(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stream/start", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{
			"videoPath":   "/tmp/demo.mp4",
			"youtubeKey":  "yk_1",
			"facebookKey": "",
		}, body)
		_, _ = io.WriteString(w, `{"streamId":"xyz789"}`)
	})

	id, err := c.Start(context.Background(), StartRequest{VideoPath: "/tmp/demo.mp4", YouTubeKey: "yk_1"})
	require.NoError(t, err)
	assert.Equal(t, "xyz789", id)
}

func TestStopEscapesID(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Stop(context.Background(), "a/b"))
	assert.Equal(t, "/api/stream/stop/a%2Fb", gotPath)
}

func TestServerMessageIsSurfaced(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Invalid stream key"}`)
	})

	_, err := c.Start(context.Background(), StartRequest{VideoPath: "x", YouTubeKey: "y"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid stream key", err.Error())
}

func TestStatusWithoutMessageFallsBack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := c.Stop(context.Background(), "abc")
	assert.EqualError(t, err, "request failed with status code 500")
}

func TestMalformedSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})

	_, err := c.ListActive(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil, nil)
	_, err := c.ListActive(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
