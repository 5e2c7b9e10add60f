package state

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotVideo is returned when a selected file is not a video.
var ErrNotVideo = errors.New("selected file is not a video")

// OpenLocalFile builds a SelectedFile for the video at path. The media type is sniffed from the
// file content.
func OpenLocalFile(path string) (*SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect media type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "video/") {
		return nil, fmt.Errorf("%w: %s", ErrNotVideo, mtype.String())
	}
	return &SelectedFile{
		Name:      filepath.Base(path),
		MediaType: mtype.String(),
		Size:      info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// MemoryFile builds a SelectedFile over an in-memory buffer.
func MemoryFile(name, mediaType string, data []byte) *SelectedFile {
	return &SelectedFile{
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
