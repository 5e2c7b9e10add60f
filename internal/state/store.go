// Package state holds the operator console's single source of truth: the selected file, stream
// keys, active session set, status message and busy flag. Views subscribe to it and re-render on
// every change.
package state

import (
	"io"
	"sync"
)

// WelcomeMessage is the status shown before any action has run.
const WelcomeMessage = "Welcome! Select a file and enter a stream key to begin."

// SelectedFile references a local video file chosen by the operator. It is immutable once built.
type SelectedFile struct {
	Name      string
	MediaType string
	Size      int64
	// Open returns a fresh reader over the file content.
	Open func() (io.ReadCloser, error)
}

// Credentials are the destination stream keys. YouTubeKey is required to publish.
type Credentials struct {
	YouTubeKey  string
	FacebookKey string
}

// Snapshot is a consistent copy of the store at one point in time.
type Snapshot struct {
	Version     uint64
	File        *SelectedFile
	Credentials Credentials
	Sessions    []string
	Status      string
	Busy        bool
}

// View is the JSON shape of a snapshot handed to views. Stream keys are never exposed.
type View struct {
	Version        uint64   `json:"version"`
	FileName       string   `json:"fileName,omitempty"`
	FileType       string   `json:"fileType,omitempty"`
	FileSize       int64    `json:"fileSize,omitempty"`
	HasYouTubeKey  bool     `json:"hasYoutubeKey"`
	HasFacebookKey bool     `json:"hasFacebookKey"`
	ActiveStreams  []string `json:"activeStreams"`
	Message        string   `json:"message"`
	Busy           bool     `json:"busy"`
}

// View returns the redacted representation of s.
func (s Snapshot) View() View {
	v := View{
		Version:        s.Version,
		HasYouTubeKey:  s.Credentials.YouTubeKey != "",
		HasFacebookKey: s.Credentials.FacebookKey != "",
		ActiveStreams:  s.Sessions,
		Message:        s.Status,
		Busy:           s.Busy,
	}
	if s.File != nil {
		v.FileName = s.File.Name
		v.FileType = s.File.MediaType
		v.FileSize = s.File.Size
	}
	return v
}

// Listener receives the snapshot produced by a mutation. Listeners run synchronously, in mutation
// order, and must not mutate the store.
type Listener func(Snapshot)

// Store is safe for concurrent use. Every mutation overwrites whole values; nothing is merged.
type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	version  uint64
	file     *SelectedFile
	creds    Credentials
	sessions []string
	status   string
	busy     bool

	listeners map[int]Listener
	nextID    int
}

// NewStore returns a store with an empty session set and the welcome status.
func NewStore() *Store {
	return &Store{
		sessions:  []string{},
		status:    WelcomeMessage,
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers l for change notifications and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SelectFile replaces the selected file. A nil file clears the selection.
func (s *Store) SelectFile(f *SelectedFile) {
	s.update(func() { s.file = f })
}

// SetCredentials replaces both stream keys.
func (s *Store) SetCredentials(c Credentials) {
	s.update(func() { s.creds = c })
}

// SetYouTubeKey replaces the primary stream key.
func (s *Store) SetYouTubeKey(key string) {
	s.update(func() { s.creds.YouTubeKey = key })
}

// SetFacebookKey replaces the secondary stream key.
func (s *Store) SetFacebookKey(key string) {
	s.update(func() { s.creds.FacebookKey = key })
}

// ReplaceSessions swaps the active session set for ids, keeping server order.
func (s *Store) ReplaceSessions(ids []string) {
	next := make([]string, len(ids))
	copy(next, ids)
	s.update(func() { s.sessions = next })
}

// SetStatus overwrites the status message.
func (s *Store) SetStatus(msg string) {
	s.update(func() { s.status = msg })
}

// SetBusy sets the busy flag.
func (s *Store) SetBusy(busy bool) {
	s.update(func() { s.busy = busy })
}

func (s *Store) update(mutate func()) {
	s.mu.Lock()
	mutate()
	s.version++
	snap := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	// notifyMu is taken before mu is released so listeners see snapshots in version order.
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	sessions := make([]string, len(s.sessions))
	copy(sessions, s.sessions)
	return Snapshot{
		Version:     s.version,
		File:        s.file,
		Credentials: s.creds,
		Sessions:    sessions,
		Status:      s.status,
		Busy:        s.busy,
	}
}
