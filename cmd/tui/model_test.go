package main

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamflow/console/internal/controller"
	"github.com/streamflow/console/internal/state"
)

type stubActions struct {
	published int
	stopped   []string
}

func (s *stubActions) Publish(context.Context) controller.Result {
	s.published++
	return controller.Result{Outcome: controller.OutcomeStarted}
}

func (s *stubActions) Stop(_ context.Context, id string) error {
	s.stopped = append(s.stopped, id)
	return nil
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func TestPublishKeyIgnoredWhileBusy(t *testing.T) {
	acts := &stubActions{}
	m := newModel(context.Background(), acts, state.Snapshot{Busy: true})

	_, cmd := update(t, m, key("p"))
	assert.Nil(t, cmd)

	m.snap.Busy = false
	_, cmd = update(t, m, key("p"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, acts.published)
}

func TestPublishKeyIgnoredUntilPublishReturns(t *testing.T) {
	acts := &stubActions{}
	m := newModel(context.Background(), acts, state.Snapshot{})

	m, first := update(t, m, key("p"))
	require.NotNil(t, first)
	m, second := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, second)
	assert.Contains(t, m.View(), "Processing...")

	done := first()
	assert.Equal(t, publishDoneMsg(controller.Result{Outcome: controller.OutcomeStarted}), done)
	assert.Equal(t, 1, acts.published)

	m, _ = update(t, m, done)
	_, again := update(t, m, key("p"))
	assert.NotNil(t, again)
}

func TestStopHighlightedSession(t *testing.T) {
	acts := &stubActions{}
	m := newModel(context.Background(), acts, state.Snapshot{Sessions: []string{"abc123", "xyz789"}})

	m, _ = update(t, m, key("j"))
	_, cmd := update(t, m, key("s"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []string{"xyz789"}, acts.stopped)
}

func TestSnapshotClampsCursorAndDropsStale(t *testing.T) {
	m := newModel(context.Background(), &stubActions{}, state.Snapshot{Version: 3, Sessions: []string{"a", "b", "c"}})
	m.cursor = 2

	m, _ = update(t, m, snapshotMsg(state.Snapshot{Version: 4, Sessions: []string{"a"}}))
	assert.Equal(t, 0, m.cursor)

	m, _ = update(t, m, snapshotMsg(state.Snapshot{Version: 2, Sessions: []string{"old"}}))
	assert.Equal(t, []string{"a"}, m.snap.Sessions)
}

func TestViewShowsEmptyDashboardAndProcessing(t *testing.T) {
	m := newModel(context.Background(), &stubActions{}, state.Snapshot{Status: state.WelcomeMessage, Busy: true})

	out := m.View()
	assert.Contains(t, out, "No active streams running.")
	assert.Contains(t, out, "Processing...")
	assert.Contains(t, out, state.WelcomeMessage)
	assert.Contains(t, out, "YouTube key: missing")
}
