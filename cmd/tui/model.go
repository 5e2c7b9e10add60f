package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/streamflow/console/internal/controller"
	"github.com/streamflow/console/internal/state"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
)

// snapshotMsg delivers a store change to the program.
type snapshotMsg state.Snapshot

// publishDoneMsg reports that a publish started from this view has returned.
type publishDoneMsg controller.Result

// actions is what the terminal view can trigger.
type actions interface {
	Publish(ctx context.Context) controller.Result
	Stop(ctx context.Context, streamID string) error
}

type model struct {
	ctx    context.Context
	ctrl   actions
	snap   state.Snapshot
	cursor int

	// publishing is set when a publish command is handed out, before the store reports busy.
	publishing bool
}

func newModel(ctx context.Context, ctrl actions, snap state.Snapshot) model {
	return model{ctx: ctx, ctrl: ctrl, snap: snap}
}

func (m model) Init() tea.Cmd {
	return tea.SetWindowTitle("StreamFlow")
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		// notifications arrive in order, but keep the newest if one is ever late
		if msg.Version >= m.snap.Version {
			m.snap = state.Snapshot(msg)
		}
		if m.cursor >= len(m.snap.Sessions) {
			m.cursor = max(len(m.snap.Sessions)-1, 0)
		}
		return m, nil

	case publishDoneMsg:
		m.publishing = false
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.snap.Sessions)-1 {
				m.cursor++
			}
		case "p", "enter":
			if m.snap.Busy || m.publishing {
				return m, nil
			}
			m.publishing = true
			return m, m.publish()
		case "s":
			if len(m.snap.Sessions) == 0 {
				return m, nil
			}
			return m, m.stop(m.snap.Sessions[m.cursor])
		}
	}
	return m, nil
}

func (m model) publish() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return publishDoneMsg(ctrl.Publish(ctx))
	}
}

func (m model) stop(id string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		_ = ctrl.Stop(ctx, id)
		return nil
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("StreamFlow"))
	b.WriteString("\n\n")

	if m.snap.File != nil {
		b.WriteString(normalStyle.Render(fmt.Sprintf("Selected: %s (%s)", m.snap.File.Name, m.snap.File.MediaType)))
	} else {
		b.WriteString(dimStyle.Render("No video file selected (use -file)"))
	}
	b.WriteString("\n")
	b.WriteString(keyLine("YouTube key", m.snap.Credentials.YouTubeKey, true))
	b.WriteString(keyLine("Facebook key", m.snap.Credentials.FacebookKey, false))
	b.WriteString("\n")

	if m.snap.Busy || m.publishing {
		b.WriteString(dimStyle.Render("[ Processing... ]"))
	} else {
		b.WriteString(selectedStyle.Render("[ p: Upload & Start Streaming ]"))
	}
	b.WriteString("\n\n")

	if strings.HasPrefix(m.snap.Status, "Error") {
		b.WriteString(errorStyle.Render(m.snap.Status))
	} else {
		b.WriteString(statusStyle.Render(m.snap.Status))
	}
	b.WriteString("\n\n")

	var list strings.Builder
	list.WriteString(titleStyle.Render("Active Streams"))
	list.WriteString("\n")
	if len(m.snap.Sessions) == 0 {
		list.WriteString(dimStyle.Render("No active streams running."))
	}
	for i, id := range m.snap.Sessions {
		if i == m.cursor {
			list.WriteString(selectedStyle.Render("> " + id))
		} else {
			list.WriteString(normalStyle.Render("  " + id))
		}
		if i < len(m.snap.Sessions)-1 {
			list.WriteString("\n")
		}
	}
	b.WriteString(boxStyle.Render(list.String()))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("↑/↓ select • s stop • p publish • q quit"))
	b.WriteString("\n")
	return b.String()
}

func keyLine(label, value string, required bool) string {
	switch {
	case value != "":
		return normalStyle.Render(label+": set") + "\n"
	case required:
		return errorStyle.Render(label+": missing (required)") + "\n"
	default:
		return dimStyle.Render(label+": not set") + "\n"
	}
}
