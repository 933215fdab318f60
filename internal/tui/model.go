// Package tui is the interactive terminal view of a bring-up run.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joe/sd-scan/internal/bringup"
	"github.com/joe/sd-scan/pkg/volume"
)

// Phase is the step of the run currently on screen.
type Phase int

// Phases, in the order a successful run passes through them.
const (
	PhaseConnecting Phase = iota
	PhaseMounting
	PhaseTestFile
	PhaseScanning
	PhaseDone
	PhaseFailed
)

// Model shows connect attempts, mount state, test file outcome and a live
// list of scanned paths.
type Model struct {
	bridge   *EventBridge
	location string
	spinner  spinner.Model

	phase       Phase
	attempts    int
	lastErr     error
	usage       *volume.Usage
	testFile    string
	testFileErr error
	currentDir  string
	recent      []string
	files       int
	result      bringup.ScanResult
	runErr      error
	cancelled   bool
	width       int
}

// NewModel creates a model fed by bridge.
func NewModel(bridge *EventBridge, location string) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Model{
		bridge:   bridge,
		location: location,
		spinner:  s,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.bridge.ListenCmd())
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == KeyCtrlC || msg.String() == "q" {
			m.cancelled = true
			return m, tea.Quit
		}

		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case EventMsg:
		m.apply(msg.Event)
		return m, m.bridge.ListenCmd()
	case FinishedMsg:
		// Per-file events may have been dropped; the run result is authoritative.
		m.result = msg.Result.Scan
		m.runErr = msg.Err
		if msg.Err != nil {
			m.phase = PhaseFailed
			if m.lastErr == nil {
				m.lastErr = msg.Err
			}
		} else {
			m.phase = PhaseDone
		}

		return m, tea.Quit
	}

	return m, nil
}

// Cancelled reports whether the user quit before the run finished.
func (m *Model) Cancelled() bool {
	return m.cancelled && m.phase != PhaseDone && m.phase != PhaseFailed
}

// Err returns the error the run finished with.
func (m *Model) Err() error {
	return m.runErr
}

// Phase returns the current phase (for testing)
func (m *Model) Phase() Phase {
	return m.phase
}

// RecentPaths returns the paths currently on screen, oldest first.
func (m *Model) RecentPaths() []string {
	return m.recent
}

//nolint:cyclop // One case per event type
func (m *Model) apply(event bringup.Event) {
	switch e := event.(type) {
	case bringup.ConnectAttempt:
		m.phase = PhaseConnecting
		m.attempts = e.Attempt
	case bringup.ConnectFailed:
		m.lastErr = e.Err
	case bringup.Connected:
		m.phase = PhaseMounting
		m.lastErr = nil
	case bringup.Mounted:
		m.phase = PhaseTestFile
		m.usage = e.Usage
	case bringup.MountFailed:
		m.lastErr = e.Err
	case bringup.TestFileWritten:
		m.testFile = fmt.Sprintf("%s verified (%s)", e.Path, e.Digest[:min(len(e.Digest), 12)])
	case bringup.TestFileFailed:
		m.testFileErr = e.Err
	case bringup.ScanStarted:
		m.phase = PhaseScanning
	case bringup.DirEntered:
		m.currentDir = e.Path
	case bringup.FileFound:
		m.files++
		m.recent = append(m.recent, e.Path)
		if len(m.recent) > maxRecentPaths {
			m.recent = m.recent[len(m.recent)-maxRecentPaths:]
		}
	case bringup.ScanComplete:
		m.result = e.Result
	case bringup.ScanFailed:
		m.result = e.Result
		m.lastErr = e.Err
	}
}

// Run shows the view while board runs and returns the run outcome. Quitting
// the view cancels a pending connect; a scan in progress is allowed to finish.
func Run(ctx context.Context, board *bringup.Board, bridge *EventBridge) (bringup.RunResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		result bringup.RunResult
		err    error
	}

	done := make(chan outcome, 1)

	go func() {
		result, err := board.Run(ctx, nil)
		done <- outcome{result: result, err: err}
		bridge.Finish(result, err)
	}()

	model := NewModel(bridge, board.Config().Location)

	if _, err := tea.NewProgram(model).Run(); err != nil {
		cancel()
		bridge.Stop()
		<-done

		return bringup.RunResult{}, fmt.Errorf("terminal view failed: %w", err)
	}

	cancel()
	bridge.Stop()
	out := <-done

	if model.Cancelled() && out.err == nil {
		return out.result, context.Canceled
	}

	return out.result, out.err
}
