package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joe/sd-scan/internal/bringup"
)

// eventBufferSize bounds queued events; per-file events are dropped when the
// view falls behind.
const eventBufferSize = 256

// EventMsg wraps a bringup.Event for use as a tea.Msg.
type EventMsg struct {
	Event bringup.Event
}

// FinishedMsg is delivered once, after the last event of a run.
type FinishedMsg struct {
	Result bringup.RunResult
	Err    error
}

// EventBridge adapts bring-up events to bubble tea messages.
// It implements bringup.EventEmitter and provides a channel for TUI consumption.
type EventBridge struct {
	mu        sync.Mutex
	eventChan chan tea.Msg
	stop      chan struct{}
	closed    bool
}

// NewEventBridge creates a new event bridge.
func NewEventBridge() *EventBridge {
	return &EventBridge{
		eventChan: make(chan tea.Msg, eventBufferSize),
		stop:      make(chan struct{}),
	}
}

// Emit implements bringup.EventEmitter. It never blocks the board.
func (b *EventBridge) Emit(event bringup.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	select {
	case b.eventChan <- EventMsg{Event: event}:
	default:
		// Channel full, event dropped
	}
}

// Finish queues the run outcome behind every earlier event and closes the
// channel. It waits for room unless the bridge is stopped.
func (b *EventBridge) Finish(result bringup.RunResult, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	select {
	case b.eventChan <- FinishedMsg{Result: result, Err: err}:
	case <-b.stop:
	}

	b.closed = true
	close(b.eventChan)
}

// Stop unblocks a pending Finish once nobody is listening any more.
func (b *EventBridge) Stop() {
	select {
	case <-b.stop:
	default:
		close(b.stop)
	}
}

// Subscribe returns the event channel for receiving events.
func (b *EventBridge) Subscribe() <-chan tea.Msg {
	return b.eventChan
}

// ListenCmd returns a tea.Cmd that blocks until an event is received.
// Use this in Init() or after processing an event to continue listening.
func (b *EventBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.eventChan
		if !ok {
			return nil // Channel closed
		}
		return msg
	}
}
