package bringup

import (
	"time"

	"github.com/joe/sd-scan/pkg/volume"
)

// Event is the interface implemented by all bring-up events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
type EventEmitter interface {
	Emit(event Event)
}

// EmitterFunc adapts a function to EventEmitter.
type EmitterFunc func(Event)

// Emit implements EventEmitter.
func (f EmitterFunc) Emit(event Event) {
	f(event)
}

// Connect phase events

// ConnectAttempt is emitted before every attempt to open the volume.
type ConnectAttempt struct {
	Attempt  int
	Location string
}

func (ConnectAttempt) isEvent() {}

// ConnectFailed is emitted when an attempt fails. Another attempt follows
// unless the limit was reached.
type ConnectFailed struct {
	Attempt int
	Err     error
}

func (ConnectFailed) isEvent() {}

// Connected is emitted once the volume is open.
type Connected struct {
	Attempt  int
	Location string
}

func (Connected) isEvent() {}

// Mount phase events

// Mounted is emitted when the volume root is ready. Usage is nil when the
// volume cannot report capacity.
type Mounted struct {
	Usage *volume.Usage
}

func (Mounted) isEvent() {}

// MountFailed is emitted when the volume could not be mounted. The volume has
// been disconnected by the time it is emitted.
type MountFailed struct {
	Err error
}

func (MountFailed) isEvent() {}

// Test file events

// TestFileWritten is emitted after the test file was written and verified.
type TestFileWritten struct {
	Path   string
	Size   int64
	Digest string
}

func (TestFileWritten) isEvent() {}

// TestFileFailed is emitted when the test file could not be written or
// verified.
type TestFileFailed struct {
	Path string
	Err  error
}

func (TestFileFailed) isEvent() {}

// Scan phase events

// ScanStarted is emitted when the scan begins.
type ScanStarted struct {
	Root string
}

func (ScanStarted) isEvent() {}

// DirEntered is emitted for every directory the scan opens.
type DirEntered struct {
	Path  string
	Depth int
}

func (DirEntered) isEvent() {}

// FileFound is emitted for every file passed to the sink.
type FileFound struct {
	Path string
}

func (FileFound) isEvent() {}

// ScanComplete is emitted when the scan finishes without error.
type ScanComplete struct {
	Result ScanResult
}

func (ScanComplete) isEvent() {}

// ScanFailed is emitted when the scan aborts. Result holds the counts up to
// the failure.
type ScanFailed struct {
	Result ScanResult
	Err    error
}

func (ScanFailed) isEvent() {}

// ScanResult summarizes a scan.
type ScanResult struct {
	Root    string
	Files   int
	Dirs    int
	Elapsed time.Duration
}
