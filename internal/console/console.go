// Package console renders bring-up progress and scanned paths as plain text
// lines, the way they appear on a serial terminal.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/joe/sd-scan/internal/bringup"
)

// DefaultLineEnding terminates every line written to the console.
const DefaultLineEnding = "\r\n"

// Option configures a Console.
type Option func(*Console)

// WithColor enables styled status lines.
func WithColor(enabled bool) Option {
	return func(c *Console) {
		c.color = enabled
	}
}

// WithLineEnding replaces the default "\r\n" line terminator.
func WithLineEnding(ending string) Option {
	return func(c *Console) {
		c.lineEnding = ending
	}
}

// WithQuiet suppresses status lines; only paths are written.
func WithQuiet(quiet bool) Option {
	return func(c *Console) {
		c.quiet = quiet
	}
}

// Console is a scanner.PathSink and bringup.EventEmitter writing to one stream.
// It is safe for concurrent use.
type Console struct {
	mu         sync.Mutex
	out        io.Writer
	lineEnding string
	color      bool
	quiet      bool
	err        error
	lines      int
}

// New creates a Console writing to out.
func New(out io.Writer, opts ...Option) *Console {
	c := &Console{
		out:        out,
		lineEnding: DefaultLineEnding,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Accept writes one scanned path.
func (c *Console) Accept(fullPath string) {
	c.writeLine(fullPath)
}

// Emit writes the status line for event, if it has one.
func (c *Console) Emit(event bringup.Event) {
	if c.quiet {
		return
	}

	line, style := c.status(event)
	if line == "" {
		return
	}

	if c.color {
		line = style.Render(line)
	}

	c.writeLine(line)
}

// Err returns the first write error. Later writes are dropped once one fails.
func (c *Console) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

// Lines returns the number of lines written.
func (c *Console) Lines() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lines
}

func (c *Console) writeLine(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return
	}

	if _, err := io.WriteString(c.out, line+c.lineEnding); err != nil {
		c.err = fmt.Errorf("console write failed: %w", err)
		return
	}

	c.lines++
}

//nolint:cyclop // One case per event type
func (c *Console) status(event bringup.Event) (string, lipgloss.Style) {
	switch e := event.(type) {
	case bringup.ConnectAttempt:
		if e.Attempt > 1 {
			return "", lipgloss.NewStyle()
		}

		return "Trying to connect", dimStyle()
	case bringup.ConnectFailed:
		return "Card not connected", warningStyle()
	case bringup.Connected:
		return "Connected", successStyle()
	case bringup.Mounted:
		if e.Usage == nil {
			return "Mounted", successStyle()
		}

		return fmt.Sprintf("Mounted, %s free of %s",
			humanize.Bytes(e.Usage.FreeBytes), humanize.Bytes(e.Usage.TotalBytes)), successStyle()
	case bringup.MountFailed:
		return "Card isn't mounted: " + e.Err.Error(), errorStyle()
	case bringup.TestFileWritten:
		return fmt.Sprintf("Wrote %s, %s verified", e.Path, humanize.Bytes(uint64(e.Size))), successStyle()
	case bringup.TestFileFailed:
		return fmt.Sprintf("Test file %s failed: %v", e.Path, e.Err), errorStyle()
	case bringup.ScanStarted:
		return "Scanning files in " + e.Root, dimStyle()
	case bringup.ScanComplete:
		return fmt.Sprintf("Scan complete: %s in %s, %s",
			plural(e.Result.Files, "file"), plural(e.Result.Dirs, "directory"), e.Result.Elapsed), successStyle()
	case bringup.ScanFailed:
		return fmt.Sprintf("Scan failed after %s: %v", plural(e.Result.Files, "file"), e.Err), errorStyle()
	default:
		return "", lipgloss.NewStyle()
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}

	if noun == "directory" {
		return humanize.Comma(int64(n)) + " directories"
	}

	return humanize.Comma(int64(n)) + " " + noun + "s"
}
