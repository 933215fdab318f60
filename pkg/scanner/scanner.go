// Package scanner enumerates every regular file reachable from a root
// directory and reports each full path through a sink.
//
// The walk shares one bounded PathBuffer across all recursion levels. Each
// level appends its child segment, recurses and truncates back to its own
// path, so the buffer always names the directory being scanned. Paths that do
// not fit the buffer fail with ErrPathTooLong instead of overflowing, and the
// recursion depth is capped (WithMaxDepth).
package scanner

import (
	"fmt"
	"log/slog"
	"strings"
)

// Exported constants.
const (
	// DefaultMaxDepth is the deepest directory level scanned unless
	// WithMaxDepth says otherwise. The root is level 0.
	DefaultMaxDepth = 64
	// Separator joins path segments.
	Separator = "/"
)

// Entry is one item yielded while reading a directory. It is only valid until
// the next call to DirReader.Next.
type Entry struct {
	Name  string
	IsDir bool
}

// DirSource opens directories for reading. The empty path names the volume
// root.
type DirSource interface {
	OpenDir(path string) (DirReader, error)
}

// DirReader iterates the entries of one open directory.
type DirReader interface {
	// Next advances to the next entry.
	// Returns (Entry{}, false) when the directory is exhausted or on error.
	// Check Err() after Next() returns false to tell the two apart.
	Next() (Entry, bool)

	// Err returns the error that stopped iteration, if any.
	Err() error

	// Close releases the directory handle.
	Close() error
}

// PathSink consumes the full path of every regular file found.
type PathSink interface {
	Accept(fullPath string)
}

// SinkFunc adapts a function to PathSink.
type SinkFunc func(fullPath string)

// Accept calls f(fullPath).
func (f SinkFunc) Accept(fullPath string) {
	f(fullPath)
}

// Collector is a PathSink that keeps every path it is given, in order.
type Collector struct {
	Paths []string
}

// Accept records fullPath.
func (c *Collector) Accept(fullPath string) {
	c.Paths = append(c.Paths, fullPath)
}

// Observer is told about each directory as the scan enters it.
type Observer interface {
	EnterDir(path string, depth int)
}

// Option configures a scan.
type Option func(*scan)

// WithFilter only emits paths the filter includes. Directories are always
// descended into.
func WithFilter(filter Filter) Option {
	return func(s *scan) {
		if filter != nil {
			s.filter = filter
		}
	}
}

// WithMaxDepth rejects trees deeper than depth levels below the root.
func WithMaxDepth(depth int) Option {
	return func(s *scan) {
		s.maxDepth = depth
	}
}

// WithObserver reports every directory entered during the scan.
func WithObserver(observer Observer) Option {
	return func(s *scan) {
		s.observer = observer
	}
}

// Scan walks the directory named by buf and passes the full path of each
// regular file to sink. Entries whose names start with "." are neither
// emitted nor descended into.
//
// Any error aborts the scan and is returned unchanged from the level it
// occurred at; nothing is retried. Whether Scan succeeds or fails, buf holds
// the same path on return as it did on entry.
func Scan(buf *PathBuffer, src DirSource, sink PathSink, opts ...Option) error {
	s := &scan{
		src:      src,
		sink:     sink,
		filter:   includeAll{},
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s.dir(buf, 0)
}

// ScanPath is Scan with a freshly allocated buffer of the given capacity.
func ScanPath(root string, capacity int, src DirSource, sink PathSink, opts ...Option) error {
	buf, err := NewPathBuffer(root, capacity)
	if err != nil {
		return err
	}

	return Scan(buf, src, sink, opts...)
}

// scan holds the collaborators of one Scan call.
type scan struct {
	src      DirSource
	sink     PathSink
	filter   Filter
	observer Observer
	maxDepth int
}

// dir scans the directory currently named by buf at the given depth.
func (s *scan) dir(buf *PathBuffer, depth int) error {
	dirPath := buf.String()

	reader, err := s.src.OpenDir(dirPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDirOpenFailed, DisplayPath(dirPath), err)
	}

	defer func() {
		if err := reader.Close(); err != nil {
			slog.Debug("Failed to close directory", "path", DisplayPath(dirPath), "err", err)
		}
	}()

	if s.observer != nil {
		s.observer.EnterDir(DisplayPath(dirPath), depth)
	}

	restore := buf.Len()

	for {
		entry, ok := reader.Next()
		if !ok || entry.Name == "" {
			break
		}

		// Current/parent markers and hidden entries
		if strings.HasPrefix(entry.Name, ".") {
			continue
		}

		if entry.IsDir {
			if depth+1 > s.maxDepth {
				return fmt.Errorf("%w: %s%s%s is deeper than %d levels",
					ErrDepthExceeded, dirPath, Separator, entry.Name, s.maxDepth)
			}

			if _, err := buf.Push(entry.Name); err != nil {
				return err
			}

			err := s.dir(buf, depth+1)
			buf.Truncate(restore)

			if err != nil {
				return err
			}

			continue
		}

		if _, err := buf.Push(entry.Name); err != nil {
			return err
		}

		fullPath := buf.String()
		buf.Truncate(restore)

		if s.filter.ShouldInclude(fullPath) {
			s.sink.Accept(fullPath)
		}
	}

	if err := reader.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEntryReadFailed, DisplayPath(dirPath), err)
	}

	return nil
}

// DisplayPath renders a buffer path for humans; the empty root shows as "/".
func DisplayPath(path string) string {
	if path == "" {
		return Separator
	}

	return path
}
