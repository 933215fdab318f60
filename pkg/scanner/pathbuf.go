package scanner

import (
	"fmt"
	"strings"
)

// PathBuffer is a bounded, length-tracked path buffer shared by every level of
// a scan. Children are appended in place and truncated away on the way back
// out, so the buffer is never reallocated after construction.
//
// A PathBuffer is not safe for concurrent use. Overlapping scans must each
// own their buffer.
type PathBuffer struct {
	buf []byte
	n   int
}

// NewPathBuffer creates a buffer holding root with room for capacity bytes.
// Trailing separators are dropped from root, so "/" becomes the empty path
// that directory sources treat as the volume root.
func NewPathBuffer(root string, capacity int) (*PathBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be greater than 0, got %d", capacity) //nolint:err113 // Validation error with actual value
	}

	root = strings.TrimRight(root, Separator)
	if len(root) > capacity {
		return nil, fmt.Errorf("%w: root %q needs %d bytes, capacity is %d", ErrPathTooLong, root, len(root), capacity)
	}

	b := &PathBuffer{buf: make([]byte, capacity)}
	b.n = copy(b.buf, root)

	return b, nil
}

// Cap returns the maximum number of bytes the buffer can hold.
func (b *PathBuffer) Cap() int {
	return len(b.buf)
}

// Len returns the length of the current path.
func (b *PathBuffer) Len() int {
	return b.n
}

// Push appends a separator and name to the path. It returns the length to
// hand back to Truncate. When the result would not fit, the buffer is left
// untouched and ErrPathTooLong is returned.
func (b *PathBuffer) Push(name string) (int, error) {
	restore := b.n
	need := b.n + len(Separator) + len(name)

	if need > len(b.buf) {
		return restore, fmt.Errorf("%w: %s%s%s needs %d bytes, capacity is %d",
			ErrPathTooLong, b.String(), Separator, name, need, len(b.buf))
	}

	b.n += copy(b.buf[b.n:], Separator)
	b.n += copy(b.buf[b.n:], name)

	return restore, nil
}

// String returns the current path.
func (b *PathBuffer) String() string {
	return string(b.buf[:b.n])
}

// Truncate shortens the path back to n bytes. Values outside [0, Len] are
// ignored.
func (b *PathBuffer) Truncate(n int) {
	if n < 0 || n > b.n {
		return
	}

	b.n = n
}
