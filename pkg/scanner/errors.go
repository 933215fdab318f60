package scanner

import "errors"

var (
	// ErrDirOpenFailed is returned when a directory cannot be opened. The
	// underlying error is wrapped alongside it.
	ErrDirOpenFailed = errors.New("failed to open directory")

	// ErrEntryReadFailed is returned when reading the next entry of an open
	// directory fails.
	ErrEntryReadFailed = errors.New("failed to read directory entry")

	// ErrPathTooLong is returned when a path would not fit the PathBuffer.
	ErrPathTooLong = errors.New("path exceeds buffer capacity")

	// ErrDepthExceeded is returned when the tree is deeper than the
	// configured maximum.
	ErrDepthExceeded = errors.New("directory tree exceeds maximum depth")
)
