package bringup

import "errors"

var (
	// ErrConnectAttemptsExhausted is returned by Connect when the attempt
	// limit is reached without opening the volume.
	ErrConnectAttemptsExhausted = errors.New("card not connected")

	// ErrNotConnected is returned by operations that need an open volume.
	ErrNotConnected = errors.New("volume not connected")

	// ErrNotMounted is returned when the volume root cannot be mounted, and by
	// operations that need a mounted volume.
	ErrNotMounted = errors.New("volume not mounted")

	// ErrTestFileExists is returned when the test file is already present.
	// The file is never overwritten.
	ErrTestFileExists = errors.New("test file already exists")

	// ErrTestFileMismatch is returned when the test file reads back different
	// from what was written.
	ErrTestFileMismatch = errors.New("test file content mismatch")
)
