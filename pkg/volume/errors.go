package volume

import "errors"

var (
	// ErrUsageUnsupported is returned by Usage when the backing store cannot
	// report its capacity.
	ErrUsageUnsupported = errors.New("volume usage not supported")

	// ErrVolumeClosed is returned by operations on a closed volume.
	ErrVolumeClosed = errors.New("volume is closed")
)
