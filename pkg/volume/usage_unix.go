//go:build unix

package volume

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// diskUsage reports the capacity of the filesystem holding dir.
func diskUsage(dir string) (Usage, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return Usage{}, fmt.Errorf("failed to statfs %s: %w", dir, err)
	}

	return Usage{
		TotalBytes: uint64(stat.Blocks) * uint64(stat.Bsize), //nolint:gosec,unconvert // Bsize is positive and its type varies by platform
		FreeBytes:  uint64(stat.Bavail) * uint64(stat.Bsize), //nolint:gosec,unconvert // Bsize is positive and its type varies by platform
	}, nil
}
