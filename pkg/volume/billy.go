package volume

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/joe/sd-scan/pkg/scanner"
)

// BillyVolume implements Volume on top of a go-billy filesystem.
type BillyVolume struct {
	fs   billy.Filesystem
	base string // host directory backing the volume, empty for memory
}

// NewBillyVolume wraps an existing billy filesystem.
func NewBillyVolume(fs billy.Filesystem) *BillyVolume {
	return &BillyVolume{fs: fs}
}

// NewLocalVolume mounts the host directory base as a volume. Paths cannot
// escape base.
func NewLocalVolume(base string) (*BillyVolume, error) {
	info, err := os.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("failed to stat volume directory %s: %w", base, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("volume path is not a directory: %s", base) //nolint:err113 // Validation error with actual path
	}

	return &BillyVolume{
		fs:   osfs.New(base),
		base: base,
	}, nil
}

// NewMemVolume creates an empty in-memory volume.
func NewMemVolume() *BillyVolume {
	fs := memfs.New()

	// memfs only materializes the root once something is created under it
	_ = fs.MkdirAll("/", 0o755)

	return &BillyVolume{fs: fs}
}

// Close implements Volume. Billy filesystems hold no handles of their own.
func (v *BillyVolume) Close() error {
	return nil
}

// Filesystem returns the underlying billy filesystem.
func (v *BillyVolume) Filesystem() billy.Filesystem {
	return v.fs
}

// Open opens a file for reading.
func (v *BillyVolume) Open(name string) (File, error) {
	file, err := v.fs.Open(rootPath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", rootPath(name), err)
	}

	return file, nil
}

// OpenDir implements scanner.DirSource.
func (v *BillyVolume) OpenDir(name string) (scanner.DirReader, error) {
	infos, err := v.fs.ReadDir(rootPath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", rootPath(name), err)
	}

	return newInfoReader(infos), nil
}

// OpenFile opens a file with the given flags.
func (v *BillyVolume) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	file, err := v.fs.OpenFile(rootPath(name), flag, perm)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", rootPath(name), err)
	}

	return file, nil
}

// Stat returns file information.
func (v *BillyVolume) Stat(name string) (os.FileInfo, error) {
	info, err := v.fs.Stat(rootPath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", rootPath(name), err)
	}

	return info, nil
}

// Usage implements UsageReporter for volumes backed by a host directory.
func (v *BillyVolume) Usage() (Usage, error) {
	if v.base == "" {
		return Usage{}, ErrUsageUnsupported
	}

	return diskUsage(v.base)
}
