// Package volume presents mounted storage to the scanner and the bring-up
// sequence. Every implementation is a scanner.DirSource, so the same scan runs
// against a local card directory, an in-memory image or a remote SFTP share.
package volume

import (
	"io"
	"os"
	"path"

	"github.com/joe/sd-scan/pkg/scanner"
)

// File is an open file on a volume.
type File interface {
	io.Reader
	io.Writer
	io.Closer
}

// Volume is a mounted filesystem. Paths are slash separated and rooted at the
// volume root; the empty path names the root itself.
type Volume interface {
	scanner.DirSource

	// Open opens a file for reading.
	Open(name string) (File, error)
	// OpenFile opens a file with os.O_* flags, creating it with perm if asked.
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	// Stat returns file information.
	Stat(name string) (os.FileInfo, error)
	// Close releases the volume. It is safe to call more than once.
	Close() error
}

// Usage describes the capacity of a volume in bytes.
type Usage struct {
	TotalBytes uint64
	FreeBytes  uint64
}

// UsageReporter is implemented by volumes that can report their capacity.
type UsageReporter interface {
	Usage() (Usage, error)
}

// rootPath maps the scanner's empty root to "/" and cleans everything else.
func rootPath(name string) string {
	if name == "" {
		return "/"
	}

	return path.Clean("/" + name)
}

// infoReader implements scanner.DirReader over an already-read listing.
type infoReader struct {
	infos []os.FileInfo
	index int
}

// newInfoReader creates a reader over infos.
func newInfoReader(infos []os.FileInfo) *infoReader {
	return &infoReader{infos: infos}
}

// Close implements scanner.DirReader.
func (r *infoReader) Close() error {
	r.infos = nil
	return nil
}

// Err implements scanner.DirReader. A listing that was read in full cannot fail
// part way through.
func (r *infoReader) Err() error {
	return nil
}

// Next implements scanner.DirReader.
func (r *infoReader) Next() (scanner.Entry, bool) {
	if r.index >= len(r.infos) {
		return scanner.Entry{}, false
	}

	info := r.infos[r.index]
	r.index++

	return scanner.Entry{Name: info.Name(), IsDir: info.IsDir()}, true
}
