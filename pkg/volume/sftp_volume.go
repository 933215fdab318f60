package volume

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"

	"github.com/pkg/sftp"

	"github.com/joe/sd-scan/pkg/scanner"
)

// sftpClient is the subset of *sftp.Client used by SFTPVolume.
type sftpClient interface {
	ReadDir(p string) ([]os.FileInfo, error)
	Open(p string) (*sftp.File, error)
	OpenFile(p string, f int) (*sftp.File, error)
	Stat(p string) (os.FileInfo, error)
	StatVFS(p string) (*sftp.StatVFS, error)
}

// SFTPVolume implements Volume for a directory on an SFTP server.
type SFTPVolume struct {
	client sftpClient
	base   string
	closer func() error

	mu     sync.Mutex
	closed bool
}

// NewSFTPVolume creates a volume rooted at base on an established connection.
// Closing the volume closes the connection.
func NewSFTPVolume(conn *SFTPConnection, base string) *SFTPVolume {
	return &SFTPVolume{
		client: conn.Client(),
		base:   base,
		closer: conn.Close,
	}
}

// Close closes the underlying connection once.
func (v *SFTPVolume) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil
	}
	v.closed = true

	if v.closer != nil {
		return v.closer()
	}

	return nil
}

// Open opens a remote file for reading.
func (v *SFTPVolume) Open(name string) (File, error) {
	file, err := v.client.Open(v.remotePath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s: %w", v.remotePath(name), err)
	}

	return file, nil
}

// OpenDir implements scanner.DirSource.
func (v *SFTPVolume) OpenDir(name string) (scanner.DirReader, error) {
	infos, err := v.client.ReadDir(v.remotePath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read remote directory %s: %w", v.remotePath(name), err)
	}

	return newInfoReader(infos), nil
}

// OpenFile opens a remote file with os.O_* flags. The server decides the
// permissions of created files.
func (v *SFTPVolume) OpenFile(name string, flag int, _ os.FileMode) (File, error) {
	file, err := v.client.OpenFile(v.remotePath(name), flag)
	if err != nil {
		// OpenSSH answers an O_EXCL collision with a bare SSH_FX_FAILURE.
		if flag&os.O_EXCL != 0 {
			if _, statErr := v.client.Stat(v.remotePath(name)); statErr == nil {
				return nil, fmt.Errorf("failed to create remote file %s: %w", v.remotePath(name), fs.ErrExist)
			}
		}

		return nil, fmt.Errorf("failed to open remote file %s: %w", v.remotePath(name), err)
	}

	return file, nil
}

// Stat returns remote file information.
func (v *SFTPVolume) Stat(name string) (os.FileInfo, error) {
	info, err := v.client.Stat(v.remotePath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file %s: %w", v.remotePath(name), err)
	}

	return info, nil
}

// Usage implements UsageReporter through the statvfs@openssh.com extension.
func (v *SFTPVolume) Usage() (Usage, error) {
	stat, err := v.client.StatVFS(v.remotePath(""))
	if err != nil {
		return Usage{}, fmt.Errorf("failed to statvfs %s: %w", v.remotePath(""), err)
	}

	return Usage{
		TotalBytes: stat.TotalSpace(),
		FreeBytes:  stat.FreeSpace(),
	}, nil
}

// remotePath maps a volume path onto the server.
// Uses path package (not filepath) since SFTP always uses forward slashes.
func (v *SFTPVolume) remotePath(name string) string {
	return path.Join(v.base, rootPath(name))
}
