package volume

import (
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joe/sd-scan/pkg/scanner"
)

type fakeInfo struct {
	name  string
	isDir bool
}

func (fi fakeInfo) Name() string       { return fi.name }
func (fi fakeInfo) Size() int64        { return 0 }
func (fi fakeInfo) Mode() os.FileMode  { return 0o644 }
func (fi fakeInfo) ModTime() time.Time { return time.Time{} }
func (fi fakeInfo) IsDir() bool        { return fi.isDir }
func (fi fakeInfo) Sys() interface{}   { return nil }

// fakeSFTPClient serves directory listings keyed by remote path.
type fakeSFTPClient struct {
	dirs    map[string][]os.FileInfo
	files   map[string]bool
	statvfs *sftp.StatVFS
	asked   []string
}

func (c *fakeSFTPClient) ReadDir(p string) ([]os.FileInfo, error) {
	c.asked = append(c.asked, p)

	infos, ok := c.dirs[p]
	if !ok {
		return nil, os.ErrNotExist
	}

	return infos, nil
}

func (c *fakeSFTPClient) Open(string) (*sftp.File, error) { return nil, errors.New("not supported") }

// OpenFile fails the way OpenSSH does, without saying why.
func (c *fakeSFTPClient) OpenFile(string, int) (*sftp.File, error) {
	return nil, errors.New(`sftp: "Failure" (SSH_FX_FAILURE)`)
}

func (c *fakeSFTPClient) Stat(p string) (os.FileInfo, error) {
	if _, ok := c.dirs[p]; ok {
		return fakeInfo{name: p, isDir: true}, nil
	}

	if c.files[p] {
		return fakeInfo{name: p}, nil
	}

	return nil, os.ErrNotExist
}

func (c *fakeSFTPClient) StatVFS(string) (*sftp.StatVFS, error) {
	if c.statvfs == nil {
		return nil, errors.New("statvfs@openssh.com not supported")
	}

	return c.statvfs, nil
}

func TestSFTPVolume_ScanMapsPathsOntoBase(t *testing.T) {
	t.Parallel()

	client := &fakeSFTPClient{dirs: map[string][]os.FileInfo{
		"/media/sd":     {fakeInfo{name: "a.txt"}, fakeInfo{name: "sub", isDir: true}},
		"/media/sd/sub": {fakeInfo{name: "b.txt"}},
	}}
	vol := &SFTPVolume{client: client, base: "/media/sd"}

	sink := &scanner.Collector{}
	require.NoError(t, scanner.ScanPath("/", 100, vol, sink))

	assert.Equal(t, []string{"/a.txt", "/sub/b.txt"}, sink.Paths)
	assert.Equal(t, []string{"/media/sd", "/media/sd/sub"}, client.asked)
}

func TestSFTPVolume_RelativeBase(t *testing.T) {
	t.Parallel()

	vol := &SFTPVolume{base: "."}
	assert.Equal(t, ".", vol.remotePath(""))
	assert.Equal(t, "card/a.txt", vol.remotePath("/card/a.txt"))
}

func TestSFTPVolume_Usage(t *testing.T) {
	t.Parallel()

	stat := &sftp.StatVFS{Bsize: 4096, Frsize: 4096, Blocks: 100, Bfree: 40, Bavail: 30}
	vol := &SFTPVolume{client: &fakeSFTPClient{statvfs: stat}, base: "."}

	usage, err := vol.Usage()
	require.NoError(t, err)
	assert.Equal(t, stat.TotalSpace(), usage.TotalBytes)
	assert.Equal(t, stat.FreeSpace(), usage.FreeBytes)

	_, err = (&SFTPVolume{client: &fakeSFTPClient{}, base: "."}).Usage()
	assert.Error(t, err)
}

func TestSFTPVolume_ExclusiveCreateOfExistingFile(t *testing.T) {
	t.Parallel()

	client := &fakeSFTPClient{files: map[string]bool{"/media/sd/oi123.txt": true}}
	vol := &SFTPVolume{client: client, base: "/media/sd"}

	_, err := vol.OpenFile("/oi123.txt", os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrExist)

	_, err = vol.OpenFile("/missing.txt", os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	require.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrExist)

	_, err = vol.OpenFile("/oi123.txt", os.O_WRONLY, 0o644)
	require.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrExist)
}

func TestSFTPVolume_CloseOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	vol := &SFTPVolume{closer: func() error { calls++; return nil }}

	require.NoError(t, vol.Close())
	require.NoError(t, vol.Close())
	assert.Equal(t, 1, calls)
}

func TestSFTPConnection_String(t *testing.T) {
	t.Parallel()

	conn := &SFTPConnection{host: "board", port: 22, user: "pi"}
	assert.Equal(t, "pi@board:22", conn.String())
	assert.NoError(t, conn.Close())
}
