package volume

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joe/sd-scan/pkg/scanner"
)

// MockVolume is an in-memory volume for testing. Besides holding files it can
// be told to fail opens, reads and stats on specific paths.
type MockVolume struct {
	mu       sync.RWMutex
	files    map[string]*mockFile
	failOpen map[string]error
	failStat map[string]error
	failRead map[string]mockReadFailure
	closed   bool
	closes   int
}

// mockFile represents a file in the mock volume.
type mockFile struct {
	data    []byte
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

// mockReadFailure makes a directory listing fail after a number of entries.
type mockReadFailure struct {
	after int
	err   error
}

// mockFileInfo implements os.FileInfo for mock files.
type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) Mode() os.FileMode  { return fi.perm }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

// mockFileHandle implements the File interface for reading/writing.
type mockFileHandle struct {
	vol    *MockVolume
	path   string
	reader *bytes.Reader
	writer *bytes.Buffer
	closed bool
}

func (f *mockFileHandle) Read(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if f.reader == nil {
		return 0, io.EOF
	}
	return f.reader.Read(p)
}

func (f *mockFileHandle) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if f.writer == nil {
		return 0, fmt.Errorf("write %s: file not open for writing", f.path) //nolint:err113 // Mirrors a bad descriptor error
	}
	return f.writer.Write(p)
}

func (f *mockFileHandle) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true

	// If we were writing, save the data
	if f.writer != nil {
		f.vol.mu.Lock()
		defer f.vol.mu.Unlock()

		if file, exists := f.vol.files[f.path]; exists {
			file.data = append([]byte(nil), f.writer.Bytes()...)
			file.modTime = time.Now()
		}
	}

	return nil
}

// mockDirReader implements scanner.DirReader with optional failure injection.
type mockDirReader struct {
	names   []string
	dirs    map[string]bool
	index   int
	failure *mockReadFailure
	err     error
}

func (r *mockDirReader) Next() (scanner.Entry, bool) {
	if r.failure != nil && r.index == r.failure.after {
		r.err = r.failure.err
		return scanner.Entry{}, false
	}

	if r.index >= len(r.names) {
		return scanner.Entry{}, false
	}

	name := r.names[r.index]
	r.index++

	return scanner.Entry{Name: name, IsDir: r.dirs[name]}, true
}

func (r *mockDirReader) Err() error { return r.err }

func (r *mockDirReader) Close() error { return nil }

// NewMockVolume creates a new in-memory volume containing only the root.
func NewMockVolume() *MockVolume {
	return &MockVolume{
		files: map[string]*mockFile{
			"/": {isDir: true, perm: os.ModeDir | 0o755, modTime: time.Now()},
		},
		failOpen: make(map[string]error),
		failStat: make(map[string]error),
		failRead: make(map[string]mockReadFailure),
	}
}

// Close marks the volume closed; later operations fail with ErrVolumeClosed.
func (v *MockVolume) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
	v.closes++

	return nil
}

// Open opens a file for reading.
func (v *MockVolume) Open(name string) (File, error) {
	p := rootPath(name)

	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.closed {
		return nil, ErrVolumeClosed
	}

	file, exists := v.files[p]
	if !exists {
		return nil, fmt.Errorf("open %s: %w", p, os.ErrNotExist)
	}

	if file.isDir {
		return nil, fmt.Errorf("open %s: is a directory", p) //nolint:err113 // Mirrors the OS error text
	}

	return &mockFileHandle{
		vol:    v,
		path:   p,
		reader: bytes.NewReader(file.data),
	}, nil
}

// OpenDir implements scanner.DirSource. Entries are yielded in name order.
func (v *MockVolume) OpenDir(name string) (scanner.DirReader, error) {
	p := rootPath(name)

	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.closed {
		return nil, ErrVolumeClosed
	}

	if err, ok := v.failOpen[p]; ok {
		return nil, err
	}

	dir, exists := v.files[p]
	if !exists {
		return nil, fmt.Errorf("open %s: %w", p, os.ErrNotExist)
	}

	if !dir.isDir {
		return nil, fmt.Errorf("open %s: not a directory", p) //nolint:err113 // Mirrors the OS error text
	}

	reader := &mockDirReader{dirs: make(map[string]bool)}
	for child, file := range v.files {
		if child == p || path.Dir(child) != p {
			continue
		}

		base := path.Base(child)
		reader.names = append(reader.names, base)
		reader.dirs[base] = file.isDir
	}
	sort.Strings(reader.names)

	if failure, ok := v.failRead[p]; ok {
		reader.failure = &failure
	}

	return reader, nil
}

// OpenFile opens a file with os.O_* flags. Only O_CREATE, O_EXCL, O_TRUNC
// and the access mode are honored.
func (v *MockVolume) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	p := rootPath(name)

	if flag&(os.O_WRONLY|os.O_RDWR) == 0 {
		return v.Open(name)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil, ErrVolumeClosed
	}

	file, exists := v.files[p]

	switch {
	case exists && file.isDir:
		return nil, fmt.Errorf("open %s: is a directory", p) //nolint:err113 // Mirrors the OS error text
	case exists && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0:
		return nil, fmt.Errorf("open %s: %w", p, os.ErrExist)
	case !exists && flag&os.O_CREATE == 0:
		return nil, fmt.Errorf("open %s: %w", p, os.ErrNotExist)
	}

	if parent, ok := v.files[path.Dir(p)]; !ok || !parent.isDir {
		return nil, fmt.Errorf("open %s: %w", p, os.ErrNotExist)
	}

	writer := &bytes.Buffer{}
	if !exists {
		v.files[p] = &mockFile{modTime: time.Now(), perm: perm}
	} else if flag&os.O_TRUNC == 0 {
		writer.Write(file.data)
	}

	return &mockFileHandle{vol: v, path: p, writer: writer}, nil
}

// Stat returns file information.
func (v *MockVolume) Stat(name string) (os.FileInfo, error) {
	p := rootPath(name)

	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.closed {
		return nil, ErrVolumeClosed
	}

	if err, ok := v.failStat[p]; ok {
		return nil, err
	}

	file, exists := v.files[p]
	if !exists {
		return nil, fmt.Errorf("stat %s: %w", p, os.ErrNotExist)
	}

	return &mockFileInfo{
		name:    path.Base(p),
		size:    int64(len(file.data)),
		modTime: file.modTime,
		isDir:   file.isDir,
		perm:    file.perm,
	}, nil
}

// Helper methods for testing

// AddFile adds a file with the given content, creating parent directories.
func (v *MockVolume) AddFile(name string, content []byte) {
	p := rootPath(name)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.mkdirAllLocked(path.Dir(p))
	v.files[p] = &mockFile{
		data:    append([]byte(nil), content...),
		modTime: time.Now(),
		perm:    0o644,
	}
}

// AddDir adds a directory and any missing parents.
func (v *MockVolume) AddDir(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.mkdirAllLocked(rootPath(name))
}

// mkdirAllLocked is the internal implementation that assumes the lock is held.
func (v *MockVolume) mkdirAllLocked(p string) {
	if _, exists := v.files[p]; exists {
		return
	}

	v.mkdirAllLocked(path.Dir(p))
	v.files[p] = &mockFile{modTime: time.Now(), isDir: true, perm: os.ModeDir | 0o755}
}

// Closes returns how many times Close has been called.
func (v *MockVolume) Closes() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.closes
}

// FailOpen makes OpenDir of name return err.
func (v *MockVolume) FailOpen(name string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.failOpen[rootPath(name)] = err
}

// FailRead makes listing name fail with err after the given number of entries.
func (v *MockVolume) FailRead(name string, after int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.failRead[rootPath(name)] = mockReadFailure{after: after, err: err}
}

// FailStat makes Stat of name return err.
func (v *MockVolume) FailStat(name string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.failStat[rootPath(name)] = err
}

// GetFile retrieves a file's content.
func (v *MockVolume) GetFile(name string) ([]byte, error) {
	p := rootPath(name)

	v.mu.RLock()
	defer v.mu.RUnlock()

	file, exists := v.files[p]
	if !exists {
		return nil, os.ErrNotExist
	}

	if file.isDir {
		return nil, fmt.Errorf("%s is a directory", p) //nolint:err113 // Test helper error
	}

	return append([]byte(nil), file.data...), nil
}

// ListFiles returns every regular file path in the volume, sorted.
func (v *MockVolume) ListFiles() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	paths := make([]string, 0, len(v.files))
	for p, file := range v.files {
		if !file.isDir && strings.HasPrefix(p, "/") {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	return paths
}
