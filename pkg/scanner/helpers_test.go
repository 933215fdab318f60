//nolint:varnamelen // Test files use idiomatic short variable names
package scanner_test

import (
	"errors"
	"path"
	"sort"
	"strings"

	"github.com/joe/sd-scan/pkg/scanner"
)

var errInjected = errors.New("injected failure")

// fakeTree is an in-memory DirSource. Keys are directory paths ("" is the
// root); values are the entries in read order.
type fakeTree struct {
	dirs      map[string][]scanner.Entry
	failOpen  map[string]error
	failRead  map[string]int // fail after this many entries
	opened    []string
	closed    int
	bufferLen func() int // observed at every OpenDir when set
	observed  []int
}

func newFakeTree() *fakeTree {
	return &fakeTree{
		dirs:     map[string][]scanner.Entry{"": nil},
		failOpen: map[string]error{},
		failRead: map[string]int{},
	}
}

// addFile adds a file at p, creating parent directories as needed.
func (t *fakeTree) addFile(p string) {
	dir, name := path.Split(p)
	dir = strings.TrimSuffix(dir, "/")
	t.addDir(dir)
	t.dirs[dir] = append(t.dirs[dir], scanner.Entry{Name: name})
}

// addDir adds a directory at p, creating parents as needed.
func (t *fakeTree) addDir(p string) {
	if _, ok := t.dirs[p]; ok {
		return
	}

	parent, name := path.Split(p)
	parent = strings.TrimSuffix(parent, "/")
	t.addDir(parent)
	t.dirs[parent] = append(t.dirs[parent], scanner.Entry{Name: name, IsDir: true})
	t.dirs[p] = nil
}

// addEntry appends a raw entry, bypassing parent creation.
func (t *fakeTree) addEntry(dir string, e scanner.Entry) {
	t.dirs[dir] = append(t.dirs[dir], e)
	if e.IsDir {
		child := dir + "/" + e.Name
		if _, ok := t.dirs[child]; !ok {
			t.dirs[child] = nil
		}
	}
}

func (t *fakeTree) OpenDir(p string) (scanner.DirReader, error) {
	t.opened = append(t.opened, p)
	if t.bufferLen != nil {
		t.observed = append(t.observed, t.bufferLen())
	}

	if err, ok := t.failOpen[p]; ok {
		return nil, err
	}

	entries, ok := t.dirs[p]
	if !ok {
		return nil, errors.New("no such file or directory")
	}

	failAfter, fails := t.failRead[p]
	if !fails {
		failAfter = -1
	}

	return &fakeReader{tree: t, entries: entries, failAfter: failAfter}, nil
}

type fakeReader struct {
	tree      *fakeTree
	entries   []scanner.Entry
	index     int
	failAfter int
	err       error
}

func (r *fakeReader) Next() (scanner.Entry, bool) {
	if r.failAfter >= 0 && r.index == r.failAfter {
		r.err = errInjected
		return scanner.Entry{}, false
	}

	if r.index >= len(r.entries) {
		return scanner.Entry{}, false
	}

	e := r.entries[r.index]
	r.index++

	return e, true
}

func (r *fakeReader) Err() error { return r.err }

func (r *fakeReader) Close() error {
	r.tree.closed++
	return nil
}

func sorted(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)

	return out
}
