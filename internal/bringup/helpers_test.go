package bringup_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/joe/sd-scan/internal/bringup"
	"github.com/joe/sd-scan/pkg/volume"
)

var (
	errNoCard   = errors.New("no card inserted")
	errInjected = errors.New("injected failure")
)

// fakeClock ticks immediately and advances one second per Now call.
type fakeClock struct {
	mu        sync.Mutex
	now       time.Time
	intervals []time.Duration
	stopped   int
	stalled   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) NewTicker(d time.Duration) bringup.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.intervals = append(c.intervals, d)

	ch := make(chan time.Time)
	if !c.stalled {
		close(ch)
	}

	return &fakeTicker{clock: c, ch: ch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now
	c.now = c.now.Add(time.Second)

	return now
}

// fakeTicker fires from a channel the clock controls and counts stops.
type fakeTicker struct {
	clock *fakeClock
	ch    chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	t.clock.stopped++
}

// recorder keeps every emitted event.
type recorder struct {
	events []bringup.Event
}

func (r *recorder) Emit(event bringup.Event) {
	r.events = append(r.events, event)
}

func (r *recorder) count(match func(bringup.Event) bool) int {
	n := 0
	for _, event := range r.events {
		if match(event) {
			n++
		}
	}

	return n
}

func isConnectAttempt(e bringup.Event) bool {
	_, ok := e.(bringup.ConnectAttempt)
	return ok
}

func isConnectFailed(e bringup.Event) bool {
	_, ok := e.(bringup.ConnectFailed)
	return ok
}

func isConnected(e bringup.Event) bool {
	_, ok := e.(bringup.Connected)
	return ok
}

func isFileFound(e bringup.Event) bool {
	_, ok := e.(bringup.FileFound)
	return ok
}

// flakyOpener fails the first failures calls, then returns vol.
func flakyOpener(vol volume.Volume, failures int) (bringup.Opener, *int) {
	calls := 0

	return func(context.Context) (volume.Volume, error) {
		calls++
		if calls <= failures {
			return nil, errNoCard
		}

		return vol, nil
	}, &calls
}

func testConfig() bringup.Config {
	cfg := bringup.DefaultConfig()
	cfg.Location = "mem://"

	return cfg
}

// corruptingVolume returns different content from what was written.
type corruptingVolume struct {
	*volume.MockVolume
}

func (v corruptingVolume) Open(string) (volume.File, error) {
	return nopFile{bytes.NewReader([]byte("garbage"))}, nil
}

type nopFile struct {
	*bytes.Reader
}

func (nopFile) Write(p []byte) (int, error) { return len(p), nil }
func (nopFile) Close() error                { return nil }
