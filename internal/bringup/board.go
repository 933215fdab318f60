// Package bringup brings a storage volume online and lists its files.
//
// A Board owns one volume for its lifetime. Run performs the whole sequence:
// connect with retries, mount, write and verify a test file, then scan. The
// individual steps are exported for callers that need finer control.
package bringup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joe/sd-scan/pkg/scanner"
	"github.com/joe/sd-scan/pkg/volume"
	"github.com/zeebo/blake3"
)

// Opener opens the volume. It is called once per connect attempt.
type Opener func(ctx context.Context) (volume.Volume, error)

// Option configures a Board.
type Option func(*Board)

// WithEmitter sends progress events to emitter.
func WithEmitter(emitter EventEmitter) Option {
	return func(b *Board) {
		b.emitter = emitter
	}
}

// WithTimeProvider replaces the clock used for retries and timings.
func WithTimeProvider(provider TimeProvider) Option {
	return func(b *Board) {
		b.clock = provider
	}
}

// Board is an owned handle on one volume and its bring-up state.
// A Board is not safe for concurrent use.
type Board struct {
	cfg     Config
	opener  Opener
	emitter EventEmitter
	clock   TimeProvider
	filter  scanner.Filter

	vol     volume.Volume
	mounted bool
}

// MountResult reports the state of the volume after Mount.
type MountResult struct {
	Ready bool
	// Usage is nil when the volume cannot report its capacity.
	Usage *volume.Usage
}

// TestFileResult describes a written and verified test file.
type TestFileResult struct {
	Path   string
	Size   int64
	Digest string
}

// RunResult collects the outcome of every Run step. TestFileErr is kept
// separately because a failed test file does not stop the scan.
type RunResult struct {
	Mount       MountResult
	TestFile    TestFileResult
	TestFileErr error
	Scan        ScanResult
}

// Init validates cfg and returns a Board that has not yet connected.
func Init(cfg Config, opener Opener, opts ...Option) (*Board, error) {
	if opener == nil {
		return nil, errors.New("opener must not be nil") //nolint:err113 // Programming error
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	b := &Board{
		cfg:    cfg,
		opener: opener,
		clock:  wallClock{},
	}

	if cfg.Filter != "" {
		b.filter = scanner.NewGlobFilter(cfg.Filter)
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// Config returns the configuration the board was created with.
func (b *Board) Config() Config {
	return b.cfg
}

// Volume returns the connected volume, or nil.
func (b *Board) Volume() volume.Volume {
	return b.vol
}

// Connect opens the volume, retrying every RetryInterval until it succeeds,
// ctx is done, or ConnectAttempts attempts have failed. Connecting an already
// connected board does nothing.
func (b *Board) Connect(ctx context.Context) error {
	if b.vol != nil {
		return nil
	}

	var ticker Ticker

	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for attempt := 1; ; attempt++ {
		b.emit(ConnectAttempt{Attempt: attempt, Location: b.cfg.Location})

		vol, err := b.opener(ctx)
		if err == nil {
			b.vol = vol
			slog.Info("Volume connected", "location", b.cfg.Location, "attempt", attempt)
			b.emit(Connected{Attempt: attempt, Location: b.cfg.Location})

			return nil
		}

		slog.Debug("Connect attempt failed", "location", b.cfg.Location, "attempt", attempt, "err", err)
		b.emit(ConnectFailed{Attempt: attempt, Err: err})

		if b.cfg.ConnectAttempts > 0 && attempt >= b.cfg.ConnectAttempts {
			return fmt.Errorf("%w: gave up after %d attempts: %w", ErrConnectAttemptsExhausted, attempt, err)
		}

		if ticker == nil {
			ticker = b.clock.NewTicker(b.cfg.RetryInterval)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("connect cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-ticker.C():
		}
	}
}

// Mount checks that the volume root is a directory and reports readiness.
// On failure the volume is disconnected and the error matches ErrNotMounted.
func (b *Board) Mount() (MountResult, error) {
	if b.vol == nil {
		return MountResult{}, ErrNotConnected
	}

	info, err := b.vol.Stat("")
	if err == nil && !info.IsDir() {
		err = errors.New("volume root is not a directory") //nolint:err113 // Wrapped by ErrNotMounted
	}

	if err != nil {
		b.disconnect()

		err = fmt.Errorf("%w: %w", ErrNotMounted, err)
		b.emit(MountFailed{Err: err})

		return MountResult{}, err
	}

	b.mounted = true
	result := MountResult{Ready: true}

	if reporter, ok := b.vol.(volume.UsageReporter); ok {
		usage, err := reporter.Usage()
		if err == nil {
			result.Usage = &usage
		} else {
			slog.Debug("Volume usage unavailable", "location", b.cfg.Location, "err", err)
		}
	}

	slog.Info("Volume mounted", "location", b.cfg.Location)
	b.emit(Mounted{Usage: result.Usage})

	return result, nil
}

// WriteTestFile creates the test file, fills it with zero bytes and reads it
// back to verify the content. An existing file is never overwritten.
func (b *Board) WriteTestFile() (TestFileResult, error) {
	if !b.mounted {
		return TestFileResult{}, ErrNotMounted
	}

	name := b.cfg.TestFile

	result, err := b.writeTestFile(name)
	if err != nil {
		slog.Warn("Test file failed", "path", name, "err", err)
		b.emit(TestFileFailed{Path: name, Err: err})

		return TestFileResult{}, err
	}

	slog.Info("Test file written", "path", name, "size", result.Size)
	b.emit(TestFileWritten{Path: result.Path, Size: result.Size, Digest: result.Digest})

	return result, nil
}

func (b *Board) writeTestFile(name string) (TestFileResult, error) {
	payload := make([]byte, b.cfg.TestFileSize)

	dst, err := b.vol.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return TestFileResult{}, fmt.Errorf("%w: %s", ErrTestFileExists, name)
		}

		return TestFileResult{}, fmt.Errorf("failed to create test file %s: %w", name, err)
	}

	srcHasher := blake3.New()

	written, err := io.Copy(io.MultiWriter(dst, srcHasher), bytes.NewReader(payload))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return TestFileResult{}, fmt.Errorf("failed to write test file %s: %w", name, err)
	}

	src, err := b.vol.Open(name)
	if err != nil {
		return TestFileResult{}, fmt.Errorf("failed to reopen test file %s: %w", name, err)
	}
	defer src.Close()

	dstHasher := blake3.New()

	read, err := io.Copy(dstHasher, src)
	if err != nil {
		return TestFileResult{}, fmt.Errorf("failed to read back test file %s: %w", name, err)
	}

	srcChecksum := fmt.Sprintf("%x", srcHasher.Sum(nil))
	dstChecksum := fmt.Sprintf("%x", dstHasher.Sum(nil))

	if read != written || srcChecksum != dstChecksum {
		return TestFileResult{}, fmt.Errorf("%w: %s: wrote %d bytes (%s), read %d bytes (%s)",
			ErrTestFileMismatch, name, written, srcChecksum, read, dstChecksum)
	}

	return TestFileResult{Path: name, Size: written, Digest: srcChecksum}, nil
}

// Scan lists every file below the configured root into sink.
func (b *Board) Scan(sink scanner.PathSink) (ScanResult, error) {
	if !b.mounted {
		return ScanResult{}, ErrNotMounted
	}

	progress := &scanProgress{
		sink:   sink,
		board:  b,
		result: ScanResult{Root: scanner.DisplayPath(b.cfg.Root)},
	}

	opts := []scanner.Option{
		scanner.WithMaxDepth(b.cfg.MaxDepth),
		scanner.WithObserver(progress),
	}
	if b.filter != nil {
		opts = append(opts, scanner.WithFilter(b.filter))
	}

	start := b.clock.Now()
	b.emit(ScanStarted{Root: progress.result.Root})

	err := scanner.ScanPath(b.cfg.Root, b.cfg.Capacity, b.vol, progress, opts...)
	progress.result.Elapsed = b.clock.Now().Sub(start)

	if err != nil {
		slog.Error("Scan failed", "root", progress.result.Root, "files", progress.result.Files, "err", err)
		b.emit(ScanFailed{Result: progress.result, Err: err})

		return progress.result, err
	}

	slog.Info("Scan complete",
		"root", progress.result.Root,
		"files", progress.result.Files,
		"dirs", progress.result.Dirs,
		"elapsed", progress.result.Elapsed)
	b.emit(ScanComplete{Result: progress.result})

	return progress.result, nil
}

// Run connects, mounts, writes the test file and scans. A test file failure
// is recorded in the result and the scan still runs; any other failure stops
// the sequence.
func (b *Board) Run(ctx context.Context, sink scanner.PathSink) (RunResult, error) {
	var result RunResult

	if err := b.Connect(ctx); err != nil {
		return result, err
	}

	mount, err := b.Mount()
	if err != nil {
		return result, err
	}

	result.Mount = mount

	if b.cfg.TestFile != "" {
		result.TestFile, result.TestFileErr = b.WriteTestFile()
	}

	result.Scan, err = b.Scan(sink)

	return result, err
}

// Close unmounts and disconnects the volume.
func (b *Board) Close() error {
	if b.vol == nil {
		return nil
	}

	err := b.vol.Close()
	b.vol = nil
	b.mounted = false

	if err != nil {
		return fmt.Errorf("failed to close volume: %w", err)
	}

	return nil
}

func (b *Board) disconnect() {
	if err := b.Close(); err != nil {
		slog.Debug("Disconnect failed", "location", b.cfg.Location, "err", err)
	}
}

func (b *Board) emit(event Event) {
	if b.emitter != nil {
		b.emitter.Emit(event)
	}
}

// scanProgress forwards scan results to the caller's sink and keeps counts.
type scanProgress struct {
	sink   scanner.PathSink
	board  *Board
	result ScanResult
}

func (p *scanProgress) Accept(fullPath string) {
	p.result.Files++
	p.board.emit(FileFound{Path: fullPath})

	if p.sink != nil {
		p.sink.Accept(fullPath)
	}
}

func (p *scanProgress) EnterDir(path string, depth int) {
	p.result.Dirs++
	p.board.emit(DirEntered{Path: path, Depth: depth})
}
