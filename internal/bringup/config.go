package bringup

import (
	"fmt"
	"time"

	"github.com/joe/sd-scan/pkg/scanner"
)

// Defaults for Config.
const (
	DefaultCapacity      = 1000
	DefaultMaxDepth      = 32
	DefaultRetryInterval = time.Second
	DefaultRoot          = "/"
	DefaultTestFile      = "/oi123.txt"
	DefaultTestFileSize  = 1000
)

// Config describes one bring-up run.
type Config struct {
	// Location names the volume, for logs and events.
	Location string
	// Root is the directory the scan starts from.
	Root string
	// Capacity bounds the length of any scanned path, in bytes.
	Capacity int
	// MaxDepth bounds how many directory levels below Root are entered.
	MaxDepth int
	// Filter is an optional glob; only matching files reach the sink.
	Filter string
	// TestFile is created on the volume after mounting. Empty skips the step.
	TestFile string
	// TestFileSize is the number of zero bytes written to TestFile.
	TestFileSize int
	// RetryInterval is the pause between connect attempts.
	RetryInterval time.Duration
	// ConnectAttempts limits connect attempts; 0 retries until cancelled.
	ConnectAttempts int
}

// DefaultConfig returns the configuration of the stock demo.
func DefaultConfig() Config {
	return Config{
		Root:          DefaultRoot,
		Capacity:      DefaultCapacity,
		MaxDepth:      DefaultMaxDepth,
		TestFile:      DefaultTestFile,
		TestFileSize:  DefaultTestFileSize,
		RetryInterval: DefaultRetryInterval,
	}
}

// Validate reports the first invalid field.
//
//nolint:err113 // Validation errors carry the offending value
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be greater than 0, got %d", c.Capacity)
	}

	if len(c.Root) > c.Capacity {
		return fmt.Errorf("root %q does not fit capacity %d", c.Root, c.Capacity)
	}

	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}

	if c.TestFileSize < 0 {
		return fmt.Errorf("test file size must not be negative, got %d", c.TestFileSize)
	}

	if c.RetryInterval <= 0 {
		return fmt.Errorf("retry interval must be positive, got %s", c.RetryInterval)
	}

	if c.ConnectAttempts < 0 {
		return fmt.Errorf("connect attempts must not be negative, got %d", c.ConnectAttempts)
	}

	if err := scanner.ValidatePattern(c.Filter); err != nil {
		return err
	}

	return nil
}
