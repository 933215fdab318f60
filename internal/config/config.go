// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/joe/sd-scan/internal/bringup"
	"github.com/joe/sd-scan/pkg/scanner"
	"github.com/joe/sd-scan/pkg/volume"
	"github.com/joho/godotenv"
)

// LogLevel is the minimum level of log records written to stderr
type LogLevel slog.Level

// String returns the string representation of LogLevel
func (l LogLevel) String() string {
	switch slog.Level(l) {
	case slog.LevelDebug:
		return "debug"
	case slog.LevelInfo:
		return "info"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "error"
	default:
		return slog.Level(l).String()
	}
}

// Level returns the slog level
func (l LogLevel) Level() slog.Level {
	return slog.Level(l)
}

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevel(slog.LevelDebug), nil
	case "info":
		return LogLevel(slog.LevelInfo), nil
	case "warn", "warning":
		return LogLevel(slog.LevelWarn), nil
	case "error":
		return LogLevel(slog.LevelError), nil
	default:
		return LogLevel(slog.LevelWarn), fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", s) //nolint:err113 // Validation error with actual value
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (l *LogLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseLogLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Config holds the application configuration
//
//nolint:lll // Struct tags carry the full help text
type Config struct {
	Volume          string        `arg:"positional" env:"SDSCAN_VOLUME" help:"Volume to scan: a directory, mem:// or sftp://user@host[:port]/path"`
	EnvFile         string        `arg:"--env-file" help:"Read SDSCAN_* settings from a dotenv file; the environment takes precedence"`
	Root            string        `arg:"-r,--root" env:"SDSCAN_ROOT" default:"/" help:"Directory on the volume to scan"`
	Capacity        int           `arg:"-c,--capacity" env:"SDSCAN_CAPACITY" default:"1000" help:"Longest path the scanner can build, in bytes"`
	MaxDepth        int           `arg:"--max-depth" env:"SDSCAN_MAX_DEPTH" default:"32" help:"Directory levels to descend below the root"`
	Filter          string        `arg:"-f,--filter" env:"SDSCAN_FILTER" help:"Only list files matching this glob (case-insensitive, e.g. '**/*.log')"`
	TestFile        string        `arg:"--test-file" env:"SDSCAN_TEST_FILE" default:"/oi123.txt" help:"Test file created after mounting"`
	TestFileSize    int           `arg:"--test-file-size" env:"SDSCAN_TEST_FILE_SIZE" default:"1000" help:"Zero bytes written to the test file"`
	NoTestFile      bool          `arg:"--no-test-file" help:"Skip writing the test file"`
	RetryInterval   time.Duration `arg:"--retry-interval" env:"SDSCAN_RETRY_INTERVAL" default:"1s" help:"Pause between connect attempts"`
	ConnectAttempts int           `arg:"--connect-attempts" env:"SDSCAN_CONNECT_ATTEMPTS" default:"0" help:"Give up after this many connect attempts (0 = keep trying)"`
	InteractiveMode bool          `arg:"-i,--interactive" help:"Show a live terminal view instead of console lines"`
	Quiet           bool          `arg:"-q,--quiet" help:"Only print paths"`
	NoColor         bool          `arg:"--no-color" help:"Disable colored status lines"`
	LF              bool          `arg:"--lf" help:"End lines with \\n instead of \\r\\n"`
	LogLevel        LogLevel      `arg:"--log-level" env:"SDSCAN_LOG_LEVEL" default:"warn" help:"Log level: debug|info|warn|error"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Bring a storage volume online, write a test file and list every file on it"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "sd-scan 1.0.0"
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	if err := loadEnvFileArg(os.Args[1:]); err != nil {
		return nil, err
	}

	cfg := &Config{}

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// Parse parses args (without the program name) the way ParseFlags parses the command line.
func Parse(args []string) (*Config, error) {
	if err := loadEnvFileArg(args); err != nil {
		return nil, err
	}

	cfg := &Config{}

	parser, err := arg.NewParser(arg.Config{Program: "sd-scan"}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build argument parser: %w", err)
	}

	if err := parser.Parse(args); err != nil {
		return nil, err
	}

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	if cfg.NoTestFile {
		cfg.TestFile = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every setting
//
//nolint:err113 // Validation errors carry the offending value
func (cfg *Config) Validate() error {
	if cfg.Volume == "" {
		return errors.New("volume is required")
	}

	if _, err := volume.ParseLocation(cfg.Volume); err != nil {
		return fmt.Errorf("invalid volume: %w", err)
	}

	if err := scanner.ValidatePattern(cfg.Filter); err != nil {
		return err
	}

	if cfg.TestFile != "" && !strings.HasPrefix(cfg.TestFile, "/") {
		return fmt.Errorf("test file must be an absolute path on the volume: %s", cfg.TestFile)
	}

	return cfg.Board().Validate()
}

// Board returns the bring-up settings
func (cfg *Config) Board() bringup.Config {
	return bringup.Config{
		Location:        cfg.Volume,
		Root:            cfg.Root,
		Capacity:        cfg.Capacity,
		MaxDepth:        cfg.MaxDepth,
		Filter:          cfg.Filter,
		TestFile:        cfg.TestFile,
		TestFileSize:    cfg.TestFileSize,
		RetryInterval:   cfg.RetryInterval,
		ConnectAttempts: cfg.ConnectAttempts,
	}
}

// LineEnding returns the console line terminator
func (cfg *Config) LineEnding() string {
	if cfg.LF {
		return "\n"
	}

	return "\r\n"
}

// LoadEnvFile copies the variables of a dotenv file into the environment.
// Variables that are already set keep their value.
func LoadEnvFile(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	for key, value := range values {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}

		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s from %s: %w", key, path, err)
		}
	}

	return nil
}

// loadEnvFileArg loads the file named by --env-file before go-arg reads the
// environment.
func loadEnvFileArg(args []string) error {
	path := envFileArg(args)
	if path == "" {
		return nil
	}

	return LoadEnvFile(path)
}

func envFileArg(args []string) string {
	for i, a := range args {
		if a == "--" {
			return ""
		}

		if value, ok := strings.CutPrefix(a, "--env-file="); ok {
			return value
		}

		if a == "--env-file" && i+1 < len(args) {
			return args[i+1]
		}
	}

	return ""
}
