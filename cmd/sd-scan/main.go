// Package main is the entry point for the sd-scan application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joe/sd-scan/internal/bringup"
	"github.com/joe/sd-scan/internal/config"
	"github.com/joe/sd-scan/internal/console"
	"github.com/joe/sd-scan/internal/tui"
	pkgerrors "github.com/joe/sd-scan/pkg/errors"
	"github.com/joe/sd-scan/pkg/volume"
	"github.com/lmittmann/tint"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	stdoutIsTTY := term.IsTerminal(int(os.Stdout.Fd()))
	interactive := cfg.InteractiveMode && stdoutIsTTY

	// The terminal view owns the screen; log lines would tear it.
	logOutput := io.Writer(os.Stderr)
	if interactive {
		logOutput = io.Discard
	}

	setupLogging(logOutput, cfg.LogLevel.Level(), cfg.NoColor || !term.IsTerminal(int(os.Stderr.Fd())))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opener := func(context.Context) (volume.Volume, error) {
		return volume.OpenVolume(cfg.Volume)
	}

	var result bringup.RunResult

	if interactive {
		result, err = runInteractive(ctx, cfg, opener)
	} else {
		result, err = runConsole(ctx, cfg, opener, !cfg.NoColor && stdoutIsTTY)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Cancelled")
			return 130 //nolint:mnd // Conventional exit status after SIGINT
		}

		report(err)

		return 1
	}

	if result.TestFileErr != nil {
		slog.Warn("Scan finished without a verified test file", "err", result.TestFileErr)
	}

	return 0
}

func runConsole(
	ctx context.Context, cfg *config.Config, opener bringup.Opener, color bool,
) (bringup.RunResult, error) {
	out := console.New(os.Stdout,
		console.WithLineEnding(cfg.LineEnding()),
		console.WithColor(color),
		console.WithQuiet(cfg.Quiet),
	)

	board, err := bringup.Init(cfg.Board(), opener, bringup.WithEmitter(out))
	if err != nil {
		return bringup.RunResult{}, err
	}
	defer closeBoard(board)

	result, err := board.Run(ctx, out)
	if err == nil {
		err = out.Err()
	}

	return result, err
}

func runInteractive(ctx context.Context, cfg *config.Config, opener bringup.Opener) (bringup.RunResult, error) {
	bridge := tui.NewEventBridge()

	board, err := bringup.Init(cfg.Board(), opener, bringup.WithEmitter(bridge))
	if err != nil {
		return bringup.RunResult{}, err
	}
	defer closeBoard(board)

	return tui.Run(ctx, board, bridge)
}

func closeBoard(board *bringup.Board) {
	if err := board.Close(); err != nil {
		slog.Warn("Disconnect failed", "err", err)
	}
}

func report(err error) {
	enricher := pkgerrors.NewEnricher(
		pkgerrors.WithSentinel(bringup.ErrConnectAttemptsExhausted, pkgerrors.CategoryConnection),
		pkgerrors.WithSentinel(bringup.ErrNotMounted, pkgerrors.CategoryMount),
	)

	enriched := enricher.Enrich(err, "")
	fmt.Fprintf(os.Stderr, "Error: %v\n", enriched)

	if suggestions := pkgerrors.FormatSuggestions(enriched); suggestions != "" {
		fmt.Fprintf(os.Stderr, "\n%s\n", suggestions)
	}
}

func setupLogging(w io.Writer, level slog.Level, noColor bool) {
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    noColor,
		}),
	))
}
