//go:build mage
// +build mage

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary   = "sd-scan"
	mainPkg  = "./cmd/sd-scan"
	coverOut = "coverage.out"
)

// unitPkgs are the packages covered by the unit test and lint targets.
var unitPkgs = []string{
	"./pkg/scanner/...",
	"./pkg/volume/...",
	"./pkg/errors/...",
	"./internal/bringup/...",
	"./internal/console/...",
	"./internal/tui/...",
	"./internal/config/...",
	mainPkg,
}

// Default target to run when none is specified
var Default = Build

// Build builds the sd-scan binary
func Build() error {
	fmt.Println("Building " + binary + "...")
	return sh.Run("go", "build", "-o", binary, mainPkg)
}

// Test runs the unit tests with coverage
func Test() error {
	fmt.Println("Running unit tests...")
	return sh.Run("go", withPkgs("test", "-race", "-coverprofile="+coverOut)...)
}

// TestForFail runs the unit tests purely to find out whether any fail
func TestForFail() error {
	fmt.Println("Running unit tests for overall pass/fail...")
	return run(context.Background(), "go", withPkgs("test", "-timeout=30s", "-failfast", "-shuffle=on", "-race")...)
}

// Integration scans real local directories through the built packages
func Integration() error {
	fmt.Println("Running integration tests...")
	return sh.Run("go", "test", "-v", "-race", "-tags", "integration", "./tests/integration/...")
}

// Lint lints the module's packages
func Lint() error {
	fmt.Println("Linting...")
	return run(context.Background(), "golangci-lint", withPkgs("run")...)
}

// LintForFail lints purely to find out whether anything fails
func LintForFail() error {
	fmt.Println("Linting to check for overall pass/fail...")
	return run(context.Background(), "golangci-lint",
		withPkgs("run", "--fix=false", "--max-issues-per-linter=1", "--max-same-issues=1")...)
}

// CheckNils runs nilaway over the module's own packages
func CheckNils() error {
	fmt.Println("Running check for nils...")
	return run(context.Background(), "nilaway",
		withPkgs("-include-pkgs=github.com/joe/sd-scan")...)
}

// CheckForFail runs every check for determining whether any fail
func CheckForFail() error {
	fmt.Println("Checking for failures...")
	mg.SerialDeps(LintForFail, TestForFail, CheckNils)
	return nil
}

// Check formats the code, then runs tests, lint and nil checks
func Check() error {
	mg.SerialDeps(Fmt, Test, Lint, CheckNils)
	return nil
}

// Fmt formats the code
func Fmt() error {
	fmt.Println("Formatting code...")
	if err := sh.Run("gofmt", "-s", "-w", "cmd", "internal", "pkg", "tests"); err != nil {
		return err
	}
	return sh.Run("goimports", "-local", "github.com/joe/sd-scan", "-w", "cmd", "internal", "pkg", "tests")
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning...")
	for _, f := range []string{binary, coverOut, "coverage.html"} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Install installs the sd-scan binary
func Install() error {
	fmt.Println("Installing " + binary + "...")
	return sh.Run("go", "install", mainPkg)
}

// Coverage generates and opens the unit test coverage report
func Coverage() error {
	if err := Test(); err != nil {
		return err
	}
	fmt.Println("Generating coverage report...")
	if err := sh.Run("go", "tool", "cover", "-html="+coverOut, "-o", "coverage.html"); err != nil {
		return err
	}

	cmd := exec.Command("open", "coverage.html")
	if err := cmd.Run(); err != nil {
		fmt.Println("Coverage report generated at coverage.html")
	}
	return nil
}

// withPkgs appends the unit packages to args.
func withPkgs(args ...string) []string {
	return append(args, unitPkgs...)
}

// Helper function to run commands with context
func run(c context.Context, command string, arg ...string) error {
	cmd := exec.CommandContext(c, command, arg...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
