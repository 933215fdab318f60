package errors_test

import (
	"testing"

	"github.com/joe/sd-scan/pkg/errors"
)

func TestPatternMatcher_Match(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name     string
		errorMsg string
		want     errors.ErrorCategory
	}

	tests := []testCase{
		{"permission denied", "open /data/x: permission denied", errors.CategoryPermission},
		{"read-only card", "open /oi123.txt: read-only file system", errors.CategoryPermission},
		{"missing path", "stat /nope: no such file or directory", errors.CategoryPath},
		{"billy missing path", "file does not exist", errors.CategoryPath},
		{"disk full", "write /oi123.txt: no space left on device", errors.CategoryDiskSpace},
		{"refused", "dial tcp 10.0.0.2:22: connect: connection refused", errors.CategoryConnection},
		{"ssh auth", "ssh: handshake failed: ssh: unable to authenticate", errors.CategoryConnection},
		{"path length", "path exceeds buffer capacity: /a/b needs 12 bytes", errors.CategoryPathLength},
		{"depth", "directory tree exceeds maximum depth: /a is deeper than 3 levels", errors.CategoryDepth},
		{"case insensitive", "PERMISSION DENIED", errors.CategoryPermission},
		{"unknown", "something odd happened", errors.CategoryUnknown},
		{"empty", "", errors.CategoryUnknown},
	}

	matcher := errors.NewPatternMatcher()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := matcher.Match(tc.errorMsg); got != tc.want {
				t.Errorf("Match(%q) = %q, want %q", tc.errorMsg, got, tc.want)
			}
		})
	}
}

func TestPatternMatcher_PrefersSpecificCategory(t *testing.T) {
	t.Parallel()

	// A directory open failure wrapping a permission error mentions both.
	msg := "failed to open directory: /data: permission denied"

	if got := errors.NewPatternMatcher().Match(msg); got != errors.CategoryPermission {
		t.Errorf("Match(%q) = %q, want %q", msg, got, errors.CategoryPermission)
	}
}
