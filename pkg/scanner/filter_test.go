//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package scanner_test

import (
	"testing"

	"github.com/joe/sd-scan/pkg/scanner"
)

func TestGlobFilterInvalidPattern(t *testing.T) {
	t.Parallel()

	filter := scanner.NewGlobFilter("[invalid")
	if filter.ShouldInclude("/test.txt") {
		t.Error("Invalid pattern should not match files")
	}

	if err := scanner.ValidatePattern("[invalid"); err == nil {
		t.Error("ValidatePattern should reject an unterminated class")
	}
}

func TestGlobFilterShouldInclude(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pattern     string
		path        string
		shouldMatch bool
	}{
		{"empty pattern matches all", "", "/any/file.txt", true},
		{"extension at root", "*.txt", "/oi123.txt", true},
		{"extension not recursive", "*.txt", "/logs/boot.txt", false},
		{"recursive extension", "**/*.txt", "/logs/boot.txt", true},
		{"case insensitive pattern", "**/*.LOG", "/logs/boot.log", true},
		{"case insensitive file", "**/*.log", "/LOGS/BOOT.LOG", true},
		{"leading slash in pattern", "/data/*.txt", "/data/a.txt", true},
		{"directory scoped", "data/**", "/data/sub/b.txt", true},
		{"directory scoped miss", "data/**", "/other/b.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			filter := scanner.NewGlobFilter(tt.pattern)
			if got := filter.ShouldInclude(tt.path); got != tt.shouldMatch {
				t.Errorf("NewGlobFilter(%q).ShouldInclude(%q) = %v, want %v", tt.pattern, tt.path, got, tt.shouldMatch)
			}
		})
	}
}
