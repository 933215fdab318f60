package scanner

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides which file paths a scan emits.
type Filter interface {
	// ShouldInclude returns true if the file at fullPath should reach the sink
	ShouldInclude(fullPath string) bool
}

// GlobFilter implements Filter using glob patterns.
// Patterns are matched against the full path with its leading separator
// removed, so "data/**/*.txt" matches "/data/sub/b.txt".
type GlobFilter struct {
	normalizedPattern string
	isEmpty           bool
}

// NewGlobFilter creates a new GlobFilter with the given pattern
// Empty pattern matches all files
func NewGlobFilter(pattern string) *GlobFilter {
	return &GlobFilter{
		normalizedPattern: strings.ToLower(strings.TrimPrefix(pattern, Separator)),
		isEmpty:           pattern == "",
	}
}

// ShouldInclude returns true if the file should be included based on the glob pattern
// Case-insensitive matching, as FAT names are
func (f *GlobFilter) ShouldInclude(fullPath string) bool {
	if f.isEmpty {
		return true
	}

	normalizedPath := strings.ToLower(strings.TrimPrefix(fullPath, Separator))

	matched, err := doublestar.Match(f.normalizedPattern, normalizedPath)
	if err != nil {
		// If pattern is invalid, don't match
		return false
	}

	return matched
}

// ValidatePattern reports whether pattern is a well-formed glob.
func ValidatePattern(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid glob pattern: %q", pattern) //nolint:err113 // Validation error with actual pattern
	}

	return nil
}

// includeAll is the default Filter.
type includeAll struct{}

func (includeAll) ShouldInclude(string) bool { return true }
