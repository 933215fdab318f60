package errors

import "strings"

// PatternMatcher matches error messages to categories using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		order: []ErrorCategory{
			CategoryPathLength,
			CategoryDepth,
			CategoryPermission,
			CategoryDiskSpace,
			CategoryConnection,
			CategoryPath,
		},
		patterns: map[ErrorCategory][]string{
			CategoryPathLength: {
				"path exceeds buffer capacity",
				"file name too long",
				"name too long",
			},
			CategoryDepth: {
				"exceeds maximum depth",
				"too many levels",
			},
			CategoryPermission: {
				"permission denied",
				"access denied",
				"operation not permitted",
				"read-only file system",
			},
			CategoryDiskSpace: {
				"no space left on device",
				"disk full",
				"quota exceeded",
			},
			CategoryConnection: {
				"connection refused",
				"no route to host",
				"i/o timeout",
				"ssh: handshake failed",
				"unable to authenticate",
				"no ssh authentication methods",
			},
			CategoryPath: {
				"no such file or directory",
				"file does not exist",
				"not a directory",
				"path does not exist",
			},
		},
	}
}

// patternMatcher is the concrete implementation of PatternMatcher.
type patternMatcher struct {
	order    []ErrorCategory
	patterns map[ErrorCategory][]string
}

// Match returns the error category based on pattern matching. Categories are
// tried in a fixed order so messages carrying several hints match the most
// specific one.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, category := range m.order {
		for _, pattern := range m.patterns[category] {
			if strings.Contains(lowerMsg, pattern) {
				return category
			}
		}
	}

	return CategoryUnknown
}
