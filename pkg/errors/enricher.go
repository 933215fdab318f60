package errors

import (
	"errors"
	"regexp"
	"strings"

	"github.com/joe/sd-scan/pkg/scanner"
)

// Enricher enriches standard errors with actionable suggestions.
type Enricher interface {
	Enrich(err error, affectedPath string) error
}

// EnricherOption configures an Enricher.
type EnricherOption func(*enricher)

// NewEnricher creates a new Enricher with default pattern matcher and suggestion generator.
// The scanner's sentinel errors are always recognized.
func NewEnricher(opts ...EnricherOption) Enricher {
	e := &enricher{
		matcher:   NewPatternMatcher(),
		generator: NewSuggestionGenerator(),
		sentinels: []sentinel{
			{err: scanner.ErrPathTooLong, category: CategoryPathLength},
			{err: scanner.ErrDepthExceeded, category: CategoryDepth},
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// WithSentinel maps errors matching target (via errors.Is) to category.
// Sentinels registered later take precedence over earlier ones.
func WithSentinel(target error, category ErrorCategory) EnricherOption {
	return func(e *enricher) {
		e.sentinels = append([]sentinel{{err: target, category: category}}, e.sentinels...)
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Compiled regexes shared across all enricher instances for performance
	pathExtractionPatterns = []*regexp.Regexp{
		// "open /path/to/file: ..." and friends
		regexp.MustCompile(`\b\w+\s+([./][^\s:]+):`),
		// scanner wraps paths as "<sentinel>: /path: <cause>"
		regexp.MustCompile(`:\s+(/[^\s:]*):`),
	}
)

type sentinel struct {
	err      error
	category ErrorCategory
}

// enricher is the concrete implementation of Enricher.
type enricher struct {
	matcher   PatternMatcher
	generator SuggestionGenerator
	sentinels []sentinel
}

// Enrich takes a standard error and enriches it with category and actionable suggestions.
// If the error is already an ActionableError, it is returned unchanged.
// If affectedPath is empty, attempts to extract a path from the error message.
func (e *enricher) Enrich(err error, affectedPath string) error {
	if err == nil {
		return nil
	}

	var actionableErr ActionableError
	if errors.As(err, &actionableErr) {
		return actionableErr
	}

	errMsg := err.Error()

	if affectedPath == "" {
		affectedPath = extractPath(errMsg)
	}

	category := e.categorize(err)

	return NewActionableError(
		errMsg,
		category,
		e.generator.Generate(category, affectedPath),
		affectedPath,
	)
}

// categorize prefers registered sentinels and falls back to message patterns.
// Wrapped open and read failures carry the OS error text, so they are left to
// the matcher to tell a permission problem from a missing path.
func (e *enricher) categorize(err error) ErrorCategory {
	for _, s := range e.sentinels {
		if errors.Is(err, s.err) {
			return s.category
		}
	}

	return e.matcher.Match(err.Error())
}

// extractPath attempts to extract a file path from common Go error message formats.
// Returns empty string if no path is found.
//
// Recognized forms:
//   - "open /path/to/file: permission denied"
//   - "failed to open directory: /data/logs: no such file or directory"
func extractPath(errorMsg string) string {
	for _, pattern := range pathExtractionPatterns {
		if matches := pattern.FindStringSubmatch(errorMsg); len(matches) > 1 {
			path := strings.TrimSpace(matches[1])
			if path != "" {
				return path
			}
		}
	}

	return ""
}
