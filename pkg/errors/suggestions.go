package errors

import "fmt"

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

// suggestionGenerator is the concrete implementation of SuggestionGenerator.
type suggestionGenerator struct{}

// Generate returns actionable suggestions based on the error category and affected path.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryConnection:
		return g.generateConnectionSuggestions(affectedPath)
	case CategoryDepth:
		return g.generateDepthSuggestions(affectedPath)
	case CategoryDiskSpace:
		return g.generateDiskSpaceSuggestions(affectedPath)
	case CategoryMount:
		return g.generateMountSuggestions(affectedPath)
	case CategoryPath:
		return g.generatePathSuggestions(affectedPath)
	case CategoryPathLength:
		return g.generatePathLengthSuggestions(affectedPath)
	case CategoryPermission:
		return g.generatePermissionSuggestions(affectedPath)
	case CategoryUnknown:
		return g.generateUnknownSuggestions(affectedPath)
	default:
		return g.generateUnknownSuggestions(affectedPath)
	}
}

func (g *suggestionGenerator) generateConnectionSuggestions(_ string) []string {
	return []string{
		"Check that the card is inserted, or that the remote host is reachable",
		"Raise --connect-attempts (0 retries forever) or lengthen --retry-interval",
		"For sftp:// volumes, confirm your SSH agent or default keys can log in",
	}
}

func (g *suggestionGenerator) generateDepthSuggestions(path string) []string {
	suggestions := []string{
		"Raise the limit with --max-depth if the tree is legitimately deep",
	}

	if path != "" {
		suggestions = append(suggestions, "Look for directory loops or runaway nesting under "+path)
	}

	return suggestions
}

func (g *suggestionGenerator) generateDiskSpaceSuggestions(path string) []string {
	suggestions := []string{
		"Free up space on the card",
		"Check available space with 'df -h'",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify disk usage for the filesystem containing "+path)
	}

	return suggestions
}

func (g *suggestionGenerator) generateMountSuggestions(_ string) []string {
	return []string{
		"Check that the card is formatted with a supported filesystem (FAT)",
		"Verify the volume root is a directory",
		"Reinsert the card and try again",
	}
}

func (g *suggestionGenerator) generatePathSuggestions(path string) []string {
	suggestions := []string{
		"Verify the path exists and is spelled correctly",
	}

	if path != "" {
		suggestions = append(suggestions, "Check if the path exists: "+path)
	} else {
		suggestions = append(suggestions, "Check the --root and --volume settings")
	}

	return suggestions
}

func (g *suggestionGenerator) generatePathLengthSuggestions(path string) []string {
	suggestions := []string{
		"Raise the path buffer with --capacity",
		"Shorten deeply nested directory or file names",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("The longest offending path starts with %s", path))
	}

	return suggestions
}

func (g *suggestionGenerator) generatePermissionSuggestions(path string) []string {
	suggestions := []string{
		"Ensure you have read/write permissions for the files and directories",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check permissions with 'ls -la %s'", path))
	} else {
		suggestions = append(suggestions, "Check permissions with 'ls -la' on the affected path")
	}

	suggestions = append(suggestions, "Check whether the card's write-protect switch is set")

	return suggestions
}

func (g *suggestionGenerator) generateUnknownSuggestions(path string) []string {
	suggestions := []string{
		"Check the error message for more details",
		"Re-run with --log-level debug",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the path is accessible: "+path)
	}

	return suggestions
}
