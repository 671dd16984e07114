package parser

import (
	"fmt"
	"path/filepath"
	"sort"
)

// ExpandGlobs expands a list of receipt text paths and glob patterns
// into a deduplicated, sorted list of file paths. Patterns that match
// nothing are returned as-is so the caller can report file-not-found
// errors with the original spelling.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			if !seen[pattern] {
				seen[pattern] = true
				result = append(result, pattern)
			}
			continue
		}

		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				result = append(result, match)
			}
		}
	}

	sort.Strings(result)
	return result, nil
}
