package workspace

import (
	"fmt"
	"regexp"
	"strings"
)

// Match is a single search hit.
type Match struct {
	Path string
	Line int
	Text string
}

// Search scans files matching filePattern for the given pattern. With
// useRegex set the pattern is compiled as a regular expression, otherwise a
// case-insensitive substring match is used.
func (w *Workspace) Search(pattern, filePattern string, useRegex bool) ([]Match, error) {
	if filePattern == "" {
		filePattern = "*"
	}

	var re *regexp.Regexp
	if useRegex {
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid search pattern: %w", err)
		}
	}
	needle := strings.ToLower(pattern)

	files, err := w.ListFiles(filePattern, true)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, f := range files {
		content, err := w.ReadFile(f)
		if err != nil {
			continue
		}
		for i, line := range strings.Split(content, "\n") {
			hit := false
			if useRegex {
				hit = re.MatchString(line)
			} else {
				hit = strings.Contains(strings.ToLower(line), needle)
			}
			if hit {
				matches = append(matches, Match{
					Path: f,
					Line: i + 1,
					Text: strings.TrimSpace(line),
				})
			}
		}
	}
	return matches, nil
}

// Stats summarizes line counts across a set of files.
type Stats struct {
	TotalFiles   int
	TotalLines   int
	CodeLines    int
	CommentLines int
	BlankLines   int
}

// CountLines gathers line statistics for files matching filePattern. Lines
// starting with #, // or -- are counted as comments.
func (w *Workspace) CountLines(filePattern string) (Stats, error) {
	if filePattern == "" {
		filePattern = "*"
	}
	files, err := w.ListFiles(filePattern, true)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, f := range files {
		content, err := w.ReadFile(f)
		if err != nil {
			continue
		}
		stats.TotalFiles++
		for _, line := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
			stats.TotalLines++
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
				stats.BlankLines++
			case strings.HasPrefix(trimmed, "#"),
				strings.HasPrefix(trimmed, "//"),
				strings.HasPrefix(trimmed, "--"):
				stats.CommentLines++
			default:
				stats.CodeLines++
			}
		}
	}
	return stats, nil
}
