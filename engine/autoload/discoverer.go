package autoload

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// FileDiscoverer interface for discovering catalog files
type FileDiscoverer interface {
	Discover(includes, excludes []string) ([]string, error)
}

// fsDiscoverer implements FileDiscoverer on an afero filesystem.
// Returned paths are slash-separated and relative to root.
type fsDiscoverer struct {
	fs afero.Fs
}

// NewFileDiscoverer creates a new file discoverer rooted at root
func NewFileDiscoverer(fs afero.Fs, root string) FileDiscoverer {
	return &fsDiscoverer{fs: rootedFs(fs, root)}
}

func rootedFs(fs afero.Fs, root string) afero.Fs {
	if root == "" || root == "." {
		return fs
	}
	return afero.NewBasePathFs(fs, root)
}

// Discover expands include patterns in order, sorting the matches of each
// pattern, dropping duplicates and anything matched by an exclude pattern.
func (d *fsDiscoverer) Discover(includes, excludes []string) ([]string, error) {
	if len(includes) == 0 {
		return []string{}, nil
	}
	iofs := afero.NewIOFS(d.fs)
	seen := make(map[string]bool)
	files := make([]string, 0)
	for _, pattern := range includes {
		// NOTE: Validate patterns early to block traversal or absolute path injections.
		if err := validatePattern(pattern); err != nil {
			return nil, err
		}
		matches, err := doublestar.Glob(iofs, path.Clean(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		slices.Sort(matches)
		for _, match := range matches {
			if seen[match] || shouldExclude(match, excludes) {
				continue
			}
			seen[match] = true
			files = append(files, match)
		}
	}
	return files, nil
}

// validatePattern validates a pattern for security issues
func validatePattern(pattern string) error {
	slashed := strings.ReplaceAll(pattern, "\\", "/")
	if strings.HasPrefix(slashed, "/") || (len(slashed) > 1 && slashed[1] == ':') {
		return fmt.Errorf("INVALID_PATTERN: absolute paths not allowed: %s", pattern)
	}
	if slices.Contains(strings.Split(path.Clean(slashed), "/"), "..") {
		return fmt.Errorf("INVALID_PATTERN: parent directory references not allowed: %s", pattern)
	}
	return nil
}

func shouldExclude(file string, excludes []string) bool {
	base := path.Base(file)
	for _, pattern := range normalizeExcludePatterns(excludes) {
		if matchesExcludePattern(pattern, file, base) {
			return true
		}
	}
	return false
}

// normalizeExcludePatterns converts separators only. Callers pass the full
// list, defaults included (see Config.GetAllExcludes).
func normalizeExcludePatterns(excludes []string) []string {
	normalized := make([]string, len(excludes))
	for i, pattern := range excludes {
		normalized[i] = strings.ReplaceAll(pattern, "\\", "/")
	}
	return normalized
}

// matchesExcludePattern checks a pattern against relative and base filenames.
func matchesExcludePattern(pattern string, relFile string, base string) bool {
	matched, err := doublestar.Match(pattern, relFile)
	if err == nil && matched {
		return true
	}
	matched, err = doublestar.Match(pattern, base)
	return err == nil && matched
}

// matchesAny reports whether a slash-separated relative path is selected by
// includes and not removed by excludes.
func matchesAny(rel string, includes, excludes []string) bool {
	if shouldExclude(rel, excludes) {
		return false
	}
	for _, pattern := range includes {
		if ok, err := doublestar.Match(path.Clean(pattern), rel); err == nil && ok {
			return true
		}
	}
	return false
}
