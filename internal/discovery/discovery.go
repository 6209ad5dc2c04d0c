package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jameshiew/prompt/internal/logger"
)

// DiscoveredFile is one file found by a discovery run. Excluded files are
// still reported so downstream consumers can list them; their content is
// simply never read into the prompt.
type DiscoveredFile struct {
	// Path is the file's path as walked, with any leading "./" stripped
	Path string `json:"path" yaml:"path"`
	// Excluded marks files matched by a command-line exclude glob or a
	// promptignore rule
	Excluded bool `json:"excluded" yaml:"excluded"`
}

// Discover walks path and extraPaths and returns every regular file found,
// sorted by path, each flagged excluded when it matches an exclude glob or a
// .promptignore rule. Files matched by the VCS ignore layer are absent from
// the result entirely unless includeVCSIgnored is set.
//
// All supplied paths must exist; a missing path fails immediately, before any
// traversal. A traversal error aborts the walk and is returned as a
// *WalkError. Given identical inputs and an unchanged filesystem, two calls
// return identical results.
func Discover(path string, extraPaths []string, exclude []Pattern, includeVCSIgnored bool, log *logger.Console) ([]DiscoveredFile, error) {
	roots := make([]string, 0, 1+len(extraPaths))
	roots = append(roots, path)
	roots = append(roots, extraPaths...)
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			if os.IsNotExist(err) {
				return nil, &PathNotFoundError{Path: root}
			}
			return nil, fmt.Errorf("checking path '%s': %w", root, err)
		}
	}

	// Canonicalized bases cover roots referenced once relatively and once
	// absolutely within the same walk. Literal bases are tried first when
	// relativizing.
	matchBases := make([]string, 0, 2*len(roots))
	matchBases = append(matchBases, roots...)
	var promptignoreRoots []string
	for _, root := range roots {
		canonical, err := canonicalize(root)
		if err != nil {
			continue
		}
		if pr, ok := promptignoreRoot(canonical); ok {
			promptignoreRoots = append(promptignoreRoots, pr)
		}
		matchBases = append(matchBases, canonical)
	}

	w := newWalker(matchBases, exclude, includeVCSIgnored, log)
	discovered, err := w.run(roots)
	if err != nil {
		return nil, err
	}

	newPromptignoreMatcher(log).apply(discovered, promptignoreRoots)

	discovered = mergeByPath(discovered)
	sort.Slice(discovered, func(i, j int) bool {
		return comparePaths(discovered[i].Path, discovered[j].Path) < 0
	})
	log.Debugf("discovered %d files under %d root(s)", len(discovered), len(roots))
	return discovered, nil
}

// mergeByPath collapses entries sharing a path into one, OR-combining the
// excluded flags. Overlapping roots can hand the walk the same file with
// divergent glob verdicts (different relative fragments against different
// bases); the final collection keys strictly by path, with exclusion
// monotonic.
func mergeByPath(files []DiscoveredFile) []DiscoveredFile {
	merged := make(map[string]bool, len(files))
	for _, file := range files {
		merged[file.Path] = merged[file.Path] || file.Excluded
	}
	result := make([]DiscoveredFile, 0, len(merged))
	for path, excluded := range merged {
		result = append(result, DiscoveredFile{Path: path, Excluded: excluded})
	}
	return result
}

// comparePaths orders paths component by component, so the sort is stable
// across platforms regardless of separator byte values.
func comparePaths(a, b string) int {
	as := strings.Split(filepath.ToSlash(a), "/")
	bs := strings.Split(filepath.ToSlash(b), "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			if as[i] < bs[i] {
				return -1
			}
			return 1
		}
	}
	return len(as) - len(bs)
}

// canonicalize resolves path to its symlink-free absolute form.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
