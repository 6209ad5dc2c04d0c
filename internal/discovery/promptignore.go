package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jameshiew/prompt/internal/ignorefile"
	"github.com/jameshiew/prompt/internal/logger"
)

// promptignoreFilename is the per-directory override file. It uses gitignore
// syntax but is resolved independently of the VCS ignore system: matched
// files stay in the result set, flagged excluded, rather than disappearing.
const promptignoreFilename = ".promptignore"

// HomeOverrideEnv overrides where the global .promptignore is looked up,
// instead of the user's home directory. Exists for testability and
// non-standard environments.
const HomeOverrideEnv = "PROMPT_HOME_DIR"

// promptignoreMatcher resolves the cascading .promptignore layer. All state
// is scoped to one discovery call: the directory cache and the global matcher
// slot are constructed fresh and discarded with the matcher, so repeated
// calls never observe stale rules.
//
// The matcher is single-threaded by design. The directory cache mutates on
// every miss and each file's chain evaluation must see fully-populated
// entries for its own ancestors, so it runs sequentially after the parallel
// walk completes. Ignore-file parsing is cheap relative to the walk.
type promptignoreMatcher struct {
	// directoryCache maps a directory to its compiled .promptignore, nil when
	// the directory has no effective override file. Entries are immutable
	// once inserted.
	directoryCache map[string]*ignorefile.Matcher
	global         *ignorefile.Matcher
	// globalBase is the directory the global matcher was loaded from; global
	// rules only apply to paths underneath it.
	globalBase string
	log        *logger.Console
}

func newPromptignoreMatcher(log *logger.Console) *promptignoreMatcher {
	m := &promptignoreMatcher{
		directoryCache: make(map[string]*ignorefile.Matcher),
		log:            log,
	}
	m.global, m.globalBase = loadGlobalPromptignore(log)
	return m
}

// apply resolves every discovered file against the promptignore layer,
// marking matches excluded. Exclusion is monotonic: a file already excluded
// by a command-line glob stays excluded no matter what any whitelist rule
// says.
func (m *promptignoreMatcher) apply(discovered []DiscoveredFile, roots []string) {
	for i := range discovered {
		path := canonicalizeOrSelf(discovered[i].Path)
		root := owningRoot(path, roots)
		if m.matches(path, root) {
			discovered[i].Excluded = true
		}
	}
}

// matches folds the global matcher and the directory chain from root down to
// the file's parent. Any non-none decision from a deeper directory strictly
// replaces the running decision, so a subdirectory can re-whitelist a file an
// ancestor's rule ignored. Only a final ignore decision excludes the file.
func (m *promptignoreMatcher) matches(path string, root string) bool {
	decision := m.globalDecision(path)
	if root != "" {
		for _, dir := range directoryChainWithin(path, root) {
			matcher := m.matcherForDir(dir)
			if matcher == nil {
				continue
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				continue
			}
			if d := matcher.Match(rel, false); d != ignorefile.DecisionNone {
				decision = d
			}
		}
	}
	return decision == ignorefile.DecisionIgnore
}

// globalDecision tests path against the global matcher, which only has an
// opinion on paths under its own base directory.
func (m *promptignoreMatcher) globalDecision(path string) ignorefile.Decision {
	if m.global == nil || !pathWithin(path, m.globalBase) {
		return ignorefile.DecisionNone
	}
	rel, err := filepath.Rel(m.globalBase, path)
	if err != nil {
		return ignorefile.DecisionNone
	}
	return m.global.Match(rel, false)
}

// matcherForDir returns dir's compiled .promptignore, loading and caching it
// on first sight. Parse failures degrade to "no matcher" with a warning.
func (m *promptignoreMatcher) matcherForDir(dir string) *ignorefile.Matcher {
	if matcher, ok := m.directoryCache[dir]; ok {
		return matcher
	}
	matcher, err := ignorefile.CompileFile(filepath.Join(dir, promptignoreFilename))
	if err != nil {
		m.log.Warnf("failed to parse %s: %v", filepath.Join(dir, promptignoreFilename), err)
		matcher = nil
	}
	m.directoryCache[dir] = matcher
	return matcher
}

// directoryChainWithin builds the ordered list of directories from root down
// to path's immediate parent, outermost first. The explicit list keeps
// override-at-deepest-match a plain fold over a known sequence.
func directoryChainWithin(path, root string) []string {
	var chain []string
	for dir := filepath.Dir(path); pathWithin(dir, root); dir = filepath.Dir(dir) {
		chain = append(chain, dir)
		if dir == root {
			break
		}
		if dir == filepath.Dir(dir) {
			break
		}
	}
	// reverse to outermost-first
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// owningRoot picks the most specific root that is a prefix of path: the one
// with the most path components. Empty when no root contains the path.
func owningRoot(path string, roots []string) string {
	best := ""
	bestDepth := -1
	for _, root := range roots {
		if !pathWithin(path, root) {
			continue
		}
		depth := len(strings.Split(filepath.ToSlash(root), "/"))
		if depth > bestDepth {
			best = root
			bestDepth = depth
		}
	}
	return best
}

// pathWithin reports whether path equals base or sits underneath it.
func pathWithin(path, base string) bool {
	if base == "" {
		return false
	}
	if path == base {
		return true
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// promptignoreRoot derives the directory bounding cascading resolution for a
// canonicalized match base: the base itself if it is a directory, else its
// parent.
func promptignoreRoot(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		return path, true
	}
	return filepath.Dir(path), true
}

// canonicalizeOrSelf resolves path to its canonical absolute form, falling
// back to the original path when resolution fails (e.g. the file vanished
// between walk and resolution).
func canonicalizeOrSelf(path string) string {
	canonical, err := canonicalize(path)
	if err != nil {
		return path
	}
	return canonical
}

// loadGlobalPromptignore loads the single global override file from the
// prompt home directory. A missing or inaccessible home disables the global
// layer silently; a present-but-empty file installs no matcher.
func loadGlobalPromptignore(log *logger.Console) (*ignorefile.Matcher, string) {
	home, ok := promptHomeDir()
	if !ok {
		return nil, ""
	}
	path := filepath.Join(home, promptignoreFilename)
	matcher, err := ignorefile.CompileFile(path)
	if err != nil {
		log.Warnf("failed to parse global %s: %v", path, err)
		return nil, ""
	}
	if matcher == nil {
		return nil, ""
	}
	return matcher, home
}

// promptHomeDir returns the directory holding the global .promptignore: the
// PROMPT_HOME_DIR override when set, the user's home directory otherwise.
func promptHomeDir() (string, bool) {
	dir := os.Getenv(HomeOverrideEnv)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		dir = home
	}
	if canonical, err := canonicalize(dir); err == nil {
		return canonical, true
	}
	return dir, true
}
