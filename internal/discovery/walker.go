package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jameshiew/prompt/internal/ignorefile"
	"github.com/jameshiew/prompt/internal/logger"
)

// maxWalkWorkers caps walker parallelism to avoid oversubscription on large
// machines, following the ripgrep thread heuristic.
const maxWalkWorkers = 12

// walkWorkers returns the bounded worker count for the parallel walk.
func walkWorkers() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	if n > maxWalkWorkers {
		n = maxWalkWorkers
	}
	return n
}

// ignoreChain is an immutable linked list of compiled ignore matchers, one
// link per directory from a walk root down to the current directory. Deeper
// links are consulted first so the most specific rule wins.
//
// Links seeded from directories above the walk root carry a prefix: the path
// from the ignore file's directory down to the root. It is prepended to the
// root-relative fragment so patterns anchored at the ignore file's own
// directory keep matching, whether the walk root was given relative or
// absolute.
type ignoreChain struct {
	parent  *ignoreChain
	dir     string
	prefix  string
	matcher *ignorefile.Matcher
}

// extend returns a chain with matcher appended for dir. Nil matchers are not
// linked at all so decide stays cheap on ignore-file-free trees.
func (c *ignoreChain) extend(dir string, matcher *ignorefile.Matcher) *ignoreChain {
	if matcher == nil {
		return c
	}
	return &ignoreChain{parent: c, dir: dir, matcher: matcher}
}

// decide folds the chain for path, deepest link first. The first non-none
// decision wins, which gives deeper ignore files strict precedence over
// shallower ones.
func (c *ignoreChain) decide(path string, isDir bool) ignorefile.Decision {
	for link := c; link != nil; link = link.parent {
		rel, err := filepath.Rel(link.dir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if link.prefix != "" {
			rel = filepath.Join(link.prefix, rel)
		}
		if decision := link.matcher.Match(rel, isDir); decision != ignorefile.DecisionNone {
			return decision
		}
	}
	return ignorefile.DecisionNone
}

// walker traverses root paths concurrently, recording every regular file
// exactly once per (path, excluded) pair. Workers are bounded by sem; when no
// worker slot is free a subdirectory is walked inline by the current
// goroutine, so progress never depends on slot availability.
type walker struct {
	excludes          []Pattern
	matchBases        []string
	includeVCSIgnored bool
	gitGlobal         *ignorefile.Matcher
	log               *logger.Console

	sem chan struct{}
	wg  sync.WaitGroup

	mu   sync.Mutex
	seen map[DiscoveredFile]struct{}

	aborted atomic.Bool
	errMu   sync.Mutex
	walkErr error
}

func newWalker(matchBases []string, excludes []Pattern, includeVCSIgnored bool, log *logger.Console) *walker {
	w := &walker{
		excludes:          excludes,
		matchBases:        matchBases,
		includeVCSIgnored: includeVCSIgnored,
		log:               log,
		sem:               make(chan struct{}, walkWorkers()),
		seen:              make(map[DiscoveredFile]struct{}),
	}
	if !includeVCSIgnored {
		w.gitGlobal = loadGitGlobalIgnore(log)
	}
	return w
}

// run walks every root concurrently and returns the deduplicated results, or
// the first traversal error encountered.
func (w *walker) run(roots []string) ([]DiscoveredFile, error) {
	for _, root := range roots {
		w.walkRoot(root)
	}
	w.wg.Wait()

	w.errMu.Lock()
	err := w.walkErr
	w.errMu.Unlock()
	if err != nil {
		return nil, err
	}

	results := make([]DiscoveredFile, 0, len(w.seen))
	for file := range w.seen {
		results = append(results, file)
	}
	return results, nil
}

func (w *walker) walkRoot(root string) {
	info, err := os.Lstat(root)
	if err != nil {
		w.fail(root, err)
		return
	}
	if hasGitComponent(root) {
		return
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return
	}
	if !info.IsDir() {
		w.recordFile(root)
		return
	}
	var chain *ignoreChain
	inRepo := false
	if !w.includeVCSIgnored {
		chain, inRepo = w.parentVCSChain(root)
	}
	w.spawn(root, chain, inRepo)
}

// parentVCSChain seeds a directory root's ignore chain from the directories
// above it. When an ancestor contains '.git', the walk root sits inside that
// repository even though the walk never visits it: the user-global ignore
// file, the repository's info/exclude rules and every .gitignore from the
// repository root down to the walk root's parent all apply, exactly as they
// would had the walk started at the repository root.
func (w *walker) parentVCSChain(root string) (*ignoreChain, bool) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, false
	}

	// ancestors of the root, nearest first, up to and including the
	// repository root
	var ancestors []string
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		ancestors = append(ancestors, dir)
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		if dir == filepath.Dir(dir) {
			return nil, false
		}
	}
	repoRoot := ancestors[len(ancestors)-1]

	var chain *ignoreChain
	link := func(dir string, matcher *ignorefile.Matcher) {
		if matcher == nil {
			return
		}
		prefix, err := filepath.Rel(dir, abs)
		if err != nil {
			return
		}
		chain = &ignoreChain{parent: chain, dir: root, prefix: prefix, matcher: matcher}
	}

	link(repoRoot, w.gitGlobal)
	link(repoRoot, w.loadIgnoreFile(filepath.Join(repoRoot, ".git", "info", "exclude")))
	for i := len(ancestors) - 1; i >= 0; i-- {
		link(ancestors[i], w.loadIgnoreFile(filepath.Join(ancestors[i], ".gitignore")))
	}
	return chain, true
}

// spawn walks dir on a pooled goroutine when a worker slot is free, inline
// otherwise.
func (w *walker) spawn(dir string, chain *ignoreChain, inRepo bool) {
	select {
	case w.sem <- struct{}{}:
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-w.sem }()
			w.walkDir(dir, chain, inRepo)
		}()
	default:
		w.walkDir(dir, chain, inRepo)
	}
}

func (w *walker) walkDir(dir string, chain *ignoreChain, inRepo bool) {
	if w.aborted.Load() {
		return
	}

	if !w.includeVCSIgnored {
		chain, inRepo = w.extendVCSChain(dir, chain, inRepo)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.fail(dir, err)
		return
	}
	for _, entry := range entries {
		if w.aborted.Load() {
			return
		}
		path := filepath.Join(dir, entry.Name())
		kind := entry.Type()
		switch {
		case kind.IsDir():
			// '.git' is pruned unconditionally: ignore-file coverage of VCS
			// internals is unreliable, especially via global ignore files.
			if entry.Name() == ".git" {
				continue
			}
			if inRepo && chain.decide(path, true) == ignorefile.DecisionIgnore {
				continue
			}
			w.spawn(path, chain, inRepo)
		case kind&fs.ModeSymlink != 0:
			// Symlinks are never followed nor recorded: avoids cycles and
			// double-counting.
			continue
		default:
			if inRepo && chain.decide(path, false) == ignorefile.DecisionIgnore {
				continue
			}
			w.recordFile(path)
		}
	}
}

// extendVCSChain layers dir's VCS ignore sources onto the chain. A directory
// containing '.git' marks a repository root: the user-global git ignore file
// and the repository's info/exclude rules join the chain underneath that
// repository's own .gitignore files. Outside a repository .gitignore files
// carry no weight, matching git's own behavior.
func (w *walker) extendVCSChain(dir string, chain *ignoreChain, inRepo bool) (*ignoreChain, bool) {
	if !inRepo {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			inRepo = true
			chain = chain.extend(dir, w.gitGlobal)
			chain = chain.extend(dir, w.loadIgnoreFile(filepath.Join(dir, ".git", "info", "exclude")))
		}
	}
	if inRepo {
		chain = chain.extend(dir, w.loadIgnoreFile(filepath.Join(dir, ".gitignore")))
	}
	return chain, inRepo
}

// loadIgnoreFile compiles an ignore file, degrading to nil with a logged
// warning when the file cannot be read.
func (w *walker) loadIgnoreFile(path string) *ignorefile.Matcher {
	matcher, err := ignorefile.CompileFile(path)
	if err != nil {
		w.log.Warnf("failed to load %s: %v", path, err)
		return nil
	}
	return matcher
}

func (w *walker) recordFile(path string) {
	rel := relativizeForMatch(path, w.matchBases)
	excluded := false
	for _, pattern := range w.excludes {
		if pattern.Match(rel) {
			excluded = true
			break
		}
	}
	file := DiscoveredFile{Path: stripDotPrefix(path), Excluded: excluded}

	w.mu.Lock()
	w.seen[file] = struct{}{}
	w.mu.Unlock()
}

// fail records the first traversal error and aborts outstanding workers.
func (w *walker) fail(path string, err error) {
	w.errMu.Lock()
	if w.walkErr == nil {
		w.walkErr = &WalkError{Path: path, Err: err}
	}
	w.errMu.Unlock()
	w.aborted.Store(true)
}

// relativizeForMatch maps a walked path to the fragment tested against
// exclude globs: the path relative to whichever match base it falls under,
// trying the bases in order (literal bases first, canonicalized second), with
// a leading-dot-stripped form of the path as the fallback.
func relativizeForMatch(path string, bases []string) string {
	for _, base := range bases {
		if rel, ok := stripBase(path, base); ok {
			return rel
		}
	}
	return stripDotPrefix(path)
}

// stripBase returns path relative to base when base is a prefix of path on a
// component boundary.
func stripBase(path, base string) (string, bool) {
	if path == base {
		return "", true
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if strings.HasPrefix(path, prefix) {
		return stripDotPrefix(path[len(prefix):]), true
	}
	return "", false
}

// stripDotPrefix removes a leading "./" component.
func stripDotPrefix(path string) string {
	if path == "." {
		return path
	}
	return strings.TrimPrefix(path, "."+string(filepath.Separator))
}

// hasGitComponent reports whether any component of path is '.git'.
func hasGitComponent(path string) bool {
	for _, component := range strings.Split(filepath.ToSlash(path), "/") {
		if component == ".git" {
			return true
		}
	}
	return false
}

// gitGlobalIgnorePath returns the user-global git ignore file location,
// following git's default lookup of $XDG_CONFIG_HOME/git/ignore then
// ~/.config/git/ignore. A core.excludesFile setting pointing elsewhere is
// not read; users who relocate the file can symlink the default location.
func gitGlobalIgnorePath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git", "ignore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "git", "ignore")
}

func loadGitGlobalIgnore(log *logger.Console) *ignorefile.Matcher {
	path := gitGlobalIgnorePath()
	if path == "" {
		return nil
	}
	matcher, err := ignorefile.CompileFile(path)
	if err != nil {
		log.Warnf("failed to load global git ignore %s: %v", path, err)
		return nil
	}
	return matcher
}
