// Package files reads discovered files into memory, annotating content with
// line numbers and collecting per-file metadata (exclusion, binary
// detection, token counts) for downstream rendering.
package files

import (
	"sort"
	"sync"
)

// ReadStatus describes what happened when a discovered file was read.
type ReadStatus string

const (
	// StatusExcludedExplicitly marks files excluded by discovery (glob or
	// promptignore); their content is never read.
	StatusExcludedExplicitly ReadStatus = "excluded"
	// StatusExcludedBinary marks files auto-excluded because their leading
	// bytes matched a known binary signature.
	StatusExcludedBinary ReadStatus = "excluded_binary"
	// StatusRead marks files read without token counting.
	StatusRead ReadStatus = "read"
	// StatusTokenCounted marks files read and token counted.
	StatusTokenCounted ReadStatus = "token_counted"
)

// Meta is the per-file metadata carried alongside (possibly absent) content.
type Meta struct {
	Path       string     `json:"path" yaml:"path"`
	Status     ReadStatus `json:"status" yaml:"status"`
	TokenCount int        `json:"token_count,omitempty" yaml:"token_count,omitempty"`
}

// Excluded reports whether the file's content is withheld from the prompt,
// whether by explicit exclusion or binary detection.
func (m Meta) Excluded() bool {
	return m.Status == StatusExcludedExplicitly || m.Status == StatusExcludedBinary
}

// FileInfo is one read file: annotated content plus metadata. Content is
// empty for excluded files.
type FileInfo struct {
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
	Meta    Meta   `json:"meta" yaml:"meta"`
}

// Set is a thread-safe collection of read files keyed by path. Concurrent
// readers insert into it during ReadAll; afterwards it is effectively
// immutable.
type Set struct {
	mu    sync.Mutex
	files map[string]*FileInfo
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{files: make(map[string]*FileInfo)}
}

// Insert adds or replaces a file entry.
func (s *Set) Insert(info *FileInfo) {
	s.mu.Lock()
	s.files[info.Meta.Path] = info
	s.mu.Unlock()
}

// Get returns the file info for path, if present.
func (s *Set) Get(path string) (*FileInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.files[path]
	return info, ok
}

// Len returns the number of files in the set.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Paths returns every path in the set, sorted.
func (s *Set) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.files))
	for path := range s.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Excluded returns the sorted paths of every excluded file.
func (s *Set) Excluded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var excluded []string
	for path, info := range s.files {
		if info.Meta.Excluded() {
			excluded = append(excluded, path)
		}
	}
	sort.Strings(excluded)
	return excluded
}

// TotalTokens sums the token counts across the set.
func (s *Set) TotalTokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, info := range s.files {
		total += info.Meta.TokenCount
	}
	return total
}

// Snapshot returns a copy of the underlying path → file mapping, for
// serialization.
func (s *Set) Snapshot() map[string]*FileInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]*FileInfo, len(s.files))
	for path, info := range s.files {
		snapshot[path] = info
	}
	return snapshot
}
