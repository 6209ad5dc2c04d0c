// Package tree renders the discovered file hierarchy for display, annotating
// each file with its read status (excluded, binary, token count).
package tree

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/xlab/treeprint"

	"github.com/jameshiew/prompt/internal/files"
)

// Render builds a deterministic tree of every file in the set. Paths are
// inserted in sorted order so repeated renders of the same set are
// identical. When colorize is set, annotations are wrapped in ANSI colors
// for terminal display.
func Render(set *files.Set, colorize bool) string {
	root := treeprint.New()
	branches := map[string]treeprint.Tree{"": root}

	for _, path := range set.Paths() {
		info, ok := set.Get(path)
		if !ok {
			continue
		}
		parts := components(path)
		key := ""
		node := root
		for _, part := range parts[:len(parts)-1] {
			key = key + "/" + part
			branch, seen := branches[key]
			if !seen {
				branch = node.AddBranch(part)
				branches[key] = branch
			}
			node = branch
		}
		node.AddNode(label(parts[len(parts)-1], info.Meta, colorize))
	}
	return root.String()
}

// components splits a path for tree insertion. The root node of the tree
// stands in for ".", so a leading dot component is dropped; a leading "/"
// becomes its own component for absolute paths.
func components(path string) []string {
	clean := filepath.ToSlash(path)
	clean = strings.TrimPrefix(clean, "./")
	parts := strings.Split(clean, "/")
	if len(parts) > 0 && parts[0] == "" {
		parts[0] = "/"
	}
	return parts
}

// label annotates a file name according to its read status.
func label(name string, meta files.Meta, colorize bool) string {
	var annotation string
	switch meta.Status {
	case files.StatusExcludedExplicitly:
		annotation = "(excluded)"
	case files.StatusExcludedBinary:
		annotation = "(auto-excluded, binary detected)"
	case files.StatusTokenCounted:
		annotation = fmt.Sprintf("(%d tokens)", meta.TokenCount)
	default:
		return name
	}
	if colorize {
		switch meta.Status {
		case files.StatusTokenCounted:
			annotation = color.New(color.FgCyan).Sprint(annotation)
		default:
			annotation = color.New(color.FgYellow).Sprint(annotation)
		}
	}
	return name + " " + annotation
}
