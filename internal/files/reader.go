package files

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/sync/errgroup"

	"github.com/jameshiew/prompt/internal/discovery"
	"github.com/jameshiew/prompt/internal/tokenizer"
)

// binarySniffLen is how many leading bytes are checked against known binary
// signatures; filetype needs at most 262.
const binarySniffLen = 262

// Read loads one discovered file. Excluded files become metadata-only
// entries without touching their content. Files whose leading bytes match a
// known binary signature are auto-excluded the same way. Text content is
// annotated with right-aligned line numbers and optionally token counted.
func Read(path string, excluded bool, countTokens bool) (*FileInfo, error) {
	if excluded {
		return &FileInfo{Meta: Meta{Path: path, Status: StatusExcludedExplicitly}}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if isBinary(data) {
		return &FileInfo{Meta: Meta{Path: path, Status: StatusExcludedBinary}}, nil
	}

	content := annotateLineNumbers(strings.ToValidUTF8(string(data), "�"))
	meta := Meta{Path: path, Status: StatusRead}
	if countTokens {
		count, err := tokenizer.Count(content)
		if err != nil {
			return nil, fmt.Errorf("counting tokens for %s: %w", path, err)
		}
		meta.Status = StatusTokenCounted
		meta.TokenCount = count
	}
	return &FileInfo{Content: content, Meta: meta}, nil
}

// ReadAll reads every discovered file concurrently, bounded by the CPU
// count, and returns the populated Set. The first read error aborts the
// whole operation.
func ReadAll(discovered []discovery.DiscoveredFile, countTokens bool) (*Set, error) {
	set := NewSet()
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, file := range discovered {
		file := file
		g.Go(func() error {
			info, err := Read(file.Path, file.Excluded, countTokens)
			if err != nil {
				return err
			}
			set.Insert(info)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

// isBinary sniffs the leading bytes for a known file-type signature.
// Matching any known type (image, archive, executable, ...) auto-excludes
// the file; plain text matches nothing.
func isBinary(data []byte) bool {
	head := data
	if len(head) > binarySniffLen {
		head = head[:binarySniffLen]
	}
	kind, err := filetype.Match(head)
	return err == nil && kind != filetype.Unknown
}

// annotateLineNumbers prefixes each line with its right-aligned 1-based line
// number, padded to the width of the final line number. Every rendered line
// ends with a newline, so input lacking a trailing newline gains one; the
// prompt body is line-faithful, not byte-faithful.
func annotateLineNumbers(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	width := len(strconv.Itoa(len(lines)))

	var numbered strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&numbered, "%*d %s\n", width, i+1, line)
	}
	return numbered.String()
}
