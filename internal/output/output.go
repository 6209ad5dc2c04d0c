// Package output assembles the final prompt and delivers it as plaintext,
// JSON or YAML, to stdout or the system clipboard.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/jameshiew/prompt/internal/files"
)

// Format selects the serialization of the assembled output.
type Format string

const (
	// FormatPlain is the concatenated prompt: file tree followed by each
	// file's annotated content.
	FormatPlain Format = "plain"
	// FormatJSON serializes the path → file info mapping as JSON.
	FormatJSON Format = "json"
	// FormatYAML serializes the path → file info mapping as YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatPlain:
		return FormatPlain, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (expected plain, json or yaml)", s)
}

// BuildPrompt concatenates the file tree and every non-excluded file's
// content, sorted by path, each section terminated with a separator line.
func BuildPrompt(set *files.Set, treeText string) string {
	var b strings.Builder
	writeFiletree(&b, treeText)
	for _, path := range set.Paths() {
		info, ok := set.Get(path)
		if !ok || info.Meta.Excluded() {
			continue
		}
		fmt.Fprintf(&b, "%s:\n\n%s\n---\n", path, info.Content)
	}
	return b.String()
}

// Render produces the output in the requested format. Plain output is the
// prompt itself; JSON and YAML serialize per-file content and metadata for
// machine consumption.
func Render(set *files.Set, treeText string, format Format) (string, error) {
	switch format {
	case FormatPlain:
		return BuildPrompt(set, treeText), nil
	case FormatJSON:
		data, err := json.MarshalIndent(set.Snapshot(), "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling JSON output: %w", err)
		}
		return string(data) + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(set.Snapshot())
		if err != nil {
			return "", fmt.Errorf("marshaling YAML output: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

// CopyToClipboard places text on the system clipboard.
func CopyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

// FormatTokenCount renders a token count with thousands separators.
func FormatTokenCount(n int) string {
	return humanize.Comma(int64(n))
}

func writeFiletree(b *strings.Builder, treeText string) {
	b.WriteString("Files:\n\n")
	b.WriteString(treeText)
	b.WriteString("\n")
}
