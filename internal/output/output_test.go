package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jameshiew/prompt/internal/files"
)

func testSet() *files.Set {
	set := files.NewSet()
	set.Insert(&files.FileInfo{
		Content: "1 alpha\n",
		Meta:    files.Meta{Path: "a.txt", Status: files.StatusRead},
	})
	set.Insert(&files.FileInfo{
		Content: "1 beta\n",
		Meta:    files.Meta{Path: "b.txt", Status: files.StatusRead},
	})
	set.Insert(&files.FileInfo{
		Meta: files.Meta{Path: "skip.me", Status: files.StatusExcludedExplicitly},
	})
	return set
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"plain", "json", "YAML"} {
		_, err := ParseFormat(valid)
		assert.NoError(t, err, valid)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestBuildPromptLayout(t *testing.T) {
	prompt := BuildPrompt(testSet(), "<tree>\n")

	assert.True(t, strings.HasPrefix(prompt, "Files:\n\n<tree>\n"), "tree comes first")
	assert.Contains(t, prompt, "a.txt:\n\n1 alpha\n\n---\n")
	assert.Contains(t, prompt, "b.txt:\n\n1 beta\n\n---\n")
	assert.Less(t, strings.Index(prompt, "a.txt:"), strings.Index(prompt, "b.txt:"),
		"sections are sorted by path")
}

func TestBuildPromptSkipsExcludedContent(t *testing.T) {
	prompt := BuildPrompt(testSet(), "")
	assert.NotContains(t, prompt, "skip.me:")
}

func TestRenderJSON(t *testing.T) {
	out, err := Render(testSet(), "", FormatJSON)
	require.NoError(t, err)

	var decoded map[string]files.FileInfo
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded, 3)
	assert.Equal(t, "1 alpha\n", decoded["a.txt"].Content)
	assert.Equal(t, files.StatusExcludedExplicitly, decoded["skip.me"].Meta.Status)
}

func TestRenderYAML(t *testing.T) {
	out, err := Render(testSet(), "", FormatYAML)
	require.NoError(t, err)

	var decoded map[string]files.FileInfo
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded, 3)
	assert.Equal(t, "1 beta\n", decoded["b.txt"].Content)
}

func TestRenderPlainMatchesBuildPrompt(t *testing.T) {
	set := testSet()
	out, err := Render(set, "<tree>\n", FormatPlain)
	require.NoError(t, err)
	assert.Equal(t, BuildPrompt(set, "<tree>\n"), out)
}

func TestFormatTokenCount(t *testing.T) {
	assert.Equal(t, "0", FormatTokenCount(0))
	assert.Equal(t, "999", FormatTokenCount(999))
	assert.Equal(t, "1,234,567", FormatTokenCount(1234567))
}
