package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jameshiew/prompt/internal/files"
)

func setOf(infos ...*files.FileInfo) *files.Set {
	set := files.NewSet()
	for _, info := range infos {
		set.Insert(info)
	}
	return set
}

func TestRenderNestsDirectories(t *testing.T) {
	set := setOf(
		&files.FileInfo{Meta: files.Meta{Path: "cmd/prompt/main.go", Status: files.StatusRead}},
		&files.FileInfo{Meta: files.Meta{Path: "go.mod", Status: files.StatusRead}},
	)

	out := Render(set, false)

	assert.Contains(t, out, "cmd")
	assert.Contains(t, out, "prompt")
	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "go.mod")
	// main.go sits two levels deep, go.mod at the top
	assert.Less(t, strings.Index(out, "cmd"), strings.Index(out, "main.go"))
}

func TestRenderAnnotations(t *testing.T) {
	set := setOf(
		&files.FileInfo{Meta: files.Meta{Path: "skip.me", Status: files.StatusExcludedExplicitly}},
		&files.FileInfo{Meta: files.Meta{Path: "image.png", Status: files.StatusExcludedBinary}},
		&files.FileInfo{Meta: files.Meta{Path: "main.go", Status: files.StatusTokenCounted, TokenCount: 42}},
		&files.FileInfo{Meta: files.Meta{Path: "plain.txt", Status: files.StatusRead}},
	)

	out := Render(set, false)

	assert.Contains(t, out, "skip.me (excluded)")
	assert.Contains(t, out, "image.png (auto-excluded, binary detected)")
	assert.Contains(t, out, "main.go (42 tokens)")
	assert.Contains(t, out, "plain.txt")
	assert.NotContains(t, out, "plain.txt (")
}

func TestRenderDeterministic(t *testing.T) {
	set := setOf(
		&files.FileInfo{Meta: files.Meta{Path: "b/two.txt", Status: files.StatusRead}},
		&files.FileInfo{Meta: files.Meta{Path: "a/one.txt", Status: files.StatusRead}},
		&files.FileInfo{Meta: files.Meta{Path: "top.txt", Status: files.StatusRead}},
	)

	first := Render(set, false)
	second := Render(set, false)
	assert.Equal(t, first, second)
	assert.Less(t, strings.Index(first, "a"), strings.Index(first, "b"))
}

func TestRenderSharedDirectoriesMergeOnce(t *testing.T) {
	set := setOf(
		&files.FileInfo{Meta: files.Meta{Path: "pkg/a.go", Status: files.StatusRead}},
		&files.FileInfo{Meta: files.Meta{Path: "pkg/b.go", Status: files.StatusRead}},
	)

	out := Render(set, false)
	assert.Equal(t, 1, strings.Count(out, "pkg"), "shared parent should appear once")
}

func TestComponents(t *testing.T) {
	assert.Equal(t, []string{"a", "b.txt"}, components("a/b.txt"))
	assert.Equal(t, []string{"b.txt"}, components("./b.txt"))
	assert.Equal(t, []string{"/", "tmp", "b.txt"}, components("/tmp/b.txt"))
}
