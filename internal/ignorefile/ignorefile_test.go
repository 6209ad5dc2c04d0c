package ignorefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSkipsBlankAndCommentLines(t *testing.T) {
	assert.Nil(t, Compile(nil))
	assert.Nil(t, Compile([]string{"", "   ", "# comment", "\r"}))
	assert.NotNil(t, Compile([]string{"# comment", "*.log"}))
}

func TestMatchDecisions(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		rel   string
		isDir bool
		want  Decision
	}{
		{
			name:  "no pattern applies",
			lines: []string{"*.log"},
			rel:   "main.go",
			want:  DecisionNone,
		},
		{
			name:  "simple ignore",
			lines: []string{"*.log"},
			rel:   "debug.log",
			want:  DecisionIgnore,
		},
		{
			name:  "ignore in subdirectory",
			lines: []string{"*.log"},
			rel:   "sub/debug.log",
			want:  DecisionIgnore,
		},
		{
			name:  "standalone whitelist",
			lines: []string{"!keep.log"},
			rel:   "keep.log",
			want:  DecisionWhitelist,
		},
		{
			name:  "whitelist overrides earlier ignore",
			lines: []string{"*.log", "!keep.log"},
			rel:   "keep.log",
			want:  DecisionWhitelist,
		},
		{
			name:  "later ignore overrides whitelist",
			lines: []string{"!keep.log", "*.log"},
			rel:   "keep.log",
			want:  DecisionIgnore,
		},
		{
			name:  "directory pattern matches contained file",
			lines: []string{"logs/"},
			rel:   "logs/ignored.log",
			want:  DecisionIgnore,
		},
		{
			name:  "directory pattern matches directory probe",
			lines: []string{"logs/"},
			rel:   "logs",
			isDir: true,
			want:  DecisionIgnore,
		},
		{
			name:  "directory pattern does not match plain file",
			lines: []string{"logs/"},
			rel:   "logs",
			isDir: false,
			want:  DecisionNone,
		},
		{
			name:  "anchored pattern",
			lines: []string{"/target"},
			rel:   "target/debug.txt",
			want:  DecisionIgnore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compile(tt.lines)
			require.NotNil(t, m)
			assert.Equal(t, tt.want, m.Match(tt.rel, tt.isDir))
		})
	}
}

func TestNilMatcherMatchesNothing(t *testing.T) {
	var m *Matcher
	assert.Equal(t, DecisionNone, m.Match("anything", false))
}

func TestCompileFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing file yields nil matcher without error", func(t *testing.T) {
		m, err := CompileFile(filepath.Join(tmpDir, "absent"))
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("empty file yields nil matcher", func(t *testing.T) {
		path := filepath.Join(tmpDir, "empty")
		require.NoError(t, os.WriteFile(path, []byte("\n# only comments\n\n"), 0644))
		m, err := CompileFile(path)
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("patterns compile", func(t *testing.T) {
		path := filepath.Join(tmpDir, "rules")
		require.NoError(t, os.WriteFile(path, []byte("*.bin\n!keep.bin\n"), 0644))
		m, err := CompileFile(path)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, DecisionIgnore, m.Match("data.bin", false))
		assert.Equal(t, DecisionWhitelist, m.Match("keep.bin", false))
	})
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "none", DecisionNone.String())
	assert.Equal(t, "ignore", DecisionIgnore.String())
	assert.Equal(t, "whitelist", DecisionWhitelist.String())
}
