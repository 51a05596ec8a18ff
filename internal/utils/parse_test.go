package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTOMLFileReportsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[match]\nmax_depth = 3\nmax_dpeth = 4\n[extra]\nx = 1\n"), 0644))

	var cfg struct {
		Match struct {
			MaxDepth int `toml:"max_depth"`
		} `toml:"match"`
	}
	unknown, err := DecodeTOMLFile(path, &cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Match.MaxDepth)
	assert.Contains(t, unknown, "match.max_dpeth")
	assert.Contains(t, unknown, "extra.x")
	assert.NotContains(t, unknown, "match.max_depth")
	assert.IsNonDecreasing(t, unknown)
}

func TestDecodeTOMLFileTypeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[match]\nmax_depth = \"deep\"\n"), 0644))

	var cfg struct {
		Match struct {
			MaxDepth int `toml:"max_depth"`
		} `toml:"match"`
	}
	_, err := DecodeTOMLFile(path, &cfg)
	assert.ErrorContains(t, err, path)
}

func TestParseTOMLTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[match]\nmax_depth = 3\nstrategy = \"brute\"\n[server]\nenable_filter = false\n"), 0644))

	data, err := ParseTOMLTable(path)
	require.NoError(t, err)

	match, ok := ExtractSection(data, "match")
	require.True(t, ok)
	depth, ok := ExtractInt(match, "max_depth")
	assert.True(t, ok)
	assert.Equal(t, 3, depth)
	strategy, ok := Extract[string](match, "strategy")
	assert.True(t, ok)
	assert.Equal(t, "brute", strategy)
	_, ok = Extract[string](match, "max_depth")
	assert.False(t, ok)
	_, ok = ExtractInt(match, "strategy")
	assert.False(t, ok)

	server, ok := ExtractSection(data, "server")
	require.True(t, ok)
	filter, ok := Extract[bool](server, "enable_filter")
	assert.True(t, ok)
	assert.False(t, filter)

	_, ok = ExtractSection(data, "dict")
	assert.False(t, ok)

	_, err = ParseTOMLTable(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
