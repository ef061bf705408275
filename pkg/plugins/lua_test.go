package plugins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lowerScript = `-- @name lowercase
-- @version 2.1.0
-- @description lowercases abstracts and drops citations
function normalize(text)
  if mbayes.contains(text, "SKIP") then
    return ""
  end
  return string.lower(mbayes.strip_brackets(text))
end
`

func TestLuaNormalizer(t *testing.T) {
	ln, err := NewLuaNormalizerFromString("inline.lua", lowerScript)
	require.NoError(t, err)
	defer ln.Close()

	assert.Equal(t, LuaMetadata{
		Name:        "lowercase",
		Version:     "2.1.0",
		Description: "lowercases abstracts and drops citations",
	}, ln.Metadata())

	out, err := ln.Normalize("Stocks ROSE[1] Today[citation needed]")
	require.NoError(t, err)
	assert.Equal(t, "stocks rose today", out)

	out, err = ln.Normalize("please skip this")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLuaNormalizerFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upper.lua")
	require.NoError(t, os.WriteFile(path, []byte("function normalize(t) return string.upper(t) end\n"), 0644))

	ln, err := NewLuaNormalizer(path)
	require.NoError(t, err)
	defer ln.Close()

	assert.Equal(t, "upper.lua", ln.Metadata().Name)
	out, err := ln.Normalize("fed")
	require.NoError(t, err)
	assert.Equal(t, "FED", out)
}

func TestLuaNormalizerErrors(t *testing.T) {
	_, err := NewLuaNormalizerFromString("broken.lua", "function normalize(")
	assert.Error(t, err)

	_, err = NewLuaNormalizerFromString("nofunc.lua", "x = 1")
	assert.Error(t, err)

	_, err = NewLuaNormalizer(filepath.Join(t.TempDir(), "missing.lua"))
	assert.Error(t, err)

	ln, err := NewLuaNormalizerFromString("number.lua", "function normalize(t) return 42 end")
	require.NoError(t, err)
	defer ln.Close()
	_, err = ln.Normalize("x")
	assert.Error(t, err)

	ln2, err := NewLuaNormalizerFromString("raise.lua", "function normalize(t) error('boom') end")
	require.NoError(t, err)
	defer ln2.Close()
	_, err = ln2.Normalize("x")
	assert.Error(t, err)
}

func TestStripBrackets(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a[1] b[2]", "a b"},
		{"nested [x] end", "nested  end"},
		{"unmatched [ bracket", "unmatched [ bracket"},
		{"[all]", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripBrackets(tt.in), tt.in)
	}
}
