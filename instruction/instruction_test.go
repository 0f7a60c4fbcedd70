package instruction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_FallsBackToDefault(t *testing.T) {
	src := NewSource("", map[string]string{"TriageAgent": "default text"})

	text, fromFile := src.Lookup("TriageAgent")
	assert.False(t, fromFile)
	assert.Equal(t, "default text", text)
}

func TestSource_PrefersOverrideFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "instructions_TriageAgent.txt"), []byte("file text\n"), 0o644))

	src := NewSource(dir, map[string]string{"TriageAgent": "default text"})

	text, fromFile := src.Lookup("TriageAgent")
	assert.True(t, fromFile)
	assert.Equal(t, "file text", text)
}

func TestSource_EmptyFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "instructions_TriageAgent.txt"), []byte("  \n"), 0o644))

	src := NewSource(dir, map[string]string{"TriageAgent": "default text"})

	text, fromFile := src.Lookup("TriageAgent")
	assert.False(t, fromFile)
	assert.Equal(t, "default text", text)
}

func TestSource_SpacesMapToUnderscores(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "instructions_Campus_Guide.txt"), []byte("guide"), 0o644))

	src := NewSource(dir, nil)

	text, fromFile := src.Lookup("Campus Guide")
	assert.True(t, fromFile)
	assert.Equal(t, "guide", text)
}

func TestSource_NeverFails(t *testing.T) {
	src := NewSource("/nonexistent", nil)

	text, fromFile := src.Lookup("Unknown")
	assert.False(t, fromFile)
	assert.Empty(t, text)
}
