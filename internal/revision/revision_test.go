package revision

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDigest_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "writers.json"), "[]\n")
	writeFile(t, filepath.Join(dir, "Sri Guru Granth Sahib Ji", "1.json"), "[]\n")

	first, err := Digest(dir)
	require.NoError(t, err)
	second, err := Digest(dir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, digestPrefix))
	assert.Len(t, strings.TrimPrefix(first, digestPrefix), 64)
}

func TestDigest_ChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "writers.json")
	writeFile(t, path, "[]\n")

	before, err := Digest(dir)
	require.NoError(t, err)

	writeFile(t, path, "[{}]\n")
	after, err := Digest(dir)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestDigest_ChangesWithRename(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(a, "one.json"), "[]")
	writeFile(t, filepath.Join(b, "two.json"), "[]")

	da, err := Digest(a)
	require.NoError(t, err)
	db, err := Digest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db)
}

func TestDigest_SkipsHiddenEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "writers.json"), "[]")

	before, err := Digest(dir)
	require.NoError(t, err)

	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/main\n")
	writeFile(t, filepath.Join(dir, ".DS_Store"), "x")
	after, err := Digest(dir)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestDigest_MissingDirectory(t *testing.T) {
	_, err := Digest(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestResolver_FallsBackToDigest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "writers.json"), "[]")

	want, err := Digest(dir)
	require.NoError(t, err)

	// A temp directory is not a git checkout, so git fails and the digest is used.
	head, err := New(dir).Head(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, head)

	head, err = NewDigest(dir).Head(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, head)
}
