package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7"), 0o644))
	return path
}

func TestNeedsConversion_MissingDest(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.pdf"))

	assert.True(t, NeedsConversion(src, filepath.Join(dir, "DARK MODE", "a.pdf")))
}

func TestNeedsConversion_DestUpToDate(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.pdf"))
	dst := writeFile(t, filepath.Join(dir, "DARK MODE", "a.pdf"))

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(src, base, base))
	require.NoError(t, os.Chtimes(dst, base.Add(time.Minute), base.Add(time.Minute)))

	assert.False(t, NeedsConversion(src, dst))
}

func TestNeedsConversion_SourceNewer(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.pdf"))
	dst := writeFile(t, filepath.Join(dir, "DARK MODE", "a.pdf"))

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(dst, base, base))
	require.NoError(t, os.Chtimes(src, base.Add(time.Minute), base.Add(time.Minute)))

	assert.True(t, NeedsConversion(src, dst))
}

func TestNeedsConversion_EqualTimesSkips(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.pdf"))
	dst := writeFile(t, filepath.Join(dir, "DARK MODE", "a.pdf"))

	// Strictly-newer comparison: identical timestamps count as up to date.
	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(src, base, base))
	require.NoError(t, os.Chtimes(dst, base, base))

	assert.False(t, NeedsConversion(src, dst))
}

func TestNeedsConversion_MissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := writeFile(t, filepath.Join(dir, "DARK MODE", "a.pdf"))

	// An unreadable source still yields a job; the converter reports the
	// open failure with a proper reason.
	assert.True(t, NeedsConversion(filepath.Join(dir, "gone.pdf"), dst))
}
