package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope", "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, "classic", s.Scheme)
	assert.True(t, s.RecolorImages)
	assert.Empty(t, s.QuickScanRoot)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".darkpdf", "config.toml")

	s := &Settings{
		QuickScanRoot: "/mnt/scans/jobs",
		Scheme:        "midnight",
		RecolorImages: false,
	}
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("scheme = \"sepia\"\n"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sepia", s.Scheme)
	assert.True(t, s.RecolorImages, "unset keys fall back to defaults")
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("scheme = [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
