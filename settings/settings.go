// Package settings persists the defaults the CLI reads before invoking the
// conversion core: the quick-scan root folder and the preferred color
// scheme. The core itself only ever sees the resolved values.
package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the on-disk configuration, stored as TOML.
type Settings struct {
	QuickScanRoot string `toml:"quick_scan_root"`
	Scheme        string `toml:"scheme"`
	RecolorImages bool   `toml:"recolor_images"`
}

// Defaults returns the settings used when no file exists yet.
func Defaults() *Settings {
	return &Settings{
		Scheme:        "classic",
		RecolorImages: true,
	}
}

// DefaultPath returns ~/.darkpdf/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".darkpdf", "config.toml"), nil
}

// Load reads settings from path, returning defaults when the file does not
// exist yet.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, err
	}

	s := Defaults()
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes settings to path, creating the parent directory if needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
