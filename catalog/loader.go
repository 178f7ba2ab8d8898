package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// File names inside the data directory.
const (
	MapsFile     = "maps.json"
	SettingsFile = "settings.json"
	FeaturesFile = "maps_features.json"
)

// defaultDataDir is relative to the install root.
const defaultDataDir = "resource/data/atlas-scout"

// Load reads the catalog from dir. maps.json is required; a missing
// settings.json or maps_features.json degrades to empty values with a warning.
func Load(dir string) (*Catalog, error) {
	maps, err := LoadMaps(filepath.Join(dir, MapsFile))
	if err != nil {
		return nil, err
	}
	c := &Catalog{Maps: maps}

	settings, err := LoadSettings(filepath.Join(dir, SettingsFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger().Warn().Str("dir", dir).Msg("settings.json not found, using empty settings")
	case err != nil:
		return nil, err
	default:
		c.Settings = *settings
	}

	features, err := LoadFeatures(filepath.Join(dir, FeaturesFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger().Warn().Str("dir", dir).Msg("maps_features.json not found, features will not be grouped")
	case err != nil:
		return nil, err
	default:
		c.Features = *features
	}

	for _, w := range ValidateStrategy(c.Settings.Strategy, c.Layouts()) {
		logger().Warn().Str("key", w.Key).Str("section", w.Section).Msg("unknown strategy key")
	}

	logger().Info().
		Str("dir", dir).
		Int("maps", len(c.Maps)).
		Int("favorites", len(c.Settings.FavoriteMaps)).
		Int("featureCategories", len(c.Features.Categories)).
		Msg("catalog loaded")
	return c, nil
}

// LoadMaps decodes the ordered map list of maps.json.
func LoadMaps(path string) ([]MapEntry, error) {
	var f mapsFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	if len(f.Maps) == 0 {
		logger().Warn().Str("path", path).Msg("catalog has no maps")
	}
	return f.Maps, nil
}

// LoadSettings decodes settings.json.
func LoadSettings(path string) (*Settings, error) {
	var s Settings
	if err := readJSON(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFeatures decodes maps_features.json.
func LoadFeatures(path string) (*Features, error) {
	var f Features
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// SaveSettings writes settings back with indentation, matching the layout
// the settings window produces.
func SaveSettings(path string, s *Settings) error {
	raw, err := sonic.ConfigStd.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := sonic.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ResolveDataDir picks the directory holding maps.json. An explicit dir wins
// when it exists; otherwise MAA_INSTALL_ROOT is tried, then the executable's
// ancestors, then the working directory.
func ResolveDataDir(explicit string) (string, error) {
	if explicit != "" {
		if fileExists(filepath.Join(explicit, MapsFile)) {
			return explicit, nil
		}
		logger().Warn().Str("dir", explicit).Msg("configured data dir has no maps.json, searching")
	}

	if base := os.Getenv("MAA_INSTALL_ROOT"); base != "" {
		p := filepath.Join(base, defaultDataDir)
		if fileExists(filepath.Join(p, MapsFile)) {
			return p, nil
		}
	}

	if exe, err := os.Executable(); err == nil && exe != "" {
		dir := filepath.Dir(exe)
		for i := 0; i < 4; i++ {
			p := filepath.Join(dir, defaultDataDir)
			if fileExists(filepath.Join(p, MapsFile)) {
				return p, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	for _, p := range []string{
		filepath.Join(cwd, defaultDataDir),
		filepath.Join(cwd, "data"),
	} {
		if fileExists(filepath.Join(p, MapsFile)) {
			return p, nil
		}
	}
	return filepath.Join(cwd, defaultDataDir), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
