package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AtlasScout/AtlasScout/agent/go-service/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mapsJSON = `{
  "maps": [
    {"name": "Crimson Temple", "biomes": ["Desert"], "layout": "Linear", "notes": "Boss at the end"},
    {"name": "Savannah", "biomes": ["Grass", "Forest"], "layout": "Open", "notes": ""},
    {"name": "Citadel of Stone", "biomes": [], "layout": "Linear", "notes": ""}
  ]
}`

const settingsJSON = `{
  "favorite_maps": ["Savannah"],
  "colors": {"Linear": "#00ff00"},
  "strategy": {
    "endgame_activities": {"Breach": true, "Delirium": false, "Harvest": true},
    "map_layouts": {"Linear": true, "Maze": false},
    "misc": {"only_favorites": false, "contains_boss": true, "apply_strategy_to_single": true}
  }
}`

const featuresJSON = `{
  "features": {
    "league": {"display_name": "League", "items": {"Breach": "Breach hands", "Ritual": "Ritual altars"}},
    "special": {"display_name": "Special", "items": {"Irradiated": "+1 tier"}}
  }
}`

func writeData(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeData(t, map[string]string{
		MapsFile:     mapsJSON,
		SettingsFile: settingsJSON,
		FeaturesFile: featuresJSON,
	})

	c, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, c.Maps, 3)
	assert.Equal(t, "Crimson Temple", c.Maps[0].Name)
	assert.Equal(t, []string{"Grass", "Forest"}, c.Maps[1].Biomes)
	assert.Equal(t, []string{"Linear", "Open"}, c.Layouts())

	assert.True(t, c.Settings.IsFavorite("Savannah"))
	assert.False(t, c.Settings.IsFavorite("savannah"))
	assert.Equal(t, "#00ff00", c.Settings.ColorFor("Linear"))
	assert.Equal(t, DefaultColor, c.Settings.ColorFor("Open"))

	s := c.Settings.Strategy
	assert.True(t, s.EndgameActivities["Breach"])
	assert.True(t, s.MapLayouts["Linear"])
	assert.True(t, s.Misc.ContainsBoss)
	assert.True(t, s.Misc.ApplyStrategyToSingle)
	assert.Len(t, c.Features.Categories, 2)
}

func TestSetFavorite(t *testing.T) {
	orig := []string{"Savannah", "Crimson Temple"}
	s := Settings{FavoriteMaps: orig}

	assert.False(t, s.SetFavorite("Savannah", true))
	assert.True(t, s.SetFavorite("Savannah", false))
	assert.Equal(t, []string{"Crimson Temple"}, s.FavoriteMaps)
	assert.Equal(t, []string{"Savannah", "Crimson Temple"}, orig, "caller's slice is untouched")

	assert.True(t, s.SetFavorite("Hidden Grotto", true))
	assert.Equal(t, []string{"Crimson Temple", "Hidden Grotto"}, s.FavoriteMaps)
	assert.False(t, s.SetFavorite("Savannah", false))
}

func TestLoadOptionalFilesMissing(t *testing.T) {
	dir := writeData(t, map[string]string{MapsFile: mapsJSON})
	c, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, c.Maps, 3)
	assert.Empty(t, c.Settings.FavoriteMaps)
	assert.Equal(t, DefaultColor, c.Settings.ColorFor("Linear"))
	assert.Empty(t, c.Features.Categories)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)

	dir := writeData(t, map[string]string{MapsFile: mapsJSON, SettingsFile: "{broken"})
	_, err = Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), SettingsFile)
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFile)
	in := &Settings{
		FavoriteMaps: []string{"Savannah"},
		Colors:       map[string]string{"Open": "#123456"},
		Strategy: strategy.Config{
			MapLayouts: map[string]bool{"Open": true},
			Misc:       strategy.Misc{OnlyFavorites: true},
		},
	}
	require.NoError(t, SaveSettings(path, in))

	out, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFeaturesOrganize(t *testing.T) {
	f, err := LoadFeatures(filepath.Join(writeData(t, map[string]string{FeaturesFile: featuresJSON}), FeaturesFile))
	require.NoError(t, err)

	organized, boss := f.Organize([]string{"Boss", "Ritual", "Irradiated", "Breach", "Unknown"})
	assert.True(t, boss)
	assert.Equal(t, map[string][]string{
		"League":  {"Ritual altars", "Breach hands"},
		"Special": {"+1 tier"},
	}, organized)

	organized, boss = f.Organize(nil)
	assert.False(t, boss)
	assert.Empty(t, organized)

	key, ok := f.CategoryOf("Irradiated")
	assert.True(t, ok)
	assert.Equal(t, "special", key)
}

func TestValidateStrategy(t *testing.T) {
	cfg := strategy.Config{
		EndgameActivities: map[string]bool{"Breach": true, "Harvest": true, "boss": false},
		MapLayouts:        map[string]bool{"Linear": true, "Maze": false},
	}
	got := ValidateStrategy(cfg, []string{"Linear", "Open"})
	assert.Equal(t, []StrategyWarning{
		{Section: "endgame_activities", Key: "Harvest"},
		{Section: "map_layouts", Key: "Maze"},
	}, got)

	assert.Empty(t, ValidateStrategy(strategy.Config{}, nil))
}

func TestResolveDataDir(t *testing.T) {
	explicit := writeData(t, map[string]string{MapsFile: mapsJSON})
	got, err := ResolveDataDir(explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, got)

	root := t.TempDir()
	installed := filepath.Join(root, defaultDataDir)
	require.NoError(t, os.MkdirAll(installed, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(installed, MapsFile), []byte(mapsJSON), 0o644))
	t.Setenv("MAA_INSTALL_ROOT", root)

	got, err = ResolveDataDir(filepath.Join(root, "missing"))
	require.NoError(t, err)
	assert.Equal(t, installed, got)
}
