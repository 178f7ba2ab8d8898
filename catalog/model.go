package catalog

import "github.com/AtlasScout/AtlasScout/agent/go-service/strategy"

// MapEntry is one known map of the atlas.
type MapEntry struct {
	Name   string   `json:"name"`
	Biomes []string `json:"biomes"`
	Layout string   `json:"layout"`
	Notes  string   `json:"notes"`
}

type mapsFile struct {
	Maps []MapEntry `json:"maps"`
}

// Settings mirrors settings.json.
type Settings struct {
	FavoriteMaps []string          `json:"favorite_maps"`
	Strategy     strategy.Config   `json:"strategy"`
	Colors       map[string]string `json:"colors"`
}

// DefaultColor is used for layouts without a configured colour.
const DefaultColor = "#ffffff"

// ColorFor returns the overlay colour of a layout.
func (s *Settings) ColorFor(layout string) string {
	if c, ok := s.Colors[layout]; ok && c != "" {
		return c
	}
	return DefaultColor
}

// IsFavorite reports whether name is in the favourite list (exact match).
func (s *Settings) IsFavorite(name string) bool {
	for _, f := range s.FavoriteMaps {
		if f == name {
			return true
		}
	}
	return false
}

// SetFavorite adds name to or removes it from the favourite list and reports
// whether the list changed. The list is copied, never modified in place.
func (s *Settings) SetFavorite(name string, favorite bool) bool {
	if s.IsFavorite(name) == favorite {
		return false
	}
	out := make([]string, 0, len(s.FavoriteMaps)+1)
	for _, f := range s.FavoriteMaps {
		if f != name {
			out = append(out, f)
		}
	}
	if favorite {
		out = append(out, name)
	}
	s.FavoriteMaps = out
	return true
}

// Catalog bundles the three data files the scanner reads.
type Catalog struct {
	Maps     []MapEntry
	Settings Settings
	Features Features
}

// Layouts returns the distinct layouts of the catalog in first-seen order.
func (c *Catalog) Layouts() []string {
	return layoutsOf(c.Maps)
}

func layoutsOf(entries []MapEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	var out []string
	for _, e := range entries {
		if e.Layout == "" {
			continue
		}
		if _, ok := seen[e.Layout]; ok {
			continue
		}
		seen[e.Layout] = struct{}{}
		out = append(out, e.Layout)
	}
	return out
}
