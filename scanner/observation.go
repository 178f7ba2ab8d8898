package scanner

import (
	"image"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/AtlasScout/AtlasScout/agent/go-service/activity"
	"github.com/AtlasScout/AtlasScout/agent/go-service/catalog"
	"github.com/AtlasScout/AtlasScout/agent/go-service/strategy"
)

// Observation is a recognised map icon with its catalog attributes.
type Observation struct {
	Rect       image.Rectangle
	Confidence float64
	MapName    string
	Biomes     []string
	Layout     string
	Notes      string
	IsFavorite bool
	IsCitadel  bool
	Activities []activity.Activity
	// Features groups non-boss activities by their maps_features.json category.
	Features map[string][]string
	Color    string
}

func newObservation(rect image.Rectangle, entry catalog.MapEntry, acts []activity.Activity, res *Resources, settings *catalog.Settings) Observation {
	obs := Observation{
		Rect:       rect,
		MapName:    entry.Name,
		Biomes:     entry.Biomes,
		Layout:     entry.Layout,
		Notes:      entry.Notes,
		IsFavorite: settings.IsFavorite(entry.Name),
		IsCitadel:  strings.Contains(strings.ToLower(entry.Name), "citadel"),
		Activities: acts,
		Color:      settings.ColorFor(entry.Layout),
	}
	if res.Catalog != nil && len(res.Catalog.Features.Categories) > 0 {
		obs.Features, _ = res.Catalog.Features.Organize(activity.Names(acts))
	}
	return obs
}

// Subject returns the fields the strategy filter inspects.
func (o Observation) Subject() strategy.Subject {
	return strategy.Subject{
		Activities: activity.Names(o.Activities),
		IsFavorite: o.IsFavorite,
		Layout:     o.Layout,
	}
}

// HasBoss reports whether the map has a boss icon.
func (o Observation) HasBoss() bool {
	for _, a := range o.Activities {
		if a.Kind == activity.KindBoss {
			return true
		}
	}
	return false
}

type observationJSON struct {
	X          int                 `json:"x"`
	Y          int                 `json:"y"`
	Width      int                 `json:"width"`
	Height     int                 `json:"height"`
	Confidence float64             `json:"confidence,omitempty"`
	MapName    string              `json:"map_name"`
	Biomes     []string            `json:"biomes"`
	Layout     string              `json:"layout"`
	Notes      string              `json:"notes"`
	IsFavorite bool                `json:"is_favorite"`
	IsCitadel  bool                `json:"is_citadel"`
	HasBoss    bool                `json:"has_boss"`
	Activities []string            `json:"activities"`
	Features   map[string][]string `json:"features,omitempty"`
	Color      string              `json:"color"`
}

// MarshalJSON flattens the rectangle into x, y, width and height.
func (o Observation) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(observationJSON{
		X:          o.Rect.Min.X,
		Y:          o.Rect.Min.Y,
		Width:      o.Rect.Dx(),
		Height:     o.Rect.Dy(),
		Confidence: o.Confidence,
		MapName:    o.MapName,
		Biomes:     o.Biomes,
		Layout:     o.Layout,
		Notes:      o.Notes,
		IsFavorite: o.IsFavorite,
		IsCitadel:  o.IsCitadel,
		HasBoss:    o.HasBoss(),
		Activities: activity.Names(o.Activities),
		Features:   o.Features,
		Color:      o.Color,
	})
}
