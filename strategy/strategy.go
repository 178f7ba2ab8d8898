// Package strategy decides whether an observed map is worth showing, based on
// the user's endgame preferences.
package strategy

// Misc holds the switches that are not tied to an activity or layout.
type Misc struct {
	OnlyFavorites         bool `json:"only_favorites"`
	ContainsBoss          bool `json:"contains_boss"`
	ApplyStrategyToSingle bool `json:"apply_strategy_to_single"`
}

// Config is the user's filter. Keys of EndgameActivities are activity display
// names ("Breach", "Boss", ...); keys of MapLayouts are layout names.
type Config struct {
	EndgameActivities map[string]bool `json:"endgame_activities"`
	MapLayouts        map[string]bool `json:"map_layouts"`
	Misc              Misc            `json:"misc"`
}

// Subject is the part of an observation the filter looks at.
type Subject struct {
	Activities []string
	IsFavorite bool
	Layout     string
}

func (s Subject) has(activity string) bool {
	for _, a := range s.Activities {
		if a == activity {
			return true
		}
	}
	return false
}

func anyEnabled(m map[string]bool) bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}

// Include applies the rules in order: boss requirement, favourites only,
// layout allow-list, then activity preference. A zero Config includes
// everything.
func Include(obs Subject, cfg Config) bool {
	if cfg.Misc.ContainsBoss && !obs.has("Boss") {
		return false
	}
	if cfg.Misc.OnlyFavorites && !obs.IsFavorite {
		return false
	}
	if anyEnabled(cfg.MapLayouts) {
		if obs.Layout == "" || !cfg.MapLayouts[obs.Layout] {
			return false
		}
	}
	if !anyEnabled(cfg.EndgameActivities) {
		return true
	}
	for name, enabled := range cfg.EndgameActivities {
		if enabled && obs.has(name) {
			return true
		}
	}
	return false
}
