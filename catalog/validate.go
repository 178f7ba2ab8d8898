package catalog

import (
	"sort"

	"github.com/AtlasScout/AtlasScout/agent/go-service/activity"
	"github.com/AtlasScout/AtlasScout/agent/go-service/strategy"
)

// StrategyWarning names a strategy key that nothing can ever match.
type StrategyWarning struct {
	Section string
	Key     string
}

// ValidateStrategy checks activity keys against the known activity kinds and
// layout keys against layouts. Unknown keys are returned sorted by section
// and key; they are not removed from cfg.
func ValidateStrategy(cfg strategy.Config, layouts []string) []StrategyWarning {
	var warnings []StrategyWarning
	for key := range cfg.EndgameActivities {
		if activity.Parse(key).Kind == activity.KindOther {
			warnings = append(warnings, StrategyWarning{Section: "endgame_activities", Key: key})
		}
	}

	known := make(map[string]struct{}, len(layouts))
	for _, l := range layouts {
		known[l] = struct{}{}
	}
	for key := range cfg.MapLayouts {
		if _, ok := known[key]; !ok {
			warnings = append(warnings, StrategyWarning{Section: "map_layouts", Key: key})
		}
	}

	sort.Slice(warnings, func(i, j int) bool {
		if warnings[i].Section != warnings[j].Section {
			return warnings[i].Section < warnings[j].Section
		}
		return warnings[i].Key < warnings[j].Key
	})
	return warnings
}
