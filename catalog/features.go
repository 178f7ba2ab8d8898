package catalog

import "sort"

// FeatureCategory groups related map features under one overlay heading.
type FeatureCategory struct {
	DisplayName string            `json:"display_name"`
	Items       map[string]string `json:"items"`
}

// Features mirrors maps_features.json.
type Features struct {
	Categories map[string]FeatureCategory `json:"features"`
}

// BossFeature is reported on its own rather than through a category.
const BossFeature = "Boss"

// CategoryOf returns the category key listing feature. Categories are
// searched in key order so the answer does not depend on map iteration.
func (f *Features) CategoryOf(feature string) (string, bool) {
	keys := make([]string, 0, len(f.Categories))
	for k := range f.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := f.Categories[k].Items[feature]; ok {
			return k, true
		}
	}
	return "", false
}

// Organize groups feature names by category display name, replacing each
// name with its display text. Unknown features are dropped. The second
// result reports whether Boss was among them.
func (f *Features) Organize(names []string) (map[string][]string, bool) {
	organized := make(map[string][]string)
	hasBoss := false
	for _, name := range names {
		if name == BossFeature {
			hasBoss = true
			continue
		}
		key, ok := f.CategoryOf(name)
		if !ok {
			continue
		}
		cat := f.Categories[key]
		organized[cat.DisplayName] = append(organized[cat.DisplayName], cat.Items[name])
	}
	return organized, hasBoss
}
