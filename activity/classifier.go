package activity

import (
	"fmt"
	"image"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AtlasScout/AtlasScout/agent/go-service/detection"
	"github.com/AtlasScout/AtlasScout/agent/go-service/pkg/imgutil"
)

// DefaultThreshold is the minimum NCC score for an icon to count as present.
const DefaultThreshold = 0.85

// Icon is a reference activity icon.
type Icon struct {
	Name     string
	Activity Activity
	pattern  *detection.Pattern
}

// NewIcon prepares img for matching under the given icon name.
func NewIcon(name string, img image.Image) Icon {
	return Icon{
		Name:     name,
		Activity: Parse(name),
		pattern:  detection.NewPattern(imgutil.EnsureRGBA(img)),
	}
}

// LoadIcons reads every *.png in dir. Files that fail to decode are logged and
// skipped.
func LoadIcons(dir string) ([]Icon, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, fmt.Errorf("list icons in %s: %w", dir, err)
	}

	icons := make([]Icon, 0, len(files))
	for _, file := range files {
		img, err := imgutil.Load(file)
		if err != nil {
			logger().Error().Err(err).Str("path", file).Msg("failed to load icon")
			continue
		}
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		icons = append(icons, NewIcon(name, img))
	}

	if len(icons) == 0 {
		logger().Warn().Str("dir", dir).Msg("no activity icons loaded")
	} else {
		logger().Info().Str("dir", dir).Int("count", len(icons)).Msg("activity icons loaded")
	}
	return icons, nil
}

// Matcher reports whether icon appears anywhere in region with a score of at
// least threshold.
type Matcher interface {
	Match(region image.Image, icon Icon, threshold float64) (bool, error)
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(region image.Image, icon Icon, threshold float64) (bool, error)

func (f MatcherFunc) Match(region image.Image, icon Icon, threshold float64) (bool, error) {
	return f(region, icon, threshold)
}

// Classifier finds activity icons inside a tooltip region.
type Classifier struct {
	icons     []Icon
	threshold float64
	matcher   Matcher
}

// NewClassifier returns a classifier over icons. A non-positive threshold
// selects DefaultThreshold.
func NewClassifier(icons []Icon, threshold float64) *Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Classifier{icons: icons, threshold: threshold}
}

// WithMatcher returns a copy of c that asks m for every icon. Icons m fails on
// fall back to the built-in correlation search, as does a nil m.
func (c *Classifier) WithMatcher(m Matcher) *Classifier {
	if c == nil {
		return nil
	}
	cp := *c
	cp.matcher = m
	return &cp
}

// Len returns the number of icons.
func (c *Classifier) Len() int {
	if c == nil {
		return 0
	}
	return len(c.icons)
}

// Classify returns the activities whose icon appears anywhere in region,
// de-duplicated and sorted by display name.
func (c *Classifier) Classify(region image.Image) []Activity {
	if c == nil || len(c.icons) == 0 || region == nil {
		return nil
	}
	local := localMatcher{}

	seen := make(map[string]struct{})
	var out []Activity
	for _, icon := range c.icons {
		if _, ok := seen[icon.Activity.Name]; ok {
			continue
		}
		if !c.present(region, icon, &local) {
			continue
		}
		seen[icon.Activity.Name] = struct{}{}
		out = append(out, icon.Activity)
		logger().Debug().Str("icon", icon.Name).Msg("activity icon found")
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *Classifier) present(region image.Image, icon Icon, local *localMatcher) bool {
	if c.matcher != nil {
		found, err := c.matcher.Match(region, icon, c.threshold)
		if err == nil {
			return found
		}
		logger().Warn().Err(err).Str("icon", icon.Name).Msg("icon match failed, using local search")
	}
	return local.match(region, icon, c.threshold)
}

// localMatcher runs the correlation search in process. The scene is built on
// first use and shared by every icon of one Classify call.
type localMatcher struct {
	scene *detection.Scene
}

func (l *localMatcher) match(region image.Image, icon Icon, threshold float64) bool {
	if l.scene == nil {
		l.scene = detection.NewScene(imgutil.EnsureRGBA(region))
	}
	return l.scene.AnyAbove(icon.pattern, threshold)
}
