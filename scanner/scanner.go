// Package scanner drives a scan of the atlas: it finds map icons on the
// current frame, hovers each one to reveal its tooltip, reads the tooltip and
// filters the result through the user's strategy.
package scanner

import (
	"image"
	"sync/atomic"

	"github.com/AtlasScout/AtlasScout/agent/go-service/catalog"
	"github.com/AtlasScout/AtlasScout/agent/go-service/detection"
	"github.com/AtlasScout/AtlasScout/agent/go-service/ocr"
	"github.com/AtlasScout/AtlasScout/agent/go-service/pkg/imgutil"
	"github.com/AtlasScout/AtlasScout/agent/go-service/strategy"
)

// Expand grows a candidate rectangle into the tooltip region read by OCR.
// The top edge is kept.
type Expand struct {
	Left, Right, Below int
}

// DefaultExpand covers the tooltip drawn to the side of a hovered map.
var DefaultExpand = Expand{Left: 400, Right: 200, Below: 100}

// DefaultHoverRadius is half the side of the window read around the cursor.
const DefaultHoverRadius = 30

// Options tunes a Scanner.
type Options struct {
	Match       detection.MatchOptions
	Expand      Expand
	HoverRadius int
}

// DefaultOptions returns the standard matching and region settings.
func DefaultOptions() Options {
	return Options{
		Match:       detection.DefaultMatchOptions(),
		Expand:      DefaultExpand,
		HoverRadius: DefaultHoverRadius,
	}
}

// Mode names the kind of scan in a Report.
type Mode string

const (
	ModeScreen  Mode = "screen"
	ModeHovered Mode = "hovered"
)

// Report describes a finished scan. Frame is the first capture of the scan.
type Report struct {
	Mode         Mode
	Frame        *Frame
	Candidates   []detection.Candidate
	Observations []Observation
}

// Deps are the collaborators of a Scanner.
type Deps struct {
	Frames   FrameSource
	Pointer  *PointerLock
	Settler  Settler
	OCR      ocr.Engine
	Settings SettingsSource
	// Inspect, when set, receives every report that had a frame.
	Inspect func(Report)
}

// Scanner runs full-screen and hovered scans. Scans on the same PointerLock
// never interleave.
type Scanner struct {
	frames     FrameSource
	pointer    *PointerLock
	settler    Settler
	recognizer *ocr.Recognizer
	settings   SettingsSource
	inspect    func(Report)
	opts       Options

	res atomic.Pointer[Resources]
}

// New builds a Scanner. A nil Settler does not wait and a nil SettingsSource
// uses the settings of the current resource snapshot.
func New(deps Deps, res *Resources, opts Options) *Scanner {
	s := &Scanner{
		frames:     deps.Frames,
		pointer:    deps.Pointer,
		settler:    deps.Settler,
		recognizer: ocr.NewRecognizer(deps.OCR),
		settings:   deps.Settings,
		inspect:    deps.Inspect,
		opts:       opts,
	}
	if s.settler == nil {
		s.settler = NoSettle{}
	}
	if s.opts.HoverRadius <= 0 {
		s.opts.HoverRadius = DefaultHoverRadius
	}
	if res == nil {
		res = &Resources{}
	}
	s.res.Store(res)
	return s
}

// Reload swaps the resources used by the next scan.
func (s *Scanner) Reload(res *Resources) {
	if res == nil {
		res = &Resources{}
	}
	s.res.Store(res)
	logger().Info().
		Int("templates", len(res.Templates)).
		Int("icons", res.Classifier.Len()).
		Int("maps", len(res.maps())).
		Msg("scanner resources reloaded")
}

// Resources returns the current snapshot.
func (s *Scanner) Resources() *Resources {
	return s.res.Load()
}

// ScanScreen finds every map icon on the current frame, hovers each one and
// returns the observations accepted by the strategy. Failures are logged and
// yield a shorter or empty result.
func (s *Scanner) ScanScreen() []Observation {
	res := s.res.Load()

	frame, err := capture(s.frames)
	if err != nil {
		logger().Error().Err(err).Msg("failed to capture screenshot")
		return nil
	}
	if len(res.Templates) == 0 {
		logger().Warn().Msg("no map templates loaded")
		s.report(Report{Mode: ModeScreen, Frame: frame})
		return nil
	}

	candidates := detection.FindCandidates(frame.Image, res.Templates, s.opts.Match)
	if len(candidates) == 0 {
		logger().Warn().Msg("no map locations found")
		s.report(Report{Mode: ModeScreen, Frame: frame})
		return nil
	}
	logger().Info().Int("candidates", len(candidates)).Msg("map locations found")

	settings := s.settingsFor(res)
	cfg := settings.Strategy
	lease := s.pointer.Acquire()
	defer lease.Release()

	var out []Observation
	for i, c := range candidates {
		target := frame.ToScreen(c.Center())
		if err := lease.MoveTo(target); err != nil {
			logger().Warn().Err(err).
				Int("index", i).
				Int("x", target.X).
				Int("y", target.Y).
				Msg("failed to move pointer, skipping candidate")
			continue
		}
		s.settler.Settle()

		hovered, err := capture(s.frames)
		if err != nil {
			logger().Warn().Err(err).Int("index", i).Msg("recapture failed, skipping candidate")
			continue
		}

		obs, ok := s.process(res, &settings, hovered.Image, c.Rect)
		if !ok {
			logger().Debug().Int("index", i).Str("template", c.Template).Msg("no catalog map in tooltip")
			continue
		}
		obs.Confidence = c.Confidence
		if !strategy.Include(obs.Subject(), cfg) {
			logger().Debug().Str("map", obs.MapName).Msg("map excluded by strategy")
			continue
		}

		logger().Info().
			Str("map", obs.MapName).
			Str("layout", obs.Layout).
			Strs("activities", obs.Subject().Activities).
			Bool("boss", obs.HasBoss()).
			Float64("confidence", c.Confidence).
			Msg("map accepted")
		out = append(out, obs)
	}

	s.report(Report{Mode: ModeScreen, Frame: frame, Candidates: candidates, Observations: out})
	return out
}

// ScanHovered reads the map under the cursor. The strategy applies only when
// ApplyStrategyToSingle is set.
func (s *Scanner) ScanHovered() []Observation {
	res := s.res.Load()

	frame, err := capture(s.frames)
	if err != nil {
		logger().Error().Err(err).Msg("failed to capture screenshot")
		return nil
	}

	lease := s.pointer.Acquire()
	pos, err := lease.Position()
	lease.Release()
	if err != nil {
		logger().Error().Err(err).Msg("failed to read pointer position")
		return nil
	}

	rect := HoverRect(frame.ToLocal(pos), frame.Image.Bounds().Size(), s.opts.HoverRadius)
	if rect.Empty() {
		logger().Warn().Int("x", pos.X).Int("y", pos.Y).Msg("pointer is outside the game window")
		s.report(Report{Mode: ModeHovered, Frame: frame})
		return nil
	}

	var out []Observation
	settings := s.settingsFor(res)
	cfg := settings.Strategy
	obs, ok := s.process(res, &settings, frame.Image, rect)
	switch {
	case !ok:
		logger().Debug().Msg("no catalog map under the pointer")
	case cfg.Misc.ApplyStrategyToSingle && !strategy.Include(obs.Subject(), cfg):
		logger().Debug().Str("map", obs.MapName).Msg("hovered map excluded by strategy")
	default:
		out = append(out, obs)
	}

	cand := []detection.Candidate{{Rect: rect}}
	s.report(Report{Mode: ModeHovered, Frame: frame, Candidates: cand, Observations: out})
	return out
}

// settingsFor reads the settings once for a scan over res.
func (s *Scanner) settingsFor(res *Resources) catalog.Settings {
	if s.settings == nil {
		return res.settings()
	}
	return s.settings.Settings()
}

func (s *Scanner) process(res *Resources, settings *catalog.Settings, img *image.RGBA, rect image.Rectangle) (Observation, bool) {
	region := imgutil.Crop(img, ExpandRegion(rect, img.Bounds(), s.opts.Expand))
	if region == nil {
		return Observation{}, false
	}
	entry, ok := s.recognizer.ExtractAndValidate(region, res.maps())
	if !ok {
		return Observation{}, false
	}
	acts := res.Classifier.Classify(region)
	return newObservation(rect, entry, acts, res, settings), true
}

func (s *Scanner) report(r Report) {
	if s.inspect != nil {
		s.inspect(r)
	}
}

// ExpandRegion grows r by e and clamps it to bounds.
func ExpandRegion(r, bounds image.Rectangle, e Expand) image.Rectangle {
	return image.Rect(
		r.Min.X-e.Left,
		r.Min.Y,
		r.Max.X+e.Right,
		r.Max.Y+e.Below,
	).Intersect(bounds)
}

// HoverRect returns the square of side 2*radius around p, clamped to a frame
// of the given size. Clamping moves the near edges to zero and shrinks the
// far ones.
func HoverRect(p image.Point, size image.Point, radius int) image.Rectangle {
	x := max(0, p.X-radius)
	y := max(0, p.Y-radius)
	w := min(size.X-x, 2*radius)
	h := min(size.Y-y, 2*radius)
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(x, y, x+w, y+h)
}
