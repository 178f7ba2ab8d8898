// Package maabridge exposes the atlas scanner to MaaFramework as custom
// actions and adapts the framework's controller to the scanner's frame source,
// pointer and OCR engine.
package maabridge

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MaaXYZ/maa-framework-go/v4"

	"github.com/AtlasScout/AtlasScout/agent/go-service/activity"
	"github.com/AtlasScout/AtlasScout/agent/go-service/catalog"
	"github.com/AtlasScout/AtlasScout/agent/go-service/config"
	"github.com/AtlasScout/AtlasScout/agent/go-service/debugdraw"
	"github.com/AtlasScout/AtlasScout/agent/go-service/detection"
	"github.com/AtlasScout/AtlasScout/agent/go-service/pkg/imgutil"
	"github.com/AtlasScout/AtlasScout/agent/go-service/pkg/maafocus"
	"github.com/AtlasScout/AtlasScout/agent/go-service/publish"
	"github.com/AtlasScout/AtlasScout/agent/go-service/scanner"
	"github.com/AtlasScout/AtlasScout/agent/go-service/winapi"
)

// Service owns the scanner and everything the custom actions share.
type Service struct {
	cfg       *config.Config
	dataDir   string
	bind      *binding
	matcher   activity.Matcher
	settings  *scanner.SettingsFile
	scanner   *scanner.Scanner
	publisher *publish.Publisher

	// runMu keeps one action bound at a time.
	runMu sync.Mutex
}

// NewService resolves the data directory, loads the scan resources and wires
// the adapters. MQTT failures are logged and leave publishing disabled.
func NewService(cfg *config.Config) (*Service, error) {
	dataDir, err := catalog.ResolveDataDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	bind := &binding{}
	s := &Service{cfg: cfg, dataDir: dataDir, bind: bind}
	if cfg.Icons.ResourceDir != "" {
		s.matcher = &pipelineMatcher{bind: bind, dir: cfg.Icons.ResourceDir}
	}
	res, err := s.loadResources()
	if err != nil {
		return nil, err
	}
	s.settings = scanner.NewSettingsFile(filepath.Join(dataDir, catalog.SettingsFile), res.Catalog.Settings)

	frames := &controllerFrames{bind: bind}
	pointer := &controllerPointer{
		bind:   bind,
		frames: frames,
		cursor: winapi.NewCursor(cfg.Scan.SmoothPointer),
		window: winapi.Window{Title: cfg.Scan.WindowTitle},
		smooth: cfg.Scan.SmoothPointer,
	}
	deps := scanner.Deps{
		Frames:   frames,
		Pointer:  scanner.NewPointerLock(pointer),
		Settler:  scanner.SleepSettler(cfg.Scan.SettleDelay),
		OCR:      &pipelineOCR{bind: bind, node: cfg.Scan.OCRNode},
		Settings: s.settings,
	}
	if cfg.Debug.DumpDir != "" {
		deps.Inspect = debugdraw.NewDumper(cfg.Debug.DumpDir).Inspect
	}

	publisher, err := publish.Connect(cfg.MQTT)
	if err != nil {
		logger().Warn().Err(err).Msg("mqtt unavailable, results will not be published")
		publisher = nil
	}

	s.scanner = scanner.New(deps, res, ScannerOptions(cfg))
	s.publisher = publisher
	return s, nil
}

// loadResources loads from the data directory and routes icon matching
// through the framework when a resource dir is configured.
func (s *Service) loadResources() (*scanner.Resources, error) {
	res, err := LoadResources(s.cfg, s.dataDir)
	if err != nil {
		return nil, err
	}
	if s.matcher != nil {
		res.Classifier = res.Classifier.WithMatcher(s.matcher)
	}
	return res, nil
}

// LoadResources reads templates, icons and the catalog from dataDir.
func LoadResources(cfg *config.Config, dataDir string) (*scanner.Resources, error) {
	cat, err := catalog.Load(dataDir)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	templates, err := detection.LoadTemplates(
		config.Resolve(dataDir, cfg.Templates.Glob),
		cfg.Templates.Scales,
		cfg.Templates.Rotations,
	)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	icons, err := activity.LoadIcons(config.Resolve(dataDir, cfg.Icons.Dir))
	if err != nil {
		return nil, fmt.Errorf("load icons: %w", err)
	}
	return &scanner.Resources{
		Templates:  templates,
		Classifier: activity.NewClassifier(icons, cfg.Icons.Threshold),
		Catalog:    cat,
	}, nil
}

// ScannerOptions converts the config into scanner options.
func ScannerOptions(cfg *config.Config) scanner.Options {
	v := cfg.Matching.Validator
	return scanner.Options{
		Match: detection.MatchOptions{
			AcceptThreshold: cfg.Matching.AcceptThreshold,
			MaxOverlap:      cfg.Matching.MaxOverlap,
			Validator: &detection.RegionValidator{
				HalfWidth:   v.HalfWidth,
				MinFraction: v.MinFraction,
				ClampedArea: v.ClampedArea,
				Bands:       []imgutil.HSVRange{detection.MapBlue, detection.MapWhite},
			},
		},
		Expand: scanner.Expand{
			Left:  cfg.Scan.Expand.Left,
			Right: cfg.Scan.Expand.Right,
			Below: cfg.Scan.Expand.Below,
		},
		HoverRadius: cfg.Scan.HoverRadius,
	}
}

// Reload re-reads every resource from the data directory. The running
// scanner keeps its old resources if loading fails.
func (s *Service) Reload() error {
	res, err := s.loadResources()
	if err != nil {
		return err
	}
	s.scanner.Reload(res)
	return nil
}

// SetFavorite adds the map to or removes it from favorite_maps in
// settings.json. The next scan sees the change.
func (s *Service) SetFavorite(name string, favorite bool) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	entry, ok := findMap(s.scanner.Resources().Catalog, name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownMap)
	}
	name = entry.Name
	settings := s.settings.Settings()
	if !settings.SetFavorite(name, favorite) {
		return nil
	}
	if err := catalog.SaveSettings(s.settings.Path, &settings); err != nil {
		return err
	}
	logger().Info().Str("map", name).Bool("favorite", favorite).Msg("favourites updated")
	return nil
}

// ErrUnknownMap is returned for map names missing from maps.json.
var ErrUnknownMap = errors.New("map not in catalog")

func findMap(cat *catalog.Catalog, name string) (catalog.MapEntry, bool) {
	if cat == nil {
		return catalog.MapEntry{}, false
	}
	for _, m := range cat.Maps {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return catalog.MapEntry{}, false
}

// Close releases the MQTT connection.
func (s *Service) Close() {
	s.publisher.Close()
}

func (s *Service) scan(ctx *maa.Context, mode scanner.Mode, param ScanParam) []scanner.Observation {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.bind.set(ctx)
	defer s.bind.clear()

	if !param.Silent {
		_ = maafocus.Showf(ctx, "Atlas Scout: %s scan", mode)
	}

	var obs []scanner.Observation
	switch mode {
	case scanner.ModeHovered:
		obs = s.scanner.ScanHovered()
	default:
		obs = s.scanner.ScanScreen()
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(mode, obs); err != nil {
			logger().Warn().Err(err).Msg("failed to publish observations")
		}
	}
	if !param.Silent {
		_ = maafocus.Show(ctx, SummaryHTML(mode, obs))
	}
	logger().Info().Str("mode", string(mode)).Int("observations", len(obs)).Msg("scan finished")
	return obs
}
