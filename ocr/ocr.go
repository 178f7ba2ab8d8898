// Package ocr reads the map name out of a tooltip region and reconciles it
// with the catalog.
package ocr

import (
	"image"
	"strings"

	"github.com/AtlasScout/AtlasScout/agent/go-service/catalog"
	"github.com/AtlasScout/AtlasScout/agent/go-service/pkg/imgutil"
)

// Engine turns a binarised image (white text on black) into raw text, one
// line per detected text block.
type Engine interface {
	Recognize(img image.Image) (string, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(img image.Image) (string, error)

func (f EngineFunc) Recognize(img image.Image) (string, error) { return f(img) }

// Recognizer binarises a region and looks the recognised text up in the
// catalog.
type Recognizer struct {
	engine Engine
}

func NewRecognizer(engine Engine) *Recognizer {
	return &Recognizer{engine: engine}
}

// ExtractAndValidate returns the catalog entry named in region. Engine errors
// are logged and reported as no match.
func (r *Recognizer) ExtractAndValidate(region image.Image, entries []catalog.MapEntry) (catalog.MapEntry, bool) {
	if r == nil || r.engine == nil || region == nil || region.Bounds().Empty() {
		return catalog.MapEntry{}, false
	}

	bin, threshold := imgutil.BinarizeInverted(region)
	text, err := r.engine.Recognize(bin)
	if err != nil {
		logger().Error().Err(err).Msg("text recognition failed")
		return catalog.MapEntry{}, false
	}

	entry, ok := MatchCatalog(text, entries)
	logger().Debug().
		Uint8("threshold", threshold).
		Str("text", text).
		Bool("matched", ok).
		Str("map", entry.Name).
		Msg("text recognized")
	return entry, ok
}

// MatchCatalog returns the first entry, in catalog order, whose name equals
// one of the lines of text ignoring case and surrounding whitespace.
func MatchCatalog(text string, entries []catalog.MapEntry) (catalog.MapEntry, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return catalog.MapEntry{}, false
	}

	lines := make(map[string]struct{})
	for _, line := range strings.Split(strings.ToLower(text), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines[line] = struct{}{}
		}
	}

	for _, e := range entries {
		if _, ok := lines[strings.ToLower(e.Name)]; ok {
			return e, true
		}
	}
	return catalog.MapEntry{}, false
}
