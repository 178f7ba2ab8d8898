// Package detection finds map icon candidates in a frame: multi-scale,
// multi-rotation template matching, a colour plausibility check on every hit
// and non-maximum suppression of the survivors.
package detection

import (
	"image"

	"github.com/AtlasScout/AtlasScout/agent/go-service/pkg/imgutil"
)

const (
	DefaultAcceptThreshold = 0.70
	DefaultMaxOverlap      = 0.3
)

// MatchOptions tunes FindCandidates.
type MatchOptions struct {
	AcceptThreshold float64
	MaxOverlap      float64
	// Validator filters raw hits by their centre. Nil accepts every hit.
	Validator Validator
}

// DefaultMatchOptions returns the 0.70 / 0.3 settings with the default
// region validator.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		AcceptThreshold: DefaultAcceptThreshold,
		MaxOverlap:      DefaultMaxOverlap,
		Validator:       DefaultRegionValidator(),
	}
}

// FindCandidates matches every variant of every template against frame and
// returns the suppressed candidate list, best first.
func FindCandidates(frame *image.RGBA, templates []*Template, opts MatchOptions) []Candidate {
	if len(templates) == 0 {
		return nil
	}
	frame = imgutil.EnsureRGBA(frame)
	scene := NewScene(frame)

	var raw []Candidate
	for _, t := range templates {
		for _, v := range t.Variants {
			size := v.Size()
			hits := scene.Hits(v.pattern, opts.AcceptThreshold)
			accepted := 0
			for _, hit := range hits {
				rect := image.Rect(hit.X, hit.Y, hit.X+size.X, hit.Y+size.Y).Intersect(frame.Bounds())
				if rect.Empty() {
					continue
				}
				if opts.Validator != nil && !opts.Validator.IsPlausible(frame, imgutil.Center(rect)) {
					continue
				}
				raw = append(raw, Candidate{Rect: rect, Confidence: hit.Score, Template: t.Name})
				accepted++
			}
			logger().Trace().
				Str("template", t.Name).
				Float64("scale", v.Scale).
				Float64("angle", v.Angle).
				Int("hits", len(hits)).
				Int("accepted", accepted).
				Msg("variant matched")
		}
	}

	kept := Suppress(raw, opts.MaxOverlap)
	logger().Debug().
		Int("raw", len(raw)).
		Int("kept", len(kept)).
		Msg("candidates suppressed")
	return kept
}
