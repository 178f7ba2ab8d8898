package detection

import (
	"image"
	"sort"

	"github.com/AtlasScout/AtlasScout/agent/go-service/pkg/imgutil"
)

// Candidate is an unvalidated detection: a frame-local rectangle, its match
// confidence and the template that produced it.
type Candidate struct {
	Rect       image.Rectangle `json:"rect"`
	Confidence float64         `json:"confidence"`
	Template   string          `json:"template"`
}

// Center returns the candidate centre in frame coordinates.
func (c Candidate) Center() image.Point {
	return imgutil.Center(c.Rect)
}

// OverlapRatio is the intersection area divided by the area of the smaller
// rectangle. Degenerate rectangles never overlap.
func OverlapRatio(a, b image.Rectangle) float64 {
	areaA := a.Dx() * a.Dy()
	areaB := b.Dx() * b.Dy()
	smaller := areaA
	if areaB < smaller {
		smaller = areaB
	}
	if smaller <= 0 {
		return 0
	}
	inter := a.Intersect(b)
	return float64(inter.Dx()*inter.Dy()) / float64(smaller)
}

// Suppress runs greedy non-maximum suppression. Candidates are ranked by
// confidence with a stable sort, so on equal confidence the one that came
// first in cands wins. A candidate is kept only if its overlap ratio with
// every kept candidate is at most maxOverlap. cands is not modified.
func Suppress(cands []Candidate, maxOverlap float64) []Candidate {
	ranked := make([]Candidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})

	kept := make([]Candidate, 0, len(ranked))
	for _, c := range ranked {
		keep := true
		for _, k := range kept {
			if OverlapRatio(c.Rect, k.Rect) > maxOverlap {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, c)
		}
	}
	return kept
}
