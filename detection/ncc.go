package detection

import (
	"image"
	"math"
	"runtime"
	"sync"
)

// Pattern is a reference image prepared for normalised cross-correlation:
// per-channel zero-mean values plus their total energy.
type Pattern struct {
	w, h int
	zm   [3][]float32
	norm float64
}

// NewPattern prepares img (origin based RGBA) for matching.
func NewPattern(img *image.RGBA) *Pattern {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	p := &Pattern{w: w, h: h}
	n := float64(w * h)
	if n == 0 {
		return p
	}

	for c := 0; c < 3; c++ {
		p.zm[c] = make([]float32, w*h)
	}
	var mean [3]float64
	for y := 0; y < h; y++ {
		row := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			off := row + x*4
			for c := 0; c < 3; c++ {
				v := float64(img.Pix[off+c])
				p.zm[c][y*w+x] = float32(v)
				mean[c] += v
			}
		}
	}
	for c := 0; c < 3; c++ {
		mean[c] /= n
		for i, v := range p.zm[c] {
			d := float64(v) - mean[c]
			p.zm[c][i] = float32(d)
			p.norm += d * d
		}
	}
	return p
}

// Size returns the pattern footprint.
func (p *Pattern) Size() image.Point {
	return image.Pt(p.w, p.h)
}

// Scene is a frame prepared for repeated matching: float channel planes and
// integral images of the per-channel sums and the summed squares.
type Scene struct {
	w, h int
	ch   [3][]float32
	sum  [3][]uint32
	sq   []uint64
}

// NewScene prepares frame for matching. Building it once per frame lets every
// template variant reuse the integral images.
func NewScene(frame *image.RGBA) *Scene {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	s := &Scene{w: w, h: h}
	stride := w + 1
	for c := 0; c < 3; c++ {
		s.ch[c] = make([]float32, w*h)
		s.sum[c] = make([]uint32, stride*(h+1))
	}
	s.sq = make([]uint64, stride*(h+1))

	for y := 0; y < h; y++ {
		row := frame.PixOffset(b.Min.X, b.Min.Y+y)
		var rowSum [3]uint32
		var rowSq uint64
		for x := 0; x < w; x++ {
			off := row + x*4
			for c := 0; c < 3; c++ {
				v := frame.Pix[off+c]
				s.ch[c][y*w+x] = float32(v)
				rowSum[c] += uint32(v)
				rowSq += uint64(v) * uint64(v)
			}
			i := (y+1)*stride + x + 1
			up := y*stride + x + 1
			for c := 0; c < 3; c++ {
				s.sum[c][i] = s.sum[c][up] + rowSum[c]
			}
			s.sq[i] = s.sq[up] + rowSq
		}
	}
	return s
}

// Hit is one location of the correlation surface.
type Hit struct {
	X, Y  int
	Score float64
}

func (s *Scene) fits(p *Pattern) bool {
	return p.w > 0 && p.h > 0 && p.w <= s.w && p.h <= s.h
}

// Score returns the TM_CCOEFF_NORMED value of p placed with its top-left
// corner at (x, y). Flat windows and flat patterns score 0.
func (s *Scene) Score(p *Pattern, x, y int) float64 {
	if !s.fits(p) || x < 0 || y < 0 || x+p.w > s.w || y+p.h > s.h {
		return 0
	}
	if p.norm == 0 {
		return 0
	}

	n := float64(p.w * p.h)
	stride := s.w + 1
	i00 := y*stride + x
	i01 := y*stride + x + p.w
	i10 := (y+p.h)*stride + x
	i11 := (y+p.h)*stride + x + p.w

	var wndVar, num float64
	for c := 0; c < 3; c++ {
		sc := s.sum[c]
		sum := float64(sc[i11] - sc[i01] - sc[i10] + sc[i00])
		wndVar -= sum * sum / n

		tp := p.zm[c]
		sp := s.ch[c]
		for j := 0; j < p.h; j++ {
			row := sp[(y+j)*s.w+x : (y+j)*s.w+x+p.w]
			trow := tp[j*p.w : (j+1)*p.w]
			var acc float32
			for i, t := range trow {
				acc += t * row[i]
			}
			num += float64(acc)
		}
	}
	wndVar += float64(s.sq[i11] - s.sq[i01] - s.sq[i10] + s.sq[i00])
	if wndVar < 0.5 {
		return 0
	}

	r := num / math.Sqrt(p.norm*wndVar)
	switch {
	case r > 1:
		return 1
	case r < -1:
		return -1
	}
	return r
}

// Hits returns every location scoring at least threshold, in row-major order.
// Rows are split over a bounded set of workers; the merge keeps row order so
// the output is deterministic.
func (s *Scene) Hits(p *Pattern, threshold float64) []Hit {
	if !s.fits(p) {
		return nil
	}
	rows := s.h - p.h + 1
	cols := s.w - p.w + 1

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > 8 {
		numWorkers = 8
	}
	if numWorkers > rows {
		numWorkers = rows
	}
	rowsPerWorker := (rows + numWorkers - 1) / numWorkers

	perRow := make([][]Hit, rows)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * rowsPerWorker
		end := start + rowsPerWorker
		if end > rows {
			end = rows
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				for x := 0; x < cols; x++ {
					if score := s.Score(p, x, y); score >= threshold {
						perRow[y] = append(perRow[y], Hit{X: x, Y: y, Score: score})
					}
				}
			}
		}(start, end)
	}
	wg.Wait()

	var hits []Hit
	for _, r := range perRow {
		hits = append(hits, r...)
	}
	return hits
}

// AnyAbove reports whether any location scores at least threshold. It stops
// at the first such location.
func (s *Scene) AnyAbove(p *Pattern, threshold float64) bool {
	if !s.fits(p) {
		return false
	}
	for y := 0; y+p.h <= s.h; y++ {
		for x := 0; x+p.w <= s.w; x++ {
			if s.Score(p, x, y) >= threshold {
				return true
			}
		}
	}
	return false
}
