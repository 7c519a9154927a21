// Package motion estimates inter-frame displacement around the finish-line
// region so that intermediate frames can be synthesized by spatial shifting.
package motion

import (
	"image"

	"github.com/raceview/frameengine/pkg/frame"
)

const (
	// DefaultRangeX is the horizontal search range in pixels on either side
	// of the zero offset. Finish-line motion is dominantly horizontal.
	DefaultRangeX = 16
	// DefaultRangeY is the vertical search range in pixels.
	DefaultRangeY = 4
	// DefaultMinSeparation is the minimum per-pixel score gap between the
	// best and second-best candidate for a non-zero winner to be trusted.
	DefaultMinSeparation = 1.0
)

// Estimator searches a bounded set of candidate offsets and scores each by
// the mean absolute luminance difference over the region of interest.
type Estimator struct {
	rangeX        int
	rangeY        int
	minSeparation float64
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithRange overrides the horizontal and vertical search ranges.
func WithRange(x, y int) Option {
	return func(e *Estimator) {
		if x >= 0 {
			e.rangeX = x
		}
		if y >= 0 {
			e.rangeY = y
		}
	}
}

// WithMinSeparation overrides the ambiguity guard threshold.
func WithMinSeparation(v float64) Option {
	return func(e *Estimator) {
		e.minSeparation = v
	}
}

// NewEstimator creates an estimator with the default search window.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		rangeX:        DefaultRangeX,
		rangeY:        DefaultRangeY,
		minSeparation: DefaultMinSeparation,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate computes the displacement from a to b within roi.
//
// The result is valid only when both frames share dimensions, roi is
// non-degenerate and inside both frames, and the winning offset is clearly
// separated from the runner-up. A zero-offset winner is always trusted:
// shifting by zero is harmless even on featureless content, and identical
// frames must report (0, 0) as valid. All failure modes are soft: the
// returned Motion carries Valid=false and a zero displacement so synthesis
// can degrade to a blend-only or copy path.
func (e *Estimator) Estimate(a, b *frame.Frame, roi image.Rectangle) frame.Motion {
	m := frame.Motion{DT: absDiff(a.TSMicro, b.TSMicro)}

	if a.Width != b.Width || a.Height != b.Height || a.Stride != b.Stride {
		return m
	}
	if a.Validate() != nil || b.Validate() != nil {
		return m
	}
	bounds := image.Rect(0, 0, a.Width, a.Height)
	roi = roi.Intersect(bounds)
	if roi.Empty() {
		return m
	}

	type candidate struct {
		dx, dy int
		score  float64
	}
	best := candidate{score: -1}
	second := candidate{score: -1}

	// Zero offset is scored first so that exact ties resolve to no motion.
	for _, off := range e.offsets() {
		score, ok := sadLuma(a, b, roi, off.dx, off.dy)
		if !ok {
			continue
		}
		switch {
		case best.score < 0 || score < best.score:
			second = best
			best = candidate{off.dx, off.dy, score}
		case second.score < 0 || score < second.score:
			second = candidate{off.dx, off.dy, score}
		}
	}
	if best.score < 0 {
		return m
	}

	// Ambiguity guard: a non-zero winner that barely beats the runner-up is
	// noise, not motion.
	if (best.dx != 0 || best.dy != 0) &&
		(second.score < 0 || second.score-best.score < e.minSeparation) {
		return m
	}

	m.X = float64(best.dx)
	m.Y = float64(best.dy)
	m.Valid = true
	return m
}

type offset struct{ dx, dy int }

// offsets enumerates the candidate displacements, zero first.
func (e *Estimator) offsets() []offset {
	offs := make([]offset, 0, (2*e.rangeX+1)*(2*e.rangeY+1))
	offs = append(offs, offset{0, 0})
	for dy := -e.rangeY; dy <= e.rangeY; dy++ {
		for dx := -e.rangeX; dx <= e.rangeX; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			offs = append(offs, offset{dx, dy})
		}
	}
	return offs
}

// sadLuma scores offset (dx, dy) by the mean absolute luminance difference
// between a at (x, y) and b at (x+dx, y+dy), over the part of roi where both
// samples stay in bounds. Reports false when the overlap is empty.
func sadLuma(a, b *frame.Frame, roi image.Rectangle, dx, dy int) (float64, bool) {
	x0, x1 := roi.Min.X, roi.Max.X
	y0, y1 := roi.Min.Y, roi.Max.Y
	if x0+dx < 0 {
		x0 = -dx
	}
	if x1+dx > b.Width {
		x1 = b.Width - dx
	}
	if y0+dy < 0 {
		y0 = -dy
	}
	if y1+dy > b.Height {
		y1 = b.Height - dy
	}
	if x0 >= x1 || y0 >= y1 {
		return 0, false
	}

	var sum uint64
	for y := y0; y < y1; y++ {
		rowA := a.Data[y*a.Stride:]
		rowB := b.Data[(y+dy)*b.Stride:]
		for x := x0; x < x1; x++ {
			la := luma(rowA[x*frame.BytesPerPixel:])
			lb := luma(rowB[(x+dx)*frame.BytesPerPixel:])
			if la > lb {
				sum += uint64(la - lb)
			} else {
				sum += uint64(lb - la)
			}
		}
	}
	return float64(sum) / float64((x1-x0)*(y1-y0)), true
}

// luma approximates Rec. 601 luminance from an RGBA sample with integer
// weights.
func luma(px []byte) uint32 {
	return (299*uint32(px[0]) + 587*uint32(px[1]) + 114*uint32(px[2])) / 1000
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
