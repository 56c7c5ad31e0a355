// Package geometry is the normalized-rectangle layout core: the validator
// that repairs incoming layouts, the crop and aspect-ratio models, and the
// three interaction engines (drag, resize, crop-edge) that share one
// alignment-snapping primitive.
//
// Every function here is pure and synchronous. Engines never mutate the
// layout they are given; they return a fresh candidate for the host to
// apply optimistically. The validator is the commit gate.
package geometry

import (
	"math"

	"pageforge/internal/domain"
)

const (
	// MinBlockRatio is the smallest width/height the validator allows.
	MinBlockRatio = 0.01
	// MinInteractiveSize is the smallest dimension a gesture may shrink a
	// block to.
	MinInteractiveSize = 0.05

	MinAspectRatio = 0.05
	MaxAspectRatio = 20.0

	// MinVisualCropRemainingRatio is the fraction of the source that must
	// stay visible on each axis.
	MinVisualCropRemainingRatio = 0.05
	MaxVisualCropPerSide        = 0.95

	MaxBlocksPerSide = 20
	MaxPaddingRatio  = 0.4

	// DefaultSnapThresholdPx is the on-screen snap distance; engines divide
	// it by the canvas dimension to get the normalized threshold per axis.
	DefaultSnapThresholdPx = 8.0
)

// Rect is an axis-aligned box in normalized page coordinates.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64   { return r.X + r.W }
func (r Rect) Bottom() float64  { return r.Y + r.H }
func (r Rect) CenterX() float64 { return r.X + r.W/2 }
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Union returns the smallest rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// BlockRect extracts a block's box.
func BlockRect(b domain.Block) Rect {
	return Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
