package geometry

import (
	"math"

	"pageforge/internal/domain"
)

// AxisSnap is the result of a nearest-anchor search on one axis: the offset
// to add to the proposal and the absolute target coordinate to render as an
// alignment guideline. A nil Guide means no target was within threshold and
// Offset is zero.
type AxisSnap struct {
	Offset float64
	Guide  *float64
}

// SolveAxis finds the (moving, target) anchor pair with the smallest
// |target-moving|, subject to the threshold. Ties resolve to the first pair
// found at the minimal distance.
func SolveAxis(moving, targets []float64, threshold float64) AxisSnap {
	best := AxisSnap{}
	bestDist := math.Inf(1)
	for _, m := range moving {
		for _, t := range targets {
			d := math.Abs(t - m)
			if d <= threshold && d < bestDist {
				bestDist = d
				g := t
				best = AxisSnap{Offset: t - m, Guide: &g}
			}
		}
	}
	return best
}

// rectAnchorsX returns the three X-axis anchors of a box: left, center,
// right.
func rectAnchorsX(r Rect) [3]float64 {
	return [3]float64{r.X, r.CenterX(), r.Right()}
}

func rectAnchorsY(r Rect) [3]float64 {
	return [3]float64{r.Y, r.CenterY(), r.Bottom()}
}

// targetAnchors collects the edge/center anchors of every block not in the
// exclude set, at its current unmoving position.
func targetAnchors(layout *domain.PageSideLayout, exclude map[string]bool) (xs, ys []float64) {
	for i := range layout.Blocks {
		b := &layout.Blocks[i]
		if exclude[b.ID] {
			continue
		}
		r := BlockRect(*b)
		ax := rectAnchorsX(r)
		ay := rectAnchorsY(r)
		xs = append(xs, ax[:]...)
		ys = append(ys, ay[:]...)
	}
	return xs, ys
}
