package geometry

import (
	"math"

	"pageforge/internal/domain"
)

// ResizeResult is the candidate layout after one uniform-resize move.
type ResizeResult struct {
	Layout *domain.PageSideLayout
	GuideX *float64
	GuideY *float64
	Scale  float64
}

// ResizeMove scales the whole selection uniformly about the top-left of its
// bounding box. The pointer delta implies a scale per axis; the dominant
// axis wins and a single scale is applied to both, preserving each block's
// own aspect ratio. The scale is clamped to the page (maxScale) and the
// smallest member's minimum size (minScale) before the snap search runs;
// snapping evaluates candidate scales that would land a bounds edge or
// center exactly on another block's anchor.
func ResizeMove(layout *domain.PageSideLayout, s *GestureSession, dxPx, dyPx float64) ResizeResult {
	origins := liveOrigins(layout, s)
	if len(origins) == 0 {
		return ResizeResult{}
	}
	b := s.Bounds
	if b.W <= 0 || b.H <= 0 {
		return ResizeResult{}
	}

	scaleX := (b.W + dxPx/s.CanvasW) / b.W
	scaleY := (b.H + dyPx/s.CanvasH) / b.H
	desired := scaleY
	if math.Abs(scaleX-1) >= math.Abs(scaleY-1) {
		desired = scaleX
	}

	minScale, maxScale := scaleBounds(b, origins)
	desired = clamp(desired, minScale, maxScale)

	scale, guideX, guideY := snapScale(layout, s, b, desired, minScale, maxScale)

	out := layout.Clone()
	for i := range out.Blocks {
		o, ok := origins[out.Blocks[i].ID]
		if !ok {
			continue
		}
		blk := &out.Blocks[i]
		blk.X = clamp(b.X+(o.X-b.X)*scale, 0, 1)
		blk.Y = clamp(b.Y+(o.Y-b.Y)*scale, 0, 1)
		blk.W = clamp(o.W*scale, MinInteractiveSize, 1-blk.X)
		blk.H = clamp(o.H*scale, MinInteractiveSize, 1-blk.Y)
		blk.AspectRatio = NormalizeAspectRatio(blk.W/blk.H, 1)
	}
	return ResizeResult{Layout: out, GuideX: guideX, GuideY: guideY, Scale: scale}
}

// scaleBounds derives the clamp range for the uniform scale: maxScale from
// how far the bounds can grow before hitting the page edge, minScale from
// the smallest selected block reaching the minimum interactive size.
func scaleBounds(b Rect, origins map[string]Rect) (minScale, maxScale float64) {
	maxScale = math.Min((1-b.X)/b.W, (1-b.Y)/b.H)
	minScale = 0
	for _, o := range origins {
		if o.W > 0 {
			minScale = math.Max(minScale, MinInteractiveSize/o.W)
		}
		if o.H > 0 {
			minScale = math.Max(minScale, MinInteractiveSize/o.H)
		}
	}
	if minScale > maxScale {
		minScale = maxScale
	}
	return minScale, maxScale
}

// snapScale searches candidate scales inferred from aligning the bounds'
// right/bottom edge or center with an unselected anchor, and keeps the one
// whose snapped anchor sits closest to where the desired scale would put
// it, provided that distance is within the axis threshold.
func snapScale(layout *domain.PageSideLayout, s *GestureSession, b Rect, desired, minScale, maxScale float64) (scale float64, guideX, guideY *float64) {
	targetsX, targetsY := targetAnchors(layout, s.selected)

	scale = desired
	bestDist := math.Inf(1)

	consider := func(cand, dist, target, threshold float64, horizontal bool) {
		if cand < minScale || cand > maxScale {
			return
		}
		if dist > threshold || dist >= bestDist {
			return
		}
		bestDist = dist
		scale = cand
		g := target
		if horizontal {
			guideX, guideY = &g, nil
		} else {
			guideX, guideY = nil, &g
		}
	}

	for _, t := range targetsX {
		// Right edge: b.X + b.W*scale == t
		cand := (t - b.X) / b.W
		consider(cand, math.Abs(t-(b.X+b.W*desired)), t, s.thresholdX(), true)
		// Center: b.X + b.W*scale/2 == t
		cand = 2 * (t - b.X) / b.W
		consider(cand, math.Abs(t-(b.X+b.W*desired/2)), t, s.thresholdX(), true)
	}
	for _, t := range targetsY {
		cand := (t - b.Y) / b.H
		consider(cand, math.Abs(t-(b.Y+b.H*desired)), t, s.thresholdY(), false)
		cand = 2 * (t - b.Y) / b.H
		consider(cand, math.Abs(t-(b.Y+b.H*desired/2)), t, s.thresholdY(), false)
	}
	return scale, guideX, guideY
}
