package geometry

import (
	"math"

	"pageforge/internal/domain"
)

// Edge names one of the four edge handles of a block.
type Edge string

const (
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// KnownEdge reports whether e is a valid edge handle.
func KnownEdge(e Edge) bool {
	switch e {
	case EdgeLeft, EdgeRight, EdgeTop, EdgeBottom:
		return true
	}
	return false
}

// CropEdgeResult is the candidate layout after one edge move. Guide is on
// the dragged axis only.
type CropEdgeResult struct {
	Layout *domain.PageSideLayout
	Guide  *float64
}

// CropEdgeMove drags one edge handle of one block. Croppable blocks (image,
// croppable vector) change the crop fraction on that edge and re-solve their
// displayed rectangle from the cropped aspect ratio; everything else plain-
// resizes the edge. A block deleted mid-gesture yields a no-op.
func CropEdgeMove(layout *domain.PageSideLayout, s *GestureSession, id string, edge Edge, dxPx, dyPx float64) CropEdgeResult {
	o, ok := s.Origins[id]
	if !ok || !KnownEdge(edge) {
		return CropEdgeResult{}
	}
	if layout.BlockByID(id) == nil {
		return CropEdgeResult{}
	}

	out := layout.Clone()
	blk := out.BlockByID(id)

	var guide *float64
	if croppable(blk) {
		guide = cropEdge(out, s, blk, o, edge, dxPx, dyPx)
	} else {
		guide = plainResizeEdge(out, s, blk, o, edge, dxPx, dyPx)
	}
	return CropEdgeResult{Layout: out, Guide: guide}
}

// plainResizeEdge moves one edge of the box, holding the opposite edge
// fixed, keeping the block on-page and above the minimum size, and snapping
// the dragged edge to the unselected blocks' anchors.
func plainResizeEdge(layout *domain.PageSideLayout, s *GestureSession, blk *domain.Block, o Rect, edge Edge, dxPx, dyPx float64) *float64 {
	targetsX, targetsY := targetAnchors(layout, s.selected)

	var guide *float64
	switch edge {
	case EdgeRight:
		p := clamp(o.Right()+dxPx/s.CanvasW, o.X+MinInteractiveSize, 1)
		snap := SolveAxis([]float64{p}, targetsX, s.thresholdX())
		p = clamp(p+snap.Offset, o.X+MinInteractiveSize, 1)
		blk.W = p - o.X
		guide = snap.Guide
	case EdgeLeft:
		p := clamp(o.X+dxPx/s.CanvasW, 0, o.Right()-MinInteractiveSize)
		snap := SolveAxis([]float64{p}, targetsX, s.thresholdX())
		p = clamp(p+snap.Offset, 0, o.Right()-MinInteractiveSize)
		blk.X = p
		blk.W = o.Right() - p
		guide = snap.Guide
	case EdgeBottom:
		p := clamp(o.Bottom()+dyPx/s.CanvasH, o.Y+MinInteractiveSize, 1)
		snap := SolveAxis([]float64{p}, targetsY, s.thresholdY())
		p = clamp(p+snap.Offset, o.Y+MinInteractiveSize, 1)
		blk.H = p - o.Y
		guide = snap.Guide
	case EdgeTop:
		p := clamp(o.Y+dyPx/s.CanvasH, 0, o.Bottom()-MinInteractiveSize)
		snap := SolveAxis([]float64{p}, targetsY, s.thresholdY())
		p = clamp(p+snap.Offset, 0, o.Bottom()-MinInteractiveSize)
		blk.Y = p
		blk.H = o.Bottom() - p
		guide = snap.Guide
	}
	blk.AspectRatio = NormalizeAspectRatio(blk.W/blk.H, 1)
	return guide
}

// cropEdge updates the crop fraction on the dragged edge and recomputes the
// displayed rectangle from the cropped aspect ratio, holding the opposite
// edge and the other dimension fixed.
//
// With the uncropped base ratio R and the crop c, the displayed box obeys
// w = R·mult(c)·h. Dragging a horizontal edge leaves the vertical crop
// untouched, so w is linear in the remaining width ratio:
//
//	w(r) = K·(1−left−r), K = R·h/heightRatio
//
// which gives a closed form for the crop fraction that lands the edge (or
// center) exactly on a snap target. The vertical case is symmetric with
// Ky = w/(R·widthRatio).
func cropEdge(layout *domain.PageSideLayout, s *GestureSession, blk *domain.Block, o Rect, edge Edge, dxPx, dyPx float64) *float64 {
	c0 := s.OriginCrops[blk.ID]
	var crop domain.VisualCrop
	if c0 != nil {
		crop = *c0
	}
	remW0, remH0 := CropRemainingRatios(&crop)
	base := DeriveCropBaseAspectRatio(o.W/o.H, &crop)
	targetsX, targetsY := targetAnchors(layout, s.selected)

	var guide *float64
	switch edge {
	case EdgeRight, EdgeLeft:
		k := base * o.H / remH0
		if k <= 0 || !finite(k) {
			return nil
		}
		df := dxPx / (o.W * s.CanvasW) * remW0
		if edge == EdgeRight {
			raw := clampCropFraction(crop.Right - df)
			raw = math.Min(raw, MaxVisualCropPerSide-crop.Left)
			frac, g := snapCropX(s, o, crop.Left, raw, k, targetsX, edge)
			crop.Right = frac
			guide = g
		} else {
			raw := clampCropFraction(crop.Left + df)
			raw = math.Min(raw, MaxVisualCropPerSide-crop.Right)
			frac, g := snapCropX(s, o, crop.Right, raw, k, targetsX, edge)
			crop.Left = frac
			guide = g
		}
		w := k * (1 - crop.Left - crop.Right)
		if edge == EdgeRight {
			blk.W = clamp(w, MinInteractiveSize, 1-o.X)
			blk.X = o.X
		} else {
			blk.W = clamp(w, MinInteractiveSize, o.Right())
			blk.X = o.Right() - blk.W
		}
		blk.H = o.H
		blk.Y = o.Y
	case EdgeBottom, EdgeTop:
		ky := o.W / (base * remW0)
		if ky <= 0 || !finite(ky) {
			return nil
		}
		df := dyPx / (o.H * s.CanvasH) * remH0
		if edge == EdgeBottom {
			raw := clampCropFraction(crop.Bottom - df)
			raw = math.Min(raw, MaxVisualCropPerSide-crop.Top)
			frac, g := snapCropY(s, o, crop.Top, raw, ky, targetsY, edge)
			crop.Bottom = frac
			guide = g
		} else {
			raw := clampCropFraction(crop.Top + df)
			raw = math.Min(raw, MaxVisualCropPerSide-crop.Bottom)
			frac, g := snapCropY(s, o, crop.Bottom, raw, ky, targetsY, edge)
			crop.Top = frac
			guide = g
		}
		h := ky * (1 - crop.Top - crop.Bottom)
		if edge == EdgeBottom {
			blk.H = clamp(h, MinInteractiveSize, 1-o.Y)
			blk.Y = o.Y
		} else {
			blk.H = clamp(h, MinInteractiveSize, o.Bottom())
			blk.Y = o.Bottom() - blk.H
		}
		blk.W = o.W
		blk.X = o.X
	}

	blk.AspectRatio = NormalizeAspectRatio(blk.W/blk.H, 1)
	setBlockCrop(blk, &crop)
	return guide
}

// snapCropX solves, per snap target, the crop fraction that would place the
// dragged edge or the block center exactly on that target, then keeps the
// candidate whose pull from the unsnapped position is smallest and within
// threshold. other is the fixed fraction on the opposite side of the axis.
func snapCropX(s *GestureSession, o Rect, other, raw float64, k float64, targets []float64, edge Edge) (float64, *float64) {
	// Anchor positions as a function of the fraction being dragged.
	edgePos := func(f float64) float64 { return o.X + k*(1-other-f) } // right edge
	fracFor := func(t float64) float64 { return 1 - other - (t-o.X)/k }
	centerFor := func(t float64) float64 { return 1 - other - 2*(t-o.X)/k }
	if edge == EdgeLeft {
		edgePos = func(f float64) float64 { return o.Right() - k*(1-other-f) }
		fracFor = func(t float64) float64 { return 1 - other - (o.Right()-t)/k }
		centerFor = func(t float64) float64 { return 1 - other - 2*(o.Right()-t)/k }
	}
	centerPos := func(f float64) float64 {
		if edge == EdgeLeft {
			return o.Right() - k*(1-other-f)/2
		}
		return o.X + k*(1-other-f)/2
	}
	return pickCropCandidate(raw, other, s.thresholdX(), targets, edgePos, centerPos, fracFor, centerFor)
}

// snapCropY mirrors snapCropX for the vertical axis with ky.
func snapCropY(s *GestureSession, o Rect, other, raw float64, ky float64, targets []float64, edge Edge) (float64, *float64) {
	edgePos := func(f float64) float64 { return o.Y + ky*(1-other-f) } // bottom edge
	fracFor := func(t float64) float64 { return 1 - other - (t-o.Y)/ky }
	centerFor := func(t float64) float64 { return 1 - other - 2*(t-o.Y)/ky }
	if edge == EdgeTop {
		edgePos = func(f float64) float64 { return o.Bottom() - ky*(1-other-f) }
		fracFor = func(t float64) float64 { return 1 - other - (o.Bottom()-t)/ky }
		centerFor = func(t float64) float64 { return 1 - other - 2*(o.Bottom()-t)/ky }
	}
	centerPos := func(f float64) float64 {
		if edge == EdgeTop {
			return o.Bottom() - ky*(1-other-f)/2
		}
		return o.Y + ky*(1-other-f)/2
	}
	return pickCropCandidate(raw, other, s.thresholdY(), targets, edgePos, centerPos, fracFor, centerFor)
}

// pickCropCandidate evaluates the analytic crop solutions for every target
// and both anchor kinds, keeping the closest valid one within threshold.
// When none qualifies the unsnapped fraction stands.
func pickCropCandidate(raw, other, threshold float64, targets []float64,
	edgePos, centerPos func(float64) float64,
	fracFor, centerFor func(float64) float64) (float64, *float64) {

	best := raw
	var guide *float64
	bestDist := math.Inf(1)

	validFrac := func(f float64) bool {
		return finite(f) && f >= 0 && f <= MaxVisualCropPerSide && other+f <= MaxVisualCropPerSide
	}
	consider := func(cand, dist, target float64) {
		if !validFrac(cand) || dist > threshold || dist >= bestDist {
			return
		}
		bestDist = dist
		best = cand
		g := target
		guide = &g
	}

	for _, t := range targets {
		consider(fracFor(t), math.Abs(t-edgePos(raw)), t)
		consider(centerFor(t), math.Abs(t-centerPos(raw)), t)
	}
	return best, guide
}
