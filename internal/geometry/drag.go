package geometry

import (
	"math"

	"pageforge/internal/domain"
)

// DragResult is the candidate layout after one drag move, plus the
// alignment guidelines to render. A nil Layout means the gesture no longer
// references any live block and the move is a no-op.
type DragResult struct {
	Layout *domain.PageSideLayout
	GuideX *float64
	GuideY *float64
}

// DragMove translates the whole selection rigidly by the pointer delta
// given in canvas pixels. The shared delta is clamped so the most
// constrained member stays on the page, snapped against the unselected
// blocks' anchors, and re-clamped so snapping cannot push anything off the
// page. Every selected block moves by the identical final delta.
func DragMove(layout *domain.PageSideLayout, s *GestureSession, dxPx, dyPx float64) DragResult {
	origins := liveOrigins(layout, s)
	if len(origins) == 0 {
		return DragResult{}
	}

	dx := dxPx / s.CanvasW
	dy := dyPx / s.CanvasH

	minDx, maxDx, minDy, maxDy := groupDeltaBounds(origins)
	dx = clamp(dx, minDx, maxDx)
	dy = clamp(dy, minDy, maxDy)

	// Moving anchors at the clamped proposed position.
	var movingX, movingY []float64
	for _, o := range origins {
		moved := Rect{X: o.X + dx, Y: o.Y + dy, W: o.W, H: o.H}
		ax := rectAnchorsX(moved)
		ay := rectAnchorsY(moved)
		movingX = append(movingX, ax[:]...)
		movingY = append(movingY, ay[:]...)
	}
	targetsX, targetsY := targetAnchors(layout, s.selected)

	snapX := SolveAxis(movingX, targetsX, s.thresholdX())
	snapY := SolveAxis(movingY, targetsY, s.thresholdY())

	dx = clamp(dx+snapX.Offset, minDx, maxDx)
	dy = clamp(dy+snapY.Offset, minDy, maxDy)

	out := layout.Clone()
	for i := range out.Blocks {
		o, ok := origins[out.Blocks[i].ID]
		if !ok {
			continue
		}
		out.Blocks[i].X = o.X + dx
		out.Blocks[i].Y = o.Y + dy
	}
	return DragResult{Layout: out, GuideX: snapX.Guide, GuideY: snapY.Guide}
}

// liveOrigins returns the session origins whose blocks still exist in the
// layout. A block deleted mid-gesture simply drops out of the move.
func liveOrigins(layout *domain.PageSideLayout, s *GestureSession) map[string]Rect {
	live := make(map[string]Rect, len(s.Origins))
	for id, o := range s.Origins {
		if layout.BlockByID(id) != nil {
			live[id] = o
		}
	}
	return live
}

// groupDeltaBounds computes the tightest shared delta range keeping every
// origin box inside [0,1] on both axes.
func groupDeltaBounds(origins map[string]Rect) (minDx, maxDx, minDy, maxDy float64) {
	minDx, minDy = math.Inf(-1), math.Inf(-1)
	maxDx, maxDy = math.Inf(1), math.Inf(1)
	for _, o := range origins {
		minDx = math.Max(minDx, -o.X)
		maxDx = math.Min(maxDx, 1-o.Right())
		minDy = math.Max(minDy, -o.Y)
		maxDy = math.Min(maxDy, 1-o.Bottom())
	}
	if maxDx < minDx {
		maxDx = minDx
	}
	if maxDy < minDy {
		maxDy = minDy
	}
	return minDx, maxDx, minDy, maxDy
}
