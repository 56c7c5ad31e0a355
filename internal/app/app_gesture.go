package app

import (
	"fmt"

	"pageforge/internal/domain"
	"pageforge/internal/geometry"
)

// ─────────────────────────────────────────────────────────────
// Gesture bindings
// ─────────────────────────────────────────────────────────────
//
// A gesture is pointer-down → moves → pointer-up. Pointer-down snapshots the
// selection's origin geometry; every move recomputes its candidate from that
// snapshot and the accumulated delta, so moves are idempotent and replayable.
// Nothing persists until EndGesture commits the last candidate.

// GestureUpdate is what the frontend paints after each pointer-move.
type GestureUpdate struct {
	Layout *domain.PageSideLayout `json:"layout"`
	GuideX *float64               `json:"guideX,omitempty"`
	GuideY *float64               `json:"guideY,omitempty"`
	Scale  float64                `json:"scale,omitempty"`
}

// BeginGesture captures the origin snapshot for the selected blocks.
// canvasW/canvasH are the rendered page size in pixels; thresholdPx <= 0
// falls back to the configured snap threshold.
func (a *App) BeginGesture(bookKey string, pageIndex int, side string, blockIDs []string, canvasW, canvasH, thresholdPx float64) (bool, error) {
	key := layoutKey(bookKey, pageIndex, side)
	layout, err := a.layouts.Load(key)
	if err != nil {
		return false, err
	}
	if thresholdPx <= 0 {
		thresholdPx = a.cfg.Snap.ThresholdPx
	}

	session, ok := geometry.NewGestureSession(layout, blockIDs, canvasW, canvasH, thresholdPx)
	if !ok {
		return false, nil
	}

	a.gestureMu.Lock()
	a.gesture = &gestureState{key: key, session: session, origin: layout}
	a.gestureMu.Unlock()
	return true, nil
}

// DragMove translates the whole selection rigidly by the pointer delta.
func (a *App) DragMove(dxPx, dyPx float64) (*GestureUpdate, error) {
	a.gestureMu.Lock()
	defer a.gestureMu.Unlock()
	g := a.gesture
	if g == nil {
		return nil, fmt.Errorf("no active gesture")
	}

	res := geometry.DragMove(g.origin, g.session, dxPx, dyPx)
	if res.Layout == nil {
		return &GestureUpdate{Layout: g.origin}, nil
	}
	g.candidate = res.Layout
	return &GestureUpdate{Layout: res.Layout, GuideX: res.GuideX, GuideY: res.GuideY}, nil
}

// ResizeMove scales the selection uniformly about its bounding box origin.
func (a *App) ResizeMove(dxPx, dyPx float64) (*GestureUpdate, error) {
	a.gestureMu.Lock()
	defer a.gestureMu.Unlock()
	g := a.gesture
	if g == nil {
		return nil, fmt.Errorf("no active gesture")
	}

	res := geometry.ResizeMove(g.origin, g.session, dxPx, dyPx)
	if res.Layout == nil {
		return &GestureUpdate{Layout: g.origin}, nil
	}
	g.candidate = res.Layout
	return &GestureUpdate{Layout: res.Layout, GuideX: res.GuideX, GuideY: res.GuideY, Scale: res.Scale}, nil
}

// CropEdgeMove drags one edge handle of one block: croppable blocks crop,
// everything else resizes that edge.
func (a *App) CropEdgeMove(blockID, edge string, dxPx, dyPx float64) (*GestureUpdate, error) {
	a.gestureMu.Lock()
	defer a.gestureMu.Unlock()
	g := a.gesture
	if g == nil {
		return nil, fmt.Errorf("no active gesture")
	}

	res := geometry.CropEdgeMove(g.origin, g.session, blockID, geometry.Edge(edge), dxPx, dyPx)
	if res.Layout == nil {
		return &GestureUpdate{Layout: g.origin}, nil
	}
	g.candidate = res.Layout

	update := &GestureUpdate{Layout: res.Layout}
	switch geometry.Edge(edge) {
	case geometry.EdgeLeft, geometry.EdgeRight:
		update.GuideX = res.Guide
	case geometry.EdgeTop, geometry.EdgeBottom:
		update.GuideY = res.Guide
	}
	return update, nil
}

// EndGesture closes the gesture. With commit set, the last candidate is
// validated and persisted; otherwise the origin layout stands.
func (a *App) EndGesture(commit bool) (*domain.PageSideLayout, error) {
	a.gestureMu.Lock()
	g := a.gesture
	a.gesture = nil
	a.gestureMu.Unlock()

	if g == nil {
		return nil, fmt.Errorf("no active gesture")
	}
	if !commit || g.candidate == nil {
		return g.origin, nil
	}
	return a.layouts.Commit(a.ctx, g.key, g.candidate)
}
