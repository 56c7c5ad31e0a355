package geometry

import (
	"math"
	"testing"

	"pageforge/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// DragEngine tests
// ─────────────────────────────────────────────────────────────

func imageBlock(id string, x, y, w, h float64) domain.Block {
	return domain.Block{
		ID: id, Type: domain.BlockTypeImage,
		X: x, Y: y, W: w, H: h,
		AspectRatio: w / h,
		Image:       &domain.ImagePayload{ObjectFit: "cover"},
	}
}

func TestDragMove_SnapsToNeighborEdge(t *testing.T) {
	// One image block dragged right by 0.02 normalized units on a 600px
	// canvas; another block's left edge sits at x=0.42 and the threshold
	// is 0.02 normalized. The moved block's right edge (0.12+0.3=0.42)
	// aligns, so x lands at 0.42-0.3=0.12 with a guideline at 0.42.
	layout := &domain.PageSideLayout{Blocks: []domain.Block{
		imageBlock("moving", 0.1, 0.1, 0.3, 0.2),
		imageBlock("anchor", 0.42, 0.6, 0.2, 0.2),
	}}
	s, ok := NewGestureSession(layout, []string{"moving"}, 600, 600, 0.02*600)
	if !ok {
		t.Fatal("expected session")
	}

	res := DragMove(layout, s, 0.02*600, 0)
	if res.Layout == nil {
		t.Fatal("expected candidate layout")
	}
	moved := res.Layout.BlockByID("moving")
	if math.Abs(moved.X-0.12) > 1e-9 {
		t.Errorf("x: got %v, expected 0.12", moved.X)
	}
	if res.GuideX == nil || math.Abs(*res.GuideX-0.42) > 1e-9 {
		t.Errorf("guideX: got %v, expected 0.42", res.GuideX)
	}
	if moved.Y != 0.1 {
		t.Errorf("y should be unchanged, got %v", moved.Y)
	}
}

func TestDragMove_RigidGroup(t *testing.T) {
	layout := &domain.PageSideLayout{Blocks: []domain.Block{
		imageBlock("a", 0.1, 0.1, 0.2, 0.1),
		imageBlock("b", 0.5, 0.4, 0.2, 0.2),
		imageBlock("other", 0.05, 0.8, 0.1, 0.1),
	}}
	s, _ := NewGestureSession(layout, []string{"a", "b"}, 1000, 1000, DefaultSnapThresholdPx)

	res := DragMove(layout, s, 130, -70)
	a := res.Layout.BlockByID("a")
	b := res.Layout.BlockByID("b")
	dxA, dyA := a.X-0.1, a.Y-0.1
	dxB, dyB := b.X-0.5, b.Y-0.4
	if math.Abs(dxA-dxB) > 1e-12 || math.Abs(dyA-dyB) > 1e-12 {
		t.Errorf("group not rigid: a moved (%v,%v), b moved (%v,%v)", dxA, dyA, dxB, dyB)
	}
	if res.Layout.BlockByID("other").X != 0.05 {
		t.Error("unselected block must not move")
	}
}

func TestDragMove_GroupClampedByMostConstrainedMember(t *testing.T) {
	// Block b's right edge is already at 0.9; a drag of +0.5 must stop the
	// whole group at +0.1 so b stays on the page.
	layout := &domain.PageSideLayout{Blocks: []domain.Block{
		imageBlock("a", 0.1, 0.1, 0.2, 0.2),
		imageBlock("b", 0.6, 0.1, 0.3, 0.2),
	}}
	s, _ := NewGestureSession(layout, []string{"a", "b"}, 1000, 1000, DefaultSnapThresholdPx)

	res := DragMove(layout, s, 500, 0)
	a := res.Layout.BlockByID("a")
	b := res.Layout.BlockByID("b")
	if math.Abs(b.X+b.W-1) > 1e-9 {
		t.Errorf("constrained member should touch page edge, right=%v", b.X+b.W)
	}
	if math.Abs(a.X-0.2) > 1e-9 {
		t.Errorf("a.x: got %v, expected 0.2", a.X)
	}

	// And past the left edge in the other direction.
	res = DragMove(layout, s, -500, -500)
	a = res.Layout.BlockByID("a")
	if a.X != 0 || a.Y != 0 {
		t.Errorf("expected a pinned at origin, got (%v,%v)", a.X, a.Y)
	}
}

func TestDragMove_SnapCannotLeavePage(t *testing.T) {
	// The only snap target sits beyond the page-bound delta; after snapping
	// the delta is re-clamped, so the block must still be on the page.
	layout := &domain.PageSideLayout{Blocks: []domain.Block{
		imageBlock("m", 0.65, 0.1, 0.3, 0.2),
		imageBlock("t", 0.5, 0.7, 0.205, 0.1),
	}}
	s, _ := NewGestureSession(layout, []string{"m"}, 1000, 1000, 20)

	res := DragMove(layout, s, 60, 0)
	m := res.Layout.BlockByID("m")
	if m.X+m.W > 1+1e-9 {
		t.Errorf("snap pushed block off page: right=%v", m.X+m.W)
	}
}

func TestDragMove_DeletedBlockIsNoop(t *testing.T) {
	layout := &domain.PageSideLayout{Blocks: []domain.Block{
		imageBlock("m", 0.1, 0.1, 0.2, 0.2),
	}}
	s, _ := NewGestureSession(layout, []string{"m"}, 1000, 1000, DefaultSnapThresholdPx)

	// Block vanishes mid-gesture (deleted by another session event).
	empty := &domain.PageSideLayout{}
	res := DragMove(empty, s, 50, 50)
	if res.Layout != nil {
		t.Error("expected no-op for a gesture whose blocks are gone")
	}
}

func TestDragMove_InvariantClosure(t *testing.T) {
	layout := &domain.PageSideLayout{Blocks: []domain.Block{
		imageBlock("a", 0.0, 0.0, 0.3, 0.3),
		imageBlock("b", 0.7, 0.7, 0.3, 0.3),
		imageBlock("c", 0.4, 0.4, 0.2, 0.2),
	}}
	s, _ := NewGestureSession(layout, []string{"a", "b"}, 800, 800, DefaultSnapThresholdPx)

	for _, d := range []struct{ dx, dy float64 }{{1e6, 1e6}, {-1e6, -1e6}, {37, -23}, {0, 0}} {
		res := DragMove(layout, s, d.dx, d.dy)
		if res.Layout == nil {
			t.Fatalf("unexpected no-op for delta %+v", d)
		}
		for _, b := range res.Layout.Blocks {
			assertBlockInvariants(t, b)
		}
	}
}
