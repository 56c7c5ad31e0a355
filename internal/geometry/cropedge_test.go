package geometry

import (
	"math"
	"testing"

	"pageforge/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// CropEdgeEngine tests
//
// The inverse-crop algebra is exercised edge by edge: for an uncropped
// square block {0.2,0.2,0.4,0.4} the base ratio is 1 and the dragged-axis
// dimension is linear in the remaining ratio with slope K=0.4.
// ─────────────────────────────────────────────────────────────

func textBlock(id string, x, y, w, h float64) domain.Block {
	return domain.Block{
		ID: id, Type: domain.BlockTypeText,
		X: x, Y: y, W: w, H: h,
		AspectRatio: w / h,
		Text:        &domain.TextPayload{FontSize: 16, FontWeight: 400, LineHeight: 1.4},
	}
}

func squareImage(id string) domain.Block { return imageBlock(id, 0.2, 0.2, 0.4, 0.4) }

func cropOf(t *testing.T, l *domain.PageSideLayout, id string) *domain.VisualCrop {
	t.Helper()
	b := l.BlockByID(id)
	if b == nil || b.Image == nil {
		t.Fatalf("missing image block %q", id)
	}
	return b.Image.Crop
}

func TestCropEdgeMove_RightEdgeCropsInward(t *testing.T) {
	layout := &domain.PageSideLayout{Blocks: []domain.Block{squareImage("img")}}
	s, _ := NewGestureSession(layout, []string{"img"}, 1000, 1000, 1)

	// dx=-20px on a 400px-wide block: fraction delta 0.05 on the right.
	res := CropEdgeMove(layout, s, "img", EdgeRight, -20, 0)
	b := res.Layout.BlockByID("img")
	c := cropOf(t, res.Layout, "img")
	if c == nil || math.Abs(c.Right-0.05) > 1e-12 {
		t.Fatalf("crop right: got %+v, expected 0.05", c)
	}
	// w = K*(1-r) with K=0.4.
	if math.Abs(b.W-0.4*0.95) > 1e-12 {
		t.Errorf("w: got %v, expected %v", b.W, 0.4*0.95)
	}
	if b.X != 0.2 || b.Y != 0.2 || b.H != 0.4 {
		t.Errorf("left edge and height must stay fixed, got %+v", b)
	}
}

func TestCropEdgeMove_LeftEdgeHoldsRightEdgeFixed(t *testing.T) {
	layout := &domain.PageSideLayout{Blocks: []domain.Block{squareImage("img")}}
	s, _ := NewGestureSession(layout, []string{"img"}, 1000, 1000, 1)

	res := CropEdgeMove(layout, s, "img", EdgeLeft, 40, 0) // fraction +0.1
	b := res.Layout.BlockByID("img")
	c := cropOf(t, res.Layout, "img")
	if c == nil || math.Abs(c.Left-0.1) > 1e-12 {
		t.Fatalf("crop left: got %+v, expected 0.1", c)
	}
	if math.Abs(b.W-0.36) > 1e-12 {
		t.Errorf("w: got %v, expected 0.36", b.W)
	}
	if math.Abs(b.X+b.W-0.6) > 1e-12 {
		t.Errorf("right edge moved: got %v, expected 0.6", b.X+b.W)
	}
}

func TestCropEdgeMove_TopEdgeHoldsBottomEdgeFixed(t *testing.T) {
	layout := &domain.PageSideLayout{Blocks: []domain.Block{squareImage("img")}}
	s, _ := NewGestureSession(layout, []string{"img"}, 1000, 1000, 1)

	res := CropEdgeMove(layout, s, "img", EdgeTop, 0, 40) // fraction +0.1
	b := res.Layout.BlockByID("img")
	c := cropOf(t, res.Layout, "img")
	if c == nil || math.Abs(c.Top-0.1) > 1e-12 {
		t.Fatalf("crop top: got %+v, expected 0.1", c)
	}
	if math.Abs(b.H-0.36) > 1e-12 {
		t.Errorf("h: got %v, expected 0.36", b.H)
	}
	if math.Abs(b.Y+b.H-0.6) > 1e-12 {
		t.Errorf("bottom edge moved: got %v, expected 0.6", b.Y+b.H)
	}
	if b.X != 0.2 || b.W != 0.4 {
		t.Errorf("width must stay fixed, got %+v", b)
	}
}

func TestCropEdgeMove_BottomEdgeCropsInward(t *testing.T) {
	layout := &domain.PageSideLayout{Blocks: []domain.Block{squareImage("img")}}
	s, _ := NewGestureSession(layout, []string{"img"}, 1000, 1000, 1)

	res := CropEdgeMove(layout, s, "img", EdgeBottom, 0, -40)
	b := res.Layout.BlockByID("img")
	c := cropOf(t, res.Layout, "img")
	if c == nil || math.Abs(c.Bottom-0.1) > 1e-12 {
		t.Fatalf("crop bottom: got %+v, expected 0.1", c)
	}
	if b.Y != 0.2 {
		t.Errorf("top edge moved: %v", b.Y)
	}
	if math.Abs(b.H-0.36) > 1e-12 {
		t.Errorf("h: got %v, expected 0.36", b.H)
	}
}

func TestCropEdgeMove_LinearFeelWithExistingCrop(t *testing.T) {
	// With half the source already cropped away on X, the same pixel delta
	// produces half the fraction delta, so dragging feels linear on screen.
	img := squareImage("img")
	img.Image.Crop = &domain.VisualCrop{Left: 0.5}
	img.AspectRatio = img.W / img.H
	layout := &domain.PageSideLayout{Blocks: []domain.Block{img}}
	s, _ := NewGestureSession(layout, []string{"img"}, 1000, 1000, 1)

	res := CropEdgeMove(layout, s, "img", EdgeRight, -20, 0)
	c := cropOf(t, res.Layout, "img")
	// remaining ratio 0.5: -20px / 400px * 0.5 = 0.025.
	if c == nil || math.Abs(c.Right-0.025) > 1e-12 {
		t.Fatalf("crop right: got %+v, expected 0.025", c)
	}
}

func TestCropEdgeMove_FractionCappedAgainstOpposite(t *testing.T) {
	img := squareImage("img")
	img.Image.Crop = &domain.VisualCrop{Left: 0.5}
	layout := &domain.PageSideLayout{Blocks: []domain.Block{img}}
	s, _ := NewGestureSession(layout, []string{"img"}, 1000, 1000, 1)

	// A huge inward drag cannot push left+right past 0.95.
	res := CropEdgeMove(layout, s, "img", EdgeRight, -10000, 0)
	c := cropOf(t, res.Layout, "img")
	if c == nil || c.Left+c.Right > MaxVisualCropPerSide+1e-9 {
		t.Fatalf("crop sum exceeds cap: %+v", c)
	}
	if math.Abs(c.Right-(MaxVisualCropPerSide-0.5)) > 1e-9 {
		t.Errorf("crop right: got %v, expected %v", c.Right, MaxVisualCropPerSide-0.5)
	}
}

func TestCropEdgeMove_SnapSolvesCropForTarget(t *testing.T) {
	// The anchor's left edge at 0.55 implies, in closed form, a right-crop
	// of r = 1-(0.55-0.2)/0.4 = 0.125. The unsnapped drag lands the edge at
	// 0.58, distance 0.03 within the 0.04 threshold.
	layout := &domain.PageSideLayout{Blocks: []domain.Block{
		squareImage("img"),
		imageBlock("anchor", 0.55, 0.75, 0.2, 0.2),
	}}
	s, _ := NewGestureSession(layout, []string{"img"}, 1000, 1000, 40)

	res := CropEdgeMove(layout, s, "img", EdgeRight, -20, 0)
	b := res.Layout.BlockByID("img")
	c := cropOf(t, res.Layout, "img")
	if c == nil || math.Abs(c.Right-0.125) > 1e-9 {
		t.Fatalf("crop right: got %+v, expected solved 0.125", c)
	}
	if math.Abs(b.X+b.W-0.55) > 1e-9 {
		t.Errorf("right edge: got %v, expected snapped 0.55", b.X+b.W)
	}
	if res.Guide == nil || math.Abs(*res.Guide-0.55) > 1e-9 {
		t.Errorf("guide: got %v, expected 0.55", res.Guide)
	}
}

func TestCropEdgeMove_NoSnapOutsideThreshold(t *testing.T) {
	layout := &domain.PageSideLayout{Blocks: []domain.Block{
		squareImage("img"),
		imageBlock("anchor", 0.55, 0.75, 0.2, 0.2),
	}}
	s, _ := NewGestureSession(layout, []string{"img"}, 1000, 1000, 10)

	res := CropEdgeMove(layout, s, "img", EdgeRight, -20, 0)
	c := cropOf(t, res.Layout, "img")
	if c == nil || math.Abs(c.Right-0.05) > 1e-12 {
		t.Errorf("unsnapped crop should stand: %+v", c)
	}
	if res.Guide != nil {
		t.Errorf("expected no guide, got %v", *res.Guide)
	}
}

func TestCropEdgeMove_TextBlockPlainResizes(t *testing.T) {
	layout := &domain.PageSideLayout{Blocks: []domain.Block{
		textBlock("txt", 0.2, 0.2, 0.4, 0.2),
	}}
	s, _ := NewGestureSession(layout, []string{"txt"}, 1000, 1000, 1)

	res := CropEdgeMove(layout, s, "txt", EdgeRight, 100, 0)
	b := res.Layout.BlockByID("txt")
	if math.Abs(b.W-0.5) > 1e-12 || b.X != 0.2 {
		t.Errorf("got x=%v w=%v, expected x=0.2 w=0.5", b.X, b.W)
	}
	if math.Abs(b.AspectRatio-2.5) > 1e-12 {
		t.Errorf("aspect: got %v, expected 2.5", b.AspectRatio)
	}

	// Shrinking stops at the minimum size with the opposite edge fixed.
	res = CropEdgeMove(layout, s, "txt", EdgeLeft, 10000, 0)
	b = res.Layout.BlockByID("txt")
	if math.Abs(b.W-MinInteractiveSize) > 1e-12 {
		t.Errorf("w: got %v, expected min %v", b.W, MinInteractiveSize)
	}
	if math.Abs(b.X+b.W-0.6) > 1e-12 {
		t.Errorf("right edge moved during left-edge resize: %v", b.X+b.W)
	}
}

func TestCropEdgeMove_TextEdgeSnaps(t *testing.T) {
	layout := &domain.PageSideLayout{Blocks: []domain.Block{
		textBlock("txt", 0.2, 0.2, 0.4, 0.2),
		imageBlock("anchor", 0.65, 0.75, 0.2, 0.2),
	}}
	s, _ := NewGestureSession(layout, []string{"txt"}, 1000, 1000, 40)

	// Proposed right edge 0.62; anchor left edge 0.65 within 0.04.
	res := CropEdgeMove(layout, s, "txt", EdgeRight, 20, 0)
	b := res.Layout.BlockByID("txt")
	if math.Abs(b.X+b.W-0.65) > 1e-9 {
		t.Errorf("right edge: got %v, expected 0.65", b.X+b.W)
	}
	if res.Guide == nil || math.Abs(*res.Guide-0.65) > 1e-9 {
		t.Errorf("guide: got %v, expected 0.65", res.Guide)
	}
}

func TestCropEdgeMove_DegenerateCropCollapses(t *testing.T) {
	img := squareImage("img")
	img.Image.Crop = &domain.VisualCrop{Right: 0.05}
	layout := &domain.PageSideLayout{Blocks: []domain.Block{img}}
	s, _ := NewGestureSession(layout, []string{"img"}, 1000, 1000, 1)

	// Dragging the right edge back out removes the crop entirely.
	res := CropEdgeMove(layout, s, "img", EdgeRight, 400, 0)
	if c := cropOf(t, res.Layout, "img"); c != nil {
		t.Errorf("expected crop to collapse to nil, got %+v", c)
	}
}

func TestCropEdgeMove_MissingBlockIsNoop(t *testing.T) {
	layout := &domain.PageSideLayout{Blocks: []domain.Block{squareImage("img")}}
	s, _ := NewGestureSession(layout, []string{"img"}, 1000, 1000, 1)

	res := CropEdgeMove(&domain.PageSideLayout{}, s, "img", EdgeRight, -20, 0)
	if res.Layout != nil {
		t.Error("expected no-op for a deleted block")
	}
	res = CropEdgeMove(layout, s, "img", "diagonal", -20, 0)
	if res.Layout != nil {
		t.Error("expected no-op for an unknown edge")
	}
}

func TestCropEdgeMove_InvariantClosure(t *testing.T) {
	img := squareImage("img")
	img.Image.Crop = &domain.VisualCrop{Left: 0.3, Right: 0.2, Top: 0.1, Bottom: 0.1}
	layout := &domain.PageSideLayout{Blocks: []domain.Block{img}}
	s, _ := NewGestureSession(layout, []string{"img"}, 800, 800, DefaultSnapThresholdPx)

	for _, e := range []Edge{EdgeLeft, EdgeRight, EdgeTop, EdgeBottom} {
		for _, d := range []float64{-1e5, -17, 0, 23, 1e5} {
			res := CropEdgeMove(layout, s, "img", e, d, d)
			if res.Layout == nil {
				t.Fatalf("unexpected no-op for edge %s delta %v", e, d)
			}
			b := *res.Layout.BlockByID("img")
			assertBlockInvariants(t, b)
			if c := b.Image.Crop; c != nil {
				if c.Left+c.Right > MaxVisualCropPerSide+1e-9 || c.Top+c.Bottom > MaxVisualCropPerSide+1e-9 {
					t.Errorf("crop closure violated for edge %s delta %v: %+v", e, d, c)
				}
			}
		}
	}
}
