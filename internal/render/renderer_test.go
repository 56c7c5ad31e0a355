package render

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"pageforge/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Renderer smoke tests
// ─────────────────────────────────────────────────────────────

type mapAssets map[string]image.Image

func (m mapAssets) Load(path string) (image.Image, error) {
	img, ok := m[path]
	if !ok {
		return nil, errors.New("asset not found")
	}
	return img, nil
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func TestRenderPage_BackgroundColor(t *testing.T) {
	r := New(nil, 100, 100)
	img, err := r.RenderPage(&domain.PageSideLayout{BackgroundColor: "#ff0000"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := rgbaAt(img, 50, 50)
	if got.R != 0xff || got.G != 0 || got.B != 0 {
		t.Errorf("background: got %+v, expected red", got)
	}
}

func TestRenderPage_NilLayoutErrors(t *testing.T) {
	r := New(nil, 100, 100)
	if _, err := r.RenderPage(nil); err == nil {
		t.Error("expected error for nil layout")
	}
}

func TestRenderPage_ZIndexOrdersPaint(t *testing.T) {
	under := domain.NewBlock("under", domain.BlockTypeShape, 5)
	under.X, under.Y, under.W, under.H = 0.1, 0.1, 0.5, 0.5
	under.Shape = &domain.ShapePayload{Kind: "rectangle", Fill: "#0000ff"}

	over := domain.NewBlock("over", domain.BlockTypeShape, 9)
	over.X, over.Y, over.W, over.H = 0.1, 0.1, 0.5, 0.5
	over.Shape = &domain.ShapePayload{Kind: "rectangle", Fill: "#00ff00"}

	// Higher zIndex listed first; paint order must still favor it.
	layout := &domain.PageSideLayout{
		BackgroundColor: "#ffffff",
		Blocks:          []domain.Block{over, under},
	}

	img, err := New(nil, 100, 100).RenderPage(layout)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := rgbaAt(img, 30, 30)
	if got.G != 0xff || got.B != 0 {
		t.Errorf("overlap pixel: got %+v, expected the zIndex-9 green block on top", got)
	}
}

func TestRenderPage_ImageFillAndCrop(t *testing.T) {
	// Left half red, right half blue; cropping the left half must leave
	// only blue visible.
	src := solidImage(100, 50, color.RGBA{R: 0xff, A: 0xff})
	for y := 0; y < 50; y++ {
		for x := 50; x < 100; x++ {
			src.SetRGBA(x, y, color.RGBA{B: 0xff, A: 0xff})
		}
	}
	assets := mapAssets{"two-tone.png": src}

	b := domain.NewBlock("img", domain.BlockTypeImage, 0)
	b.X, b.Y, b.W, b.H = 0, 0, 1, 1
	b.Image = &domain.ImagePayload{
		AssetPath: "two-tone.png",
		ObjectFit: "fill",
		Crop:      &domain.VisualCrop{Left: 0.5},
	}

	img, err := New(assets, 80, 80).RenderPage(&domain.PageSideLayout{Blocks: []domain.Block{b}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, x := range []int{10, 40, 70} {
		got := rgbaAt(img, x, 40)
		if got.B != 0xff || got.R != 0 {
			t.Errorf("pixel at x=%d: got %+v, expected blue after left crop", x, got)
		}
	}
}

func TestRenderPage_MissingAssetFallsBackToPlaceholder(t *testing.T) {
	b := domain.NewBlock("img", domain.BlockTypeImage, 0)
	b.X, b.Y, b.W, b.H = 0, 0, 0.5, 0.5
	b.Image = &domain.ImagePayload{AssetPath: "gone.png", ObjectFit: "cover"}

	img, err := New(mapAssets{}, 100, 100).RenderPage(&domain.PageSideLayout{
		BackgroundColor: "#ffffff",
		Blocks:          []domain.Block{b},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := rgbaAt(img, 25, 25)
	if got.R != 0xd8 || got.G != 0xd8 || got.B != 0xd8 {
		t.Errorf("placeholder pixel: got %+v", got)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ff8000", color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, true},
		{"#fff", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, true},
		{"#ABC", color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, true},
		{"ff8000", color.RGBA{}, false},
		{"#gg0000", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	fallback := color.RGBA{R: 1, G: 2, B: 3, A: 0xff}
	for _, tt := range tests {
		got := parseHexColor(tt.in, fallback)
		if tt.ok {
			if got != tt.want {
				t.Errorf("parseHexColor(%q): got %+v, expected %+v", tt.in, got, tt.want)
			}
		} else if got != fallback {
			t.Errorf("parseHexColor(%q): got %+v, expected fallback", tt.in, got)
		}
	}
}
