package assets

import (
	"math"
	"strings"
	"testing"
)

// ─────────────────────────────────────────────────────────────
// SVG hint parsing
// ─────────────────────────────────────────────────────────────

func TestParseSVGHint_ViewBoxRatio(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100"><rect width="200" height="100"/></svg>`
	hint, err := ParseSVGHint(strings.NewReader(svg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(hint.IntrinsicRatio-2.0) > 1e-9 {
		t.Errorf("ratio: got %v, expected 2", hint.IntrinsicRatio)
	}
	if !hint.Croppable {
		t.Error("expected croppable")
	}
}

func TestParseSVGHint_ViewBoxCommaSeparated(t *testing.T) {
	svg := `<svg viewBox="0,0,300,100"></svg>`
	hint, err := ParseSVGHint(strings.NewReader(svg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(hint.IntrinsicRatio-3.0) > 1e-9 {
		t.Errorf("ratio: got %v, expected 3", hint.IntrinsicRatio)
	}
}

func TestParseSVGHint_WidthHeightFallback(t *testing.T) {
	svg := `<svg width="400px" height="100px"></svg>`
	hint, err := ParseSVGHint(strings.NewReader(svg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(hint.IntrinsicRatio-4.0) > 1e-9 {
		t.Errorf("ratio: got %v, expected 4", hint.IntrinsicRatio)
	}
}

func TestParseSVGHint_ViewBoxWinsOverAttributes(t *testing.T) {
	svg := `<svg viewBox="0 0 100 100" width="400" height="100"></svg>`
	hint, _ := ParseSVGHint(strings.NewReader(svg))
	if math.Abs(hint.IntrinsicRatio-1.0) > 1e-9 {
		t.Errorf("ratio: got %v, expected 1 from viewBox", hint.IntrinsicRatio)
	}
}

func TestParseSVGHint_NoDimensionsDefaultsToSquare(t *testing.T) {
	svg := `<svg width="100%" height="100%"><circle r="5"/></svg>`
	hint, err := ParseSVGHint(strings.NewReader(svg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hint.IntrinsicRatio != 1 {
		t.Errorf("ratio: got %v, expected default 1", hint.IntrinsicRatio)
	}
}

func TestParseSVGHint_TextDisablesCropping(t *testing.T) {
	svg := `<svg viewBox="0 0 10 10"><g><text x="1" y="1">hi</text></g></svg>`
	hint, err := ParseSVGHint(strings.NewReader(svg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hint.Croppable {
		t.Error("markup with <text> must not be croppable")
	}
}

func TestParseSVGHint_RejectsNonSVG(t *testing.T) {
	if _, err := ParseSVGHint(strings.NewReader(`<html></html>`)); err == nil {
		t.Error("expected error for non-svg root")
	}
	if _, err := ParseSVGHint(strings.NewReader(``)); err == nil {
		t.Error("expected error for empty input")
	}
}
