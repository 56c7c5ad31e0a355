package geometry

import (
	"fmt"
	"math"

	"pageforge/internal/domain"
)

// ValidationResult carries the repaired layout plus human-readable notes
// about any structural repairs. Numeric repairs (clamps) are silent.
type ValidationResult struct {
	Layout domain.PageSideLayout
	Errors []string
}

// ValidateLayout repairs any input into a layout satisfying every block
// invariant. It is total (never fails) and idempotent: validating a
// validated layout changes nothing.
//
// Structural problems (a nil layout, more than 20 blocks, a block of an
// unknown type) are repaired by dropping or truncating and reported.
// Out-of-range numbers are clamped without comment.
func ValidateLayout(in *domain.PageSideLayout) ValidationResult {
	var res ValidationResult
	if in == nil {
		res.Errors = append(res.Errors, "layout missing, treated as empty")
		res.Layout = domain.PageSideLayout{}
		return res
	}

	out := in.Clone()

	if len(out.Blocks) > MaxBlocksPerSide {
		res.Errors = append(res.Errors,
			fmt.Sprintf("layout has %d blocks, truncated to %d", len(out.Blocks), MaxBlocksPerSide))
		out.Blocks = out.Blocks[:MaxBlocksPerSide]
	}

	kept := out.Blocks[:0]
	for i := range out.Blocks {
		b := out.Blocks[i]
		if !domain.KnownBlockType(b.Type) {
			res.Errors = append(res.Errors,
				fmt.Sprintf("block %q: unknown type %q, dropped", b.ID, b.Type))
			continue
		}
		kept = append(kept, repairBlock(b))
	}
	out.Blocks = kept

	if out.PaddingOverride != nil {
		p := out.PaddingOverride
		p.PadXRatio = clampFinite(p.PadXRatio, 0, MaxPaddingRatio)
		p.PadYRatio = clampFinite(p.PadYRatio, 0, MaxPaddingRatio)
	}

	res.Layout = *out
	return res
}

// repairBlock clamps a block's rectangle, aspect ratio, common styling, and
// type-specific payload. x and y are clamped before w and h so the repaired
// box never exceeds the page.
func repairBlock(b domain.Block) domain.Block {
	b.X = clampFinite(b.X, 0, 1-MinBlockRatio)
	b.Y = clampFinite(b.Y, 0, 1-MinBlockRatio)
	b.W = clampFinite(b.W, MinBlockRatio, 1-b.X)
	b.H = clampFinite(b.H, MinBlockRatio, 1-b.Y)
	b.AspectRatio = NormalizeAspectRatio(b.AspectRatio, b.W/b.H)
	b.CornerRadius = clampFinite(b.CornerRadius, 0, 500)

	if b.Outline != nil {
		b.Outline.Width = clampFinite(b.Outline.Width, 1, 100)
		if b.Outline.Color == "" {
			b.Outline.Color = "#000000"
		}
	}

	switch b.Type {
	case domain.BlockTypeText:
		if b.Text == nil {
			b.Text = &domain.TextPayload{}
		}
		t := b.Text
		t.FontSize = clampFinite(defaultZero(t.FontSize, 16), 8, 200)
		t.FontWeight = roundWeight(t.FontWeight)
		t.LineHeight = clampFinite(defaultZero(t.LineHeight, 1.4), 0.8, 3.0)
		if t.Align == "" {
			t.Align = "left"
		}
	case domain.BlockTypeImage:
		if b.Image == nil {
			b.Image = &domain.ImagePayload{}
		}
		if b.Image.ObjectFit == "" {
			b.Image.ObjectFit = "cover"
		}
		b.Image.Crop = CropOrNil(b.Image.Crop)
	case domain.BlockTypeSVG:
		if b.SVG == nil {
			b.SVG = &domain.SVGPayload{}
		}
		if b.SVG.ObjectFit == "" {
			b.SVG.ObjectFit = "contain"
		}
		if b.SVG.IntrinsicRatio != 0 {
			b.SVG.IntrinsicRatio = NormalizeAspectRatio(b.SVG.IntrinsicRatio, 1)
		}
		b.SVG.Crop = CropOrNil(b.SVG.Crop)
	case domain.BlockTypeLink:
		if b.Link == nil {
			b.Link = &domain.LinkPayload{}
		}
		b.Link.FontSize = clampFinite(defaultZero(b.Link.FontSize, 14), 10, 96)
		b.Link.BorderRadius = clampFinite(b.Link.BorderRadius, 0, 200)
	case domain.BlockTypeShape:
		if b.Shape == nil {
			b.Shape = &domain.ShapePayload{Kind: "rectangle"}
		}
		if b.Shape.Kind == "" {
			b.Shape.Kind = "rectangle"
		}
		b.Shape.StrokeWidth = clampFinite(b.Shape.StrokeWidth, 0, 100)
	}

	// The union carries exactly one payload.
	switch b.Type {
	case domain.BlockTypeText:
		b.Image, b.SVG, b.Link, b.Shape = nil, nil, nil, nil
	case domain.BlockTypeImage:
		b.Text, b.SVG, b.Link, b.Shape = nil, nil, nil, nil
	case domain.BlockTypeSVG:
		b.Text, b.Image, b.Link, b.Shape = nil, nil, nil, nil
	case domain.BlockTypeLink:
		b.Text, b.Image, b.SVG, b.Shape = nil, nil, nil, nil
	case domain.BlockTypeShape:
		b.Text, b.Image, b.SVG, b.Link = nil, nil, nil, nil
	}
	return b
}

func clampFinite(v, lo, hi float64) float64 {
	if !finite(v) {
		return lo
	}
	return clamp(v, lo, hi)
}

func defaultZero(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// roundWeight rounds a font weight to the nearest multiple of 100 inside
// [100,900].
func roundWeight(w int) int {
	if w == 0 {
		return 400
	}
	r := int(math.Round(float64(w)/100)) * 100
	if r < 100 {
		r = 100
	}
	if r > 900 {
		r = 900
	}
	return r
}
