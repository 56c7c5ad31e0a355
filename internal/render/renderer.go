// Package render rasterizes page-side layouts into preview images. The
// output is a proofing aid, not print output: raster blocks are scaled and
// cropped faithfully, text is drawn with a bundled face, vector assets get
// a placeholder box.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"

	xdraw "golang.org/x/image/draw"

	"pageforge/internal/domain"
	"pageforge/internal/geometry"
)

// AssetSource resolves asset paths to decoded images.
type AssetSource interface {
	Load(path string) (image.Image, error)
}

// Renderer draws layouts at a fixed page size.
type Renderer struct {
	assets AssetSource
	pageW  int
	pageH  int
}

// New creates a Renderer. assets may be nil; image blocks then render as
// placeholders.
func New(assets AssetSource, pageW, pageH int) *Renderer {
	return &Renderer{assets: assets, pageW: pageW, pageH: pageH}
}

// RenderPage rasterizes one layout. Blocks paint back-to-front by zIndex,
// array order breaking ties.
func (r *Renderer) RenderPage(layout *domain.PageSideLayout) (*image.RGBA, error) {
	if layout == nil {
		return nil, fmt.Errorf("render: nil layout")
	}
	if r.pageW <= 0 || r.pageH <= 0 {
		return nil, fmt.Errorf("render: page size %dx%d", r.pageW, r.pageH)
	}

	out := image.NewRGBA(image.Rect(0, 0, r.pageW, r.pageH))
	bg := parseHexColor(layout.BackgroundColor, color.White)
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	ordered := make([]domain.Block, len(layout.Blocks))
	copy(ordered, layout.Blocks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ZIndex < ordered[j].ZIndex
	})

	for i := range ordered {
		r.renderBlock(out, &ordered[i])
	}
	return out, nil
}

// blockBounds converts normalized block geometry to pixel bounds.
func (r *Renderer) blockBounds(b *domain.Block) image.Rectangle {
	return image.Rect(
		int(b.X*float64(r.pageW)),
		int(b.Y*float64(r.pageH)),
		int((b.X+b.W)*float64(r.pageW)),
		int((b.Y+b.H)*float64(r.pageH)),
	)
}

func (r *Renderer) renderBlock(dst *image.RGBA, b *domain.Block) {
	box := r.blockBounds(b)
	if box.Empty() {
		return
	}

	switch b.Type {
	case domain.BlockTypeImage:
		if b.Image != nil {
			r.renderRaster(dst, box, b.Image.AssetPath, b.Image.ObjectFit, b.Image.Crop)
		}
	case domain.BlockTypeSVG:
		// No vector rasterizer; previews show the occupied box.
		fillRect(dst, box, color.RGBA{R: 0xe8, G: 0xe8, B: 0xf0, A: 0xff})
	case domain.BlockTypeShape:
		if b.Shape != nil {
			r.renderShape(dst, box, b.Shape)
		}
	case domain.BlockTypeText:
		if b.Text != nil {
			drawTextBlock(dst, box, b.Text.Content, b.Text.FontSize, parseHexColor(b.Text.Color, color.Black))
		}
	case domain.BlockTypeLink:
		if b.Link != nil {
			fillRect(dst, box, parseHexColor(b.Link.Background, color.RGBA{R: 0xdd, G: 0xe4, B: 0xff, A: 0xff}))
			drawTextBlock(dst, box, b.Link.Label, b.Link.FontSize, parseHexColor(b.Link.Color, color.Black))
		}
	}

	if b.Outline != nil {
		strokeRect(dst, box, parseHexColor(b.Outline.Color, color.Black), int(b.Outline.Width))
	}
}

// renderRaster scales the (cropped) source into the block box honoring the
// object-fit mode.
func (r *Renderer) renderRaster(dst *image.RGBA, box image.Rectangle, path, objectFit string, crop *domain.VisualCrop) {
	if r.assets == nil || path == "" {
		fillRect(dst, box, color.RGBA{R: 0xd8, G: 0xd8, B: 0xd8, A: 0xff})
		return
	}
	src, err := r.assets.Load(path)
	if err != nil {
		fillRect(dst, box, color.RGBA{R: 0xd8, G: 0xd8, B: 0xd8, A: 0xff})
		return
	}

	srcRect := src.Bounds()
	visible := geometry.VisualCropSourceRect(srcRect.Dx(), srcRect.Dy(), crop).Add(srcRect.Min)
	if visible.Empty() {
		return
	}

	dstRect := box
	if objectFit != "fill" {
		dstRect = fitRect(box, visible, objectFit == "cover")
	}
	xdraw.ApproxBiLinear.Scale(dst, dstRect, src, visible, draw.Over, nil)
}

// fitRect computes the destination rectangle for cover/contain: the visible
// source aspect ratio is preserved, centered in the box. Cover overflows the
// box; the scaler clips against dst bounds, so overflow past the block box
// is trimmed by intersecting first.
func fitRect(box image.Rectangle, src image.Rectangle, cover bool) image.Rectangle {
	boxW, boxH := float64(box.Dx()), float64(box.Dy())
	srcW, srcH := float64(src.Dx()), float64(src.Dy())
	if srcW <= 0 || srcH <= 0 {
		return box
	}

	scaleW, scaleH := boxW/srcW, boxH/srcH
	scale := scaleW
	if cover {
		if scaleH > scale {
			scale = scaleH
		}
	} else {
		if scaleH < scale {
			scale = scaleH
		}
	}

	w, h := srcW*scale, srcH*scale
	x0 := float64(box.Min.X) + (boxW-w)/2
	y0 := float64(box.Min.Y) + (boxH-h)/2
	fitted := image.Rect(int(x0), int(y0), int(x0+w), int(y0+h))
	if cover {
		return fitted.Intersect(box)
	}
	return fitted
}

func (r *Renderer) renderShape(dst *image.RGBA, box image.Rectangle, s *domain.ShapePayload) {
	fill := parseHexColor(s.Fill, color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff})
	switch s.Kind {
	case "ellipse":
		fillEllipse(dst, box, fill)
	case "line":
		strokeLine(dst, box, parseHexColor(s.Stroke, color.Black), int(s.StrokeWidth))
	default: // rectangle
		fillRect(dst, box, fill)
		if s.Stroke != "" && s.StrokeWidth > 0 {
			strokeRect(dst, box, parseHexColor(s.Stroke, color.Black), int(s.StrokeWidth))
		}
	}
}

// parseHexColor reads #rgb or #rrggbb, returning fallback on anything else.
func parseHexColor(s string, fallback color.Color) color.Color {
	if len(s) == 0 || s[0] != '#' {
		return fallback
	}
	hex := s[1:]
	var r, g, b uint8
	switch len(hex) {
	case 3:
		rv, ok1 := hexNibble(hex[0])
		gv, ok2 := hexNibble(hex[1])
		bv, ok3 := hexNibble(hex[2])
		if !ok1 || !ok2 || !ok3 {
			return fallback
		}
		r, g, b = rv*17, gv*17, bv*17
	case 6:
		var vals [3]uint8
		for i := 0; i < 3; i++ {
			hi, ok1 := hexNibble(hex[2*i])
			lo, ok2 := hexNibble(hex[2*i+1])
			if !ok1 || !ok2 {
				return fallback
			}
			vals[i] = hi<<4 | lo
		}
		r, g, b = vals[0], vals[1], vals[2]
	default:
		return fallback
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func fillRect(dst *image.RGBA, box image.Rectangle, c color.Color) {
	draw.Draw(dst, box.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

func strokeRect(dst *image.RGBA, box image.Rectangle, c color.Color, width int) {
	if width < 1 {
		width = 1
	}
	top := image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+width)
	bottom := image.Rect(box.Min.X, box.Max.Y-width, box.Max.X, box.Max.Y)
	left := image.Rect(box.Min.X, box.Min.Y, box.Min.X+width, box.Max.Y)
	right := image.Rect(box.Max.X-width, box.Min.Y, box.Max.X, box.Max.Y)
	for _, r := range []image.Rectangle{top, bottom, left, right} {
		fillRect(dst, r, c)
	}
}

// strokeLine draws the block's diagonal from top-left to bottom-right.
func strokeLine(dst *image.RGBA, box image.Rectangle, c color.Color, width int) {
	if width < 1 {
		width = 1
	}
	dx := box.Dx()
	dy := box.Dy()
	steps := dx
	if dy > steps {
		steps = dy
	}
	if steps == 0 {
		return
	}
	for i := 0; i <= steps; i++ {
		x := box.Min.X + dx*i/steps
		y := box.Min.Y + dy*i/steps
		fillRect(dst, image.Rect(x, y, x+width, y+width), c)
	}
}

func fillEllipse(dst *image.RGBA, box image.Rectangle, c color.Color) {
	cx := float64(box.Min.X+box.Max.X) / 2
	cy := float64(box.Min.Y+box.Max.Y) / 2
	rx := float64(box.Dx()) / 2
	ry := float64(box.Dy()) / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	clip := box.Intersect(dst.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			nx := (float64(x) + 0.5 - cx) / rx
			ny := (float64(y) + 0.5 - cy) / ry
			if nx*nx+ny*ny <= 1 {
				dst.Set(x, y, c)
			}
		}
	}
}
