package render

import (
	"image"
	"image/color"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	parsedOnce   sync.Once
	parsedGoFont *opentype.Font
)

func regularFont() *opentype.Font {
	parsedOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		parsedGoFont = f
	})
	return parsedGoFont
}

// drawTextBlock renders content line by line inside the box using the
// bundled Go Regular face. Lines that run past the box are clipped by the
// drawer's destination bounds; overflow layout is the frontend's job.
func drawTextBlock(dst *image.RGBA, box image.Rectangle, content string, fontSize float64, c color.Color) {
	if strings.TrimSpace(content) == "" {
		return
	}
	f := regularFont()
	if f == nil {
		return
	}
	if fontSize <= 0 {
		fontSize = 16
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return
	}
	defer face.Close()

	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}

	metrics := face.Metrics()
	lineHeight := metrics.Height
	y := fixed.I(box.Min.Y) + metrics.Ascent
	for _, line := range strings.Split(content, "\n") {
		if y.Ceil() > box.Max.Y {
			break
		}
		drawer.Dot = fixed.Point26_6{X: fixed.I(box.Min.X), Y: y}
		drawer.DrawString(line)
		y += lineHeight
	}
}
