package geometry

import (
	"image"
	"math"

	"pageforge/internal/domain"
)

// cropAbsentEps: a crop whose four fractions are all below this is treated
// as no crop at all.
const cropAbsentEps = 1e-4

// NormalizeVisualCrop repairs a crop so each fraction sits in [0,0.95] and
// the two fractions on one axis sum to at most 0.95. An over-cropped axis is
// scaled down proportionally, preserving the left:right (top:bottom) ratio.
func NormalizeVisualCrop(c domain.VisualCrop) domain.VisualCrop {
	c.Left = clampCropFraction(c.Left)
	c.Right = clampCropFraction(c.Right)
	c.Top = clampCropFraction(c.Top)
	c.Bottom = clampCropFraction(c.Bottom)

	c.Left, c.Right = capAxis(c.Left, c.Right)
	c.Top, c.Bottom = capAxis(c.Top, c.Bottom)
	return c
}

func clampCropFraction(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return clamp(v, 0, MaxVisualCropPerSide)
}

func capAxis(a, b float64) (float64, float64) {
	sum := a + b
	if sum > MaxVisualCropPerSide+1e-12 {
		s := MaxVisualCropPerSide / sum
		return a * s, b * s
	}
	return a, b
}

// CropAbsent reports whether c trims nothing worth keeping.
func CropAbsent(c *domain.VisualCrop) bool {
	if c == nil {
		return true
	}
	return c.Left < cropAbsentEps && c.Right < cropAbsentEps &&
		c.Top < cropAbsentEps && c.Bottom < cropAbsentEps
}

// CropOrNil normalizes c and collapses a degenerate crop to nil.
func CropOrNil(c *domain.VisualCrop) *domain.VisualCrop {
	if c == nil {
		return nil
	}
	n := NormalizeVisualCrop(*c)
	if CropAbsent(&n) {
		return nil
	}
	return &n
}

// CropRemainingRatios returns the visible fraction of the source on each
// axis, never below 0.05.
func CropRemainingRatios(c *domain.VisualCrop) (widthRatio, heightRatio float64) {
	if c == nil {
		return 1, 1
	}
	widthRatio = math.Max(MinVisualCropRemainingRatio, 1-c.Left-c.Right)
	heightRatio = math.Max(MinVisualCropRemainingRatio, 1-c.Top-c.Bottom)
	return widthRatio, heightRatio
}

// CropAspectMultiplier is the factor a crop applies to the uncropped source
// aspect ratio.
func CropAspectMultiplier(c *domain.VisualCrop) float64 {
	w, h := CropRemainingRatios(c)
	return w / h
}

// DeriveCropBaseAspectRatio recovers the uncropped source ratio from the
// block's current (cropped) ratio, so further crop edits compound from a
// stable base instead of accumulating rounding error.
func DeriveCropBaseAspectRatio(currentRatio float64, c *domain.VisualCrop) float64 {
	if !finite(currentRatio) || currentRatio <= 0 {
		currentRatio = 1
	}
	return currentRatio / CropAspectMultiplier(c)
}

// ApplyCropToAspectRatio is the inverse of DeriveCropBaseAspectRatio.
func ApplyCropToAspectRatio(base float64, c *domain.VisualCrop) float64 {
	return base * CropAspectMultiplier(c)
}

// VisualCropSourceRect maps crop fractions onto pixel source coordinates for
// the rendering collaborator.
func VisualCropSourceRect(srcW, srcH int, c *domain.VisualCrop) image.Rectangle {
	if c == nil {
		return image.Rect(0, 0, srcW, srcH)
	}
	x0 := int(math.Round(c.Left * float64(srcW)))
	y0 := int(math.Round(c.Top * float64(srcH)))
	x1 := srcW - int(math.Round(c.Right*float64(srcW)))
	y1 := srcH - int(math.Round(c.Bottom*float64(srcH)))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return image.Rect(x0, y0, x1, y1)
}
