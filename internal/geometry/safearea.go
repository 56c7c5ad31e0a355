package geometry

import "pageforge/internal/domain"

// Default page padding when a layout carries no override.
const (
	DefaultPadXRatio = 0.05
	DefaultPadYRatio = 0.05
)

// SafeArea is the padded sub-region of the page, in pixels, within which
// normalized block coordinates are rendered.
type SafeArea struct {
	X, Y, W, H float64
}

// ComputeSafeArea derives the safe area from the page pixel dimensions and
// an optional padding override. Ratios are clamped to [0,0.4] per axis.
func ComputeSafeArea(pageW, pageH float64, padding *domain.PaddingOverride) SafeArea {
	padX, padY := DefaultPadXRatio, DefaultPadYRatio
	if padding != nil {
		padX = clampFinite(padding.PadXRatio, 0, MaxPaddingRatio)
		padY = clampFinite(padding.PadYRatio, 0, MaxPaddingRatio)
	}
	return SafeArea{
		X: pageW * padX,
		Y: pageH * padY,
		W: pageW * (1 - 2*padX),
		H: pageH * (1 - 2*padY),
	}
}
