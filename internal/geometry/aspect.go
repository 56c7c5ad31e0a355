package geometry

import "pageforge/internal/domain"

// NormalizeAspectRatio clamps value into [0.05,20]. A non-finite or
// non-positive value falls back to fallback, itself defaulted to 1 when it
// is unusable.
func NormalizeAspectRatio(value, fallback float64) float64 {
	if !finite(fallback) || fallback <= 0 {
		fallback = 1
	}
	if !finite(value) || value <= 0 {
		value = fallback
	}
	return clamp(value, MinAspectRatio, MaxAspectRatio)
}

// BlockAspectRatio resolves a block's width:height ratio, using the current
// box as the fallback for a missing or out-of-range declared value.
func BlockAspectRatio(b domain.Block) float64 {
	box := 1.0
	if b.H > 0 {
		box = b.W / b.H
	}
	return NormalizeAspectRatio(b.AspectRatio, box)
}
