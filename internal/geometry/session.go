package geometry

import "pageforge/internal/domain"

// GestureSession is the immutable snapshot taken at pointer-down: the
// selected ids, their origin rectangles and crops, the selection bounding
// box, and the canvas pixel dimensions used to convert pointer deltas and
// the snap threshold into normalized units.
//
// A session is created once per gesture and never mutated; every
// pointer-move recomputes its candidate from (layout, session, pointer), so
// repeated delivery of the same move event is harmless.
type GestureSession struct {
	IDs         []string
	Origins     map[string]Rect
	OriginCrops map[string]*domain.VisualCrop
	Bounds      Rect
	CanvasW     float64
	CanvasH     float64
	ThresholdPx float64

	selected map[string]bool
}

// NewGestureSession captures origin geometry for the given selection. It
// returns false when none of the ids exist in the layout; the host should
// treat that gesture as a no-op.
func NewGestureSession(layout *domain.PageSideLayout, ids []string, canvasW, canvasH, thresholdPx float64) (*GestureSession, bool) {
	if canvasW <= 0 || canvasH <= 0 {
		return nil, false
	}
	if thresholdPx <= 0 {
		thresholdPx = DefaultSnapThresholdPx
	}
	s := &GestureSession{
		Origins:     make(map[string]Rect),
		OriginCrops: make(map[string]*domain.VisualCrop),
		CanvasW:     canvasW,
		CanvasH:     canvasH,
		ThresholdPx: thresholdPx,
		selected:    make(map[string]bool),
	}
	first := true
	for _, id := range ids {
		b := layout.BlockByID(id)
		if b == nil || s.selected[id] {
			continue
		}
		r := BlockRect(*b)
		s.IDs = append(s.IDs, id)
		s.Origins[id] = r
		s.selected[id] = true
		if c := blockCrop(b); c != nil {
			cc := *c
			s.OriginCrops[id] = &cc
		}
		if first {
			s.Bounds = r
			first = false
		} else {
			s.Bounds = s.Bounds.Union(r)
		}
	}
	if len(s.IDs) == 0 {
		return nil, false
	}
	return s, true
}

// Selected reports whether id was part of the selection at pointer-down.
func (s *GestureSession) Selected(id string) bool { return s.selected[id] }

func (s *GestureSession) thresholdX() float64 { return s.ThresholdPx / s.CanvasW }
func (s *GestureSession) thresholdY() float64 { return s.ThresholdPx / s.CanvasH }

// blockCrop returns the crop of a croppable block, nil otherwise.
func blockCrop(b *domain.Block) *domain.VisualCrop {
	switch b.Type {
	case domain.BlockTypeImage:
		if b.Image != nil {
			return b.Image.Crop
		}
	case domain.BlockTypeSVG:
		if b.SVG != nil {
			return b.SVG.Crop
		}
	case domain.BlockTypeText, domain.BlockTypeLink, domain.BlockTypeShape:
	}
	return nil
}

// setBlockCrop stores a normalized crop on a croppable block, collapsing a
// degenerate crop to nil.
func setBlockCrop(b *domain.Block, c *domain.VisualCrop) {
	c = CropOrNil(c)
	switch b.Type {
	case domain.BlockTypeImage:
		if b.Image != nil {
			b.Image.Crop = c
		}
	case domain.BlockTypeSVG:
		if b.SVG != nil {
			b.SVG.Crop = c
		}
	case domain.BlockTypeText, domain.BlockTypeLink, domain.BlockTypeShape:
	}
}

// croppable reports whether edge interaction crops this block rather than
// plain-resizing it. Images always crop; vector blocks crop when the asset
// collaborator marked them croppable.
func croppable(b *domain.Block) bool {
	switch b.Type {
	case domain.BlockTypeImage:
		return true
	case domain.BlockTypeSVG:
		return b.SVG != nil && b.SVG.Croppable
	case domain.BlockTypeText, domain.BlockTypeLink, domain.BlockTypeShape:
		return false
	}
	return false
}
