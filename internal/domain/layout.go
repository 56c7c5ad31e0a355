package domain

// PageSide identifies which face of a two-sided page a layout belongs to.
type PageSide string

const (
	SideFront PageSide = "front"
	SideBack  PageSide = "back"
)

// KnownPageSide reports whether s is a valid page side.
func KnownPageSide(s PageSide) bool {
	return s == SideFront || s == SideBack
}

// PaddingOverride replaces the default page padding, per axis, as a fraction
// of the page dimension. Each ratio lives in [0,0.4].
type PaddingOverride struct {
	PadXRatio float64 `json:"padXRatio"`
	PadYRatio float64 `json:"padYRatio"`
}

// PageSideLayout is the full editable state of one page side: an ordered
// collection of blocks (array order breaks zIndex ties), a background color,
// and an optional padding override. At most 20 blocks per side.
type PageSideLayout struct {
	Blocks          []Block          `json:"blocks"`
	BackgroundColor string           `json:"backgroundColor,omitempty"`
	PaddingOverride *PaddingOverride `json:"paddingOverride,omitempty"`
}

// BlockByID returns a pointer to the block with the given id, or nil.
func (l *PageSideLayout) BlockByID(id string) *Block {
	for i := range l.Blocks {
		if l.Blocks[i].ID == id {
			return &l.Blocks[i]
		}
	}
	return nil
}

// MaxZIndex returns the highest zIndex among the blocks, or -1 when empty.
func (l *PageSideLayout) MaxZIndex() int {
	max := -1
	for i := range l.Blocks {
		if l.Blocks[i].ZIndex > max {
			max = l.Blocks[i].ZIndex
		}
	}
	return max
}

// Clone returns a deep copy of the layout. Engines hand out candidate
// layouts without touching the one the host currently owns.
func (l *PageSideLayout) Clone() *PageSideLayout {
	out := &PageSideLayout{BackgroundColor: l.BackgroundColor}
	if l.PaddingOverride != nil {
		p := *l.PaddingOverride
		out.PaddingOverride = &p
	}
	if l.Blocks != nil {
		out.Blocks = make([]Block, len(l.Blocks))
		for i, b := range l.Blocks {
			out.Blocks[i] = cloneBlock(b)
		}
	}
	return out
}

func cloneBlock(b Block) Block {
	if b.Outline != nil {
		o := *b.Outline
		b.Outline = &o
	}
	switch b.Type {
	case BlockTypeText:
		if b.Text != nil {
			p := *b.Text
			b.Text = &p
		}
	case BlockTypeImage:
		if b.Image != nil {
			p := *b.Image
			if p.Crop != nil {
				c := *p.Crop
				p.Crop = &c
			}
			b.Image = &p
		}
	case BlockTypeSVG:
		if b.SVG != nil {
			p := *b.SVG
			if p.Crop != nil {
				c := *p.Crop
				p.Crop = &c
			}
			b.SVG = &p
		}
	case BlockTypeLink:
		if b.Link != nil {
			p := *b.Link
			b.Link = &p
		}
	case BlockTypeShape:
		if b.Shape != nil {
			p := *b.Shape
			b.Shape = &p
		}
	}
	return b
}

// LayoutKey addresses one page side of one book for persistence.
type LayoutKey struct {
	BookKey   string   `json:"bookKey"`
	PageIndex int      `json:"pageIndex"`
	Side      PageSide `json:"side"`
}

// LayoutStore persists page-side layouts, last-write-wins per key.
type LayoutStore interface {
	UpsertLayout(key LayoutKey, layout *PageSideLayout) error
	GetLayout(key LayoutKey) (*PageSideLayout, error)
	ListLayouts(bookKey string) ([]StoredLayout, error)
	AllLayouts() ([]StoredLayout, error)
	DeleteLayout(key LayoutKey) error
}

// StoredLayout pairs a persisted layout with its key.
type StoredLayout struct {
	Key    LayoutKey       `json:"key"`
	Layout *PageSideLayout `json:"layout"`
}
