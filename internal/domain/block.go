package domain

// BlockType discriminates the block union. Every site that branches on a
// block's kind must switch exhaustively over these values.
type BlockType string

const (
	BlockTypeText  BlockType = "text"
	BlockTypeImage BlockType = "image"
	BlockTypeSVG   BlockType = "svg"
	BlockTypeLink  BlockType = "link"
	BlockTypeShape BlockType = "shape"
)

// KnownBlockType reports whether t is one of the recognized block kinds.
func KnownBlockType(t BlockType) bool {
	switch t {
	case BlockTypeText, BlockTypeImage, BlockTypeSVG, BlockTypeLink, BlockTypeShape:
		return true
	}
	return false
}

// Block is one rectangular content block on a page side. All geometry is in
// normalized page coordinates: x, y, w, h are fractions of the page's own
// dimensions, always inside [0,1]. Exactly one payload pointer is set,
// matching Type.
type Block struct {
	ID          string    `json:"id"`
	Type        BlockType `json:"type"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	W           float64   `json:"w"`
	H           float64   `json:"h"`
	ZIndex      int       `json:"zIndex"`
	AspectRatio float64   `json:"aspectRatio"`

	Outline      *Outline `json:"outline,omitempty"`
	CornerRadius float64  `json:"cornerRadius,omitempty"`
	LinkURL      string   `json:"linkUrl,omitempty"`

	Text  *TextPayload  `json:"text,omitempty"`
	Image *ImagePayload `json:"image,omitempty"`
	SVG   *SVGPayload   `json:"svg,omitempty"`
	Link  *LinkPayload  `json:"link,omitempty"`
	Shape *ShapePayload `json:"shape,omitempty"`
}

// Outline is an optional border drawn around a block.
type Outline struct {
	Color string  `json:"color"`
	Width float64 `json:"width"` // pixels, [1,100]
}

// TextPayload styles a text block. Text rendering itself is the renderer's
// concern; the geometry core only clamps these values.
type TextPayload struct {
	Content    string  `json:"content"`
	FontSize   float64 `json:"fontSize"`   // [8,200]
	FontWeight int     `json:"fontWeight"` // multiples of 100 in [100,900]
	LineHeight float64 `json:"lineHeight"` // [0.8,3.0]
	Color      string  `json:"color"`
	Align      string  `json:"align"` // left | center | right
}

// ImagePayload references a raster asset placed in the block.
type ImagePayload struct {
	AssetPath string      `json:"assetPath"`
	ObjectFit string      `json:"objectFit"` // cover | contain | fill
	Crop      *VisualCrop `json:"crop,omitempty"`
}

// SVGPayload references a vector asset. IntrinsicRatio is the aspect ratio
// hint parsed from the markup at import time (0 when unknown); Croppable is
// supplied by the asset collaborator.
type SVGPayload struct {
	AssetPath      string      `json:"assetPath"`
	IntrinsicRatio float64     `json:"intrinsicRatio,omitempty"`
	Croppable      bool        `json:"croppable"`
	ObjectFit      string      `json:"objectFit"`
	Crop           *VisualCrop `json:"crop,omitempty"`
}

// LinkPayload styles a link button block.
type LinkPayload struct {
	Label        string  `json:"label"`
	FontSize     float64 `json:"fontSize"`     // [10,96]
	BorderRadius float64 `json:"borderRadius"` // [0,200]
	Background   string  `json:"background"`
	Color        string  `json:"color"`
}

// ShapePayload describes a primitive shape block.
type ShapePayload struct {
	Kind        string  `json:"kind"` // rectangle | ellipse | line
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"` // [0,100]
}

// VisualCrop trims a fraction of the source image/vector from each edge,
// relative to the block's own box. Each fraction lives in [0,0.95] and the
// two fractions on one axis never sum past 0.95, so at least 5% of the
// source stays visible on every axis.
type VisualCrop struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Default block dimensions for the add path, in normalized units.
const (
	DefaultBlockX      = 0.05
	DefaultBlockY      = 0.05
	DefaultBlockW      = 0.4
	DefaultTextBlockH  = 0.15
	DefaultMediaBlockH = 0.3
)

// NewBlock creates a block of the given type with deterministic defaults:
// position 0.05/0.05, width 0.4, height 0.15 (text, link) or 0.3 (image,
// svg, shape), and the matching payload initialized.
func NewBlock(id string, t BlockType, zIndex int) Block {
	b := Block{
		ID:     id,
		Type:   t,
		X:      DefaultBlockX,
		Y:      DefaultBlockY,
		W:      DefaultBlockW,
		H:      DefaultMediaBlockH,
		ZIndex: zIndex,
	}
	switch t {
	case BlockTypeText:
		b.H = DefaultTextBlockH
		b.Text = &TextPayload{FontSize: 16, FontWeight: 400, LineHeight: 1.4, Align: "left"}
	case BlockTypeLink:
		b.H = DefaultTextBlockH
		b.Link = &LinkPayload{FontSize: 14, BorderRadius: 8}
	case BlockTypeImage:
		b.Image = &ImagePayload{ObjectFit: "cover"}
	case BlockTypeSVG:
		b.SVG = &SVGPayload{ObjectFit: "contain", Croppable: true}
	case BlockTypeShape:
		b.Shape = &ShapePayload{Kind: "rectangle", Fill: "#cccccc"}
	}
	b.AspectRatio = b.W / b.H
	return b
}
