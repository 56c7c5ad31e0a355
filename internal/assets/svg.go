package assets

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// SVGHint is what the layout engine needs to know about a vector asset:
// its intrinsic aspect ratio and whether edge handles may crop it. Vector
// markup containing text is never cropped, since cutting a label mid-glyph
// reads as a rendering bug rather than a crop.
type SVGHint struct {
	IntrinsicRatio float64
	Croppable      bool
}

// ParseSVGHint extracts the hint from SVG markup. The ratio comes from the
// root viewBox when present, falling back to the width/height attributes;
// when neither yields a usable ratio it defaults to 1.
func ParseSVGHint(r io.Reader) (SVGHint, error) {
	hint := SVGHint{IntrinsicRatio: 1, Croppable: true}

	dec := xml.NewDecoder(r)
	dec.Strict = false
	rootSeen := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return hint, fmt.Errorf("parse svg: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !rootSeen {
			if se.Name.Local != "svg" {
				return hint, fmt.Errorf("parse svg: root element is <%s>", se.Name.Local)
			}
			rootSeen = true
			if r, ok := ratioFromSVGAttrs(se.Attr); ok {
				hint.IntrinsicRatio = r
			}
			continue
		}
		if se.Name.Local == "text" {
			hint.Croppable = false
		}
	}
	if !rootSeen {
		return hint, fmt.Errorf("parse svg: no <svg> root element")
	}
	return hint, nil
}

// ReadSVGHint parses the hint from a file on disk.
func ReadSVGHint(path string) (SVGHint, error) {
	f, err := os.Open(path)
	if err != nil {
		return SVGHint{IntrinsicRatio: 1, Croppable: true}, fmt.Errorf("open svg: %w", err)
	}
	defer f.Close()
	return ParseSVGHint(f)
}

func ratioFromSVGAttrs(attrs []xml.Attr) (float64, bool) {
	var viewBox, width, height string
	for _, a := range attrs {
		switch a.Name.Local {
		case "viewBox":
			viewBox = a.Value
		case "width":
			width = a.Value
		case "height":
			height = a.Value
		}
	}

	if viewBox != "" {
		fields := strings.FieldsFunc(viewBox, func(c rune) bool {
			return c == ' ' || c == ',' || c == '\t' || c == '\n'
		})
		if len(fields) == 4 {
			w, errW := strconv.ParseFloat(fields[2], 64)
			h, errH := strconv.ParseFloat(fields[3], 64)
			if errW == nil && errH == nil && w > 0 && h > 0 {
				return w / h, true
			}
		}
	}

	w, okW := parseSVGLength(width)
	h, okH := parseSVGLength(height)
	if okW && okH && w > 0 && h > 0 {
		return w / h, true
	}
	return 0, false
}

// parseSVGLength reads a plain or px-suffixed length. Percentages and other
// units carry no intrinsic ratio information and are ignored.
func parseSVGLength(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
