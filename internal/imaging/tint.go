package imaging

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Default rubbing palette: lamp-black ink on rice paper.
const (
	DefaultInkColor   = "#1b1b1f"
	DefaultPaperColor = "#f4ecd8"
)

// parseHex parses a "#RRGGBB" color, reporting failures against field.
func parseHex(field, hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, &InvalidParameterError{Name: field, Value: hex, Reason: "must be a #RRGGBB hex color"}
	}
	return c, nil
}

// TintRubbing renders an EdgeMap in two colors: Edge pixels in ink and
// Background pixels in paper. Empty color strings select the defaults.
func TintRubbing(edgeMap *image.Gray, ink, paper string) (*image.NRGBA, error) {
	if ink == "" {
		ink = DefaultInkColor
	}
	if paper == "" {
		paper = DefaultPaperColor
	}
	inkColor, err := parseHex("ink_color", ink)
	if err != nil {
		return nil, err
	}
	paperColor, err := parseHex("paper_color", paper)
	if err != nil {
		return nil, err
	}

	ir, ig, ib := inkColor.RGB255()
	pr, pg, pb := paperColor.RGB255()

	w, h := edgeMap.Rect.Dx(), edgeMap.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := y*out.Stride + x*4
			if edgeMap.Pix[y*edgeMap.Stride+x] == Edge {
				out.Pix[o], out.Pix[o+1], out.Pix[o+2] = ir, ig, ib
			} else {
				out.Pix[o], out.Pix[o+1], out.Pix[o+2] = pr, pg, pb
			}
			out.Pix[o+3] = 0xff
		}
	}
	return out, nil
}

// OverlayStrokes draws the Edge pixels of edgeMap onto a copy of photo,
// blending ink over the photo in Lab space with the given opacity (0-1).
// photo and edgeMap must have the same dimensions.
func OverlayStrokes(photo *image.NRGBA, edgeMap *image.Gray, ink string, opacity float64) (*image.NRGBA, error) {
	if opacity < 0 || opacity > 1 {
		return nil, &InvalidParameterError{Name: "opacity", Value: opacity, Reason: "must be within [0, 1]"}
	}
	if photo.Rect.Size() != edgeMap.Rect.Size() {
		return nil, &InvalidParameterError{
			Name:   "edge_map",
			Value:  edgeMap.Rect.Size(),
			Reason: "dimensions differ from photo " + photo.Rect.Size().String(),
		}
	}
	if ink == "" {
		ink = DefaultInkColor
	}
	inkColor, err := parseHex("ink_color", ink)
	if err != nil {
		return nil, err
	}

	w, h := photo.Rect.Dx(), photo.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := photo.Pix[y*photo.Stride+x*4 : y*photo.Stride+x*4+4]
			o := y*out.Stride + x*4
			if edgeMap.Pix[y*edgeMap.Stride+x] != Edge {
				copy(out.Pix[o:o+4], src)
				continue
			}
			base := colorful.Color{R: float64(src[0]) / 255, G: float64(src[1]) / 255, B: float64(src[2]) / 255}
			r, g, b := base.BlendLab(inkColor, opacity).Clamped().RGB255()
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = r, g, b, 0xff
		}
	}
	return out, nil
}
