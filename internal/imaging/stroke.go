package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// ThickenStrokes widens the dark strokes of an EdgeMap by radius pixels,
// which makes faint, thin letter outlines easier to read at small sizes.
//
// The light field is eroded, so every Edge pixel stays an Edge and the output
// remains strictly binary. A radius of 0 returns an unchanged copy.
func ThickenStrokes(edgeMap *image.Gray, radius int) (*image.Gray, error) {
	if radius < 0 {
		return nil, &InvalidParameterError{Name: "stroke_width", Value: radius, Reason: "must not be negative"}
	}

	w, h := edgeMap.Rect.Dx(), edgeMap.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if radius == 0 {
		for y := 0; y < h; y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+w], edgeMap.Pix[y*edgeMap.Stride:y*edgeMap.Stride+w])
		}
		return out, nil
	}

	eroded := effect.Erode(edgeMap, float64(radius))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := eroded.Pix[y*eroded.Stride+x*4]
			// Re-binarize; the erosion only ever picks existing values, but the
			// source may not have been a strict EdgeMap.
			if v < 128 {
				out.Pix[y*out.Stride+x] = Edge
			} else {
				out.Pix[y*out.Stride+x] = Background
			}
		}
	}
	return out, nil
}
