package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a rectangle in pixel coordinates. (X1,Y1) is inclusive and
// (X2,Y2) is exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect returns r as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// CropRegion extracts r from a decoded stone photo so that only the inscribed
// face is enhanced. The result is rebased to (0,0).
//
// Returns *InvalidParameterError if r is empty or extends past the image.
func CropRegion(img image.Image, r Region) (*image.NRGBA, error) {
	bounds := img.Bounds()

	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, &InvalidParameterError{
			Name:   "region",
			Value:  fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2),
			Reason: "x1 must be < x2 and y1 must be < y2",
		}
	}
	if !r.Rect().Add(bounds.Min).In(bounds) {
		return nil, &InvalidParameterError{
			Name:   "region",
			Value:  fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2),
			Reason: fmt.Sprintf("outside image bounds %dx%d", bounds.Dx(), bounds.Dy()),
		}
	}

	return imaging.Crop(img, r.Rect().Add(bounds.Min)), nil
}
