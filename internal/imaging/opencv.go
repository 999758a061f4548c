//go:build opencv

package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// OpenCVBackend is the name of the gocv-based enhancer, available only in
// binaries built with the opencv tag.
const OpenCVBackend = "opencv"

func init() {
	RegisterBackend(OpenCVBackend, EnhancerFunc(enhanceOpenCV))
}

// enhanceOpenCV runs the enhancement pipeline through OpenCV. It shares
// validation and the error taxonomy with the native backend.
func enhanceOpenCV(raw []byte, p Params) (*image.NRGBA, *image.Gray, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	if len(raw) == 0 {
		return nil, nil, &DecodeError{Err: ErrEmptyImage}
	}

	// Decode through the Go registry first so format checks match the
	// native backend exactly.
	img, err := Decode(raw)
	if err != nil {
		return nil, nil, err
	}

	mat, err := gocv.IMDecode(raw, gocv.IMReadColor)
	if err != nil {
		return nil, nil, &DecodeError{Err: err}
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, nil, &DecodeError{Err: fmt.Errorf("decoded image is empty")}
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if err := gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray); err != nil {
		return nil, nil, fmt.Errorf("failed to convert image to grayscale: %w", err)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	side := blurSide(p.BlurSize, img.Rect.Dx(), img.Rect.Dy())
	k := image.Pt(side, side)
	if err := gocv.GaussianBlur(gray, &blurred, k, 0, 0, gocv.BorderDefault); err != nil {
		return nil, nil, fmt.Errorf("failed to blur image: %w", err)
	}

	edges := gocv.NewMat()
	defer edges.Close()
	low, high := p.Thresholds()
	if err := gocv.Canny(blurred, &edges, float32(low), float32(high)); err != nil {
		return nil, nil, fmt.Errorf("failed to detect edges: %w", err)
	}

	inverted := gocv.NewMat()
	defer inverted.Close()
	if err := gocv.BitwiseNot(edges, &inverted); err != nil {
		return nil, nil, fmt.Errorf("failed to invert edges: %w", err)
	}

	out, err := inverted.ToImage()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to convert edge map: %w", err)
	}
	edgeMap, ok := out.(*image.Gray)
	if !ok {
		edgeMap = Luma(imaging.Clone(out))
	}
	return img, edgeMap, nil
}
