package scriptorium

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/shilavakya/internal/detection"
	"github.com/ironsheep/shilavakya/internal/imaging"
)

// EnhanceRequest asks for a rubbing of one stone photo.
type EnhanceRequest struct {
	// Image holds the encoded JPEG or PNG upload.
	Image []byte

	Params imaging.Params

	// Region, if set, restricts enhancement to part of the photo.
	Region *imaging.Region

	// StrokeWidth widens the rubbing's strokes by this many pixels.
	StrokeWidth int

	// InkColor and PaperColor tint the rubbing. Both empty leaves it
	// black on white.
	InkColor   string
	PaperColor string

	// OverlayOpacity > 0 also draws the strokes over the photo.
	OverlayOpacity float64

	// LocateText also suggests where the inscription sits on the stone.
	LocateText bool
}

// Enhancement holds decoded results for callers that write files themselves.
type Enhancement struct {
	Original *image.NRGBA
	EdgeMap  *image.Gray

	// Rubbing is EdgeMap after stroke widening and tinting.
	Rubbing image.Image

	// Overlay is nil unless OverlayOpacity was positive.
	Overlay *image.NRGBA

	// TextRegions is set when LocateText was requested. Coordinates are in
	// the uploaded photo's space, so they can be passed back as a Region.
	TextRegions []detection.TextRegion

	EdgeCount int
	Params    imaging.Params
}

// EnhanceResult is Enhancement encoded for transport.
type EnhanceResult struct {
	Original    *imaging.EncodedImage  `json:"original"`
	Enhanced    *imaging.EncodedImage  `json:"enhanced"`
	Overlay     *imaging.EncodedImage  `json:"overlay,omitempty"`
	TextRegions []detection.TextRegion `json:"text_regions,omitempty"`
	EdgeCount   int                    `json:"edge_count"`
	Params      imaging.Params         `json:"params"`
}

// Render runs the enhancement pipeline and the optional presentation steps.
//
// Parameters are validated before the image is decoded, so an invalid blur
// size is reported even for an unreadable upload.
func (s *Service) Render(ctx context.Context, req EnhanceRequest) (*Enhancement, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	raw := req.Image
	if req.Region != nil {
		cropped, err := cropEncoded(raw, *req.Region)
		if err != nil {
			return nil, err
		}
		raw = cropped
	}

	original, edgeMap, err := s.enhancer.Enhance(raw, req.Params)
	if err != nil {
		s.log.WithError(err).WithField("backend", s.backend).Warn("enhancement failed")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Enhancement{
		Original:  original,
		EdgeMap:   edgeMap,
		Rubbing:   edgeMap,
		EdgeCount: imaging.CountEdges(edgeMap),
		Params:    req.Params,
	}

	strokes := edgeMap
	if req.StrokeWidth > 0 {
		if strokes, err = imaging.ThickenStrokes(edgeMap, req.StrokeWidth); err != nil {
			return nil, err
		}
		out.Rubbing = strokes
	}
	if req.InkColor != "" || req.PaperColor != "" {
		tinted, err := imaging.TintRubbing(strokes, req.InkColor, req.PaperColor)
		if err != nil {
			return nil, err
		}
		out.Rubbing = tinted
	}
	if req.OverlayOpacity > 0 {
		if out.Overlay, err = imaging.OverlayStrokes(original, strokes, req.InkColor, req.OverlayOpacity); err != nil {
			return nil, err
		}
	}

	if req.LocateText {
		out.TextRegions = locateText(edgeMap, req.Region)
	}

	s.log.WithFields(logrus.Fields{
		"backend":    s.backend,
		"width":      original.Rect.Dx(),
		"height":     original.Rect.Dy(),
		"blur_size":  req.Params.BlurSize,
		"low":        req.Params.LowThreshold,
		"high":       req.Params.HighThreshold,
		"edge_count": out.EdgeCount,
		"duration":   time.Since(start).String(),
	}).Info("inscription enhanced")
	return out, nil
}

// Enhance renders req and encodes every image as base64 PNG.
func (s *Service) Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResult, error) {
	e, err := s.Render(ctx, req)
	if err != nil {
		return nil, err
	}

	res := &EnhanceResult{TextRegions: e.TextRegions, EdgeCount: e.EdgeCount, Params: e.Params}
	if res.Original, err = imaging.EncodePNG(e.Original); err != nil {
		return nil, err
	}
	if res.Enhanced, err = imaging.EncodePNG(e.Rubbing); err != nil {
		return nil, err
	}
	if e.Overlay != nil {
		if res.Overlay, err = imaging.EncodePNG(e.Overlay); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// validate checks everything that can be checked without decoding.
func (s *Service) validate(req EnhanceRequest) error {
	if err := req.Params.Validate(); err != nil {
		return err
	}
	if req.Params.BlurSize > s.maxBlurSize {
		return &imaging.InvalidParameterError{
			Name:   "blur_size",
			Value:  req.Params.BlurSize,
			Reason: fmt.Sprintf("must not exceed %d", s.maxBlurSize),
		}
	}
	if req.StrokeWidth < 0 {
		return &imaging.InvalidParameterError{Name: "stroke_width", Value: req.StrokeWidth, Reason: "must not be negative"}
	}
	if req.OverlayOpacity < 0 || req.OverlayOpacity > 1 {
		return &imaging.InvalidParameterError{Name: "opacity", Value: req.OverlayOpacity, Reason: "must be within [0, 1]"}
	}
	return nil
}

// locateText finds text on edgeMap and shifts the hits back into photo
// coordinates when the map was cut from region.
func locateText(edgeMap *image.Gray, region *imaging.Region) []detection.TextRegion {
	found := detection.LocateText(edgeMap, detection.DefaultMinConfidence)
	if region == nil {
		return found
	}
	for i := range found {
		r := &found[i].Region
		r.X1 += region.X1
		r.X2 += region.X1
		r.Y1 += region.Y1
		r.Y2 += region.Y1
	}
	return found
}

// cropEncoded decodes raw, cuts out r and re-encodes it losslessly so the
// configured backend still receives encoded bytes.
func cropEncoded(raw []byte, r imaging.Region) ([]byte, error) {
	img, err := imaging.Decode(raw)
	if err != nil {
		return nil, err
	}
	cropped, err := imaging.CropRegion(img, r)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode region: %w", err)
	}
	return buf.Bytes(), nil
}
