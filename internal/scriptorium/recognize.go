package scriptorium

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/shilavakya/internal/imaging"
	"github.com/ironsheep/shilavakya/internal/ocr"
)

// RecognizeRequest asks for an OCR reading of a stone photo.
type RecognizeRequest struct {
	Image []byte

	// Language overrides the configured OCR language.
	Language string

	Region *imaging.Region
}

// Recognize suggests a transcription for a photo. It returns
// ocr.ErrUnavailable in builds without Tesseract.
func (s *Service) Recognize(ctx context.Context, req RecognizeRequest) (*ocr.Result, error) {
	start := time.Now()
	if !ocr.Available() {
		return nil, ocr.ErrUnavailable
	}

	img, err := imaging.Decode(req.Image)
	if err != nil {
		return nil, err
	}
	if req.Region != nil {
		if img, err = imaging.CropRegion(img, *req.Region); err != nil {
			return nil, err
		}
	}

	opts := s.ocr
	if req.Language != "" {
		opts.Language = req.Language
	}
	res, err := ocr.Recognize(ctx, img, opts)
	if err != nil {
		s.log.WithError(err).Warn("ocr failed")
		return nil, err
	}
	if req.Region != nil {
		offsetWords(res.Words, *req.Region)
	}
	s.log.WithFields(logrus.Fields{
		"language": res.Language,
		"words":    len(res.Words),
		"duration": time.Since(start).String(),
	}).Info("inscription read")
	return res, nil
}

// offsetWords shifts word boxes read from a crop of region back into photo
// coordinates.
func offsetWords(words []ocr.Word, region imaging.Region) {
	for i := range words {
		b := &words[i].Bounds
		b.X1 += region.X1
		b.X2 += region.X1
		b.Y1 += region.Y1
		b.Y2 += region.Y1
	}
}
