package scriptorium

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/shilavakya/internal/config"
	"github.com/ironsheep/shilavakya/internal/findspot"
	"github.com/ironsheep/shilavakya/internal/imaging"
	"github.com/ironsheep/shilavakya/internal/logger"
	"github.com/ironsheep/shilavakya/internal/ocr"
	"github.com/ironsheep/shilavakya/internal/paleography"
	"github.com/ironsheep/shilavakya/internal/report"
)

// Options configures a Service. Zero values select the defaults.
type Options struct {
	Backend     string
	Enhancer    imaging.Enhancer
	Classifier  paleography.Classifier
	OCR         ocr.Options
	MaxBlurSize int
	Log         *logrus.Logger
}

// Service runs the research tools on behalf of a transport.
type Service struct {
	backend     string
	enhancer    imaging.Enhancer
	classifier  paleography.Classifier
	ocr         ocr.Options
	maxBlurSize int
	log         *logrus.Logger
}

// New builds a Service from opts.
func New(opts Options) (*Service, error) {
	s := &Service{
		backend:     opts.Backend,
		enhancer:    opts.Enhancer,
		classifier:  opts.Classifier,
		ocr:         opts.OCR,
		maxBlurSize: opts.MaxBlurSize,
		log:         opts.Log,
	}
	if s.backend == "" {
		s.backend = imaging.NativeBackend
	}
	if s.enhancer == nil {
		e, err := imaging.Backend(s.backend)
		if err != nil {
			return nil, err
		}
		s.enhancer = e
	}
	if s.classifier == nil {
		s.classifier = paleography.NewSubstringClassifier(paleography.DefaultRules()...)
	}
	if s.maxBlurSize <= 0 {
		s.maxBlurSize = config.DefaultMaxBlurSize
	}
	if s.log == nil {
		s.log = logger.Logger
	}
	return s, nil
}

// NewFromConfig builds a Service using the backend, classifier, OCR language
// and limits in cfg.
func NewFromConfig(cfg *config.Config) (*Service, error) {
	classifier, err := paleography.New(cfg.Classifier)
	if err != nil {
		return nil, err
	}
	return New(Options{
		Backend:     cfg.Backend,
		Classifier:  classifier,
		OCR:         ocr.Options{Language: cfg.OCRLanguage, TessdataPrefix: cfg.TessdataPrefix},
		MaxBlurSize: cfg.MaxBlurSize,
	})
}

// MaxBlurSize is the largest blur kernel the service accepts.
func (s *Service) MaxBlurSize() int {
	return s.maxBlurSize
}

// Classify guesses the dynasty of a transcription.
func (s *Service) Classify(ctx context.Context, text string) (paleography.Classification, error) {
	start := time.Now()
	c, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.log.WithError(err).Warn("classification failed")
		return paleography.Classification{}, err
	}
	s.log.WithFields(logrus.Fields{
		"label":      c.Label,
		"confidence": c.Confidence,
		"duration":   time.Since(start).String(),
	}).Info("transcription classified")
	return c, nil
}

// PlotRequest locates a findspot. When both Lat and Lon are nil the default
// findspot is used; an empty Site is only filled in that case.
type PlotRequest struct {
	Site string   `json:"site"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
	Zoom int      `json:"zoom"`
}

// Plot renders a findspot marker. Coordinates are not validated.
func (s *Service) Plot(ctx context.Context, req PlotRequest) (*findspot.Plot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spot := findspot.Default()
	if req.Lat != nil || req.Lon != nil {
		spot = findspot.New(req.Site, deref(req.Lat, spot.Latitude), deref(req.Lon, spot.Longitude))
	} else if req.Site != "" {
		spot.Site = req.Site
	}

	p := spot.Plot(req.Zoom)
	s.log.WithFields(logrus.Fields{
		"site": p.Findspot.Site,
		"lat":  p.Findspot.Latitude,
		"lon":  p.Findspot.Longitude,
	}).Info("findspot plotted")
	return p, nil
}

// Report acknowledges a report request.
func (s *Service) Report(ctx context.Context, d report.Dossier) (*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := report.Generate(d)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	s.log.WithField("empty", d.Empty()).Info("report generated")
	return r, nil
}

func deref(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
