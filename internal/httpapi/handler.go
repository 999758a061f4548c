// Package httpapi serves the scriptorium tools over HTTP for the browser
// interface. Photos arrive as multipart uploads; everything else is JSON.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/shilavakya/internal/config"
	"github.com/ironsheep/shilavakya/internal/imaging"
	"github.com/ironsheep/shilavakya/internal/ocr"
	"github.com/ironsheep/shilavakya/internal/paleography"
	"github.com/ironsheep/shilavakya/internal/report"
	"github.com/ironsheep/shilavakya/internal/scriptorium"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// EnhanceForm is the multipart form accepted by POST /api/enhance.
type EnhanceForm struct {
	File           *multipart.FileHeader `form:"file" binding:"required"`
	BlurSize       int                   `form:"blur_size,default=5"`
	ThresholdLow   int                   `form:"threshold_low,default=50"`
	ThresholdHigh  int                   `form:"threshold_high,default=150"`
	Region         string                `form:"region"`
	StrokeWidth    int                   `form:"stroke_width"`
	InkColor       string                `form:"ink_color"`
	PaperColor     string                `form:"paper_color"`
	OverlayOpacity float64               `form:"overlay_opacity"`
	LocateText     bool                  `form:"locate_text"`
}

// OCRForm is the multipart form accepted by POST /api/ocr.
type OCRForm struct {
	File     *multipart.FileHeader `form:"file" binding:"required"`
	Language string                `form:"language"`
	Region   string                `form:"region"`
}

type ClassifyRequest struct {
	Text string `json:"text"`
}

type handler struct {
	svc     *scriptorium.Service
	cfg     *config.Config
	log     *logrus.Logger
	version string
}

// NewHandler returns the HTTP routes for svc.
func NewHandler(svc *scriptorium.Service, cfg *config.Config, log *logrus.Logger, version string) http.Handler {
	h := &handler{svc: svc, cfg: cfg, log: log, version: version}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		h.requestLogger(),
		requestSizeLimiter(cfg.MaxUploadBytes),
	)

	r.GET("/health", h.healthCheck)

	api := r.Group("/api")
	api.POST("/enhance", h.enhance)
	api.POST("/classify", h.classify)
	api.POST("/ocr", h.recognize)
	api.POST("/findspot", h.plot)
	api.POST("/report", h.report)

	return r
}

func (h *handler) enhance(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var form EnhanceForm
	if err := c.ShouldBind(&form); err != nil {
		h.respondError(c, bindStatus(err), "invalid upload", err)
		return
	}

	// Parameters are checked before the upload is read.
	params := imaging.Params{BlurSize: form.BlurSize, LowThreshold: form.ThresholdLow, HighThreshold: form.ThresholdHigh}
	if err := params.Validate(); err != nil {
		h.respondError(c, statusFor(err), "invalid parameters", err)
		return
	}
	region, err := parseRegion(form.Region)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid parameters", err)
		return
	}
	raw, err := readUpload(form.File)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "failed to read upload", err)
		return
	}

	res, err := h.svc.Enhance(ctx, scriptorium.EnhanceRequest{
		Image:          raw,
		Params:         params,
		Region:         region,
		StrokeWidth:    form.StrokeWidth,
		InkColor:       form.InkColor,
		PaperColor:     form.PaperColor,
		OverlayOpacity: form.OverlayOpacity,
		LocateText:     form.LocateText,
	})
	if err != nil {
		h.respondError(c, statusFor(err), "enhancement failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}
	res, err := h.svc.Classify(c.Request.Context(), req.Text)
	if err != nil {
		h.respondError(c, statusFor(err), "classification failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) recognize(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var form OCRForm
	if err := c.ShouldBind(&form); err != nil {
		h.respondError(c, bindStatus(err), "invalid upload", err)
		return
	}
	region, err := parseRegion(form.Region)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid parameters", err)
		return
	}
	raw, err := readUpload(form.File)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "failed to read upload", err)
		return
	}

	res, err := h.svc.Recognize(ctx, scriptorium.RecognizeRequest{Image: raw, Language: form.Language, Region: region})
	if err != nil {
		h.respondError(c, statusFor(err), "ocr failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) plot(c *gin.Context) {
	var req scriptorium.PlotRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}
	res, err := h.svc.Plot(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, statusFor(err), "plot failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) report(c *gin.Context) {
	var d report.Dossier
	if err := bindOptionalJSON(c, &d); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}
	res, err := h.svc.Report(c.Request.Context(), d)
	if err != nil {
		h.respondError(c, statusFor(err), "report failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "available",
		"version":  h.version,
		"backends": imaging.Backends(),
		"ocr":      ocr.Available(),
		"max_blur": h.svc.MaxBlurSize(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func (h *handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.WithFields(logrus.Fields{
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"status":             c.Writer.Status(),
			"ip":                 c.ClientIP(),
			"processing_time_ms": time.Since(start).Milliseconds(),
		}).Info("request handled")
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case imaging.IsInvalidParameter(err):
		return http.StatusBadRequest
	case errors.Is(err, imaging.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case imaging.IsDecodeError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, paleography.ErrEmptyTranscription):
		return http.StatusBadRequest
	case errors.Is(err, ocr.ErrUnavailable):
		return http.StatusNotImplemented
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func bindStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// bindOptionalJSON binds a JSON body, treating an empty body as {}.
func bindOptionalJSON(c *gin.Context, v interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(v)
}

// parseRegion reads "x1,y1,x2,y2". An empty string means no region.
func parseRegion(s string) (*imaging.Region, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, &imaging.InvalidParameterError{Name: "region", Value: s, Reason: "want x1,y1,x2,y2"}
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, &imaging.InvalidParameterError{Name: "region", Value: s, Reason: "coordinates must be integers"}
		}
		v[i] = n
	}
	return &imaging.Region{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return raw, nil
}

func (h *handler) respondError(c *gin.Context, code int, message string, err error) {
	h.log.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Warn("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
