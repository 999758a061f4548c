package ocr

import (
	"errors"
	"strings"
)

// DefaultLanguage is the Tesseract language code for Telugu.
const DefaultLanguage = "tel"

// ErrUnavailable is returned when the binary was built without Tesseract support.
var ErrUnavailable = errors.New("ocr: tesseract support not compiled in")

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Word is a recognized word with its location and confidence.
type Word struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// Result contains the text read from an image.
type Result struct {
	// Text is all recognized text with original line breaks.
	Text string `json:"text"`

	// Language is the Tesseract language the text was read with.
	Language string `json:"language"`

	// Words may be empty if word boxes could not be extracted.
	Words []Word `json:"words"`
}

// Options configures a Recognize call.
type Options struct {
	// Language is a Tesseract language code or "+"-joined list ("tel+san").
	// Empty selects DefaultLanguage.
	Language string

	// TessdataPrefix overrides the directory Tesseract loads language data from.
	TessdataPrefix string
}

func (o Options) languages() []string {
	lang := strings.TrimSpace(o.Language)
	if lang == "" {
		lang = DefaultLanguage
	}
	return strings.Split(lang, "+")
}
