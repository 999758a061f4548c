//go:build cgo

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Recognize runs Tesseract over img and returns the recognized text and
// word boxes. Word boxes are in img's coordinate space.
//
// If word-level box extraction fails the text is still returned with an
// empty Words slice.
func Recognize(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(opts.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	langs := opts.languages()
	if err := client.SetLanguage(langs...); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	result := &Result{
		Text:     text,
		Language: strings.Join(langs, "+"),
		Words:    []Word{},
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return result, nil
	}

	origin := img.Bounds().Min
	for _, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		result.Words = append(result.Words, Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X + origin.X,
				Y1: box.Box.Min.Y + origin.Y,
				X2: box.Box.Max.X + origin.X,
				Y2: box.Box.Max.Y + origin.Y,
			},
		})
	}
	return result, nil
}

// Available reports whether Recognize is backed by Tesseract in this build.
func Available() bool {
	return true
}
