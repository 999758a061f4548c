//go:build !cgo

package ocr

import (
	"context"
	"image"
)

// Recognize always fails with ErrUnavailable in builds without cgo.
func Recognize(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrUnavailable
}

// Available reports whether Recognize is backed by Tesseract in this build.
func Available() bool {
	return false
}
