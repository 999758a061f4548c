package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

// EncodedImage is an image encoded as base64 PNG for transport.
type EncodedImage struct {
	// Width of the image in pixels.
	Width int `json:"width"`

	// Height of the image in pixels.
	Height int `json:"height"`

	// ImageBase64 is the image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// EncodePNG encodes img as PNG and wraps it with its dimensions.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return &EncodedImage{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
