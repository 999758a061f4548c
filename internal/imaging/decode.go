package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"sync/atomic"

	"github.com/disintegration/imaging"
)

// supportedFormats lists the decoder names accepted for uploads. Other
// registered decoders (gif, bmp, tiff) are rejected.
var supportedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
}

// DefaultMaxPixels bounds the width*height of a decoded photo. It admits a
// 50 megapixel camera frame.
const DefaultMaxPixels int64 = 50_000_000

var maxPixels atomic.Int64

func init() {
	maxPixels.Store(DefaultMaxPixels)
}

// SetMaxPixels changes the pixel limit applied by Decode. n <= 0 restores
// DefaultMaxPixels.
func SetMaxPixels(n int64) {
	if n <= 0 {
		n = DefaultMaxPixels
	}
	maxPixels.Store(n)
}

// MaxPixels returns the pixel limit applied by Decode.
func MaxPixels() int64 {
	return maxPixels.Load()
}

// Decode turns raw upload bytes into a color image at native resolution.
//
// The returned image is always *image.NRGBA with its origin at (0,0) and every
// alpha value forced to 255, so only the three color channels carry data.
// raw is never modified or retained.
//
// # Errors
//
//   - *DecodeError wrapping ErrEmptyImage if raw is empty
//   - *DecodeError wrapping ErrUnsupportedFormat for formats other than JPEG/PNG
//   - *DecodeError wrapping ErrImageTooLarge if the header declares more than
//     MaxPixels pixels; nothing is allocated for the pixel data
//   - *DecodeError wrapping the decoder error for corrupt data
func Decode(raw []byte) (*image.NRGBA, error) {
	if len(raw) == 0 {
		return nil, &DecodeError{Err: ErrEmptyImage}
	}

	hdr, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if !supportedFormats[format] {
		return nil, &DecodeError{Format: format, Err: ErrUnsupportedFormat}
	}
	if limit := MaxPixels(); int64(hdr.Width)*int64(hdr.Height) > limit {
		return nil, &DecodeError{
			Format: format,
			Err:    fmt.Errorf("%w: %dx%d exceeds %d", ErrImageTooLarge, hdr.Width, hdr.Height, limit),
		}
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}

	// Clone rebases the bounds to (0,0) and converts any color model to NRGBA.
	img := imaging.Clone(src)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img, nil
}

// ReadFile reads at most maxBytes of an image file from disk. It is the
// file-system equivalent of receiving an upload and performs no decoding.
func ReadFile(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if maxBytes > 0 && int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("image %s exceeds %d bytes", path, maxBytes)
	}
	return raw, nil
}
