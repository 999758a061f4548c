package imaging

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyImage is wrapped by DecodeError when no image bytes were supplied.
	ErrEmptyImage = errors.New("image data is empty")

	// ErrUnsupportedFormat is wrapped by DecodeError when the bytes decode as a
	// raster format other than JPEG or PNG.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrImageTooLarge is wrapped by DecodeError when the declared dimensions
	// exceed MaxPixels.
	ErrImageTooLarge = errors.New("image has too many pixels")
)

// DecodeError reports that the uploaded bytes could not be turned into an image.
type DecodeError struct {
	// Format is the format name reported by the decoder, if one was recognized.
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("decode %s image: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// InvalidParameterError reports a filter parameter outside its contract.
type InvalidParameterError struct {
	Name   string
	Value  interface{}
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Name, e.Value, e.Reason)
}

// IsDecodeError reports whether err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsInvalidParameter reports whether err is or wraps an *InvalidParameterError.
func IsInvalidParameter(err error) bool {
	var pe *InvalidParameterError
	return errors.As(err, &pe)
}
