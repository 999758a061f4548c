package imaging

import (
	"fmt"
	"image"
	"sort"
	"sync"
)

// Enhancer produces an edge-enhanced rubbing from raw upload bytes.
//
// Implementations must be pure: they may not retain or modify raw, and each
// call must allocate its own output buffers so concurrent calls are safe.
type Enhancer interface {
	Enhance(raw []byte, p Params) (*image.NRGBA, *image.Gray, error)
}

// EnhancerFunc adapts an ordinary function to the Enhancer interface.
type EnhancerFunc func(raw []byte, p Params) (*image.NRGBA, *image.Gray, error)

// Enhance calls f(raw, p).
func (f EnhancerFunc) Enhance(raw []byte, p Params) (*image.NRGBA, *image.Gray, error) {
	return f(raw, p)
}

// Enhance decodes raw, converts it to grayscale, blurs it with a blurSize x
// blurSize Gaussian kernel, runs hysteresis edge detection with the given
// thresholds and inverts the result.
//
// Parameters:
//   - raw: Encoded JPEG or PNG bytes. Not modified.
//   - blurSize: Odd, positive kernel side. 1 disables smoothing. Sides far
//     larger than the image are clamped to max(4*max(w,h)+1, 31).
//   - lowThreshold, highThreshold: Gradient thresholds in [0, 255]. When low
//     exceeds high the pair is swapped.
//
// Returns:
//   - *image.NRGBA: The decoded color image at native resolution.
//   - *image.Gray: The EdgeMap, same dimensions, containing only Edge and
//     Background values.
//   - error: *InvalidParameterError or *DecodeError. On error both images are nil.
func Enhance(raw []byte, blurSize, lowThreshold, highThreshold int) (*image.NRGBA, *image.Gray, error) {
	return Params{
		BlurSize:      blurSize,
		LowThreshold:  lowThreshold,
		HighThreshold: highThreshold,
	}.Enhance(raw)
}

// Enhance runs the enhancement pipeline with p. See the package-level Enhance.
func (p Params) Enhance(raw []byte) (*image.NRGBA, *image.Gray, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}

	img, err := Decode(raw)
	if err != nil {
		return nil, nil, err
	}

	return img, p.edgeMap(img), nil
}

// edgeMap runs the grayscale, blur, detect and invert stages on a decoded image.
// p must already be valid.
func (p Params) edgeMap(img image.Image) *image.Gray {
	low, high := p.Thresholds()
	gray := Luma(img)
	blurred := gaussianBlur(gray, p.BlurSize)
	return invertEdges(detectEdges(blurred, low, high))
}

// NativeBackend is the name of the pure Go enhancer that is always available.
const NativeBackend = "native"

var (
	backendsMu sync.RWMutex
	backends   = map[string]Enhancer{
		NativeBackend: EnhancerFunc(func(raw []byte, p Params) (*image.NRGBA, *image.Gray, error) {
			return p.Enhance(raw)
		}),
	}
)

// RegisterBackend makes an Enhancer available under name. Registering the
// same name twice replaces the earlier entry.
func RegisterBackend(name string, e Enhancer) {
	backendsMu.Lock()
	backends[name] = e
	backendsMu.Unlock()
}

// Backend returns the enhancer registered under name. An empty name selects
// the native backend.
func Backend(name string) (Enhancer, error) {
	if name == "" {
		name = NativeBackend
	}
	backendsMu.RLock()
	e, ok := backends[name]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown enhancement backend %q (available: %v)", name, Backends())
	}
	return e, nil
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
