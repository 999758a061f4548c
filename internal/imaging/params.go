package imaging

// Default filter settings, matching the initial slider positions of the
// research interface.
const (
	DefaultBlurSize      = 5
	DefaultLowThreshold  = 50
	DefaultHighThreshold = 150

	// MaxThreshold is the upper bound of both hysteresis thresholds.
	MaxThreshold = 255
)

// Params holds the three scalar inputs of the enhancement pipeline.
type Params struct {
	// BlurSize is the side of the square Gaussian kernel. Must be odd and positive.
	BlurSize int `json:"blur_size"`

	// LowThreshold is the weak-edge gradient threshold (0-255).
	LowThreshold int `json:"threshold_low"`

	// HighThreshold is the strong-edge gradient threshold (0-255).
	HighThreshold int `json:"threshold_high"`
}

// DefaultParams returns the default blur and threshold settings.
func DefaultParams() Params {
	return Params{
		BlurSize:      DefaultBlurSize,
		LowThreshold:  DefaultLowThreshold,
		HighThreshold: DefaultHighThreshold,
	}
}

// Validate checks p against the parameter contract and returns an
// *InvalidParameterError for the first field that violates it.
//
// No ordering between LowThreshold and HighThreshold is required; see
// Thresholds for how an inverted pair is interpreted.
func (p Params) Validate() error {
	if p.BlurSize <= 0 {
		return &InvalidParameterError{Name: "blur_size", Value: p.BlurSize, Reason: "must be positive"}
	}
	if p.BlurSize%2 == 0 {
		return &InvalidParameterError{Name: "blur_size", Value: p.BlurSize, Reason: "must be odd"}
	}
	if p.LowThreshold < 0 || p.LowThreshold > MaxThreshold {
		return &InvalidParameterError{Name: "threshold_low", Value: p.LowThreshold, Reason: "must be within [0, 255]"}
	}
	if p.HighThreshold < 0 || p.HighThreshold > MaxThreshold {
		return &InvalidParameterError{Name: "threshold_high", Value: p.HighThreshold, Reason: "must be within [0, 255]"}
	}
	return nil
}

// Thresholds returns the (low, high) pair used for hysteresis. When the caller
// supplies low > high the two are swapped, so the smaller value always gates
// weak edges and the larger one seeds strong edges.
func (p Params) Thresholds() (low, high int) {
	if p.LowThreshold > p.HighThreshold {
		return p.HighThreshold, p.LowThreshold
	}
	return p.LowThreshold, p.HighThreshold
}
