// Package imaging implements the edge-enhancement pipeline that turns a field
// photograph of an inscribed stone into a rubbing-like line drawing.
//
// The core operation is Enhance: decode JPEG/PNG bytes, convert to BT.601
// grayscale, smooth with a square Gaussian kernel, run Canny edge detection
// with hysteresis, and invert so strokes are dark on a light field. The
// original color image and the EdgeMap are both returned.
//
// # Coordinate System
//
// All images produced by this package have their origin at (0,0) in the
// top-left corner, X increasing rightward and Y increasing downward. Regions
// are inclusive at (X1,Y1) and exclusive at (X2,Y2).
//
// # Thread Safety
//
// Every operation is stateless and allocates its own buffers, so calls may run
// concurrently. The backend registry is guarded by a mutex.
//
// # Error Handling
//
// Two error types make up the taxonomy:
//   - *DecodeError: the bytes are empty, corrupt, or not JPEG/PNG
//   - *InvalidParameterError: a blur size, threshold, region or color is out of contract
//
// Use errors.As, IsDecodeError or IsInvalidParameter to tell them apart. No
// function returns a partial result alongside an error.
//
// # Backends
//
// The pure Go implementation is registered as "native". Building with
// -tags opencv adds an "opencv" backend that runs the same stages through gocv.
package imaging
