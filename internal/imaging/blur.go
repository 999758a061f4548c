package imaging

import (
	"image"
	"math"
)

// smallGaussianKernels are the fixed binomial kernels used for the common odd
// sizes when sigma is derived from the kernel size.
var smallGaussianKernels = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// minBlurCap is the smallest kernel side blurSide ever clamps to, so the
// interactive slider range always runs unmodified.
const minBlurCap = 31

// blurSide returns the kernel side actually used for a k x k blur of a w x h
// image. A side of 4*max(w,h)+1 already spans a full reflect-101 period on
// each side of every pixel; larger sides are clamped to it.
func blurSide(k, w, h int) int {
	limit := max(4*max(w, h)+1, minBlurCap)
	if k > limit {
		return limit
	}
	return k
}

// gaussianSigma derives sigma from an odd kernel size k:
//
//	sigma = 0.3*((k-1)*0.5 - 1) + 0.8
func gaussianSigma(k int) float64 {
	return 0.3*(float64(k-1)*0.5-1) + 0.8
}

// gaussianKernel returns a normalized 1D Gaussian kernel of odd length k.
// The 2D kernel is its outer product, so blurring is done in two passes.
func gaussianKernel(k int) []float64 {
	if fixed, ok := smallGaussianKernels[k]; ok {
		out := make([]float64, k)
		copy(out, fixed)
		return out
	}

	sigma := gaussianSigma(k)
	scale := -0.5 / (sigma * sigma)
	radius := k / 2

	kernel := make([]float64, k)
	var sum float64
	for i := 0; i < k; i++ {
		x := float64(i - radius)
		kernel[i] = math.Exp(scale * x * x)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// gaussianBlur smooths a grayscale image with a square Gaussian kernel of side
// k. Border pixels use reflect-101 extension (…cb|abc…|ba…). The result is
// rounded back to 8 bits; k == 1 returns an identical copy. k is clamped by
// blurSide.
func gaussianBlur(src *image.Gray, k int) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	k = blurSide(k, w, h)
	kernel := gaussianKernel(k)
	radius := k / 2

	// Horizontal pass into a float buffer.
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x := 0; x < w; x++ {
			var sum float64
			for i, kv := range kernel {
				sum += float64(row[reflect101(x+i-radius, w)]) * kv
			}
			tmp[y*w+x] = sum
		}
	}

	// Vertical pass and quantization.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for i, kv := range kernel {
				sum += tmp[reflect101(y+i-radius, h)*w+x] * kv
			}
			dst.Pix[y*dst.Stride+x] = clampUint8(sum)
		}
	}
	return dst
}

// reflect101 maps an out-of-range index back into [0, n) by mirroring around
// the edge pixels without repeating them.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*(n-1) - i
		}
	}
	return i
}

// clampUint8 rounds v to the nearest integer and clamps it to [0, 255].
func clampUint8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
