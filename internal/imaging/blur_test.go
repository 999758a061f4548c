package imaging

import (
	"image"
	"math"
	"testing"
)

func TestGaussianKernel_Normalized(t *testing.T) {
	for _, k := range []int{1, 3, 5, 7, 9, 11, 15, 31} {
		kernel := gaussianKernel(k)
		if len(kernel) != k {
			t.Fatalf("k=%d: got length %d", k, len(kernel))
		}

		var sum float64
		for i, v := range kernel {
			sum += v
			if math.Abs(v-kernel[k-1-i]) > 1e-12 {
				t.Errorf("k=%d: kernel not symmetric at %d", k, i)
			}
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("k=%d: kernel sums to %f, want 1", k, sum)
		}

		// Weights must peak at the center.
		if k > 1 && kernel[k/2] <= kernel[0] {
			t.Errorf("k=%d: center weight %f not above edge weight %f", k, kernel[k/2], kernel[0])
		}
	}
}

func TestGaussianKernel_FixedTablesNotShared(t *testing.T) {
	kernel := gaussianKernel(3)
	kernel[0] = 99
	if gaussianKernel(3)[0] != 0.25 {
		t.Error("modifying a returned kernel changed the fixed table")
	}
}

func TestGaussianSigma(t *testing.T) {
	tests := []struct {
		k    int
		want float64
	}{
		{3, 0.8},
		{9, 1.7},
		{15, 2.6},
	}
	for _, tt := range tests {
		if got := gaussianSigma(tt.k); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("gaussianSigma(%d): got %f, want %f", tt.k, got, tt.want)
		}
	}
}

func TestGaussianBlur_Uniform(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range src.Pix {
		src.Pix[i] = 128
	}

	for _, k := range []int{1, 3, 5, 9, 15} {
		blurred := gaussianBlur(src, k)
		for i, v := range blurred.Pix {
			if v != 128 {
				t.Fatalf("k=%d: pixel %d got %d, want 128", k, i, v)
			}
		}
	}
}

func TestGaussianBlur_IdentityAtSizeOne(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 7, 5))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 37)
	}

	blurred := gaussianBlur(src, 1)
	for i := range src.Pix {
		if blurred.Pix[i] != src.Pix[i] {
			t.Fatalf("pixel %d: got %d, want %d", i, blurred.Pix[i], src.Pix[i])
		}
	}
}

func TestGaussianBlur_WithSpot(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 11, 11))
	src.SetGray(5, 5, grayOf(255))

	blurred := gaussianBlur(src, 5)

	if blurred.GrayAt(5, 5).Y >= 255 {
		t.Error("bright spot should be reduced after blur")
	}
	for _, p := range []image.Point{{4, 5}, {6, 5}, {5, 4}, {5, 6}} {
		if blurred.GrayAt(p.X, p.Y).Y == 0 {
			t.Errorf("neighbor %v should receive some brightness from blur", p)
		}
	}
}

func TestGaussianBlur_KernelLargerThanImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = 200
	}

	blurred := gaussianBlur(src, 15)
	if blurred.Rect.Dx() != 3 || blurred.Rect.Dy() != 2 {
		t.Fatalf("dimensions: got %v", blurred.Rect)
	}
	for i, v := range blurred.Pix {
		if v != 200 {
			t.Errorf("pixel %d: got %d, want 200", i, v)
		}
	}
}

func TestBlurSide(t *testing.T) {
	tests := []struct {
		name    string
		k, w, h int
		want    int
	}{
		{"slider range untouched on tiny image", 15, 1, 1, 15},
		{"floor", 101, 2, 3, minBlurCap},
		{"longest side", 1<<30 + 1, 20, 10, 81},
		{"within limit", 41, 20, 10, 41},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blurSide(tt.k, tt.w, tt.h); got != tt.want {
				t.Errorf("blurSide(%d, %d, %d): got %d, want %d", tt.k, tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestGaussianBlur_HugeKernelIsClamped(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 15)
	}

	got := gaussianBlur(src, 1<<30+1)
	want := gaussianBlur(src, minBlurCap)
	for i := range want.Pix {
		if got.Pix[i] != want.Pix[i] {
			t.Errorf("pixel %d: got %d, want %d", i, got.Pix[i], want.Pix[i])
		}
	}
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-7, 3, 1},
		{3, 1, 0},
		{-1, 2, 1},
		{2, 2, 0},
	}
	for _, tt := range tests {
		if got := reflect101(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect101(%d, %d): got %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},   // within range
		{-1, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}
