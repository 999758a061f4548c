package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Pixel values of an EdgeMap. Edges are drawn dark on a light field so the
// result reads like an ink rubbing of the stone.
const (
	Background uint8 = 255
	Edge       uint8 = 0
)

// tan(22.5°) and tan(67.5°) in 15-bit fixed point, used to bin gradient
// directions without trigonometry.
const (
	tan22 = 13573 // round(0.4142135623730950488 * (1 << 15))
	tan67 = tan22 + (2 << 15)
	shift = 15
)

// Luma converts a color image to single-channel grayscale using the ITU-R
// BT.601 weights (0.299*R + 0.587*G + 0.114*B).
func Luma(img image.Image) *image.Gray {
	gray := imaging.Grayscale(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*out.Stride+x] = gray.Pix[y*gray.Stride+x*4]
		}
	}
	return out
}

// detectEdges runs Canny edge detection on an 8-bit grayscale image and
// returns a map where edge pixels are 255 and everything else is 0.
//
// # Algorithm
//
//  1. Gradient computation: 3x3 Sobel operators, magnitude = |Gx| + |Gy|
//
//  2. Non-maximum suppression: a pixel survives only if it is a local maximum
//     along its gradient direction, binned to 0°, 45°, 90° or 135°
//
//  3. Hysteresis thresholding:
//     - Pixels above high are strong edges (always kept)
//     - Pixels above low are weak edges, kept only if 8-connected
//     (directly or through other weak edges) to a strong edge
//     - Everything else is discarded
//
// Both thresholds are compared with strict inequality, so a flat image never
// produces edges whatever the thresholds are.
func detectEdges(src *image.Gray, low, high int) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	at := func(x, y int) int {
		x = clamp(x, 0, w-1)
		y = clamp(y, 0, h-1)
		return int(src.Pix[y*src.Stride+x])
	}

	gx := make([]int, w*h)
	gy := make([]int, w*h)
	mag := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x-1, y) + at(x-1, y+1))
			dy := (at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x, y-1) + at(x+1, y-1))
			i := y*w + x
			gx[i], gy[i] = dx, dy
			mag[i] = abs(dx) + abs(dy)
		}
	}

	magAt := func(x, y int) int {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	const (
		none = iota
		weak
		strong
	)
	state := make([]uint8, w*h)
	stack := make([]int, 0, 64)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if m <= low {
				continue
			}

			dx, dy := gx[i], gy[i]
			ax, ay := abs(dx), abs(dy)
			t22 := ax * tan22
			ys := ay << shift

			var isMax bool
			switch {
			case ys < t22:
				// Horizontal gradient: compare left and right.
				isMax = m > magAt(x-1, y) && m >= magAt(x+1, y)
			case ys > ax*tan67:
				// Vertical gradient: compare above and below.
				isMax = m > magAt(x, y-1) && m >= magAt(x, y+1)
			default:
				s := 1
				if (dx < 0) != (dy < 0) {
					s = -1
				}
				isMax = m > magAt(x-s, y-1) && m > magAt(x+s, y+1)
			}
			if !isMax {
				continue
			}

			if m > high {
				state[i] = strong
				stack = append(stack, i)
			} else {
				state[i] = weak
			}
		}
	}

	// Grow strong edges through connected weak pixels.
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				px, py := x+kx, y+ky
				if px < 0 || py < 0 || px >= w || py >= h {
					continue
				}
				j := py*w + px
				if state[j] == weak {
					state[j] = strong
					stack = append(stack, j)
				}
			}
		}
	}

	for i, s := range state {
		if s == strong {
			out.Pix[(i/w)*out.Stride+i%w] = 255
		}
	}
	return out
}

// invertEdges turns a detection map (edges 255) into an EdgeMap with dark
// strokes on a light background.
func invertEdges(edges *image.Gray) *image.Gray {
	out := image.NewGray(edges.Rect)
	for i, v := range edges.Pix {
		if v != 0 {
			out.Pix[i] = Edge
		} else {
			out.Pix[i] = Background
		}
	}
	return out
}

// CountEdges returns the number of Edge pixels in an EdgeMap.
func CountEdges(edgeMap *image.Gray) int {
	n := 0
	w, h := edgeMap.Rect.Dx(), edgeMap.Rect.Dy()
	for y := 0; y < h; y++ {
		row := edgeMap.Pix[y*edgeMap.Stride : y*edgeMap.Stride+w]
		for _, v := range row {
			if v == Edge {
				n++
			}
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
