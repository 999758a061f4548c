package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// createInMemoryImage creates a solid-color RGBA image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with four colored quadrants:
// red top-left, green top-right, blue bottom-left, white bottom-right.
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255}
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255}
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255}
			} else {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// createEdgeTestImage creates an image with a black rectangle on a white
// background, giving four clear edges.
func createEdgeTestImage(width, height int) *image.RGBA {
	img := createInMemoryImage(width, height, color.White)
	for y := height / 4; y < 3*height/4; y++ {
		for x := width / 4; x < 3*width/4; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

// createCarvedStone creates a gray "stone" with a few darker incised strokes
// of varying contrast, so different thresholds keep different amounts of edges.
func createCarvedStone(width, height int) *image.RGBA {
	img := createInMemoryImage(width, height, color.RGBA{170, 160, 150, 255})
	strokes := []struct {
		x1, y1, x2, y2 int
		shade          uint8
	}{
		{10, 10, 14, 50, 40},  // deep vertical cut
		{20, 30, 60, 33, 110}, // shallow horizontal cut
		{40, 45, 44, 70, 140}, // very faint cut
		{60, 60, 85, 64, 20},  // deep horizontal cut
	}
	for _, s := range strokes {
		for y := s.y1; y < s.y2 && y < height; y++ {
			for x := s.x1; x < s.x2 && x < width; x++ {
				img.Set(x, y, color.RGBA{s.shade, s.shade, s.shade, 255})
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("failed to encode JPEG: %v", err)
	}
	return buf.Bytes()
}

// distinctValues returns the set of pixel values present in a gray image.
func distinctValues(img *image.Gray) map[uint8]int {
	seen := make(map[uint8]int)
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			seen[img.Pix[y*img.Stride+x]]++
		}
	}
	return seen
}

func grayOf(v uint8) color.Gray {
	return color.Gray{Y: v}
}
