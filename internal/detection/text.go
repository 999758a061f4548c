// Package detection locates the inscribed part of a stone on an EdgeMap.
//
// Carved letters leave a band of moderately dense, mostly horizontal strokes;
// weathering and the stone's outline are either too sparse or too dense. The
// locator slides windows sized relative to the photo over the map, scores
// each one and merges overlapping hits. It is a heuristic meant to suggest a
// crop region, not a layout analyzer.
package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/shilavakya/internal/imaging"
)

// DefaultMinConfidence filters out windows that are unlikely to hold text.
const DefaultMinConfidence = 0.1

// Density band in which a window can hold carved text.
const (
	minDensity    = 0.05
	maxDensity    = 0.4
	targetDensity = 0.2
)

// TextRegion is a candidate area of inscribed text.
type TextRegion struct {
	Region     imaging.Region `json:"region"`
	Confidence float64        `json:"confidence"`
	Area       int            `json:"area"`
}

// windowFractions are window sizes as fractions of the map's width and
// height, from a single line of text up to a full panel.
var windowFractions = []struct{ w, h float64 }{
	{1.0 / 2, 1.0 / 6},
	{1.0 / 3, 1.0 / 8},
	{2.0 / 3, 1.0 / 5},
	{1.0 / 4, 1.0 / 10},
}

// LocateText returns regions of edgeMap likely to contain inscribed text,
// highest confidence first. Coordinates are relative to edgeMap's origin.
func LocateText(edgeMap *image.Gray, minConfidence float64) []TextRegion {
	width, height := edgeMap.Rect.Dx(), edgeMap.Rect.Dy()
	candidates := make([]TextRegion, 0)
	if width == 0 || height == 0 {
		return candidates
	}

	edges := make([][]bool, height)
	for y := range edges {
		edges[y] = make([]bool, width)
		row := edgeMap.Pix[y*edgeMap.Stride : y*edgeMap.Stride+width]
		for x, v := range row {
			edges[y][x] = v == imaging.Edge
		}
	}
	sums := integral(edges)

	for _, f := range windowFractions {
		ww := max(int(float64(width)*f.w), 8)
		wh := max(int(float64(height)*f.h), 4)
		if ww > width || wh > height {
			continue
		}
		stepX, stepY := max(ww/2, 1), max(wh/2, 1)

		for y := 0; y <= height-wh; y += stepY {
			for x := 0; x <= width-ww; x += stepX {
				area := ww * wh
				density := float64(sums.count(x, y, ww, wh)) / float64(area)
				if density < minDensity || density > maxDensity {
					continue
				}

				confidence := horizontalScore(edges, x, y, ww, wh) *
					(1.0 - math.Abs(density-targetDensity)/targetDensity)
				if confidence < minConfidence {
					continue
				}
				candidates = append(candidates, TextRegion{
					Region:     imaging.Region{X1: x, Y1: y, X2: x + ww, Y2: y + wh},
					Confidence: math.Round(confidence*1000) / 1000,
					Area:       area,
				})
			}
		}
	}

	merged := mergeOverlappingRegions(candidates)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})
	return merged
}

// summedArea is a summed-area table with a zero first row and column.
type summedArea struct {
	w    int
	sums []int
}

func integral(edges [][]bool) summedArea {
	h := len(edges)
	w := len(edges[0])
	s := summedArea{w: w + 1, sums: make([]int, (w+1)*(h+1))}
	for y := 0; y < h; y++ {
		run := 0
		for x := 0; x < w; x++ {
			if edges[y][x] {
				run++
			}
			s.sums[(y+1)*s.w+x+1] = s.sums[y*s.w+x+1] + run
		}
	}
	return s
}

// count returns the number of edge pixels in the w x h window at (x, y).
func (s summedArea) count(x, y, w, h int) int {
	return s.sums[(y+h)*s.w+x+w] - s.sums[y*s.w+x+w] - s.sums[(y+h)*s.w+x] + s.sums[y*s.w+x]
}

// horizontalScore is the share of edge runs that are horizontal. Lines of
// text produce more horizontal runs than a crack or the stone's silhouette.
func horizontalScore(edges [][]bool, x, y, w, h int) float64 {
	horizontalRuns := 0
	verticalRuns := 0

	for row := y; row < y+h; row++ {
		inRun := false
		for col := x; col < x+w; col++ {
			if edges[row][col] {
				if !inRun {
					horizontalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	for col := x; col < x+w; col++ {
		inRun := false
		for row := y; row < y+h; row++ {
			if edges[row][col] {
				if !inRun {
					verticalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	if horizontalRuns+verticalRuns == 0 {
		return 0
	}
	return float64(horizontalRuns) / float64(horizontalRuns+verticalRuns)
}

// mergeOverlappingRegions folds each candidate into the first region it
// overlaps, keeping the higher confidence.
func mergeOverlappingRegions(regions []TextRegion) []TextRegion {
	if len(regions) == 0 {
		return regions
	}

	merged := make([]TextRegion, 0)

	for _, r := range regions {
		foundMerge := false
		for i := range merged {
			if regionsOverlap(r.Region, merged[i].Region) {
				merged[i].Region = mergeBounds(r.Region, merged[i].Region)
				merged[i].Confidence = math.Max(r.Confidence, merged[i].Confidence)
				merged[i].Area = (merged[i].Region.X2 - merged[i].Region.X1) *
					(merged[i].Region.Y2 - merged[i].Region.Y1)
				foundMerge = true
				break
			}
		}
		if !foundMerge {
			merged = append(merged, r)
		}
	}

	return merged
}

func regionsOverlap(a, b imaging.Region) bool {
	return a.X1 < b.X2 && a.X2 > b.X1 && a.Y1 < b.Y2 && a.Y2 > b.Y1
}

func mergeBounds(a, b imaging.Region) imaging.Region {
	return imaging.Region{
		X1: min(a.X1, b.X1),
		Y1: min(a.Y1, b.Y1),
		X2: max(a.X2, b.X2),
		Y2: max(a.Y2, b.Y2),
	}
}
