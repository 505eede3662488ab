package utils

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/samber/lo"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
	PaletteMethodNone
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	case PaletteMethodNone:
		return "none"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod accepts the names produced by PaletteMethod.String.
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dominantcolor", "dominant":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	case "none", "off":
		return PaletteMethodNone, nil
	}
	return PaletteMethodNone, fmt.Errorf("unknown palette method %q", s)
}

type swatch struct {
	col    colorful.Color
	weight float64
}

// luminance is Rec. 709 relative luminance on linear RGB.
func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// SortPaletteByBrightness orders colors from darkest to brightest.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		la, lb := luminance(a), luminance(b)
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
		return 0
	})
}

// PaletteHex lists the palette as #rrggbb strings.
func PaletteHex(palette []colorful.Color) []string {
	return lo.Map(palette, func(c colorful.Color, _ int) string {
		return c.Hex()
	})
}

func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 || img.Bounds().Empty() {
		return nil
	}
	found := dominantcolor.FindWeight(img, max(24, k*8))
	if len(found) == 0 {
		found = []dominantcolor.Color{{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1,
		}}
	}
	cands := make([]swatch, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		cands = append(cands, swatch{col: col.Clamped(), weight: c.Weight})
	}
	return pickDiverse(cands, k)
}

// pickDiverse greedily selects k colors: the heaviest first, then each
// next one maximizing Lab distance to the picked set scaled by weight.
func pickDiverse(cands []swatch, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))

	labs := make([][3]float64, len(cands))
	maxW := 0.0
	for i := range cands {
		cands[i].col = cands[i].col.Clamped()
		cands[i].weight = max(cands[i].weight, 1e-6)
		maxW = max(maxW, cands[i].weight)
		l, a, b := cands[i].col.Lab()
		labs[i] = [3]float64{l, a, b}
	}

	picked := make([]int, 0, k)
	used := make([]bool, len(cands))
	first := 0
	for i := range cands {
		if cands[i].weight > cands[first].weight {
			first = i
		}
	}
	picked = append(picked, first)
	used[first] = true

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i := range cands {
			if used[i] {
				continue
			}
			nearest := math.MaxFloat64
			for _, p := range picked {
				d0 := labs[i][0] - labs[p][0]
				d1 := labs[i][1] - labs[p][1]
				d2 := labs[i][2] - labs[p][2]
				nearest = min(nearest, d0*d0+d1*d1+d2*d2)
			}
			score := math.Sqrt(nearest) * (0.55 + 0.45*math.Sqrt(cands[i].weight/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		picked = append(picked, best)
	}

	out := make([]colorful.Color, len(picked))
	for i, idx := range picked {
		out[i] = cands[idx].col
	}
	return out
}

func ExtractKMeansPalette(img image.Image, k int) []colorful.Color {
	b := img.Bounds()
	if k <= 0 || b.Empty() {
		return nil
	}

	// Subsample so kmeans stays cheap on large photos.
	const maxSamples = 12000
	step := 1
	if n := b.Dx() * b.Dy(); n > maxSamples {
		step = int(math.Sqrt(float64(n)/maxSamples)) + 1
	}
	var obs clusters.Observations
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			obs = append(obs, clusters.Coordinates{
				float64(r) / 65535,
				float64(g) / 65535,
				float64(bl) / 65535,
			})
		}
	}
	if len(obs) == 0 {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(obs, min(max(k*4, k+2), len(obs)))
	if err != nil || len(cc) == 0 {
		return nil
	}
	cands := make([]swatch, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}
		cands = append(cands, swatch{col: col, weight: float64(len(c.Observations))})
	}
	return pickDiverse(cands, k)
}

// ExtractPalette returns up to k colors sorted dark to bright, or nil for
// PaletteMethodNone. An empty kmeans result falls back to dominantcolor.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []colorful.Color {
	var p []colorful.Color
	switch method {
	case PaletteMethodNone:
		return nil
	case PaletteMethodKMeans:
		p = ExtractKMeansPalette(img, k)
		if len(p) == 0 {
			p = ExtractDominantPalette(img, k)
		}
	default:
		p = ExtractDominantPalette(img, k)
	}
	SortPaletteByBrightness(p)
	return p
}

func ReadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
