package utils

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Panel is one captioned image in a side-by-side composite.
type Panel struct {
	Image   image.Image
	Title   string
	Palette []colorful.Color
}

type ComposeOptions struct {
	// Gap around and between panels, in pixels.
	Margin int
	// Panels wider than this are scaled down, keeping aspect ratio. 0 disables scaling.
	MaxPanelWidth int
	// Height of the palette strip under each panel. Only drawn when a panel has a palette.
	SwatchHeight int
	Background   color.Color
	Foreground   color.Color
}

func DefaultComposeOptions() ComposeOptions {
	return ComposeOptions{
		Margin:        16,
		MaxPanelWidth: 960,
		SwatchHeight:  32,
		Background:    color.White,
		Foreground:    color.Black,
	}
}

var labelFace font.Face = basicfont.Face7x13

// titleHeight is the strip reserved above each panel for its caption.
func titleHeight() int {
	m := labelFace.Metrics()
	return (m.Ascent + m.Descent).Ceil() + 6
}

// SideBySide lays panels out left to right on one canvas, each with its
// title above and its palette (if any) below.
func SideBySide(panels []Panel, opt ComposeOptions) *image.RGBA {
	if opt.Background == nil {
		opt.Background = color.White
	}
	if opt.Foreground == nil {
		opt.Foreground = color.Black
	}
	margin := max(opt.Margin, 0)
	th := titleHeight()

	scaled := make([]image.Image, len(panels))
	cellW, cellH := 0, 0
	hasPalette := false
	for i, p := range panels {
		scaled[i] = fitWidth(p.Image, opt.MaxPanelWidth)
		sz := scaled[i].Bounds().Size()
		cellW = max(cellW, sz.X, font.MeasureString(labelFace, p.Title).Ceil())
		cellH = max(cellH, sz.Y)
		if len(p.Palette) > 0 {
			hasPalette = true
		}
	}
	swatchH := 0
	if hasPalette && opt.SwatchHeight > 0 {
		swatchH = opt.SwatchHeight + margin/2
	}

	n := len(panels)
	w := margin + n*(cellW+margin)
	h := margin + th + cellH + swatchH + margin
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opt.Background), image.Point{}, draw.Src)

	for i, p := range panels {
		x0 := margin + i*(cellW+margin)
		y0 := margin
		DrawLabel(canvas, p.Title, image.Pt(x0, y0), opt.Foreground)

		img := scaled[i]
		ib := img.Bounds()
		dst := image.Rect(x0, y0+th, x0+ib.Dx(), y0+th+ib.Dy())
		draw.Draw(canvas, dst, img, ib.Min, draw.Src)

		if swatchH > 0 && len(p.Palette) > 0 {
			sy := y0 + th + cellH + margin/2
			DrawPalette(canvas, p.Palette, image.Rect(x0, sy, x0+ib.Dx(), sy+opt.SwatchHeight))
		}
	}
	return canvas
}

// DrawLabel writes s with its top-left corner at at.
func DrawLabel(dst draw.Image, s string, at image.Point, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: labelFace,
		Dot:  fixed.P(at.X, at.Y+labelFace.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// DrawPalette fills r with equal-width tiles, one per palette color.
func DrawPalette(dst draw.Image, palette []colorful.Color, r image.Rectangle) {
	if len(palette) == 0 || r.Empty() {
		return
	}
	n := len(palette)
	for i, c := range palette {
		x0 := r.Min.X + i*r.Dx()/n
		x1 := r.Min.X + (i+1)*r.Dx()/n
		c = c.Clamped()
		fill := color.RGBA{
			R: uint8(c.R*255 + 0.5),
			G: uint8(c.G*255 + 0.5),
			B: uint8(c.B*255 + 0.5),
			A: 255,
		}
		draw.Draw(dst, image.Rect(x0, r.Min.Y, x1, r.Max.Y), image.NewUniform(fill), image.Point{}, draw.Src)
	}
}

func fitWidth(img image.Image, maxW int) image.Image {
	b := img.Bounds()
	if maxW <= 0 || b.Dx() <= maxW {
		return img
	}
	h := max(1, b.Dy()*maxW/b.Dx())
	out := image.NewRGBA(image.Rect(0, 0, maxW, h))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
