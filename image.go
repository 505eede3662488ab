package toneadjust

import (
	"image"
	"image/color"
)

// NumChannels is the number of color planes in an Image.
const NumChannels = 3

// Channel indices in canonical order.
const (
	Red = iota
	Green
	Blue
)

// Image is a planar 8-bit RGB image. Planes are stored in canonical
// red, green, blue order and all share the bounds (0,0)-(W,H).
type Image struct {
	W, H   int
	Planes [NumChannels]*image.Gray
}

// NewImage allocates a zeroed w×h image.
func NewImage(w, h int) *Image {
	w, h = max(w, 0), max(h, 0)
	img := &Image{W: w, H: h}
	for c := 0; c < NumChannels; c++ {
		img.Planes[c] = image.NewGray(image.Rect(0, 0, w, h))
	}
	return img
}

// FromImage splits any decoded image into canonical RGB planes.
//
// Samples are straight (non-premultiplied) color regardless of the
// concrete image type, so a translucent pixel loads the same from an
// *image.NRGBA, an *image.RGBA or a paletted source. Alpha is then
// dropped and 16-bit samples are reduced to 8 bits.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	img := NewImage(w, h)
	r, g, b := img.Planes[Red].Pix, img.Planes[Green].Pix, img.Planes[Blue].Pix

	// Fast paths for the layouts the standard decoders produce most.
	switch s := src.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := s.Pix[y*s.Stride:]
			for x := 0; x < w; x++ {
				i, o := x*4, y*w+x
				r[o], g[o], b[o] = row[i], row[i+1], row[i+2]
			}
		}
		return img
	case *image.RGBA:
		for y := 0; y < h; y++ {
			row := s.Pix[y*s.Stride:]
			for x := 0; x < w; x++ {
				i, o := x*4, y*w+x
				px := color.RGBA{row[i], row[i+1], row[i+2], row[i+3]}
				if px.A != 0xff {
					c := color.NRGBAModel.Convert(px).(color.NRGBA)
					px.R, px.G, px.B = c.R, c.G, c.B
				}
				r[o], g[o], b[o] = px.R, px.G, px.B
			}
		}
		return img
	case *image.Gray:
		for y := 0; y < h; y++ {
			copy(r[y*w:(y+1)*w], s.Pix[y*s.Stride:])
		}
		copy(g, r)
		copy(b, r)
		return img
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			o := y*w + x
			r[o], g[o], b[o] = c.R, c.G, c.B
		}
	}
	return img
}

// At returns the red, green and blue samples at (x, y).
func (img *Image) At(x, y int) (r, g, b uint8) {
	o := y*img.W + x
	return img.Planes[Red].Pix[o], img.Planes[Green].Pix[o], img.Planes[Blue].Pix[o]
}

// SameShape reports whether both images have identical dimensions.
func (img *Image) SameShape(other *Image) bool {
	return img != nil && other != nil && img.W == other.W && img.H == other.H
}

// RGBA interleaves the planes into an opaque *image.RGBA.
func (img *Image) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.W, img.H))
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			r, g, b := img.At(x, y)
			out.SetRGBA(x, y, color.RGBA{r, g, b, 255})
		}
	}
	return out
}
