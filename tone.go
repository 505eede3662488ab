package toneadjust

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Contrast gain. Must be >= 0; 1 leaves contrast unchanged.
	Alpha float64
	// Brightness offset added after the gain. Any finite value; negative darkens.
	Beta float64
}

func DefaultOptions() Options {
	return Options{
		Alpha: 1.5,
		Beta:  30,
	}
}

// Validate checks alpha before beta, finiteness before sign.
func (o Options) Validate() error {
	if math.IsNaN(o.Alpha) || math.IsInf(o.Alpha, 0) {
		return &ParamError{Name: "alpha", Value: o.Alpha, Err: ErrInvalidParameterType}
	}
	if math.IsNaN(o.Beta) || math.IsInf(o.Beta, 0) {
		return &ParamError{Name: "beta", Value: o.Beta, Err: ErrInvalidParameterType}
	}
	if o.Alpha < 0 {
		return &ParamError{
			Name:  "alpha",
			Value: o.Alpha,
			Err:   fmt.Errorf("%w: contrast cannot be negative", ErrInvalidParameterValue),
		}
	}
	return nil
}

// Value maps a single sample. o must already be valid.
func (o Options) Value(x uint8) uint8 {
	return saturate(math.RoundToEven(o.Alpha*float64(x) + o.Beta))
}

// lut tabulates Value for every 8-bit input.
func (o Options) lut() *[256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = o.Value(uint8(i))
	}
	return &t
}

func saturate(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// Apply returns a new plane with every sample x replaced by
// round(alpha*x + beta) clamped to [0,255]. ch is not modified.
func Apply(ch *image.Gray, alpha, beta float64) (*image.Gray, error) {
	opt := Options{Alpha: alpha, Beta: beta}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, fmt.Errorf("%w: nil channel", ErrInvalidParameterValue)
	}
	return opt.apply(ch), nil
}

func (o Options) apply(ch *image.Gray) *image.Gray {
	t := o.lut()
	bounds := ch.Bounds()
	out := image.NewGray(bounds)
	w := bounds.Dx()
	for y := 0; y < bounds.Dy(); y++ {
		src := ch.Pix[y*ch.Stride : y*ch.Stride+w]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x, v := range src {
			dst[x] = t[v]
		}
	}
	return out
}

// AdjustImage applies the transform to each plane of img and returns a
// new image of the same shape. Planes are processed concurrently.
func AdjustImage(img *Image, opt Options) (*Image, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidParameterValue)
	}
	out := &Image{W: img.W, H: img.H}
	var g errgroup.Group
	for c := 0; c < NumChannels; c++ {
		c := c
		g.Go(func() error {
			p, err := Apply(img.Planes[c], opt.Alpha, opt.Beta)
			if err != nil {
				return fmt.Errorf("channel %d: %w", c, err)
			}
			out.Planes[c] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
