package toneadjust

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Renderer displays an original and an adjusted image side by side. label
// describes the parameters the adjusted image was produced with.
type Renderer interface {
	Render(original, adjusted *Image, label string) error
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(original, adjusted *Image, label string) error

func (f RendererFunc) Render(original, adjusted *Image, label string) error {
	return f(original, adjusted, label)
}

type Presenter struct {
	Renderer Renderer
	Logger   zerolog.Logger
}

type PresenterOption func(*Presenter)

func WithLogger(l zerolog.Logger) PresenterOption {
	return func(p *Presenter) { p.Logger = l }
}

func NewPresenter(r Renderer, opts ...PresenterOption) *Presenter {
	p := &Presenter{
		Renderer: r,
		Logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Label formats the caption shown over the adjusted image. Values are
// written in plain decimal and whole numbers keep a trailing ".0", so 30
// reads "30.0" and 1e6 reads "1000000.0".
func Label(alpha, beta float64) string {
	return "Contrast: " + formatParam(alpha) + ", Brightness: " + formatParam(beta)
}

func formatParam(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Show hands both images to the renderer. Any renderer failure is
// returned wrapped in ErrDisplay.
func (p *Presenter) Show(original, adjusted *Image, alpha, beta float64) error {
	if p.Renderer == nil {
		return fmt.Errorf("%w: no renderer configured", ErrDisplay)
	}
	if !original.SameShape(adjusted) {
		return fmt.Errorf("%w: original and adjusted images differ in shape", ErrDisplay)
	}
	if err := p.Renderer.Render(original, adjusted, Label(alpha, beta)); err != nil {
		if errors.Is(err, ErrDisplay) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrDisplay, err)
	}
	return nil
}

// Run loads path, adjusts each channel and shows the result. Each stage
// stops the pipeline on failure; nothing is displayed after an error.
func (p *Presenter) Run(path string, alpha, beta float64) error {
	original, err := Load(path)
	if err != nil {
		return err
	}
	p.Logger.Info().Str("path", path).Int("width", original.W).Int("height", original.H).Msg("image loaded")

	adjusted, err := AdjustImage(original, Options{Alpha: alpha, Beta: beta})
	if err != nil {
		return err
	}
	p.logStats("original", original)
	p.logStats("adjusted", adjusted)

	return p.Show(original, adjusted, alpha, beta)
}

func (p *Presenter) logStats(name string, img *Image) {
	if p.Logger.GetLevel() > zerolog.DebugLevel {
		return
	}
	names := [NumChannels]string{"r", "g", "b"}
	for c, s := range Stats(img) {
		p.Logger.Debug().
			Str("image", name).
			Str("channel", names[c]).
			Float64("mean", s.Mean).
			Float64("stddev", s.StdDev).
			Float64("min", s.Min).
			Float64("max", s.Max).
			Int("black", s.Black).
			Int("white", s.White).
			Msg("channel stats")
	}
}
