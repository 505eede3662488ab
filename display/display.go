// Package display provides toneadjust.Renderer sinks for the before/after
// comparison: a PNG file, an HTTP/websocket preview and a no-op.
package display

import (
	"image"

	"github.com/rs/zerolog"

	"github.com/setanarut/toneadjust"
	"github.com/setanarut/toneadjust/utils"
)

// Composer turns an original/adjusted pair into one side-by-side image.
type Composer struct {
	Palette     utils.PaletteMethod
	PaletteSize int
	Options     utils.ComposeOptions
	Logger      zerolog.Logger
}

func DefaultComposer() Composer {
	return Composer{
		Palette:     utils.PaletteMethodDominantColor,
		PaletteSize: 6,
		Options:     utils.DefaultComposeOptions(),
		Logger:      zerolog.Nop(),
	}
}

func (c Composer) Compose(original, adjusted *toneadjust.Image, label string) *image.RGBA {
	left := original.RGBA()
	right := adjusted.RGBA()
	panels := []utils.Panel{
		{Image: left, Title: "Original"},
		{Image: right, Title: label},
	}
	if c.Palette != utils.PaletteMethodNone && c.PaletteSize > 0 {
		for i := range panels {
			panels[i].Palette = utils.ExtractPalette(panels[i].Image, c.PaletteSize, c.Palette)
			c.Logger.Debug().
				Str("panel", panels[i].Title).
				Str("method", c.Palette.String()).
				Strs("palette", utils.PaletteHex(panels[i].Palette)).
				Msg("palette extracted")
		}
	}
	return utils.SideBySide(panels, c.Options)
}

// Discard accepts every render and shows nothing.
type Discard struct{}

func (Discard) Render(_, _ *toneadjust.Image, _ string) error { return nil }
