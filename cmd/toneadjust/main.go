// Command toneadjust applies new = alpha*pixel + beta to every channel of
// an image and shows the original next to the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/setanarut/toneadjust"
	"github.com/setanarut/toneadjust/config"
	"github.com/setanarut/toneadjust/display"
	"github.com/setanarut/toneadjust/utils"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type settings struct {
	Input         string
	Alpha, Beta   float64
	Display       string
	Out           string
	Open          bool
	Addr          string
	Palette       utils.PaletteMethod
	PaletteSize   int
	MaxPanelWidth int
	LogLevel      zerolog.Level
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := pflag.NewFlagSet("toneadjust", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Adjust image brightness and contrast: new = alpha*pixel + beta")
		fmt.Fprintln(stderr, "\nUsage: toneadjust [flags] input_image")
		fs.PrintDefaults()
	}
	fs.String("alpha", "1.5", "contrast coefficient (>= 0)")
	fs.String("beta", "30", "brightness offset")
	fs.String("config", "", "optional YAML config file")
	fs.String("write-config", "", "save the resolved settings as a YAML config file")
	fs.String("display", "http", "display sink: http | file | none (only file writes to disk)")
	fs.String("out", "toneadjust.png", "comparison image path for --display=file")
	fs.Bool("open", false, "open the comparison image in the system viewer")
	fs.String("addr", ":8080", "listen address for --display=http")
	fs.String("palette", "dominantcolor", "palette swatches: dominantcolor | kmeans | none")
	fs.Int("palette-size", 6, "number of palette swatches per image")
	fs.Int("max-panel-width", 960, "scale wider panels down to this width (0 keeps full size)")
	fs.String("log-level", "info", "log level: debug | info | warn | error")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "error: exactly one input_image argument is required")
		fs.Usage()
		return exitUsage
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	var cfg *config.Config
	if path, _ := fs.GetString("config"); path != "" {
		c, err := config.Load(path)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("config load failed")
			return exitError
		}
		cfg = c
	}

	s, err := resolve(fs, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("invalid arguments")
		return exitError
	}
	logger = logger.Level(s.LogLevel)

	if path, _ := fs.GetString("write-config"); path != "" {
		if err := config.Save(path, s.config()); err != nil {
			logger.Error().Err(err).Str("path", path).Msg("config save failed")
			return exitError
		}
		logger.Info().Str("path", path).Msg("config written")
	}

	composer := display.DefaultComposer()
	composer.Palette = s.Palette
	composer.PaletteSize = s.PaletteSize
	composer.Options.MaxPanelWidth = s.MaxPanelWidth
	composer.Logger = logger

	var renderer toneadjust.Renderer
	switch s.Display {
	case "file":
		renderer = display.NewFile(s.Out, s.Open, composer)
	case "http":
		renderer = display.NewServer(ctx, s.Addr, composer)
	case "none":
		renderer = display.Discard{}
	default:
		logger.Error().Str("display", s.Display).Msg("unknown display sink")
		return exitUsage
	}

	p := toneadjust.NewPresenter(renderer, toneadjust.WithLogger(logger))
	logger.Debug().Float64("alpha", s.Alpha).Float64("beta", s.Beta).Str("display", s.Display).Msg("starting")
	if err := p.Run(s.Input, s.Alpha, s.Beta); err != nil {
		logger.Error().Err(err).Msg(describe(err, s.Input))
		return exitError
	}
	return exitOK
}

// config converts s back into a config file that resolves to the same
// settings.
func (s settings) config() *config.Config {
	return &config.Config{
		Tone: config.Tone{Alpha: &s.Alpha, Beta: &s.Beta},
		Display: config.Display{
			Mode:          s.Display,
			Out:           s.Out,
			Open:          s.Open,
			Addr:          s.Addr,
			MaxPanelWidth: s.MaxPanelWidth,
		},
		Palette:  config.Palette{Method: s.Palette.String(), Size: s.PaletteSize},
		LogLevel: s.LogLevel.String(),
	}
}

// resolve layers built-in defaults, then cfg, then flags the user set
// explicitly.
func resolve(fs *pflag.FlagSet, cfg *config.Config) (settings, error) {
	s := settings{Input: fs.Arg(0)}

	alpha, _ := fs.GetString("alpha")
	beta, _ := fs.GetString("beta")
	s.Display, _ = fs.GetString("display")
	s.Out, _ = fs.GetString("out")
	s.Open, _ = fs.GetBool("open")
	s.Addr, _ = fs.GetString("addr")
	palette, _ := fs.GetString("palette")
	s.PaletteSize, _ = fs.GetInt("palette-size")
	s.MaxPanelWidth, _ = fs.GetInt("max-panel-width")
	level, _ := fs.GetString("log-level")

	var err error
	if s.Alpha, err = parseParam("alpha", alpha); err != nil {
		return s, err
	}
	if s.Beta, err = parseParam("beta", beta); err != nil {
		return s, err
	}

	if cfg != nil {
		if cfg.Tone.Alpha != nil && !fs.Changed("alpha") {
			s.Alpha = *cfg.Tone.Alpha
		}
		if cfg.Tone.Beta != nil && !fs.Changed("beta") {
			s.Beta = *cfg.Tone.Beta
		}
		d := cfg.Display
		if d.Mode != "" && !fs.Changed("display") {
			s.Display = d.Mode
		}
		if d.Out != "" && !fs.Changed("out") {
			s.Out = d.Out
		}
		if d.Open && !fs.Changed("open") {
			s.Open = true
		}
		if d.Addr != "" && !fs.Changed("addr") {
			s.Addr = d.Addr
		}
		if d.MaxPanelWidth > 0 && !fs.Changed("max-panel-width") {
			s.MaxPanelWidth = d.MaxPanelWidth
		}
		if cfg.Palette.Method != "" && !fs.Changed("palette") {
			palette = cfg.Palette.Method
		}
		if cfg.Palette.Size > 0 && !fs.Changed("palette-size") {
			s.PaletteSize = cfg.Palette.Size
		}
		if cfg.LogLevel != "" && !fs.Changed("log-level") {
			level = cfg.LogLevel
		}
	}

	if s.Palette, err = utils.ParsePaletteMethod(palette); err != nil {
		return s, err
	}
	if s.LogLevel, err = zerolog.ParseLevel(level); err != nil {
		return s, fmt.Errorf("log level %q: %w", level, err)
	}
	return s, (toneadjust.Options{Alpha: s.Alpha, Beta: s.Beta}).Validate()
}

func parseParam(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, v, toneadjust.ErrInvalidParameterType)
	}
	return f, nil
}

func describe(err error, path string) string {
	switch {
	case errors.Is(err, toneadjust.ErrNotFound):
		return fmt.Sprintf("file %q does not exist", path)
	case errors.Is(err, toneadjust.ErrIsADirectory):
		return fmt.Sprintf("%q is a directory, not a file", path)
	case errors.Is(err, toneadjust.ErrDecode):
		return fmt.Sprintf("could not load image %q", path)
	case errors.Is(err, toneadjust.ErrInvalidParameterType),
		errors.Is(err, toneadjust.ErrInvalidParameterValue):
		return "invalid tone parameters"
	case errors.Is(err, toneadjust.ErrDisplay):
		return "could not display images"
	}
	return "toneadjust failed"
}
