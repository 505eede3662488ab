package display

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/setanarut/toneadjust"
	"github.com/setanarut/toneadjust/utils"
)

// File writes the composite to Path as PNG and, when Open is set, hands
// it to the platform's default viewer.
type File struct {
	Path     string
	Open     bool
	Composer Composer

	// opener is swapped in tests.
	opener func(path string) error
}

func NewFile(path string, open bool, c Composer) *File {
	return &File{Path: path, Open: open, Composer: c, opener: openWithViewer}
}

func (f *File) Render(original, adjusted *toneadjust.Image, label string) error {
	if f.Path == "" {
		return fmt.Errorf("no output path")
	}
	canvas := f.Composer.Compose(original, adjusted, label)
	if err := utils.SaveImage(canvas, f.Path); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	f.Composer.Logger.Info().Str("path", f.Path).Str("label", label).Msg("comparison written")
	if !f.Open {
		return nil
	}
	open := f.opener
	if open == nil {
		open = openWithViewer
	}
	if err := open(f.Path); err != nil {
		return fmt.Errorf("open viewer: %w", err)
	}
	return nil
}

func openWithViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Run()
}
