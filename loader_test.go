package toneadjust_test

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/setanarut/toneadjust"
)

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// rgbStripes is 3×2: red, green, blue columns.
func rgbStripes() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	cols := []color.NRGBA{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetNRGBA(x, y, cols[x])
		}
	}
	return img
}

func TestLoadCanonicalOrder(t *testing.T) {
	path := writePNG(t, t.TempDir(), "stripes.png", rgbStripes())

	img, err := toneadjust.Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, img.W)
	require.Equal(t, 2, img.H)

	r, g, b := img.At(0, 1)
	require.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
	r, g, b = img.At(1, 0)
	require.Equal(t, [3]uint8{0, 255, 0}, [3]uint8{r, g, b})
	r, g, b = img.At(2, 1)
	require.Equal(t, [3]uint8{0, 0, 255}, [3]uint8{r, g, b})
}

func TestLoadGrayAndPaletted(t *testing.T) {
	dir := t.TempDir()

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 1, color.Gray{Y: 90})
	img, err := toneadjust.Load(writePNG(t, dir, "gray.png", gray))
	require.NoError(t, err)
	r, g, b := img.At(1, 1)
	require.Equal(t, [3]uint8{90, 90, 90}, [3]uint8{r, g, b})

	pal := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{
		color.RGBA{10, 20, 30, 255},
		color.RGBA{200, 100, 50, 255},
	})
	pal.SetColorIndex(1, 0, 1)
	img, err = toneadjust.Load(writePNG(t, dir, "pal.png", pal))
	require.NoError(t, err)
	r, g, b = img.At(1, 0)
	require.Equal(t, [3]uint8{200, 100, 50}, [3]uint8{r, g, b})
}

func TestLoadJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range src.Pix {
		src.Pix[i] = 128
	}
	path := filepath.Join(t.TempDir(), "flat.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, src, &jpeg.Options{Quality: 95}))
	require.NoError(t, f.Close())

	img, err := toneadjust.Load(path)
	require.NoError(t, err)
	require.Equal(t, 16, img.W)
	r, g, b := img.At(8, 8)
	require.InDelta(t, 128, int(r), 3)
	require.InDelta(t, 128, int(g), 3)
	require.InDelta(t, 128, int(b), 3)
}

func TestLoadNotFound(t *testing.T) {
	_, err := toneadjust.Load("/no/such/file.png")
	require.ErrorIs(t, err, toneadjust.ErrNotFound)
	require.NotErrorIs(t, err, toneadjust.ErrDecode)
	require.NotErrorIs(t, err, toneadjust.ErrIsADirectory)

	var le *toneadjust.LoadError
	require.True(t, errors.As(err, &le))
	require.Equal(t, "/no/such/file.png", le.Path)
}

func TestLoadUnreachablePathIsNotFound(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(plain, []byte("text"), 0o644))

	for name, path := range map[string]string{
		"under regular file": filepath.Join(plain, "img.png"),
		"name too long":      filepath.Join(dir, strings.Repeat("x", 300)+".png"),
	} {
		_, err := toneadjust.Load(path)
		require.ErrorIs(t, err, toneadjust.ErrNotFound, name)
		require.NotErrorIs(t, err, toneadjust.ErrDecode, name)

		var le *toneadjust.LoadError
		require.True(t, errors.As(err, &le), name)
		require.Equal(t, path, le.Path, name)

		var pe *fs.PathError
		require.True(t, errors.As(err, &pe), "os cause is kept: %s", name)
	}
}

func TestLoadDirectory(t *testing.T) {
	_, err := toneadjust.Load(t.TempDir())
	require.ErrorIs(t, err, toneadjust.ErrIsADirectory)
	require.NotErrorIs(t, err, toneadjust.ErrNotFound)
	require.NotErrorIs(t, err, toneadjust.ErrDecode)
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG not really"), 0o644))

	_, err := toneadjust.Load(path)
	require.ErrorIs(t, err, toneadjust.ErrDecode)
	require.NotErrorIs(t, err, toneadjust.ErrNotFound)
	require.NotErrorIs(t, err, toneadjust.ErrIsADirectory)
}

func TestFromImageRGBAImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(4, 4, 6, 5))
	src.SetRGBA(5, 4, color.RGBA{1, 2, 3, 255})
	img := toneadjust.FromImage(src)
	require.Equal(t, 2, img.W)
	require.Equal(t, 1, img.H)
	r, g, b := img.At(1, 0)
	require.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})

	back := img.RGBA()
	require.Equal(t, color.RGBA{1, 2, 3, 255}, back.RGBAAt(1, 0))
}

func TestFromImageTranslucentIsStraightColor(t *testing.T) {
	want := [3]uint8{200, 100, 50}
	px := color.NRGBA{200, 100, 50, 128}

	nrgba := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	nrgba.SetNRGBA(0, 0, px)

	pal := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{px})

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, px)

	for name, src := range map[string]image.Image{"nrgba": nrgba, "paletted": pal} {
		r, g, b := toneadjust.FromImage(src).At(0, 0)
		require.Equal(t, want, [3]uint8{r, g, b}, name)
	}

	// premultiplied storage loses a little precision at half alpha
	r, g, b := toneadjust.FromImage(rgba).At(0, 0)
	require.InDelta(t, 200, int(r), 1)
	require.InDelta(t, 100, int(g), 1)
	require.InDelta(t, 50, int(b), 1)
}
