package toneadjust

import (
	"fmt"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/setanarut/toneadjust/utils"
)

// Load reads the image at path and returns it in canonical RGB order.
//
// The path is checked before decoding. Any path that cannot be stat'ed
// (missing, under a regular file, too long, unreachable) fails with
// ErrNotFound and a directory with ErrIsADirectory, without touching any
// decoder. Anything that exists but does not decode fails with ErrDecode.
func Load(path string) (*Image, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
	}
	if fi.IsDir() {
		return nil, &LoadError{Path: path, Err: ErrIsADirectory}
	}

	src, err := utils.ReadImage(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	}
	if src.Bounds().Empty() {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: empty image", ErrDecode)}
	}
	return FromImage(src), nil
}
