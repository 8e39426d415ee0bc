package compositor

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Resizer scales an image to exactly width x height
type Resizer interface {
	Resize(img image.Image, width, height int) image.Image
}

// ResizerFunc adapts a function to the Resizer interface
type ResizerFunc func(img image.Image, width, height int) image.Image

// Resize calls f(img, width, height)
func (f ResizerFunc) Resize(img image.Image, width, height int) image.Image {
	return f(img, width, height)
}

// ImagingResizer resamples with the disintegration/imaging package
type ImagingResizer struct {
	Filter imaging.ResampleFilter
}

// Resize implements Resizer
func (r ImagingResizer) Resize(img image.Image, width, height int) image.Image {
	return imaging.Resize(img, width, height, r.Filter)
}

// NfntResizer resamples with the nfnt/resize package
type NfntResizer struct {
	Interp resize.InterpolationFunction
}

// Resize implements Resizer
func (r NfntResizer) Resize(img image.Image, width, height int) image.Image {
	return resize.Resize(uint(width), uint(height), img, r.Interp)
}

// DefaultResampler is the name of the resampler used when none is configured
const DefaultResampler = "lanczos"

var resamplers = map[string]Resizer{
	"lanczos":       ImagingResizer{Filter: imaging.Lanczos},
	"catmull-rom":   ImagingResizer{Filter: imaging.CatmullRom},
	"linear":        ImagingResizer{Filter: imaging.Linear},
	"nfnt-lanczos3": NfntResizer{Interp: resize.Lanczos3},
	"nfnt-bicubic":  NfntResizer{Interp: resize.Bicubic},
}

// Resamplers lists the names accepted by ParseResampler
func Resamplers() []string {
	return []string{"lanczos", "catmull-rom", "linear", "nfnt-lanczos3", "nfnt-bicubic"}
}

// ParseResampler returns the resizer registered under name. An empty name
// selects DefaultResampler. Nearest-neighbour filters are not offered.
func ParseResampler(name string) (Resizer, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultResampler
	}
	r, ok := resamplers[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown resampler %q (use one of %s)",
			ErrInvalidParameter, name, strings.Join(Resamplers(), ", "))
	}
	return r, nil
}
