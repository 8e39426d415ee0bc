// Package compositor renders an ordered list of images into a single
// vertical collage.
//
// Every image is resized to the collage width, keeping its aspect ratio,
// optionally framed with a border of a palette color, and stacked top to
// bottom on a white canvas. Output depends only on the arguments; source
// images are never modified.
package compositor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Compositor renders collages with a configurable resampler
type Compositor struct {
	resizer Resizer
	limits  Limits
}

// New creates a Compositor that resamples with Lanczos
func New() *Compositor {
	return NewWithOptions(nil, DefaultLimits())
}

// NewWithResizer creates a Compositor with a custom resampler
func NewWithResizer(resizer Resizer) *Compositor {
	return NewWithOptions(resizer, DefaultLimits())
}

// NewWithOptions creates a Compositor with a custom resampler and canvas
// limits. A nil resizer uses Lanczos; zero limits use the defaults.
func NewWithOptions(resizer Resizer, limits Limits) *Compositor {
	if resizer == nil {
		resizer = ImagingResizer{Filter: imaging.Lanczos}
	}
	return &Compositor{resizer: resizer, limits: limits.withDefaults()}
}

// Limits returns the canvas limits c enforces
func (c *Compositor) Limits() Limits {
	return c.limits
}

var defaultCompositor = New()

// Compose renders images with the default compositor
func Compose(images []image.Image, p Params) (*image.NRGBA, error) {
	return defaultCompositor.Compose(images, p)
}

// Compose renders images into one collage. An empty image list yields an
// empty raster and no error.
func (c *Compositor) Compose(images []image.Image, p Params) (*image.NRGBA, error) {
	return c.ComposeContext(context.Background(), images, p)
}

// ComposeContext is Compose with cancellation. The context is checked
// before each image is processed; a cancelled call returns no raster.
func (c *Compositor) ComposeContext(ctx context.Context, images []image.Image, p Params) (*image.NRGBA, error) {
	layout, err := PlanWithin(images, p, c.limits)
	if err != nil {
		return nil, err
	}

	canvas := imaging.New(layout.Width, layout.Height, White.NRGBA())
	if len(layout.Tiles) == 0 {
		return canvas, nil
	}

	border := p.BorderColor.NRGBA()
	for _, tile := range layout.Tiles {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("compose interrupted at image %d: %w", tile.Index, err)
		}

		framed := c.frame(images[tile.Index], tile, p.BorderWidth, border)
		paste(canvas, tile.Rect, framed)
	}
	flatten(canvas)

	return canvas, nil
}

// frame resizes img to the tile size and surrounds it with the border
func (c *Compositor) frame(img image.Image, tile Tile, borderWidth int, border color.Color) image.Image {
	resized := c.resizer.Resize(img, tile.Scaled.X, tile.Scaled.Y)
	if borderWidth <= 0 {
		return resized
	}
	background := imaging.New(tile.Rect.Dx(), tile.Rect.Dy(), border)
	return imaging.Paste(background, resized, image.Pt(borderWidth, borderWidth))
}

// paste copies src into r of dst. r is clipped to dst, which cuts off the
// horizontal border bleed.
func paste(dst *image.NRGBA, r image.Rectangle, src image.Image) {
	covered := image.Rectangle{Min: r.Min, Max: r.Min.Add(src.Bounds().Size())}
	clip := r.Intersect(covered).Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}
	sp := src.Bounds().Min.Add(clip.Min.Sub(r.Min))

	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		draw.Draw(dst, clip, src, sp, draw.Src)
		return
	}
	rowLen := clip.Dx() * 4
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		di := dst.PixOffset(clip.Min.X, y)
		si := nrgba.PixOffset(sp.X, sp.Y+y-clip.Min.Y)
		copy(dst.Pix[di:di+rowLen], nrgba.Pix[si:si+rowLen])
	}
}

// flatten drops transparency the way an RGB raster would: color channels
// are kept and alpha is forced to opaque.
func flatten(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}

// IsEmpty reports whether img is the empty result of composing no images
func IsEmpty(img image.Image) bool {
	return img == nil || img.Bounds().Empty()
}
