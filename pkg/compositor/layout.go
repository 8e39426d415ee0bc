package compositor

import (
	"fmt"
	"image"
)

// Tile is the placement of one source image in the collage
type Tile struct {
	Index int
	// Scaled is the size the source is resized to, before framing
	Scaled image.Point
	// Rect is the framed image in canvas coordinates. With a border it starts
	// at x = -BorderWidth and ends at Width+BorderWidth, so the left and right
	// border bleed past the canvas and are clipped.
	Rect image.Rectangle
}

// Layout is the geometry of a collage
type Layout struct {
	Width  int
	Height int
	Tiles  []Tile
}

// Canvas returns the bounds of the output raster
func (l Layout) Canvas() image.Rectangle {
	return image.Rect(0, 0, l.Width, l.Height)
}

// ScaledHeight returns the height of a width x height image resized to
// targetWidth, rounded down.
func ScaledHeight(width, height, targetWidth int) int {
	aspectRatio := float64(height) / float64(width)
	return int(float64(targetWidth) * aspectRatio)
}

// Plan computes the collage geometry for images without touching pixel
// data, within the default limits
func Plan(images []image.Image, p Params) (Layout, error) {
	return PlanWithin(images, p, DefaultLimits())
}

// PlanWithin is Plan with explicit canvas limits. A collage that would be
// taller than l.MaxHeight is rejected before anything is allocated.
func PlanWithin(images []image.Image, p Params, l Limits) (Layout, error) {
	l = l.withDefaults()
	if err := p.ValidateWithin(l); err != nil {
		return Layout{}, err
	}

	layout := Layout{
		Width: p.Width,
		Tiles: make([]Tile, 0, len(images)),
	}

	b := p.BorderWidth
	y := 0
	for i, img := range images {
		if img == nil {
			return Layout{}, fmt.Errorf("%w: image %d is nil", ErrInvalidParameter, i)
		}
		bounds := img.Bounds()
		if bounds.Dx() <= 0 {
			return Layout{}, fmt.Errorf("%w: image %d has width %d", ErrInvalidParameter, i, bounds.Dx())
		}
		if bounds.Dy() <= 0 {
			return Layout{}, fmt.Errorf("%w: image %d has height %d", ErrInvalidParameter, i, bounds.Dy())
		}

		// compared as float so an extreme aspect ratio cannot overflow int
		if float64(p.Width)*float64(bounds.Dy())/float64(bounds.Dx()) > float64(l.MaxHeight) {
			return Layout{}, fmt.Errorf("%w: image %d (%dx%d) is taller than %d at width %d",
				ErrInvalidParameter, i, bounds.Dx(), bounds.Dy(), l.MaxHeight, p.Width)
		}
		h := ScaledHeight(bounds.Dx(), bounds.Dy(), p.Width)
		if h <= 0 {
			return Layout{}, fmt.Errorf("%w: image %d (%dx%d) scales to zero height at width %d",
				ErrInvalidParameter, i, bounds.Dx(), bounds.Dy(), p.Width)
		}

		// h <= MaxHeight and b <= MaxHeight/2, so none of these can overflow
		if b > (l.MaxHeight-h)/2 || y > l.MaxHeight-(h+2*b) {
			return Layout{}, fmt.Errorf("%w: collage height exceeds the maximum of %d at image %d",
				ErrInvalidParameter, l.MaxHeight, i)
		}

		framedHeight := h + 2*b
		layout.Tiles = append(layout.Tiles, Tile{
			Index:  i,
			Scaled: image.Pt(p.Width, h),
			Rect:   image.Rect(-b, y, p.Width+b, y+framedHeight),
		})
		y += framedHeight
	}
	layout.Height = y

	return layout, nil
}
