// Package preview turns a rendered collage into a bounded thumbnail and
// cancels renders that were superseded by newer parameters.
package preview

import (
	"context"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/menta2k/vcollage/pkg/compositor"
)

// Default thumbnail bounds
const (
	DefaultMaxWidth  = 300
	DefaultMaxHeight = 1000
)

// Thumbnail scales img down to fit maxWidth x maxHeight keeping the aspect
// ratio. Images that already fit are copied unscaled. img is not modified.
func Thumbnail(img image.Image, maxWidth, maxHeight int) *image.NRGBA {
	if compositor.IsEmpty(img) {
		return &image.NRGBA{}
	}
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}

// Frame is the result of one render
type Frame struct {
	// Full is the authoritative collage, used for export
	Full *image.NRGBA
	// Thumb is Full scaled down for display
	Thumb *image.NRGBA
}

// Empty reports whether there was nothing to render
func (f Frame) Empty() bool {
	return compositor.IsEmpty(f.Full)
}

// Renderer produces preview frames. Starting a render cancels the one
// still in flight, so only the latest parameters finish.
type Renderer struct {
	compositor *compositor.Compositor
	maxWidth   int
	maxHeight  int

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewRenderer creates a Renderer. A nil compositor uses the default one.
func NewRenderer(c *compositor.Compositor, maxWidth, maxHeight int) *Renderer {
	if c == nil {
		c = compositor.New()
	}
	return &Renderer{
		compositor: c,
		maxWidth:   maxWidth,
		maxHeight:  maxHeight,
	}
}

// Render composes images and thumbnails the result. A render superseded by
// a later call returns context.Canceled.
func (r *Renderer) Render(ctx context.Context, images []image.Image, p compositor.Params) (Frame, error) {
	ctx, seq := r.begin(ctx)
	defer r.end(seq)

	full, err := r.compositor.ComposeContext(ctx, images, p)
	if err != nil {
		return Frame{}, err
	}
	return Frame{
		Full:  full,
		Thumb: Thumbnail(full, r.maxWidth, r.maxHeight),
	}, nil
}

func (r *Renderer) begin(parent context.Context) (context.Context, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	r.seq++
	r.cancel = cancel
	return ctx, r.seq
}

func (r *Renderer) end(seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seq == seq && r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
