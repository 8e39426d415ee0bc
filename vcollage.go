// Package vcollage builds vertical photo collages.
//
// Images are resized to a common width, optionally framed with a border of
// one of a fixed set of colors, and stacked top to bottom. The order of the
// images decides the order in the collage.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/menta2k/vcollage"
//		"github.com/menta2k/vcollage/pkg/compositor"
//		"github.com/menta2k/vcollage/pkg/imageset"
//	)
//
//	func main() {
//		maker := vcollage.New()
//
//		if err := maker.AddFiles("beach.jpg", "sunset.png"); err != nil {
//			log.Fatal(err)
//		}
//		if _, err := maker.Move(1, imageset.Up); err != nil {
//			log.Fatal(err)
//		}
//
//		params := compositor.Params{Width: 1280, BorderWidth: 8, BorderColor: compositor.Black}
//		if err := maker.Export(context.Background(), params, "collage.jpg"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of these components:
//
//  1. ImageSet (pkg/imageset): the ordered list of images
//  2. Compositor (pkg/compositor): renders the collage
//  3. Preview (pkg/preview): thumbnails and stale-render cancellation
//  4. Processing (pkg/processing): loading and encoding images
package vcollage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/vcollage/pkg/compositor"
	"github.com/menta2k/vcollage/pkg/imageset"
	"github.com/menta2k/vcollage/pkg/preview"
	"github.com/menta2k/vcollage/pkg/processing"
)

// Version of the collage library
const Version = "0.3.0"

// ErrNoImages is returned when exporting a collage without images
var ErrNoImages = errors.New("no images to export")

// Config holds the settings of a Maker. Zero Limits use the compositor
// defaults.
type Config struct {
	Resizer       compositor.Resizer
	Limits        compositor.Limits
	PreviewWidth  int
	PreviewHeight int
	SaveOptions   processing.SaveOptions
}

// DefaultConfig returns the Maker defaults
func DefaultConfig() Config {
	return Config{
		PreviewWidth:  preview.DefaultMaxWidth,
		PreviewHeight: preview.DefaultMaxHeight,
		Limits:        compositor.DefaultLimits(),
		SaveOptions:   processing.DefaultSaveOptions(),
	}
}

// Maker holds one collage in progress: its images and the machinery to
// render and export them.
//
// Methods that change the image list (Add*, Remove, Clear, Move) must not
// run concurrently with any other method. Render, Preview, Export and WriteTo
// only read the list and may overlap each other; a Preview started while
// another is running cancels the older one.
type Maker struct {
	set        *imageset.ImageSet
	compositor *compositor.Compositor
	renderer   *preview.Renderer
	processor  *processing.Processor
	config     Config
	log        *logrus.Entry
}

// New creates a Maker with default configuration
func New() *Maker {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Maker with custom configuration
func NewWithConfig(config Config) *Maker {
	c := compositor.NewWithOptions(config.Resizer, config.Limits)
	return &Maker{
		set:        imageset.New(),
		compositor: c,
		renderer:   preview.NewRenderer(c, config.PreviewWidth, config.PreviewHeight),
		processor:  processing.NewProcessor(),
		config:     config,
		log:        logrus.WithField("component", "maker"),
	}
}

// AddFiles loads files or URLs and appends them in the given order. Nothing
// is appended if any source fails to load.
func (m *Maker) AddFiles(sources ...string) error {
	batch := make([]imageset.Entry, 0, len(sources))
	for _, source := range sources {
		img, err := m.processor.LoadImageSmart(source)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", source, err)
		}
		batch = append(batch, imageset.Entry{Image: img, Source: source})
	}

	m.set.AppendBatch(batch...)
	m.log.WithField("images", m.set.Len()).Debugf("added %d images", len(batch))
	return nil
}

// AddReader decodes an image from r and appends it
func (m *Maker) AddReader(r io.Reader, source string) error {
	img, err := m.processor.DecodeImage(r)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", source, err)
	}
	m.AddImage(img, source)
	return nil
}

// AddImage appends an already decoded image
func (m *Maker) AddImage(img image.Image, source string) {
	m.set.Append(img, source)
}

// Remove deletes the image at index
func (m *Maker) Remove(index int) error {
	return m.set.RemoveAt(index)
}

// Clear removes all images
func (m *Maker) Clear() {
	m.set.Clear()
}

// Move swaps the image at index with its neighbour and returns the new index
// of the moved image. At the top or bottom the image stays where it is.
func (m *Maker) Move(index int, dir imageset.Direction) (int, error) {
	moved, err := m.set.SwapAdjacent(index, dir)
	if err != nil || !moved {
		return index, err
	}
	if dir == imageset.Up {
		return index - 1, nil
	}
	return index + 1, nil
}

// Len returns the number of images
func (m *Maker) Len() int {
	return m.set.Len()
}

// Entries returns the images with their sources in collage order
func (m *Maker) Entries() []imageset.Entry {
	return m.set.Entries()
}

// Labels returns the display names of the images in collage order
func (m *Maker) Labels() []string {
	return m.set.Labels()
}

// Render composes the full resolution collage. With no images the result
// is empty (see compositor.IsEmpty).
func (m *Maker) Render(ctx context.Context, p compositor.Params) (*image.NRGBA, error) {
	collage, err := m.compositor.ComposeContext(ctx, m.set.Images(), p)
	if err != nil {
		return nil, err
	}
	m.logRender(p, collage)
	return collage, nil
}

// Preview renders the collage and its display thumbnail. Previews may be
// called concurrently; one still running when another starts returns
// context.Canceled.
func (m *Maker) Preview(ctx context.Context, p compositor.Params) (preview.Frame, error) {
	frame, err := m.renderer.Render(ctx, m.set.Images(), p)
	if err != nil {
		return preview.Frame{}, err
	}
	m.logRender(p, frame.Full)
	return frame, nil
}

// Export renders the collage and saves it to path. The format follows the
// file extension.
func (m *Maker) Export(ctx context.Context, p compositor.Params, path string) error {
	collage, err := m.renderForExport(ctx, p)
	if err != nil {
		return err
	}
	if err := m.processor.SaveImage(collage, path, m.config.SaveOptions); err != nil {
		return err
	}
	m.log.WithField("path", path).Info("collage saved")
	return nil
}

// WriteTo renders the collage and encodes it to w
func (m *Maker) WriteTo(ctx context.Context, w io.Writer, p compositor.Params, format processing.Format) error {
	collage, err := m.renderForExport(ctx, p)
	if err != nil {
		return err
	}
	return m.processor.EncodeImage(w, collage, format, m.config.SaveOptions)
}

func (m *Maker) renderForExport(ctx context.Context, p compositor.Params) (*image.NRGBA, error) {
	if err := p.ValidateWithin(m.compositor.Limits()); err != nil {
		return nil, err
	}
	if m.set.Len() == 0 {
		return nil, ErrNoImages
	}
	return m.Render(ctx, p)
}

func (m *Maker) logRender(p compositor.Params, collage *image.NRGBA) {
	m.log.WithFields(logrus.Fields{
		"images": m.set.Len(),
		"width":  p.Width,
		"border": p.BorderWidth,
		"color":  p.BorderColor.String(),
		"height": collage.Bounds().Dy(),
	}).Debug("collage rendered")
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
