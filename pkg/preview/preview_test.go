package preview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/vcollage/pkg/compositor"
)

func createTestImage(width, height int) *image.NRGBA {
	return imaging.New(width, height, color.NRGBA{40, 80, 160, 255})
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		expectedWidth  int
		expectedHeight int
	}{
		{"wide collage", 1280, 2000, 300, 468},
		{"tall collage", 500, 5000, 100, 1000},
		{"already small", 200, 400, 200, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb := Thumbnail(createTestImage(tt.width, tt.height), DefaultMaxWidth, DefaultMaxHeight)
			require.NotNil(t, thumb)
			assert.Equal(t, tt.expectedWidth, thumb.Bounds().Dx())
			assert.Equal(t, tt.expectedHeight, thumb.Bounds().Dy())
		})
	}
}

func TestThumbnailDoesNotModifySource(t *testing.T) {
	full := createTestImage(200, 100)
	before := append([]uint8(nil), full.Pix...)

	thumb := Thumbnail(full, 50, 50)
	thumb.Pix[0] = 0

	assert.Equal(t, before, full.Pix)
	assert.Equal(t, image.Rect(0, 0, 200, 100), full.Bounds())
}

func TestThumbnailEmpty(t *testing.T) {
	assert.True(t, Thumbnail(nil, 10, 10).Bounds().Empty())
	assert.True(t, Thumbnail(&image.NRGBA{}, 10, 10).Bounds().Empty())
}

func TestRendererMatchesCompose(t *testing.T) {
	images := []image.Image{createTestImage(400, 300), createTestImage(200, 400)}
	params := compositor.Params{Width: 300, BorderWidth: 2, BorderColor: compositor.Red}

	frame, err := NewRenderer(nil, DefaultMaxWidth, DefaultMaxHeight).Render(context.Background(), images, params)
	require.NoError(t, err)
	require.False(t, frame.Empty())

	expected, err := compositor.Compose(images, params)
	require.NoError(t, err)
	assert.Equal(t, expected.Bounds(), frame.Full.Bounds())
	assert.Equal(t, expected.Pix, frame.Full.Pix)

	assert.LessOrEqual(t, frame.Thumb.Bounds().Dx(), DefaultMaxWidth)
	assert.LessOrEqual(t, frame.Thumb.Bounds().Dy(), DefaultMaxHeight)
}

func TestRendererEmpty(t *testing.T) {
	frame, err := NewRenderer(nil, 0, 0).Render(context.Background(), nil, compositor.DefaultParams())
	require.NoError(t, err)
	assert.True(t, frame.Empty())
}

func TestRendererInvalidParams(t *testing.T) {
	_, err := NewRenderer(nil, 0, 0).Render(context.Background(),
		[]image.Image{createTestImage(10, 10)}, compositor.Params{Width: 0})
	assert.True(t, errors.Is(err, compositor.ErrInvalidParameter))
}

func TestRendererCancelsStaleRender(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	resizer := compositor.ResizerFunc(func(img image.Image, width, height int) image.Image {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(entered)
			<-release
		}
		return imaging.Resize(img, width, height, imaging.Linear)
	})
	r := NewRenderer(compositor.NewWithResizer(resizer), 100, 100)

	images := []image.Image{createTestImage(40, 40), createTestImage(40, 20)}
	params := compositor.Params{Width: 20, BorderColor: compositor.White}

	stale := make(chan error, 1)
	go func() {
		_, err := r.Render(context.Background(), images, params)
		stale <- err
	}()
	<-entered

	frame, err := r.Render(context.Background(), images, params)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 30), frame.Full.Bounds())

	close(release)
	err = <-stale
	assert.True(t, errors.Is(err, context.Canceled), "stale render returned %v", err)
}
