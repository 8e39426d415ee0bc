package compositor

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned for a bad collage width, border width,
// border color or source image dimensions.
var ErrInvalidParameter = errors.New("invalid parameter")

// Default values used by the collage maker when nothing else is configured
const (
	DefaultWidth       = 1280
	DefaultBorderWidth = 0
	DefaultBorderColor = White
)

// Default canvas limits. JPEG cannot encode a side longer than 65535.
const (
	DefaultMaxWidth  = 8192
	DefaultMaxHeight = 65535
)

// Limits caps the output raster so a request cannot ask for more memory
// than the process has. Zero fields take the defaults.
type Limits struct {
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`
}

// DefaultLimits returns the limits used when none are configured
func DefaultLimits() Limits {
	return Limits{MaxWidth: DefaultMaxWidth, MaxHeight: DefaultMaxHeight}
}

func (l Limits) withDefaults() Limits {
	if l.MaxWidth <= 0 {
		l.MaxWidth = DefaultMaxWidth
	}
	if l.MaxHeight <= 0 {
		l.MaxHeight = DefaultMaxHeight
	}
	return l
}

// Params holds the scalar inputs of a composition
type Params struct {
	Width       int         `json:"width"`
	BorderWidth int         `json:"border_width"`
	BorderColor BorderColor `json:"border_color"`
}

// DefaultParams returns the parameters a fresh collage starts with
func DefaultParams() Params {
	return Params{
		Width:       DefaultWidth,
		BorderWidth: DefaultBorderWidth,
		BorderColor: DefaultBorderColor,
	}
}

// Validate checks p without looking at any image
func (p Params) Validate() error {
	if p.Width <= 0 {
		return fmt.Errorf("%w: collage width must be positive, got %d", ErrInvalidParameter, p.Width)
	}
	if p.BorderWidth < 0 {
		return fmt.Errorf("%w: border width must not be negative, got %d", ErrInvalidParameter, p.BorderWidth)
	}
	if !p.BorderColor.Valid() {
		return fmt.Errorf("%w: border color %d is not in the palette", ErrInvalidParameter, int(p.BorderColor))
	}
	return nil
}

// ValidateWithin is Validate plus the width limit of l
func (p Params) ValidateWithin(l Limits) error {
	if err := p.Validate(); err != nil {
		return err
	}
	l = l.withDefaults()
	if p.Width > l.MaxWidth {
		return fmt.Errorf("%w: collage width %d exceeds the maximum of %d", ErrInvalidParameter, p.Width, l.MaxWidth)
	}
	if p.BorderWidth > l.MaxHeight/2 {
		return fmt.Errorf("%w: border width %d exceeds the maximum of %d", ErrInvalidParameter, p.BorderWidth, l.MaxHeight/2)
	}
	return nil
}
