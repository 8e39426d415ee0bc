package compositor

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// BorderColor is one of the fixed colors a collage border can be filled with
type BorderColor int

// Available border colors
const (
	Black BorderColor = iota
	White
	Red
	Green
	Blue
	Yellow
	Cyan
	Magenta
)

var palette = [...]struct {
	name string
	rgb  color.NRGBA
}{
	Black:   {"Black", color.NRGBA{0, 0, 0, 255}},
	White:   {"White", color.NRGBA{255, 255, 255, 255}},
	Red:     {"Red", color.NRGBA{255, 0, 0, 255}},
	Green:   {"Green", color.NRGBA{0, 255, 0, 255}},
	Blue:    {"Blue", color.NRGBA{0, 0, 255, 255}},
	Yellow:  {"Yellow", color.NRGBA{255, 255, 0, 255}},
	Cyan:    {"Cyan", color.NRGBA{0, 255, 255, 255}},
	Magenta: {"Magenta", color.NRGBA{255, 0, 255, 255}},
}

// Palette returns every border color in display order
func Palette() []BorderColor {
	colors := make([]BorderColor, len(palette))
	for i := range palette {
		colors[i] = BorderColor(i)
	}
	return colors
}

// Valid reports whether c is a palette entry
func (c BorderColor) Valid() bool {
	return c >= 0 && int(c) < len(palette)
}

func (c BorderColor) String() string {
	if !c.Valid() {
		return fmt.Sprintf("BorderColor(%d)", int(c))
	}
	return palette[c].name
}

// NRGBA returns the opaque color value of c. Invalid colors map to white.
func (c BorderColor) NRGBA() color.NRGBA {
	if !c.Valid() {
		return palette[White].rgb
	}
	return palette[c].rgb
}

// Hex returns the color as "#rrggbb"
func (c BorderColor) Hex() string {
	col, _ := colorful.MakeColor(c.NRGBA())
	return col.Hex()
}

// ParseBorderColor resolves a palette name (case-insensitive) or a "#rrggbb"
// code that matches a palette entry.
func ParseBorderColor(s string) (BorderColor, error) {
	name := strings.TrimSpace(s)
	for i, entry := range palette {
		if strings.EqualFold(name, entry.name) {
			return BorderColor(i), nil
		}
	}

	if strings.HasPrefix(name, "#") {
		col, err := colorful.Hex(name)
		if err != nil {
			return 0, fmt.Errorf("%w: border color %q: %v", ErrInvalidParameter, s, err)
		}
		for _, c := range Palette() {
			if c.Hex() == col.Hex() {
				return c, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: unknown border color %q", ErrInvalidParameter, s)
}

// MarshalText implements encoding.TextMarshaler
func (c BorderColor) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: border color %d", ErrInvalidParameter, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *BorderColor) UnmarshalText(text []byte) error {
	parsed, err := ParseBorderColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
