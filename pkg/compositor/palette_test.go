package compositor

import (
	"encoding/json"
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPalette(t *testing.T) {
	colors := Palette()
	require.Len(t, colors, 8)

	expected := map[BorderColor]color.NRGBA{
		Black:   {0, 0, 0, 255},
		White:   {255, 255, 255, 255},
		Red:     {255, 0, 0, 255},
		Green:   {0, 255, 0, 255},
		Blue:    {0, 0, 255, 255},
		Yellow:  {255, 255, 0, 255},
		Cyan:    {0, 255, 255, 255},
		Magenta: {255, 0, 255, 255},
	}
	for _, c := range colors {
		assert.True(t, c.Valid())
		assert.Equal(t, expected[c], c.NRGBA(), c.String())
	}
}

func TestParseBorderColor(t *testing.T) {
	tests := []struct {
		input    string
		expected BorderColor
	}{
		{"Black", Black},
		{"white", White},
		{"  MAGENTA ", Magenta},
		{"#00FFFF", Cyan},
		{"#ffff00", Yellow},
	}

	for _, tt := range tests {
		c, err := ParseBorderColor(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, c, tt.input)
	}

	for _, input := range []string{"Purple", "", "#123456", "#zzzzzz"} {
		_, err := ParseBorderColor(input)
		assert.True(t, errors.Is(err, ErrInvalidParameter), "input %q: %v", input, err)
	}
}

func TestBorderColorHex(t *testing.T) {
	assert.Equal(t, "#ffff00", Yellow.Hex())
	assert.Equal(t, "#000000", Black.Hex())
	assert.Equal(t, "#ff00ff", Magenta.Hex())
}

func TestBorderColorInvalid(t *testing.T) {
	c := BorderColor(99)
	assert.False(t, c.Valid())
	assert.Equal(t, "BorderColor(99)", c.String())
	assert.Equal(t, White.NRGBA(), c.NRGBA())

	_, err := c.MarshalText()
	assert.Error(t, err)
}

func TestParamsJSON(t *testing.T) {
	data, err := json.Marshal(Params{Width: 640, BorderWidth: 3, BorderColor: Red})
	require.NoError(t, err)
	assert.JSONEq(t, `{"width":640,"border_width":3,"border_color":"Red"}`, string(data))

	var p Params
	require.NoError(t, json.Unmarshal([]byte(`{"width":10,"border_width":1,"border_color":"blue"}`), &p))
	assert.Equal(t, Params{Width: 10, BorderWidth: 1, BorderColor: Blue}, p)

	err = json.Unmarshal([]byte(`{"border_color":"Orange"}`), &p)
	assert.Error(t, err)
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1280, p.Width)
	assert.Equal(t, 0, p.BorderWidth)
	assert.Equal(t, White, p.BorderColor)
	assert.NoError(t, p.Validate())
}
