package theme

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a packed color value. Values up to 0xFFFFFF are read as 0xRRGGBB,
// anything larger as 0xRRGGBBAA.
type Color uint32

const rgbMax = 0xFFFFFF

// HasAlpha reports whether the color carries an alpha byte.
func (c Color) HasAlpha() bool {
	return c > rgbMax
}

// RGB returns the red, green and blue components.
func (c Color) RGB() (r, g, b uint8) {
	v := uint32(c)
	if c.HasAlpha() {
		v >>= 8
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// Alpha returns the alpha component, 0xff for plain RGB colors.
func (c Color) Alpha() uint8 {
	if !c.HasAlpha() {
		return 0xff
	}
	return uint8(c)
}

// Colorful returns the RGB part as a go-colorful color.
func (c Color) Colorful() colorful.Color {
	r, g, b := c.RGB()
	return colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}

// Hex renders the color as #rrggbb, or #rrggbbaa when it carries alpha.
func (c Color) Hex() string {
	hex := c.Colorful().Hex()
	if c.HasAlpha() {
		hex += fmt.Sprintf("%02x", c.Alpha())
	}
	return hex
}

// String renders the raw packed value, e.g. 0xff0000.
func (c Color) String() string {
	return fmt.Sprintf("%#x", uint32(c))
}

// MarshalTOML writes the color as a hexadecimal integer literal.
func (c Color) MarshalTOML() ([]byte, error) {
	if c.HasAlpha() {
		return []byte(fmt.Sprintf("0x%08x", uint32(c))), nil
	}
	return []byte(fmt.Sprintf("0x%06x", uint32(c))), nil
}

// UnmarshalTOML accepts integer literals in the 32-bit unsigned range.
func (c *Color) UnmarshalTOML(v any) error {
	n, ok := v.(int64)
	if !ok {
		return fmt.Errorf("expected integer, got %T", v)
	}
	if n < 0 || n > 0xFFFFFFFF {
		return fmt.Errorf("value %d out of 32-bit range", n)
	}
	*c = Color(n)
	return nil
}

// Theme holds the six shared colors. It is passed by value so every consumer
// works on its own copy.
type Theme struct {
	Accent     Color `toml:"accent"`
	AccentDeep Color `toml:"accent_deep"`
	Foreground Color `toml:"foreground"`
	Complement Color `toml:"complement"`
	Dark       Color `toml:"dark"`
	LightDark  Color `toml:"light_dark"`
}

// Field pairs a theme key with its color.
type Field struct {
	Key   string
	Color Color
}

// Keys lists the theme keys in canonical order.
var Keys = []string{"accent", "accent_deep", "foreground", "complement", "dark", "light_dark"}

// Fields returns the six colors in canonical key order.
func (t Theme) Fields() []Field {
	return []Field{
		{Key: "accent", Color: t.Accent},
		{Key: "accent_deep", Color: t.AccentDeep},
		{Key: "foreground", Color: t.Foreground},
		{Key: "complement", Color: t.Complement},
		{Key: "dark", Color: t.Dark},
		{Key: "light_dark", Color: t.LightDark},
	}
}

func (t Theme) String() string {
	return fmt.Sprintf("Theme { accent: %s accent_deep: %s foreground: %s complement: %s dark: %s light_dark: %s }",
		t.Accent, t.AccentDeep, t.Foreground, t.Complement, t.Dark, t.LightDark)
}

// document is the on-disk layout: a single [theme] table.
type document struct {
	Theme Theme `toml:"theme"`
}
