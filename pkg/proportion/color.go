package proportion

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/rampboard/pkg/errors"
)

// Color is an sRGB color with an alpha channel in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// RGB builds an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 1} }

// WithAlpha returns c at opacity a.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// RGBA formats c as a CSS rgba() value with two alpha decimals,
// e.g. "rgba(0,0,255,0.88)".
func (c Color) RGBA() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, formatAlpha(c.A))
}

// Hex formats c as #rrggbb, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Blend composites c over an opaque background and returns the opaque
// result. Terminals have no alpha channel, so the CLI draws with this.
func (c Color) Blend(bg Color) Color {
	mix := func(f, b uint8) uint8 {
		return uint8(float64(f)*c.A + float64(b)*(1-c.A) + 0.5)
	}
	return RGB(mix(c.R, bg.R), mix(c.G, bg.G), mix(c.B, bg.B))
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.RGBA() }

// MarshalJSON encodes c as its rgba() string.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.RGBA())
}

// UnmarshalJSON decodes any form accepted by [ParseColor].
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalText lets colors appear in TOML and flag values.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.RGBA()), nil
}

func formatAlpha(a float64) string {
	s := strconv.FormatFloat(a, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// ParseColor accepts "#rgb", "#rrggbb", "rgb(r,g,b)" and "rgba(r,g,b,a)".
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[5:len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[4:len(s)-1], false)
	}
	return Color{}, errors.New(errors.ErrCodeInvalidInput, "unrecognized color %q", s)
}

func parseHex(h string) (Color, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, errors.New(errors.ErrCodeInvalidInput, "invalid hex color %q", "#"+h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid hex color %q", "#"+h)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

func parseFunc(body string, withAlpha bool) (Color, error) {
	parts := strings.Split(body, ",")
	want := 3
	if withAlpha {
		want = 4
	}
	if len(parts) != want {
		return Color{}, errors.New(errors.ErrCodeInvalidInput, "expected %d color components, got %d", want, len(parts))
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
		if err != nil {
			return Color{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid color component %q", parts[i])
		}
		rgb[i] = uint8(v)
	}
	c := RGB(rgb[0], rgb[1], rgb[2])
	if withAlpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return Color{}, errors.New(errors.ErrCodeInvalidInput, "invalid alpha %q", parts[3])
		}
		c.A = a
	}
	return c, nil
}

// Palette is the pair of colors a ranking draws from.
type Palette struct {
	Highlight Color `json:"highlight" toml:"highlight"`
	Secondary Color `json:"secondary" toml:"secondary"`
}

// DefaultPalette is red for the top entry and fading blue for the rest.
var DefaultPalette = Palette{
	Highlight: RGB(255, 0, 0),
	Secondary: RGB(0, 0, 255),
}

// ColorAt returns the color for rank. It depends only on the rank.
func (p Palette) ColorAt(rank int) Color {
	if rank == 0 {
		return p.Highlight
	}
	return p.Secondary.WithAlpha(FadeFactor(rank))
}

