// Package colors resolves colour identifiers into engine pixels.
//
// Identifiers are either one of a small set of names (red, green, blue,
// yellow, cyan, magenta, black, white, sienna, purple) or a hex string in
// "#rgb" / "#rrggbb" form. Names are case-insensitive. Anything else is
// reported as an *UnsupportedColorError rather than aborting the program.
package colors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/ditherpunk/internal/dither"
)

// ErrUnsupportedColor is wrapped by every *UnsupportedColorError.
var ErrUnsupportedColor = errors.New("unsupported color")

// UnsupportedColorError reports an identifier that is neither a known name
// nor a valid hex colour.
type UnsupportedColorError struct {
	Name string
}

func (e *UnsupportedColorError) Error() string {
	return fmt.Sprintf("unsupported color %q", e.Name)
}

// Unwrap lets errors.Is match ErrUnsupportedColor.
func (e *UnsupportedColorError) Unwrap() error {
	return ErrUnsupportedColor
}

var named = map[string]dither.Pixel{
	"red":     {R: 255, G: 0, B: 0},
	"green":   {R: 0, G: 255, B: 0},
	"blue":    {R: 0, G: 0, B: 255},
	"yellow":  {R: 255, G: 255, B: 0},
	"cyan":    {R: 0, G: 255, B: 255},
	"magenta": {R: 255, G: 0, B: 255},
	"black":   {R: 0, G: 0, B: 0},
	"white":   {R: 255, G: 255, B: 255},
	"sienna":  {R: 160, G: 82, B: 45},
	"purple":  {R: 128, G: 0, B: 128},
}

// Lookup resolves a single colour identifier.
//
// Parameters:
//   - name: a colour name (case-insensitive, surrounding spaces ignored) or
//     a hex colour with or without the leading '#'.
//
// Returns *UnsupportedColorError for anything else.
func Lookup(name string) (dither.Pixel, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if p, ok := named[key]; ok {
		return p, nil
	}

	key = strings.TrimPrefix(key, "#")
	if isHexDigits(key) && (len(key) == 3 || len(key) == 6) {
		if c, err := colorful.Hex("#" + key); err == nil {
			r, g, b := c.RGB255()
			return dither.Pixel{R: r, G: g, B: b}, nil
		}
	}

	return dither.Pixel{}, &UnsupportedColorError{Name: name}
}

// isHexDigits reports whether s is non-empty and made of hex digits only.
// colorful.Hex alone accepts trailing garbage and short input.
func isHexDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// Resolve looks up every identifier in order and returns them as a palette.
// The first unsupported identifier aborts the whole call.
func Resolve(names []string) (dither.Palette, error) {
	palette := make(dither.Palette, 0, len(names))
	for _, n := range names {
		p, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		palette = append(palette, p)
	}
	return palette, nil
}

// Name returns the colour name for p if it is one of the named colours.
func Name(p dither.Pixel) (string, bool) {
	for name, c := range named {
		if c == p {
			return name, true
		}
	}
	return "", false
}

// Label returns the name of p, or its lowercase hex digits ("1e90ff") when
// it has no name. Labels are safe to use in file names.
func Label(p dither.Pixel) string {
	if name, ok := Name(p); ok {
		return name
	}
	return strings.TrimPrefix(Hex(p), "#")
}

// Hex formats p as "#rrggbb".
func Hex(p dither.Pixel) string {
	c := colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}
	return c.Hex()
}

// Names returns all supported colour names, sorted.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
