// Package ledcolor normalizes the color representations accepted by this
// module into canonical 3-byte RGB triples.
package ledcolor

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// ErrUnknownColor is returned when a color string matches no supported
// grammar and no named-color entry.
var ErrUnknownColor = errors.New("unknown color")

// RGB is a canonical color triple, one byte per channel, in (R, G, B) order.
type RGB [3]uint8

// Hex returns the color as a #rrggbb string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

func (RGB) isInput() {}

// Text is a textual color: 6-digit hex ("#00ccff"), a CSS/X11 name
// ("blue"), "rgb(r, g, b)" or "hsl(h, s%, l%)".
type Text string

func (Text) isInput() {}

// Input is a color in any accepted representation: either an RGB triple,
// used as-is, or a Text form resolved through a Resolver.
type Input interface{ isInput() }

// Resolver resolves a textual color into an RGB triple.
type Resolver interface {
	Resolve(s string) (RGB, error)
}

// Resolve normalizes in into an RGB triple, using r for textual colors.
// RGB inputs pass through untouched.
func Resolve(in Input, r Resolver) (RGB, error) {
	switch c := in.(type) {
	case RGB:
		return c, nil
	case Text:
		return r.Resolve(string(c))
	default:
		return RGB{}, errors.Errorf("unsupported color input %T", in)
	}
}

// Table is the built-in Resolver. It understands 6-digit hex, the CSS/X11
// named colors, and the rgb()/hsl() functional forms.
type Table struct{}

var _ Resolver = Table{}

// Default returns the Resolver used when none is injected.
func Default() Resolver { return Table{} }

// Resolve implements Resolver.
func (t Table) Resolve(s string) (RGB, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return RGB{}, errors.Wrapf(ErrUnknownColor, "bad hex %q", s)
		}
		r, g, b := c.RGB255()
		return RGB{r, g, b}, nil

	case hasFunc(s, "rgb"):
		return parseRGBFunc(s)

	case hasFunc(s, "hsl"):
		return parseHSLFunc(s)
	}

	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return RGB{c.R, c.G, c.B}, nil
	}

	return RGB{}, errors.Wrapf(ErrUnknownColor, "%q", s)
}

func hasFunc(s, name string) bool {
	return strings.HasPrefix(strings.ToLower(s), name+"(") && strings.HasSuffix(s, ")")
}

// funcArgs splits "name(a, b, c)" into its trimmed arguments.
func funcArgs(s, name string) []string {
	args := strings.Split(s[len(name)+1:len(s)-1], ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return args
}

// parseRGBFunc parses "rgb(r, g, b)". Components are reduced modulo 256,
// matching the truncation a byte write would apply.
func parseRGBFunc(s string) (RGB, error) {
	args := funcArgs(s, "rgb")
	if len(args) != 3 {
		return RGB{}, errors.Wrapf(ErrUnknownColor, "%q", s)
	}

	var c RGB
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return RGB{}, errors.Wrapf(ErrUnknownColor, "%q", s)
		}
		c[i] = uint8(v)
	}
	return c, nil
}

// parseHSLFunc parses "hsl(h, s%, l%)" and converts it to RGB space.
func parseHSLFunc(s string) (RGB, error) {
	args := funcArgs(s, "hsl")
	if len(args) != 3 {
		return RGB{}, errors.Wrapf(ErrUnknownColor, "%q", s)
	}

	hue, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return RGB{}, errors.Wrapf(ErrUnknownColor, "%q", s)
	}

	sat, err := percentage(args[1])
	if err != nil {
		return RGB{}, errors.Wrapf(ErrUnknownColor, "%q", s)
	}

	lum, err := percentage(args[2])
	if err != nil {
		return RGB{}, errors.Wrapf(ErrUnknownColor, "%q", s)
	}

	r, g, b := colorful.Hsl(hue, sat, lum).Clamped().RGB255()
	return RGB{r, g, b}, nil
}

func percentage(arg string) (float64, error) {
	if !strings.HasSuffix(arg, "%") {
		return 0, errors.New("not a percentage")
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
	return v / 100, err
}
