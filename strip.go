// Package ledstrip models the addressable state of a strip of RGB LEDs and
// serializes it into the flat byte layout the wire expects.
package ledstrip

import (
	"io"

	"github.com/pkg/errors"

	"libdb.so/ledstrip/ledcolor"
)

// ErrPixelOutOfRange is returned when a pixel index falls outside the strip.
var ErrPixelOutOfRange = errors.New("pixel index out of range")

// Strip is a fixed-length strip of RGB pixels backed by a flat byte buffer.
// Pixel i occupies buffer bytes i*3..i*3+2 in (R, G, B) order.
//
// A Strip has no internal locking. Callers driving one strip from several
// goroutines must serialize access themselves.
type Strip struct {
	resolver ledcolor.Resolver
	buf      []byte
}

// New returns a Strip of numPixels pixels, all off, resolving textual
// colors through the built-in table. A numPixels of 0 is legal and yields
// an empty buffer.
func New(numPixels int) *Strip {
	return NewWithResolver(numPixels, ledcolor.Default())
}

// NewWithResolver is New with an explicit textual color resolver.
func NewWithResolver(numPixels int, r ledcolor.Resolver) *Strip {
	if numPixels < 0 {
		numPixels = 0
	}
	return &Strip{
		resolver: r,
		buf:      make([]byte, numPixels*3),
	}
}

// Len returns the number of pixels in the strip.
func (s *Strip) Len() int { return len(s.buf) / 3 }

// Bytes returns the live backing buffer in wire order
// [R0, G0, B0, R1, G1, B1, ...]. Writes through the returned slice bypass
// the Strip and are visible to later reads.
func (s *Strip) Bytes() []byte { return s.buf }

// WriteTo implements io.WriterTo. It writes the buffer in wire order.
func (s *Strip) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.buf)
	return int64(n), err
}

// SetPixelColor resolves c and writes it to pixel i. The buffer is left
// unchanged when the index is out of range or the color does not resolve.
func (s *Strip) SetPixelColor(i int, c ledcolor.Input) error {
	if i < 0 || i >= s.Len() {
		return errors.Wrapf(ErrPixelOutOfRange, "pixel %d of %d", i, s.Len())
	}

	rgb, err := ledcolor.Resolve(c, s.resolver)
	if err != nil {
		return err
	}

	copy(s.buf[i*3:], rgb[:])
	return nil
}

// PixelColor returns the color of pixel i.
func (s *Strip) PixelColor(i int) (ledcolor.RGB, error) {
	if i < 0 || i >= s.Len() {
		return ledcolor.RGB{}, errors.Wrapf(ErrPixelOutOfRange, "pixel %d of %d", i, s.Len())
	}

	var c ledcolor.RGB
	copy(c[:], s.buf[i*3:])
	return c, nil
}

// On sets every pixel to c. The color is resolved once; if resolution
// fails, no pixel is modified.
func (s *Strip) On(c ledcolor.Input) error {
	return s.SetRange(0, s.Len(), c)
}

// Off turns every pixel off. Equivalent to On with (0, 0, 0).
func (s *Strip) Off() {
	for i := range s.buf {
		s.buf[i] = 0
	}
}

// SetRange sets the pixels in [lo, hi) to c. Like On, the color is
// resolved once, and nothing is modified on failure.
func (s *Strip) SetRange(lo, hi int, c ledcolor.Input) error {
	if lo < 0 || hi > s.Len() || lo > hi {
		return errors.Wrapf(ErrPixelOutOfRange, "range [%d, %d) of %d", lo, hi, s.Len())
	}

	rgb, err := ledcolor.Resolve(c, s.resolver)
	if err != nil {
		return err
	}

	for i := lo; i < hi; i++ {
		copy(s.buf[i*3:], rgb[:])
	}
	return nil
}
