package ledstrip

import (
	"io"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"libdb.so/ledstrip/ledcolor"
)

// Config describes the strip and what to paint on it.
type Config struct {
	// Device is the path to the serial device file.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
	// Rate is the refresh rate for the strip in frames per second.
	Rate int `toml:"rate"`
	// Pixels is the number of pixels on the strip.
	Pixels int `toml:"pixels"`
	// Segments is a list of pixel ranges and the colors to paint them.
	Segments []SegmentConfig `toml:"segment"`
}

// SegmentConfig paints the pixels in [Range[0], Range[1]) with Color.
type SegmentConfig struct {
	// Range is the half-open range of pixels to paint.
	Range [2]int `toml:"range"`
	// Color is any textual color form accepted by ledcolor: hex, CSS/X11
	// name, rgb() or hsl().
	Color string `toml:"color"`
}

// ParseConfig parses a configuration from a reader.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Pixels < 0 {
		return errors.New("negative pixel count")
	}
	if c.Rate <= 0 {
		return errors.New("refresh rate must be positive")
	}

	resolver := ledcolor.Default()
	for i, seg := range c.Segments {
		if seg.Range[0] < 0 || seg.Range[1] > c.Pixels || seg.Range[0] > seg.Range[1] {
			return errors.Errorf(
				"segment %d: range %v outside strip of %d pixels",
				i, seg.Range, c.Pixels)
		}
		if _, err := resolver.Resolve(seg.Color); err != nil {
			return errors.Wrapf(err, "segment %d", i)
		}
	}

	// Check for overlapping segment ranges.
	for i, s1 := range c.Segments {
		for j, s2 := range c.Segments {
			if i == j {
				continue
			}
			if s1.Range[0] < s2.Range[1] && s2.Range[0] < s1.Range[1] {
				return errors.Errorf("segment ranges %v and %v overlap", s1.Range, s2.Range)
			}
		}
	}

	return nil
}

// NewStrip builds a Strip of c.Pixels pixels with every segment painted.
func (c *Config) NewStrip() (*Strip, error) {
	s := New(c.Pixels)
	for i, seg := range c.Segments {
		if err := s.SetRange(seg.Range[0], seg.Range[1], ledcolor.Text(seg.Color)); err != nil {
			return nil, errors.Wrapf(err, "segment %d", i)
		}
	}
	return s, nil
}
