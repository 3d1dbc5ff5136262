package ledstrip

import (
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"libdb.so/ledstrip/ledcolor"
)

var _ = Describe("Config", func() {
	const configTOML = `
device = "/dev/ttyUSB0"
baud = 115200
rate = 60
pixels = 10

[[segment]]
range = [0, 4]
color = "#ff6600"

[[segment]]
range = [4, 10]
color = "rgb(0, 128, 255)"
`

	parse := func(s string) *Config {
		cfg, err := ParseConfig(strings.NewReader(s))
		ExpectWithOffset(1, err).ToNot(HaveOccurred())
		return cfg
	}

	It("parses TOML", func() {
		cfg := parse(configTOML)
		Expect(cfg.Device).To(Equal("/dev/ttyUSB0"))
		Expect(cfg.Pixels).To(Equal(10))
		Expect(cfg.Segments).To(HaveLen(2))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("builds a painted strip", func() {
		cfg := parse(configTOML)

		s, err := cfg.NewStrip()
		Expect(err).ToNot(HaveOccurred())
		Expect(s.Len()).To(Equal(10))
		Expect(s.PixelColor(0)).To(Equal(ledcolor.RGB{255, 102, 0}))
		Expect(s.PixelColor(3)).To(Equal(ledcolor.RGB{255, 102, 0}))
		Expect(s.PixelColor(4)).To(Equal(ledcolor.RGB{0, 128, 255}))
		Expect(s.PixelColor(9)).To(Equal(ledcolor.RGB{0, 128, 255}))
	})

	It("rejects overlapping segments", func() {
		cfg := &Config{
			Rate:   30,
			Pixels: 10,
			Segments: []SegmentConfig{
				{Range: [2]int{0, 6}, Color: "red"},
				{Range: [2]int{5, 10}, Color: "blue"},
			},
		}
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("overlap")))
	})

	It("rejects segments outside the strip", func() {
		cfg := &Config{
			Rate:   30,
			Pixels: 10,
			Segments: []SegmentConfig{
				{Range: [2]int{5, 12}, Color: "red"},
			},
		}
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("outside")))
	})

	It("rejects unresolvable segment colors", func() {
		cfg := &Config{
			Rate:   30,
			Pixels: 10,
			Segments: []SegmentConfig{
				{Range: [2]int{0, 10}, Color: "not-a-color"},
			},
		}
		Expect(cfg.Validate()).To(MatchError(ledcolor.ErrUnknownColor))
	})

	It("rejects a non-positive refresh rate", func() {
		cfg := &Config{Pixels: 10}
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("rate")))
	})
})
