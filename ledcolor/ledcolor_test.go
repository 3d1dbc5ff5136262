package ledcolor_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"libdb.so/ledstrip/ledcolor"
)

var _ = Describe("Table", func() {
	resolve := func(s string) ledcolor.RGB {
		c, err := ledcolor.Default().Resolve(s)
		ExpectWithOffset(1, err).ToNot(HaveOccurred())
		return c
	}

	It("resolves hex strings", func() {
		Expect(resolve("#ff0000")).To(Equal(ledcolor.RGB{255, 0, 0}))
		Expect(resolve("#00CCFF")).To(Equal(ledcolor.RGB{0, 204, 255}))
		Expect(resolve("  #000000  ")).To(Equal(ledcolor.RGB{0, 0, 0}))
	})

	It("resolves CSS/X11 names", func() {
		Expect(resolve("blue")).To(Equal(ledcolor.RGB{0, 0, 255}))
		Expect(resolve("RED")).To(Equal(ledcolor.RGB{255, 0, 0}))
		Expect(resolve("cornflowerblue")).To(Equal(ledcolor.RGB{100, 149, 237}))
	})

	It("resolves rgb() strings", func() {
		Expect(resolve("rgb(0, 128, 255)")).To(Equal(ledcolor.RGB{0, 128, 255}))
		Expect(resolve("rgb(1,2,3)")).To(Equal(ledcolor.RGB{1, 2, 3}))
	})

	It("truncates rgb() components modulo 256", func() {
		Expect(resolve("rgb(300, 0, -1)")).To(Equal(ledcolor.RGB{44, 0, 255}))
	})

	It("resolves hsl() strings", func() {
		Expect(resolve("hsl(0, 100%, 50%)")).To(Equal(ledcolor.RGB{255, 0, 0}))
		Expect(resolve("hsl(120, 100%, 50%)")).To(Equal(ledcolor.RGB{0, 255, 0}))
		Expect(resolve("hsl(240, 100%, 25%)")).To(Equal(ledcolor.RGB{0, 0, 128}))
	})

	It("fails on anything else", func() {
		for _, s := range []string{
			"not-a-color",
			"#zzzzzz",
			"rgb(1, 2)",
			"rgb(a, b, c)",
			"hsl(0, 100, 50)",
			"",
		} {
			_, err := ledcolor.Default().Resolve(s)
			Expect(err).To(MatchError(ledcolor.ErrUnknownColor), "input %q", s)
		}
	})
})

var _ = Describe("Resolve", func() {
	It("passes RGB triples through untouched", func() {
		Expect(ledcolor.Resolve(ledcolor.RGB{9, 9, 9}, ledcolor.Default())).To(Equal(ledcolor.RGB{9, 9, 9}))
	})

	It("resolves textual inputs through the resolver", func() {
		Expect(ledcolor.Resolve(ledcolor.Text("lime"), ledcolor.Default())).To(Equal(ledcolor.RGB{0, 255, 0}))

		_, err := ledcolor.Resolve(ledcolor.Text("not-a-color"), ledcolor.Default())
		Expect(err).To(MatchError(ledcolor.ErrUnknownColor))
	})

	It("matches across representations", func() {
		hex, err := ledcolor.Resolve(ledcolor.Text("#ff0000"), ledcolor.Default())
		Expect(err).ToNot(HaveOccurred())

		arr, err := ledcolor.Resolve(ledcolor.RGB{255, 0, 0}, ledcolor.Default())
		Expect(err).ToNot(HaveOccurred())

		Expect(hex).To(Equal(arr))
	})
})

var _ = Describe("RGB", func() {
	It("formats as hex", func() {
		Expect(ledcolor.RGB{255, 102, 0}.Hex()).To(Equal("#ff6600"))
	})
})

func TestLEDColor(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Test ledcolor")
}
