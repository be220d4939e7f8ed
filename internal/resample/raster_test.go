package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_SampleRange(t *testing.T) {
	src := gray16Source(3, 2, 12, true, func(x, y int) int { return []int{0xFFF, 5, 0x7FF, 0x800, 0, 3}[y*3+x] })

	lo, hi, err := src.SampleRange()
	require.NoError(t, err)
	assert.Equal(t, -2048, lo)
	assert.Equal(t, 2047, hi)

	rgb := rgbSource(2, 1, Planar, [][3]byte{{9, 200, 4}, {1, 2, 3}})
	lo, hi, err = rgb.SampleRange()
	require.NoError(t, err)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 200, hi)
}

func TestSource_SampleRangeInvalid(t *testing.T) {
	_, _, err := (&Source{}).SampleRange()
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestMinLen(t *testing.T) {
	src := rgbSource(3, 2, Planar, make([][3]byte, 6))
	src.BytesPerPixel = 2
	n, err := src.MinLen()
	require.NoError(t, err)
	assert.Equal(t, 36, n)

	dst := Destination{Width: 3, Height: 2, BytesPerPixel: 2}
	n, err = dst.MinLen(RGB)
	require.NoError(t, err)
	assert.Equal(t, 36, n)

	huge := Source{Pix: make([]byte, 4), Width: 1 << 32, Height: 1 << 32, Encoding: Encoding{BytesPerPixel: 1, BitsStored: 8}}
	_, err = huge.MinLen()
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	assert.ErrorIs(t, huge.Validate(), ErrInvalidDimensions)

	dst = Destination{Width: 1 << 40, Height: 1 << 30, BytesPerPixel: 1}
	_, err = dst.MinLen(Grayscale)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestSource_AtClamps(t *testing.T) {
	src := gray8Source(2, 2, func(x, y int) int { return 10*y + x })
	assert.Equal(t, 0, src.At(-5, -5, 0))
	assert.Equal(t, 11, src.At(9, 9, 0))
	assert.Equal(t, 1, src.At(1, 0, 3), "component clamps to the only plane")
}

func TestSource_AtPlanarComponents(t *testing.T) {
	src := rgbSource(2, 2, Planar, [][3]byte{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {10, 11, 12}})
	assert.Equal(t, 7, src.At(0, 1, 0))
	assert.Equal(t, 8, src.At(0, 1, 1))
	assert.Equal(t, 12, src.At(1, 1, 2))
}

func TestFull(t *testing.T) {
	assert.Equal(t, RectF{Right: 640, Bottom: 480}, Full(640, 480))
}

func TestColorModeAndLayoutStrings(t *testing.T) {
	assert.Equal(t, "grayscale", Grayscale.String())
	assert.Equal(t, "rgb", RGB.String())
	assert.Equal(t, "unknown", ColorMode(9).String())
	assert.Equal(t, "interleaved", Interleaved.String())
	assert.Equal(t, "planar", Planar.String())
	assert.Equal(t, 3, RGB.Components())
	assert.Equal(t, 1, Grayscale.Components())
}

func TestDestination_MaxValue(t *testing.T) {
	assert.Equal(t, 255, (&Destination{BytesPerPixel: 1}).MaxValue())
	assert.Equal(t, 65535, (&Destination{BytesPerPixel: 2}).MaxValue())
}

func TestNewTap(t *testing.T) {
	tests := []struct {
		s    float64
		n    int
		want tap
	}{
		{0, 4, tap{0, 1, 0}},
		{1.25, 4, tap{1, 2, 0.25}},
		{3.5, 4, tap{3, 3, 0.5}},
		{-0.5, 4, tap{0, 0, 0.5}},
		{-1e300, 4, tap{0, 0, 0}},
		{1e300, 4, tap{3, 3, 0}},
		{0.75, 1, tap{0, 0, 0.75}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, newTap(tt.s, tt.n), "newTap(%v, %d)", tt.s, tt.n)
	}
}
