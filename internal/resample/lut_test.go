package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLUT_LookupClampsToEdge(t *testing.T) {
	lut := NewLUT([]int{10, 20, 30}, 5)
	require.NoError(t, lut.Validate())

	tests := []struct {
		in, want int
	}{
		{-100, 10},
		{4, 10},
		{5, 10},
		{6, 20},
		{7, 30},
		{8, 30},
		{1 << 20, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lut.Lookup(tt.in), "Lookup(%d)", tt.in)
	}
}

func TestLUT_LengthShorterThanData(t *testing.T) {
	lut := &LUT{Data: []int{1, 2, 3, 4}, FirstMappedPixelValue: 0, Length: 2}
	require.NoError(t, lut.Validate())

	assert.Equal(t, 2, lut.Lookup(3), "entries past Length are never read")
	assert.Equal(t, 2, lut.Lookup(1))
}

func TestLUT_Validate(t *testing.T) {
	assert.ErrorIs(t, (&LUT{}).Validate(), ErrInvalidLUT)
	assert.ErrorIs(t, (&LUT{Data: []int{1}, Length: -1}).Validate(), ErrInvalidLUT)
	assert.ErrorIs(t, (&LUT{Data: []int{1}, Length: 2}).Validate(), ErrInvalidLUT)
	assert.NoError(t, NewLUT([]int{0}, 0).Validate())
}
