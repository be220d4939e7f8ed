package resample

import "fmt"

// LUT remaps raw sample values before blending. Raw value
// FirstMappedPixelValue maps to Data[0]; values outside the table take the
// nearest edge entry.
type LUT struct {
	Data                  []int
	FirstMappedPixelValue int
	Length                int
}

// NewLUT returns a table covering len(data) consecutive raw values starting
// at first.
func NewLUT(data []int, first int) *LUT {
	return &LUT{Data: data, FirstMappedPixelValue: first, Length: len(data)}
}

// Validate reports whether the table can be used for lookups.
func (l *LUT) Validate() error {
	if l.Length <= 0 {
		return fmt.Errorf("%w: length %d", ErrInvalidLUT, l.Length)
	}
	if l.Length > len(l.Data) {
		return fmt.Errorf("%w: length %d exceeds %d data entries", ErrInvalidLUT, l.Length, len(l.Data))
	}
	return nil
}

// Lookup maps a raw value through the table, clamping to its first and last
// entries. The table must be valid.
func (l *LUT) Lookup(v int) int {
	i := v - l.FirstMappedPixelValue
	if i <= 0 {
		return l.Data[0]
	}
	if i >= l.Length {
		return l.Data[l.Length-1]
	}
	return l.Data[i]
}
