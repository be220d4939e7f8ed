// Package voi builds intensity lookup tables for the resampling kernel from a
// modality rescale and a linear value-of-interest window.
//
// Stored pixel values first pass through the modality rescale
// (value*Slope + Intercept), then through the window, which maps the range
// [Center-Width/2, Center+Width/2] linearly onto the output range. The result
// is a resample.LUT indexed by stored values, so the kernel applies both
// stages with a single lookup per sample.
package voi

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/resample-mcp/internal/resample"
)

// MaxEntries bounds the size of a generated table. It covers every stored
// value of a signed or unsigned 16-bit raster with room to spare.
const MaxEntries = 1 << 17

var (
	// ErrInvalidWindow is returned for windows narrower than one unit.
	ErrInvalidWindow = errors.New("voi: invalid window")
	// ErrInvalidRange is returned when the input or output range is unusable.
	ErrInvalidRange = errors.New("voi: invalid range")
)

// Rescale is a linear modality transform. A zero Slope is treated as 1 so the
// zero value is the identity.
type Rescale struct {
	Slope     float64
	Intercept float64
}

// Apply maps a stored value to a modality value.
func (r Rescale) Apply(v float64) float64 {
	s := r.Slope
	if s == 0 {
		s = 1
	}
	return v*s + r.Intercept
}

// Window is a linear VOI window.
type Window struct {
	Center float64 `json:"center"`
	Width  float64 `json:"width"`
}

// Validate reports whether the window can be applied.
func (w Window) Validate() error {
	if math.IsNaN(w.Center) || math.IsInf(w.Center, 0) || math.IsNaN(w.Width) || w.Width < 1 {
		return fmt.Errorf("%w: center %v width %v", ErrInvalidWindow, w.Center, w.Width)
	}
	return nil
}

// Apply maps a modality value into [yMin, yMax] following the DICOM linear
// VOI function.
func (w Window) Apply(x, yMin, yMax float64) float64 {
	c := w.Center - 0.5
	half := (w.Width - 1) / 2
	switch {
	case x <= c-half:
		return yMin
	case x > c+half:
		return yMax
	default:
		return ((x-c)/(w.Width-1)+0.5)*(yMax-yMin) + yMin
	}
}

// MinMaxWindow returns the window that spans the rescaled value range of
// stored values lo..hi. The width never drops below one.
func MinMaxWindow(lo, hi int, r Rescale) Window {
	a, b := r.Apply(float64(lo)), r.Apply(float64(hi))
	if a > b {
		a, b = b, a
	}
	width := b - a
	center := a + width/2
	if width < 1 {
		// A flat raster still needs a usable window.
		width = 1
	}
	return Window{Center: center, Width: width}
}

// AutoWindow computes the min/max window of a source raster.
func AutoWindow(src *resample.Source, r Rescale) (Window, error) {
	lo, hi, err := src.SampleRange()
	if err != nil {
		return Window{}, err
	}
	return MinMaxWindow(lo, hi, r), nil
}

// BuildLUT tabulates rescale and window for every stored value in
// [minRaw, maxRaw]. Outputs span [0, 2^outBits-1] and are rounded half to
// even.
func BuildLUT(minRaw, maxRaw int, r Rescale, w Window, outBits int) (*resample.LUT, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if outBits < 1 || outBits > 16 {
		return nil, fmt.Errorf("%w: output bits %d outside [1,16]", ErrInvalidRange, outBits)
	}
	if maxRaw < minRaw {
		return nil, fmt.Errorf("%w: stored range [%d,%d]", ErrInvalidRange, minRaw, maxRaw)
	}
	n := maxRaw - minRaw + 1
	if n > MaxEntries {
		return nil, fmt.Errorf("%w: %d entries exceeds %d", ErrInvalidRange, n, MaxEntries)
	}

	yMax := float64(int(1)<<outBits - 1)
	data := make([]int, n)
	for i := range data {
		y := w.Apply(r.Apply(float64(minRaw+i)), 0, yMax)
		data[i] = int(math.RoundToEven(y))
	}
	return resample.NewLUT(data, minRaw), nil
}

// StoredRange returns the stored value range implied by an encoding.
func StoredRange(e resample.Encoding) (lo, hi int) {
	if e.Signed {
		return -(1 << (e.BitsStored - 1)), 1<<(e.BitsStored-1) - 1
	}
	return 0, 1<<e.BitsStored - 1
}
