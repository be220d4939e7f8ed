package resample

import (
	"fmt"
	"math"
)

// ColorMode selects how many components a pixel carries.
type ColorMode int

const (
	// Grayscale pixels carry a single sample.
	Grayscale ColorMode = iota
	// RGB pixels carry red, green and blue samples.
	RGB
)

// String returns a string representation of the color mode.
func (m ColorMode) String() string {
	switch m {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	default:
		return "unknown"
	}
}

// Components returns the number of samples per pixel.
func (m ColorMode) Components() int {
	if m == RGB {
		return 3
	}
	return 1
}

// Layout describes where the components of a color pixel are stored.
// It is ignored for grayscale rasters.
type Layout int

const (
	// Interleaved stores R, G and B next to each other for every pixel.
	Interleaved Layout = iota
	// Planar stores a full R plane, then a full G plane, then a full B plane.
	Planar
)

// String returns a string representation of the layout.
func (l Layout) String() string {
	switch l {
	case Interleaved:
		return "interleaved"
	case Planar:
		return "planar"
	default:
		return "unknown"
	}
}

// Encoding describes how samples are stored in a source raster.
type Encoding struct {
	// BytesPerPixel is the width of one stored sample: 1 or 2.
	BytesPerPixel int

	// BitsStored is the number of significant bits in a sample, at most
	// 8*BytesPerPixel. Higher bits are masked off.
	BitsStored int

	// Signed samples are sign-extended from bit BitsStored-1.
	Signed bool

	Color  ColorMode
	Layout Layout
}

func (e Encoding) validate() error {
	if e.BytesPerPixel != 1 && e.BytesPerPixel != 2 {
		return fmt.Errorf("%w: bytes per pixel %d not in {1,2}", ErrInvalidEncoding, e.BytesPerPixel)
	}
	if e.BitsStored < 1 || e.BitsStored > e.BytesPerPixel*8 {
		return fmt.Errorf("%w: bits stored %d outside [1,%d]", ErrInvalidEncoding, e.BitsStored, e.BytesPerPixel*8)
	}
	if e.Color != Grayscale && e.Color != RGB {
		return fmt.Errorf("%w: unknown color mode %d", ErrInvalidEncoding, e.Color)
	}
	if e.Layout != Interleaved && e.Layout != Planar {
		return fmt.Errorf("%w: unknown layout %d", ErrInvalidEncoding, e.Layout)
	}
	return nil
}

// strides returns the byte distance between consecutive pixels and between
// consecutive components of one pixel, for a plane of the given size.
func strides(bpp int, color ColorMode, layout Layout, width, height int) (pixel, component int) {
	switch {
	case color != RGB:
		return bpp, 0
	case layout == Planar:
		return bpp, width * height * bpp
	default:
		return 3 * bpp, bpp
	}
}

// Source is a read-only view over caller-owned raw pixel data.
type Source struct {
	Pix    []byte
	Width  int
	Height int
	Encoding
}

// byteLen multiplies raster dimensions, failing when the product does not
// fit in an int. All factors must be positive.
func byteLen(dims ...int) (int, bool) {
	n := 1
	for _, d := range dims {
		if d > math.MaxInt/n {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// MinLen returns the number of bytes Pix must hold for the source's
// dimensions and encoding.
func (s *Source) MinLen() (int, error) {
	n, ok := byteLen(s.Width, s.Height, s.BytesPerPixel, s.Color.Components())
	if !ok {
		return 0, fmt.Errorf("%w: source %dx%d overflows", ErrInvalidDimensions, s.Width, s.Height)
	}
	return n, nil
}

// Validate reports whether the source can be sampled.
func (s *Source) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: source %dx%d", ErrInvalidDimensions, s.Width, s.Height)
	}
	if err := s.Encoding.validate(); err != nil {
		return err
	}
	need, err := s.MinLen()
	if err != nil {
		return err
	}
	if len(s.Pix) == 0 {
		return fmt.Errorf("%w: source pixel data", ErrNilBuffer)
	}
	if len(s.Pix) < need {
		return fmt.Errorf("%w: source has %d bytes, needs %d", ErrShortBuffer, len(s.Pix), need)
	}
	return nil
}

// At returns the decoded raw value of component c at (x, y). Coordinates are
// clamped to the raster. The source must be valid.
func (s *Source) At(x, y, c int) int {
	r := newReader(s)
	x = clamp(x, 0, s.Width-1)
	y = clamp(y, 0, s.Height-1)
	c = clamp(c, 0, s.Color.Components()-1)
	return r.at(y*s.Width+x, c)
}

// SampleRange returns the smallest and largest decoded raw values over all
// components of the source.
func (s *Source) SampleRange() (lo, hi int, err error) {
	if err := s.Validate(); err != nil {
		return 0, 0, err
	}
	r := newReader(s)
	lo, hi = math.MaxInt, math.MinInt
	n := s.Width * s.Height
	for c := 0; c < s.Color.Components(); c++ {
		for p := 0; p < n; p++ {
			v := r.at(p, c)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi, nil
}

// Destination is caller-owned memory receiving resampled output. Samples are
// unsigned and BytesPerPixel wide; the component count and layout follow the
// source it is rendered from.
type Destination struct {
	Pix           []byte
	Width         int
	Height        int
	BytesPerPixel int
}

// MinLen returns the number of bytes Pix must hold for the given color mode.
// Dimensions and BytesPerPixel must be positive.
func (d *Destination) MinLen(color ColorMode) (int, error) {
	n, ok := byteLen(d.Width, d.Height, d.BytesPerPixel, color.Components())
	if !ok {
		return 0, fmt.Errorf("%w: destination %dx%d overflows", ErrInvalidDimensions, d.Width, d.Height)
	}
	return n, nil
}

// MaxValue returns the largest value a destination sample can hold.
func (d *Destination) MaxValue() int {
	return 1<<(8*d.BytesPerPixel) - 1
}

// RectF is a source region with sub-pixel precision. Right may be less than
// Left and Bottom less than Top; the region is then traversed mirrored.
type RectF struct {
	Left, Top, Right, Bottom float64
}

// Full returns the region covering a whole w×h raster.
func Full(w, h int) RectF {
	return RectF{Right: float64(w), Bottom: float64(h)}
}

func (r RectF) finite() bool {
	for _, v := range [...]float64{r.Left, r.Top, r.Right, r.Bottom} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
