package resample

import (
	"encoding/binary"
	"math"
)

// extractor decodes the sample starting at byte offset off.
type extractor func(pix []byte, off int) int

// newExtractor resolves the decoding strategy for an encoding once, so the
// per-pixel loop never branches on bit depth or signedness.
func newExtractor(e Encoding) extractor {
	mask := 1<<e.BitsStored - 1
	sign := 1 << (e.BitsStored - 1)

	switch {
	case e.BytesPerPixel == 1 && !e.Signed:
		return func(pix []byte, off int) int {
			return int(pix[off]) & mask
		}
	case e.BytesPerPixel == 1:
		return func(pix []byte, off int) int {
			v := int(pix[off]) & mask
			return (v ^ sign) - sign
		}
	case !e.Signed:
		return func(pix []byte, off int) int {
			return int(binary.LittleEndian.Uint16(pix[off:off+2])) & mask
		}
	default:
		return func(pix []byte, off int) int {
			v := int(binary.LittleEndian.Uint16(pix[off:off+2])) & mask
			return (v ^ sign) - sign
		}
	}
}

// reader binds an extractor to a source's strides.
type reader struct {
	pix             []byte
	extract         extractor
	pixelStride     int
	componentStride int
}

func newReader(s *Source) reader {
	ps, cs := strides(s.BytesPerPixel, s.Color, s.Layout, s.Width, s.Height)
	return reader{
		pix:             s.Pix,
		extract:         newExtractor(s.Encoding),
		pixelStride:     ps,
		componentStride: cs,
	}
}

// at decodes component c of the pixel with linear index p.
func (r reader) at(p, c int) int {
	return r.extract(r.pix, p*r.pixelStride+c*r.componentStride)
}

// tap is one axis of a bilinear footprint: two clamped neighbour indices and
// the weight of the second one.
type tap struct {
	i0, i1 int
	w      float64
}

// newTap locates the neighbours of coordinate s on an axis of n samples.
func newTap(s float64, n int) tap {
	// Keep the float inside a range where the int conversion is exact; the
	// clamp below makes any further distance irrelevant.
	if s < -1 {
		s = -1
	} else if s > float64(n) {
		s = float64(n)
	}
	f := math.Floor(s)
	i := int(f)
	return tap{
		i0: clamp(i, 0, n-1),
		i1: clamp(i+1, 0, n-1),
		w:  s - f,
	}
}
