package resample

import (
	"encoding/binary"
	"math"
)

// sink stores an already saturated value at byte offset off.
type sink func(pix []byte, off int, v int)

func newSink(bpp int) sink {
	if bpp == 1 {
		return func(pix []byte, off int, v int) {
			pix[off] = byte(v)
		}
	}
	return func(pix []byte, off int, v int) {
		binary.LittleEndian.PutUint16(pix[off:off+2], uint16(v))
	}
}

// writer binds a sink to a destination's strides and range.
type writer struct {
	pix             []byte
	store           sink
	max             int
	width           int
	pixelStride     int
	componentStride int
}

func newWriter(d *Destination, color ColorMode, layout Layout) writer {
	ps, cs := strides(d.BytesPerPixel, color, layout, d.Width, d.Height)
	return writer{
		pix:             d.Pix,
		store:           newSink(d.BytesPerPixel),
		max:             d.MaxValue(),
		width:           d.Width,
		pixelStride:     ps,
		componentStride: cs,
	}
}

// put rounds v half to even, saturates it to the destination range and
// writes it as component c of pixel (x, y).
func (w writer) put(x, y, c int, v float64) {
	n := int(math.RoundToEven(v))
	if n < 0 {
		n = 0
	} else if n > w.max {
		n = w.max
	}
	w.store(w.pix, (y*w.width+x)*w.pixelStride+c*w.componentStride, n)
}

// bilinear blends the four corner samples with weights wx and wy.
func bilinear(s00, s10, s01, s11 int, wx, wy float64) float64 {
	top := float64(s00)*(1-wx) + float64(s10)*wx
	bottom := float64(s01)*(1-wx) + float64(s11)*wx
	return top*(1-wy) + bottom*wy
}
