package resample

import (
	"encoding/binary"
	"image"
)

func gray8Source(w, h int, f func(x, y int) int) Source {
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pix[y*w+x] = byte(f(x, y))
		}
	}
	return Source{
		Pix: pix, Width: w, Height: h,
		Encoding: Encoding{BytesPerPixel: 1, BitsStored: 8},
	}
}

func gray16Source(w, h, bits int, signed bool, f func(x, y int) int) Source {
	pix := make([]byte, w*h*2)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			binary.LittleEndian.PutUint16(pix[(y*w+x)*2:], uint16(f(x, y)))
		}
	}
	return Source{
		Pix: pix, Width: w, Height: h,
		Encoding: Encoding{BytesPerPixel: 2, BitsStored: bits, Signed: signed},
	}
}

// rgbSource builds an 8-bit RGB source from per-pixel triples in row order.
func rgbSource(w, h int, layout Layout, px [][3]byte) Source {
	pix := make([]byte, w*h*3)
	for p, c := range px {
		for k := 0; k < 3; k++ {
			if layout == Planar {
				pix[k*w*h+p] = c[k]
			} else {
				pix[p*3+k] = c[k]
			}
		}
	}
	return Source{
		Pix: pix, Width: w, Height: h,
		Encoding: Encoding{BytesPerPixel: 1, BitsStored: 8, Color: RGB, Layout: layout},
	}
}

func newDestination(w, h, bpp, components int, fill byte) Destination {
	pix := make([]byte, w*h*bpp*components)
	for i := range pix {
		pix[i] = fill
	}
	return Destination{Pix: pix, Width: w, Height: h, BytesPerPixel: bpp}
}

func gray8At(d Destination, x, y int) int {
	return int(d.Pix[y*d.Width+x])
}

func gray16At(d Destination, x, y int) int {
	return int(binary.LittleEndian.Uint16(d.Pix[(y*d.Width+x)*2:]))
}

func fullParams(src Source, dst Destination) Params {
	return Params{
		Src:       src,
		SrcRegion: Full(src.Width, src.Height),
		Dst:       dst,
		DstRegion: image.Rect(0, 0, dst.Width, dst.Height),
	}
}

// asGray wraps an 8-bit single-component destination as an image.
func asGray(d Destination) *image.Gray {
	return &image.Gray{Pix: d.Pix, Stride: d.Width, Rect: image.Rect(0, 0, d.Width, d.Height)}
}
