package imaging

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/resample-mcp/internal/resample"
)

// FromImage converts a decoded image into a raw source raster.
//
// *image.Gray and *image.Gray16 keep their bit depth (16-bit samples are
// re-packed little-endian). Every other image type is normalised to NRGBA and
// stored as 8-bit RGB; alpha is dropped. Color rasters are interleaved unless
// planar is set.
func FromImage(img image.Image, planar bool) (*resample.Source, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty image bounds %v", b)
	}

	switch m := img.(type) {
	case *image.Gray:
		pix := make([]byte, w*h)
		for y := 0; y < h; y++ {
			off := m.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pix[y*w:(y+1)*w], m.Pix[off:off+w])
		}
		return &resample.Source{
			Pix: pix, Width: w, Height: h,
			Encoding: resample.Encoding{BytesPerPixel: 1, BitsStored: 8},
		}, nil

	case *image.Gray16:
		pix := make([]byte, w*h*2)
		for y := 0; y < h; y++ {
			off := m.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				v := uint16(m.Pix[off+2*x])<<8 | uint16(m.Pix[off+2*x+1])
				binary.LittleEndian.PutUint16(pix[(y*w+x)*2:], v)
			}
		}
		return &resample.Source{
			Pix: pix, Width: w, Height: h,
			Encoding: resample.Encoding{BytesPerPixel: 2, BitsStored: 16},
		}, nil
	}

	n := imaging.Clone(img)
	pix := make([]byte, w*h*3)
	plane := w * h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := y*w + x
			s := n.Pix[y*n.Stride+x*4 : y*n.Stride+x*4+3]
			if planar {
				pix[p], pix[plane+p], pix[2*plane+p] = s[0], s[1], s[2]
			} else {
				copy(pix[p*3:p*3+3], s)
			}
		}
	}
	layout := resample.Interleaved
	if planar {
		layout = resample.Planar
	}
	return &resample.Source{
		Pix: pix, Width: w, Height: h,
		Encoding: resample.Encoding{BytesPerPixel: 1, BitsStored: 8, Color: resample.RGB, Layout: layout},
	}, nil
}

// ToImage wraps a filled destination as an image for encoding. Grayscale
// becomes *image.Gray or *image.Gray16, color becomes *image.NRGBA or
// *image.NRGBA64 depending on the destination sample width. color and layout
// must match the source the destination was rendered from.
func ToImage(d *resample.Destination, color resample.ColorMode, layout resample.Layout) image.Image {
	w, h := d.Width, d.Height
	rect := image.Rect(0, 0, w, h)
	at := func(p, c int) int {
		ps, cs := 1, 0
		if color == resample.RGB {
			if layout == resample.Planar {
				cs = w * h
			} else {
				ps, cs = 3, 1
			}
		}
		i := p*ps + c*cs
		if d.BytesPerPixel == 2 {
			return int(binary.LittleEndian.Uint16(d.Pix[2*i:]))
		}
		return int(d.Pix[i])
	}

	switch {
	case color != resample.RGB && d.BytesPerPixel == 1:
		out := image.NewGray(rect)
		copy(out.Pix, d.Pix[:w*h])
		return out

	case color != resample.RGB:
		out := image.NewGray16(rect)
		for p := 0; p < w*h; p++ {
			v := at(p, 0)
			out.Pix[2*p], out.Pix[2*p+1] = byte(v>>8), byte(v)
		}
		return out

	case d.BytesPerPixel == 1:
		out := image.NewNRGBA(rect)
		for p := 0; p < w*h; p++ {
			out.Pix[4*p] = byte(at(p, 0))
			out.Pix[4*p+1] = byte(at(p, 1))
			out.Pix[4*p+2] = byte(at(p, 2))
			out.Pix[4*p+3] = 0xFF
		}
		return out

	default:
		out := image.NewNRGBA64(rect)
		for p := 0; p < w*h; p++ {
			for c := 0; c < 3; c++ {
				v := at(p, c)
				out.Pix[8*p+2*c], out.Pix[8*p+2*c+1] = byte(v>>8), byte(v)
			}
			out.Pix[8*p+6], out.Pix[8*p+7] = 0xFF, 0xFF
		}
		return out
	}
}
