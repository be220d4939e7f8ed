package resample

import (
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Params describes one resampling call.
type Params struct {
	Src       Source
	SrcRegion RectF

	Dst       Destination
	DstRegion image.Rectangle

	// SwapXY transposes the output: destination rows walk the source
	// horizontally and destination columns walk it vertically.
	SwapXY bool

	// LUT optionally remaps raw samples before blending.
	LUT *LUT

	// Workers is the number of row bands processed concurrently.
	// Zero or one processes the region in a single pass.
	Workers int
}

// minBandRows keeps bands large enough that goroutine startup stays
// negligible next to the work in each band.
const minBandRows = 16

// Interpolate renders p.SrcRegion of p.Src into p.DstRegion of p.Dst.
//
// All validation happens before the first write; on error the destination is
// untouched. A destination region with zero width or height succeeds without
// writing anything.
func Interpolate(p Params) error {
	if err := p.validate(); err != nil {
		return err
	}
	w, h := p.DstRegion.Dx(), p.DstRegion.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	if err := p.validateDestination(); err != nil {
		return err
	}

	k := newKernel(&p)

	bands := p.Workers
	if maxBands := (h + minBandRows - 1) / minBandRows; bands > maxBands {
		bands = maxBands
	}
	if bands <= 1 {
		k.rows(0, h)
		return nil
	}

	Logger().Debug("resample: parallel bands",
		slog.Int("bands", bands), slog.Int("rows", h))

	var g errgroup.Group
	g.SetLimit(bands)
	per := (h + bands - 1) / bands
	for j0 := 0; j0 < h; j0 += per {
		j0 := j0
		j1 := min(j0+per, h)
		g.Go(func() error {
			k.rows(j0, j1)
			return nil
		})
	}
	return g.Wait()
}

// InterpolateBilinear is the boolean entry point for callers that do not use
// Go errors. It reports true on success and false on invalid input; panics
// never escape it.
func InterpolateBilinear(p Params) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("resample: interpolation panicked", slog.Any("panic", r))
			ok = false
		}
	}()
	if err := Interpolate(p); err != nil {
		Logger().Debug("resample: rejected input", slog.String("err", err.Error()))
		return false
	}
	return true
}

func (p *Params) validate() error {
	if err := p.Src.Validate(); err != nil {
		return err
	}
	if p.LUT != nil {
		if err := p.LUT.Validate(); err != nil {
			return err
		}
	}
	if !p.SrcRegion.finite() {
		return fmt.Errorf("%w: source region %+v is not finite", ErrInvalidDimensions, p.SrcRegion)
	}
	if p.DstRegion.Dx() < 0 || p.DstRegion.Dy() < 0 {
		return fmt.Errorf("%w: destination region %v has negative span", ErrInvalidDimensions, p.DstRegion)
	}
	return nil
}

func (p *Params) validateDestination() error {
	d := &p.Dst
	if d.BytesPerPixel != 1 && d.BytesPerPixel != 2 {
		return fmt.Errorf("%w: destination bytes per pixel %d not in {1,2}", ErrInvalidEncoding, d.BytesPerPixel)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: destination %dx%d", ErrInvalidDimensions, d.Width, d.Height)
	}
	if !p.DstRegion.In(image.Rect(0, 0, d.Width, d.Height)) {
		return fmt.Errorf("%w: destination region %v outside %dx%d raster",
			ErrInvalidDimensions, p.DstRegion, d.Width, d.Height)
	}
	need, err := d.MinLen(p.Src.Color)
	if err != nil {
		return err
	}
	if len(d.Pix) == 0 {
		return fmt.Errorf("%w: destination pixel data", ErrNilBuffer)
	}
	if len(d.Pix) < need {
		return fmt.Errorf("%w: destination has %d bytes, needs %d", ErrShortBuffer, len(d.Pix), need)
	}
	return nil
}

// kernel is the per-call state resolved once from validated Params.
type kernel struct {
	src        reader
	dst        writer
	fp         footprint
	lut        *LUT
	stride     int
	components int
	origin     image.Point
	width      int
}

func newKernel(p *Params) *kernel {
	w, h := p.DstRegion.Dx(), p.DstRegion.Dy()
	return &kernel{
		src:        newReader(&p.Src),
		dst:        newWriter(&p.Dst, p.Src.Color, p.Src.Layout),
		fp:         newFootprint(&p.Src, p.SrcRegion, w, h, p.SwapXY),
		lut:        p.LUT,
		stride:     p.Src.Width,
		components: p.Src.Color.Components(),
		origin:     p.DstRegion.Min,
		width:      w,
	}
}

// rows renders region rows [j0, j1).
func (k *kernel) rows(j0, j1 int) {
	for j := j0; j < j1; j++ {
		y := k.origin.Y + j
		for i := 0; i < k.width; i++ {
			tx, ty := k.fp.at(i, j)
			p00 := ty.i0*k.stride + tx.i0
			p10 := ty.i0*k.stride + tx.i1
			p01 := ty.i1*k.stride + tx.i0
			p11 := ty.i1*k.stride + tx.i1
			for c := 0; c < k.components; c++ {
				s00 := k.sample(p00, c)
				s10 := k.sample(p10, c)
				s01 := k.sample(p01, c)
				s11 := k.sample(p11, c)
				k.dst.put(k.origin.X+i, y, c, bilinear(s00, s10, s01, s11, tx.w, ty.w))
			}
		}
	}
}

func (k *kernel) sample(p, c int) int {
	v := k.src.at(p, c)
	if k.lut != nil {
		return k.lut.Lookup(v)
	}
	return v
}
