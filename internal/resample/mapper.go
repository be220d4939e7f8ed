package resample

// axisTaps maps every destination index 0..span-1 onto the source interval
// [from, to) and returns the clamped footprint for each. A reversed interval
// (to < from) walks the source backwards.
func axisTaps(span int, from, to float64, n int) []tap {
	taps := make([]tap, span)
	d := to - from
	for i := range taps {
		taps[i] = newTap(from+float64(i)*d/float64(span), n)
	}
	return taps
}

// footprint holds the per-column and per-row taps for one call, already
// resolved against SwapXY so that xs always indexes source columns and ys
// source rows.
type footprint struct {
	// byCol is true when destination columns drive source x.
	byCol bool
	xs    []tap
	ys    []tap
}

func newFootprint(src *Source, r RectF, w, h int, swap bool) footprint {
	if swap {
		// Destination rows walk source x and columns walk source y.
		return footprint{
			xs: axisTaps(h, r.Left, r.Right, src.Width),
			ys: axisTaps(w, r.Top, r.Bottom, src.Height),
		}
	}
	return footprint{
		byCol: true,
		xs:    axisTaps(w, r.Left, r.Right, src.Width),
		ys:    axisTaps(h, r.Top, r.Bottom, src.Height),
	}
}

// at returns the source taps for destination offset (i, j) inside the region.
func (f *footprint) at(i, j int) (tx, ty tap) {
	if f.byCol {
		return f.xs[i], f.ys[j]
	}
	return f.xs[j], f.ys[i]
}
