package imaging

import (
	"fmt"

	"github.com/ironsheep/resample-mcp/internal/resample"
	"github.com/ironsheep/resample-mcp/internal/voi"
)

// PixelSample holds the stored and rescaled values of one pixel.
type PixelSample struct {
	// Values are the decoded stored values, one per component. Signed
	// encodings are sign-extended from the stored bit count.
	Values []int `json:"values"`

	// Rescaled are Values passed through the modality rescale.
	Rescaled []float64 `json:"rescaled"`

	// Hex is "#RRGGBB" for 8-bit color rasters and empty otherwise.
	Hex string `json:"hex,omitempty"`
}

// SamplePixel reads the raw values at a pixel coordinate.
//
// Parameters:
//   - src: The raster to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//   - r: Modality rescale applied to produce Rescaled.
//
// Returns:
//   - *PixelSample: The values at (x, y).
//   - error: Non-nil if the raster is invalid or the coordinates are outside
//     its bounds.
func SamplePixel(src *resample.Source, x, y int, r voi.Rescale) (*PixelSample, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if x < 0 || x >= src.Width || y < 0 || y >= src.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	vals := make([]int, src.Color.Components())
	for c := range vals {
		vals[c] = src.At(x, y, c)
	}
	return newPixelSample(src, vals, r), nil
}

// SampleSubpixel interpolates the values at a sub-pixel position between
// pixel centers, so x must lie in [0, width-1] and y in [0, height-1].
func SampleSubpixel(src *resample.Source, x, y float64, r voi.Rescale) (*PixelSample, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if !(x >= 0 && x <= float64(src.Width-1) && y >= 0 && y <= float64(src.Height-1)) {
		return nil, fmt.Errorf("coordinates (%g,%g) outside image bounds", x, y)
	}
	vals, err := SampleBilinear(src, x, y)
	if err != nil {
		return nil, err
	}
	return newPixelSample(src, vals, r), nil
}

func newPixelSample(src *resample.Source, vals []int, r voi.Rescale) *PixelSample {
	s := &PixelSample{
		Values:   vals,
		Rescaled: make([]float64, len(vals)),
	}
	for c, v := range vals {
		s.Rescaled[c] = r.Apply(float64(v))
	}
	if src.Color == resample.RGB && src.BytesPerPixel == 1 && !src.Signed {
		s.Hex = fmt.Sprintf("#%02X%02X%02X", vals[0], vals[1], vals[2])
	}
	return s
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional descriptive label for this point
}

// LabeledSample combines a pixel sample with its location and optional label.
type LabeledSample struct {
	Label string `json:"label,omitempty"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	PixelSample
}

// SamplePixelsMulti samples several points in one call. Results are returned
// in input order; if any point is out of bounds no partial result is
// returned.
func SamplePixelsMulti(src *resample.Source, points []LabeledPoint, r voi.Rescale) ([]LabeledSample, error) {
	results := make([]LabeledSample, 0, len(points))
	for _, p := range points {
		s, err := SamplePixel(src, p.X, p.Y, r)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledSample{
			Label:       p.Label,
			X:           p.X,
			Y:           p.Y,
			PixelSample: *s,
		})
	}
	return results, nil
}
