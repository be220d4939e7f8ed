package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/resample-mcp/internal/resample"
	"github.com/ironsheep/resample-mcp/internal/voi"
)

// Point is a position in source pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PixelSpacing is the physical size of one source pixel. Zero values mean
// the spacing is unknown.
type PixelSpacing struct {
	Column float64 `json:"column"` // Horizontal size in mm
	Row    float64 `json:"row"`    // Vertical size in mm
}

// DistanceResult contains measurement information
type DistanceResult struct {
	DistancePixels        float64  `json:"distance_pixels"`
	DistanceMM            *float64 `json:"distance_mm,omitempty"`
	DeltaX                float64  `json:"delta_x"`
	DeltaY                float64  `json:"delta_y"`
	AngleDegrees          float64  `json:"angle_degrees"`
	DistancePercentWidth  float64  `json:"distance_percent_width"`
	DistancePercentHeight float64  `json:"distance_percent_height"`
}

// MeasureDistance calculates the distance between two points of a raster.
// The millimetre distance is only reported when both spacings are set.
func MeasureDistance(src *resample.Source, a, b Point, spacing PixelSpacing) (*DistanceResult, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	width := float64(src.Width)
	height := float64(src.Height)

	deltaX := b.X - a.X
	deltaY := b.Y - a.Y
	distance := math.Hypot(deltaX, deltaY)

	// Calculate angle in degrees (0 = horizontal right, 90 = down)
	angle := math.Atan2(deltaY, deltaX) * 180 / math.Pi

	result := &DistanceResult{
		DistancePixels:        math.Round(distance*100) / 100,
		DeltaX:                deltaX,
		DeltaY:                deltaY,
		AngleDegrees:          math.Round(angle*10) / 10,
		DistancePercentWidth:  math.Round(distance/width*1000) / 10,
		DistancePercentHeight: math.Round(distance/height*1000) / 10,
	}
	if spacing.Column > 0 && spacing.Row > 0 {
		mm := math.Round(math.Hypot(deltaX*spacing.Column, deltaY*spacing.Row)*100) / 100
		result.DistanceMM = &mm
	}
	return result, nil
}

// ProfileSample is one point of a line profile.
type ProfileSample struct {
	Point
	Values   []int     `json:"values"`
	Rescaled []float64 `json:"rescaled"`
}

// MaxProfileSamples bounds the length of a line profile.
const MaxProfileSamples = 4096

// LineProfile samples the raster at n evenly spaced points from a to b,
// inclusive, with bilinear interpolation. Values are in stored units rounded
// to the nearest integer; Rescaled applies r to them.
func LineProfile(src *resample.Source, a, b Point, n int, r voi.Rescale) ([]ProfileSample, error) {
	if n < 2 || n > MaxProfileSamples {
		return nil, fmt.Errorf("profile samples must be in [2,%d], got %d", MaxProfileSamples, n)
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	smp := newSampler(src)
	out := make([]ProfileSample, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		p := Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
		vals, err := smp.at(p.X, p.Y)
		if err != nil {
			return nil, err
		}
		s := ProfileSample{Point: p, Values: vals, Rescaled: make([]float64, len(vals))}
		for c, v := range vals {
			s.Rescaled[c] = r.Apply(float64(v))
		}
		out[i] = s
	}
	return out, nil
}

// SampleBilinear interpolates the raster at a sub-pixel position. Positions
// outside the raster take the value of the nearest edge.
func SampleBilinear(src *resample.Source, x, y float64) ([]int, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	return newSampler(src).at(x, y)
}

// sampler reads single interpolated pixels through the resampling kernel.
// Signed rasters are shifted into the unsigned destination range by a table
// and shifted back afterwards.
type sampler struct {
	src    *resample.Source
	lut    *resample.LUT
	offset int
}

func newSampler(src *resample.Source) sampler {
	s := sampler{src: src}
	lo, hi := voi.StoredRange(src.Encoding)
	if lo < 0 {
		data := make([]int, hi-lo+1)
		for i := range data {
			data[i] = i
		}
		s.lut = resample.NewLUT(data, lo)
		s.offset = lo
	}
	return s
}

func (s sampler) at(x, y float64) ([]int, error) {
	n := s.src.Color.Components()
	dst := resample.Destination{Pix: make([]byte, 2*n), Width: 1, Height: 1, BytesPerPixel: 2}
	err := resample.Interpolate(resample.Params{
		Src:       *s.src,
		SrcRegion: resample.RectF{Left: x, Top: y, Right: x + 1, Bottom: y + 1},
		Dst:       dst,
		DstRegion: image.Rect(0, 0, 1, 1),
		LUT:       s.lut,
	})
	if err != nil {
		return nil, err
	}

	vals := make([]int, n)
	for c := range vals {
		// One pixel: interleaved and planar layouts coincide.
		vals[c] = (int(dst.Pix[2*c]) | int(dst.Pix[2*c+1])<<8) + s.offset
	}
	return vals, nil
}

// RegionStats summarises one component of a region.
type RegionStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// RegionStatsResult contains per-component statistics of a region.
type RegionStatsResult struct {
	Region     image.Rectangle `json:"region"`
	Pixels     int             `json:"pixels"`
	Components []RegionStats   `json:"components"`
}

// MeasureRegion computes statistics of the rescaled values inside rect,
// which is clipped to the raster.
func MeasureRegion(src *resample.Source, rect image.Rectangle, r voi.Rescale) (*RegionStatsResult, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	clipped := rect.Canon().Intersect(image.Rect(0, 0, src.Width, src.Height))
	if clipped.Empty() {
		return nil, fmt.Errorf("region %v does not overlap the %dx%d raster", rect, src.Width, src.Height)
	}

	total := clipped.Dx() * clipped.Dy()
	res := &RegionStatsResult{
		Region:     clipped,
		Pixels:     total,
		Components: make([]RegionStats, src.Color.Components()),
	}
	for c := range res.Components {
		st := RegionStats{Min: math.Inf(1), Max: math.Inf(-1)}
		var sum, sumSq float64
		for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
			for x := clipped.Min.X; x < clipped.Max.X; x++ {
				v := r.Apply(float64(src.At(x, y, c)))
				sum += v
				sumSq += v * v
				st.Min = math.Min(st.Min, v)
				st.Max = math.Max(st.Max, v)
			}
		}
		st.Mean = sum / float64(total)
		st.StdDev = math.Sqrt(math.Max(0, sumSq/float64(total)-st.Mean*st.Mean))
		st.Mean = math.Round(st.Mean*100) / 100
		st.StdDev = math.Round(st.StdDev*100) / 100
		res.Components[c] = st
	}
	return res, nil
}
