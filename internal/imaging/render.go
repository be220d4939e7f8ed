package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/resample-mcp/internal/resample"
	"github.com/ironsheep/resample-mcp/internal/voi"
)

// MaxRenderDimension bounds either side of a rendered image.
const MaxRenderDimension = 8192

// RenderRequest describes how to resample a raster into a viewable image.
type RenderRequest struct {
	// Region is the source area to render. Nil renders the whole raster.
	// Right < Left or Bottom < Top mirrors the output.
	Region *resample.RectF

	// Width and Height are the output size. Zero derives the size from the
	// region extent, giving a 1:1 rendering.
	Width  int
	Height int

	// OutputBits is 8 or 16. Zero means 8.
	OutputBits int

	// SwapXY transposes the rendering. Derived sizes are swapped to match.
	SwapXY bool

	// Window maps grayscale values through a VOI window before blending.
	// AutoWindow computes a min/max window from the raster instead.
	Window     *voi.Window
	AutoWindow bool

	// Rescale is the modality transform applied ahead of the window.
	Rescale voi.Rescale

	// Palette names a pseudo-color palette for 8-bit grayscale output.
	// Empty leaves the output grayscale.
	Palette string

	// GridSpacing draws a source-coordinate grid every GridSpacing source
	// pixels over 8-bit output. Zero draws no grid.
	GridSpacing int
	GridLabels  bool
	GridColor   string

	// Workers is the number of concurrent row bands.
	Workers int
}

// RenderResult contains the rendered image data.
type RenderResult struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	ImageBase64 string      `json:"image_base64"`
	MimeType    string      `json:"mime_type"`
	Window      *voi.Window `json:"window,omitempty"`
}

// Render resamples src according to req and returns the result as a
// base64-encoded PNG.
func Render(src *resample.Source, req RenderRequest) (*RenderResult, error) {
	img, win, err := RenderImage(src, req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode rendered image: %w", err)
	}

	return &RenderResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Window:      win,
	}, nil
}

// RenderImage resamples src according to req. The returned window is the one
// applied, or nil when values were passed through unchanged.
func RenderImage(src *resample.Source, req RenderRequest) (image.Image, *voi.Window, error) {
	if err := src.Validate(); err != nil {
		return nil, nil, err
	}

	region := resample.Full(src.Width, src.Height)
	if req.Region != nil {
		region = *req.Region
	}
	w, h, err := outputSize(region, req)
	if err != nil {
		return nil, nil, err
	}

	bits := req.OutputBits
	if bits == 0 {
		bits = 8
	}
	if bits != 8 && bits != 16 {
		return nil, nil, fmt.Errorf("output bits must be 8 or 16, got %d", bits)
	}
	if req.Palette != "" && (bits != 8 || src.Color == resample.RGB) {
		return nil, nil, fmt.Errorf("palette %q requires 8-bit grayscale output", req.Palette)
	}
	if req.GridSpacing != 0 && bits != 8 {
		return nil, nil, fmt.Errorf("grid overlay requires 8-bit output")
	}

	win := req.Window
	if req.AutoWindow && win == nil {
		auto, err := voi.AutoWindow(src, req.Rescale)
		if err != nil {
			return nil, nil, err
		}
		win = &auto
	}

	var lut *resample.LUT
	if win != nil {
		if src.Color == resample.RGB {
			return nil, nil, fmt.Errorf("windowing is only defined for grayscale rasters")
		}
		lo, hi := voi.StoredRange(src.Encoding)
		lut, err = voi.BuildLUT(lo, hi, req.Rescale, *win, bits)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build window table: %w", err)
		}
	}

	dst := resample.Destination{
		Width:         w,
		Height:        h,
		BytesPerPixel: bits / 8,
	}
	n, err := dst.MinLen(src.Color)
	if err != nil {
		return nil, nil, err
	}
	dst.Pix = make([]byte, n)

	err = resample.Interpolate(resample.Params{
		Src:       *src,
		SrcRegion: region,
		Dst:       dst,
		DstRegion: image.Rect(0, 0, w, h),
		SwapXY:    req.SwapXY,
		LUT:       lut,
		Workers:   req.Workers,
	})
	if err != nil {
		return nil, nil, err
	}

	img := ToImage(&dst, src.Color, src.Layout)
	if req.Palette != "" {
		img, err = ApplyPalette(img.(*image.Gray), req.Palette)
		if err != nil {
			return nil, nil, err
		}
	}
	if req.GridSpacing != 0 {
		img, err = GridOverlay(img, Grid{
			Spacing:  req.GridSpacing,
			Labels:   req.GridLabels,
			ColorHex: req.GridColor,
			Region:   region,
			SwapXY:   req.SwapXY,
		})
		if err != nil {
			return nil, nil, err
		}
	}
	return img, win, nil
}

func outputSize(r resample.RectF, req RenderRequest) (w, h int, err error) {
	w, h = req.Width, req.Height
	if w < 0 || h < 0 {
		return 0, 0, fmt.Errorf("invalid output size %dx%d", w, h)
	}
	dw := math.Ceil(math.Abs(r.Right - r.Left))
	dh := math.Ceil(math.Abs(r.Bottom - r.Top))
	if req.SwapXY {
		dw, dh = dh, dw
	}
	// Bound the spans while still floats; NaN and Inf fail the comparison.
	if w == 0 {
		if !(dw <= MaxRenderDimension) {
			return 0, 0, fmt.Errorf("region %+v is %v pixels wide, exceeds %d; give an explicit width", r, dw, MaxRenderDimension)
		}
		w = int(dw)
	}
	if h == 0 {
		if !(dh <= MaxRenderDimension) {
			return 0, 0, fmt.Errorf("region %+v is %v pixels high, exceeds %d; give an explicit height", r, dh, MaxRenderDimension)
		}
		h = int(dh)
	}
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("empty output size %dx%d for region %+v", w, h, r)
	}
	if w > MaxRenderDimension || h > MaxRenderDimension {
		return 0, 0, fmt.Errorf("output size %dx%d exceeds %d", w, h, MaxRenderDimension)
	}
	return w, h, nil
}

// NamedRegion resolves a named region of a w×h raster.
func NamedRegion(name string, w, h int) (resample.RectF, error) {
	fw, fh := float64(w), float64(h)
	midX, midY := float64(w/2), float64(h/2)

	switch name {
	case "full":
		return resample.Full(w, h), nil
	case "top-left":
		return resample.RectF{Right: midX, Bottom: midY}, nil
	case "top-right":
		return resample.RectF{Left: midX, Right: fw, Bottom: midY}, nil
	case "bottom-left":
		return resample.RectF{Top: midY, Right: midX, Bottom: fh}, nil
	case "bottom-right":
		return resample.RectF{Left: midX, Top: midY, Right: fw, Bottom: fh}, nil
	case "top-half":
		return resample.RectF{Right: fw, Bottom: midY}, nil
	case "bottom-half":
		return resample.RectF{Top: midY, Right: fw, Bottom: fh}, nil
	case "left-half":
		return resample.RectF{Right: midX, Bottom: fh}, nil
	case "right-half":
		return resample.RectF{Left: midX, Right: fw, Bottom: fh}, nil
	case "center":
		// Center 50% of the raster
		qW, qH := float64(w/4), float64(h/4)
		return resample.RectF{Left: qW, Top: qH, Right: fw - qW, Bottom: fh - qH}, nil
	case "mirror-h":
		return resample.RectF{Left: fw - 1, Right: -1, Bottom: fh}, nil
	case "mirror-v":
		return resample.RectF{Top: fh - 1, Right: fw, Bottom: -1}, nil
	default:
		return resample.RectF{}, fmt.Errorf("unknown region: %s", name)
	}
}
