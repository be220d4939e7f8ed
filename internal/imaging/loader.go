package imaging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/resample-mcp/internal/resample"
)

// Raster is a decoded source raster together with where it came from.
type Raster struct {
	// Source is the raw pixel view handed to the resampling kernel.
	Source *resample.Source

	// Format is "png", "jpeg", "gif", "tiff", "bmp", "raw" or "unknown".
	Format string

	// Raw is the layout used to read a headerless file; nil for encoded images.
	Raw *RawSpec

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64
}

// RasterCache provides thread-safe caching of decoded rasters to avoid
// redundant disk reads and conversions.
//
// Rasters are keyed by the path they were loaded from. Once loaded,
// subsequent Load() calls for the same path return the cached raster without
// disk I/O. A LoadRaw() call with a different RawSpec than the cached one
// re-reads the file.
//
// RasterCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached rasters remain in memory until explicitly removed via Evict() or
// Clear(). A 16-bit 512×512 CT slice costs 512 KiB; a decoded photo is
// converted to 8-bit RGB and costs 3 bytes per pixel.
//
// # Example Usage
//
//	cache := imaging.NewRasterCache()
//	r, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Use r.Source with resample.Interpolate...
//	cache.Evict("/path/to/image.png") // Optional: free memory
type RasterCache struct {
	mu      sync.RWMutex
	rasters map[string]*Raster

	// planar selects the component layout used for decoded color images.
	planar bool
}

// CacheOption configures a RasterCache.
type CacheOption func(*RasterCache)

// WithPlanarColor stores decoded color images as three planes instead of
// interleaved RGB.
func WithPlanarColor() CacheOption {
	return func(c *RasterCache) { c.planar = true }
}

// NewRasterCache creates and initializes a new empty raster cache.
func NewRasterCache(opts ...CacheOption) *RasterCache {
	c := &RasterCache{
		rasters: make(map[string]*Raster),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load retrieves a raster from the cache or decodes it from disk.
//
// Parameters:
//   - path: Path to an encoded image. PNG, JPEG, GIF, TIFF and BMP are
//     supported through github.com/disintegration/imaging.
//
// Returns:
//   - *Raster: The decoded raster. 8 and 16-bit grayscale images keep their
//     bit depth; everything else becomes 8-bit RGB.
//   - error: Non-nil if the file cannot be opened, decoded or converted.
//
// A path previously loaded with LoadRaw is returned as cached.
func (c *RasterCache) Load(path string) (*Raster, error) {
	c.mu.RLock()
	if r, ok := c.rasters[path]; ok {
		c.mu.RUnlock()
		return r, nil
	}
	c.mu.RUnlock()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	src, err := FromImage(img, c.planar)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}

	r := &Raster{
		Source:        src,
		Format:        formatFromExt(path),
		FileSizeBytes: stat.Size(),
	}
	c.store(path, r)
	return r, nil
}

// LoadRaw reads a headerless pixel dump with an explicit layout.
//
// Parameters:
//   - path: Path to the file.
//   - spec: Dimensions, encoding and header offset of the data.
//
// Returns:
//   - *Raster: The raster with Format "raw".
//   - error: Non-nil if the file cannot be read or is too short for spec.
//
// The file may be longer than the spec requires; trailing bytes are kept but
// never read by the kernel.
func (c *RasterCache) LoadRaw(path string, spec RawSpec) (*Raster, error) {
	c.mu.RLock()
	if r, ok := c.rasters[path]; ok && r.Raw != nil && *r.Raw == spec {
		c.mu.RUnlock()
		return r, nil
	}
	c.mu.RUnlock()

	if spec.Offset < 0 {
		return nil, fmt.Errorf("invalid raw offset %d", spec.Offset)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw data: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if _, err := f.Seek(spec.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek past header: %w", err)
	}
	pix, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw data: %w", err)
	}

	src := spec.Source(pix)
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("raw data does not match layout: %w", err)
	}

	specCopy := spec
	r := &Raster{
		Source:        src,
		Format:        "raw",
		Raw:           &specCopy,
		FileSizeBytes: stat.Size(),
	}
	c.store(path, r)
	return r, nil
}

func (c *RasterCache) store(path string, r *Raster) {
	c.mu.Lock()
	c.rasters[path] = r
	c.mu.Unlock()
}

// Clear removes all rasters from the cache.
func (c *RasterCache) Clear() {
	c.mu.Lock()
	c.rasters = make(map[string]*Raster)
	c.mu.Unlock()
}

// Evict removes a specific raster from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *RasterCache) Evict(path string) {
	c.mu.Lock()
	delete(c.rasters, path)
	c.mu.Unlock()
}

// Len returns the number of cached rasters.
func (c *RasterCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rasters)
}

// RawSpec describes a headerless pixel file.
type RawSpec struct {
	Width         int   `json:"width"`
	Height        int   `json:"height"`
	BytesPerPixel int   `json:"bytes_per_pixel"`
	BitsStored    int   `json:"bits_stored"`
	Signed        bool  `json:"signed"`
	RGB           bool  `json:"rgb"`
	Planar        bool  `json:"planar"`
	Offset        int64 `json:"offset"`
}

// Encoding converts the spec to the kernel's encoding. BitsStored defaults
// to the full sample width.
func (s RawSpec) Encoding() resample.Encoding {
	e := resample.Encoding{
		BytesPerPixel: s.BytesPerPixel,
		BitsStored:    s.BitsStored,
		Signed:        s.Signed,
	}
	if e.BitsStored == 0 {
		e.BitsStored = 8 * s.BytesPerPixel
	}
	if s.RGB {
		e.Color = resample.RGB
	}
	if s.Planar {
		e.Layout = resample.Planar
	}
	return e
}

// Source wraps pix as a raster laid out according to the spec.
func (s RawSpec) Source(pix []byte) *resample.Source {
	return &resample.Source{
		Pix:      pix,
		Width:    s.Width,
		Height:   s.Height,
		Encoding: s.Encoding(),
	}
}

// RasterInfo contains metadata about a loaded raster.
type RasterInfo struct {
	// Width is the raster width in pixels.
	Width int `json:"width"`

	// Height is the raster height in pixels.
	Height int `json:"height"`

	// Format is the detected file format, or "raw" for headerless data.
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// BytesPerPixel is the width of one stored sample.
	BytesPerPixel int `json:"bytes_per_pixel"`

	// BitsStored is the number of significant bits per sample.
	BitsStored int `json:"bits_stored"`

	// Signed reports whether samples are two's complement.
	Signed bool `json:"signed"`

	// Color is "grayscale" or "rgb".
	Color string `json:"color"`

	// Layout is "interleaved" or "planar"; only meaningful for rgb.
	Layout string `json:"layout"`

	// MinValue and MaxValue bound the decoded stored values.
	MinValue int `json:"min_value"`
	MaxValue int `json:"max_value"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Info summarises a raster, scanning it once for its value range.
func (r *Raster) Info() (*RasterInfo, error) {
	src := r.Source
	lo, hi, err := src.SampleRange()
	if err != nil {
		return nil, err
	}
	return &RasterInfo{
		Width:         src.Width,
		Height:        src.Height,
		Format:        r.Format,
		BytesPerPixel: src.BytesPerPixel,
		BitsStored:    src.BitsStored,
		Signed:        src.Signed,
		Color:         src.Color.String(),
		Layout:        src.Layout.String(),
		MinValue:      lo,
		MaxValue:      hi,
		FileSizeBytes: r.FileSizeBytes,
	}, nil
}

// LoadRasterInfo loads a raster into the cache and returns its metadata. A
// nil raw decodes path as an encoded image; otherwise it is read as
// headerless pixel data laid out by raw.
func LoadRasterInfo(cache *RasterCache, path string, raw *RawSpec) (*RasterInfo, error) {
	var (
		r   *Raster
		err error
	)
	if raw != nil {
		r, err = cache.LoadRaw(path, *raw)
	} else {
		r, err = cache.Load(path)
	}
	if err != nil {
		return nil, err
	}
	return r.Info()
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	default:
		return "unknown"
	}
}
