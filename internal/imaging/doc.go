// Package imaging connects files on disk to the resampling kernel.
//
// It decodes encoded images and headerless pixel dumps into resample.Source
// rasters, caches them by path, and renders regions of them back into PNG
// images through resample.Interpolate, optionally windowed and colorized.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Render regions are floating point and may be mirrored; Right < Left
//     flips the output horizontally and Bottom < Top flips it vertically
//
// # Raster Conversion
//
// Decoded images keep as much of their stored precision as the kernel can
// carry:
//   - *image.Gray: 8-bit grayscale
//   - *image.Gray16: 16-bit grayscale, re-packed little-endian
//   - anything else: 8-bit RGB, alpha discarded
//
// Raw files carry their encoding in a RawSpec, which covers signed and
// partially-stored (for example 12 bits in 16) samples.
//
// # Thread Safety
//
// The RasterCache type is safe for concurrent use. Rasters handed out by the
// cache are shared and must be treated as read-only.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside raster bounds
//   - Raw files shorter than their RawSpec requires
//   - Windows on color rasters, or palettes on 16-bit output
//   - File I/O errors during loading
//   - Encoding errors during image output
package imaging
