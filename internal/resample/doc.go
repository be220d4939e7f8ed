// Package resample renders a rectangular sub-region of a raw source raster into
// a destination raster of different size using bilinear interpolation.
//
// The kernel works on caller-owned byte slices rather than image.Image values so
// that medical-style encodings survive untouched: 8 or 16-bit samples, any
// number of stored bits up to the sample width, signed or unsigned values,
// grayscale or RGB, and interleaved or planar component layout.
//
// # Pipeline
//
// Every destination pixel, for every component, passes through four stages:
//
//  1. Coordinate mapping: the destination region is mapped linearly onto the
//     source region, one axis at a time. A flipped source region (Right < Left
//     or Bottom < Top) mirrors the output; SwapXY transposes it.
//  2. Sample fetching: the four neighbours of the fractional source coordinate
//     are read, each clamped to the raster edge, and decoded according to the
//     source Encoding.
//  3. Intensity mapping: each raw sample is optionally remapped through a LUT
//     with clamp-to-edge semantics.
//  4. Blending: the four mapped samples are combined bilinearly, rounded half to
//     even, saturated to the destination sample width and written unsigned.
//
// # Coordinates
//
// For destination column i (counted from the region's left edge) the source x
// coordinate is Left + i*(Right-Left)/width. A source region of
// {0, 0, W, H} rendered into a destination region of W×H pixels therefore
// reproduces the source exactly. Destination regions use image.Rectangle
// semantics: Min is inclusive and Max is exclusive.
//
// # Sample Layout
//
// BytesPerPixel is the width of one stored sample. Interleaved RGB stores R, G
// and B contiguously (3*BytesPerPixel bytes per pixel); planar RGB stores three
// full planes back to back. 16-bit samples are little-endian. The destination
// follows the source's component count and layout.
//
// # Concurrency
//
// Interpolate touches nothing but the destination region. Setting
// Params.Workers above one splits that region into disjoint row bands that are
// processed in parallel; the output is identical to a single pass.
package resample
