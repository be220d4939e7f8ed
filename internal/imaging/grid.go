package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/resample-mcp/internal/resample"
)

// DefaultGridColor is used when a grid is requested without a color.
const DefaultGridColor = "#FF0000"

// Grid describes a coordinate grid drawn over a rendering. Lines fall on
// multiples of Spacing in source pixel coordinates, so the grid follows the
// source when the rendering is zoomed, mirrored or transposed.
type Grid struct {
	Spacing  int
	Labels   bool
	ColorHex string
	Region   resample.RectF
	SwapXY   bool
}

// gridLine is an output position together with the source coordinate it marks.
type gridLine struct {
	pos   int
	coord int
}

// gridLines finds the output positions along an axis of n samples, mapped
// onto source coordinates [from, to), that land on multiples of spacing.
func gridLines(from, to float64, n, spacing int) []gridLine {
	if n <= 0 || from == to {
		return nil
	}
	lo, hi := math.Min(from, to), math.Max(from, to)
	scale := float64(n) / (to - from)

	var lines []gridLine
	first := int(math.Ceil(lo/float64(spacing))) * spacing
	for c := first; float64(c) < hi; c += spacing {
		pos := int(math.Round((float64(c) - from) * scale))
		if pos > 0 && pos < n {
			lines = append(lines, gridLine{pos: pos, coord: c})
		}
	}
	return lines
}

// GridOverlay draws g over a rendered image and returns the result.
func GridOverlay(img image.Image, g Grid) (*image.NRGBA, error) {
	if g.Spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %d", g.Spacing)
	}
	hex := g.ColorHex
	if hex == "" {
		hex = DefaultGridColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid grid color %q: %w", hex, err)
	}
	gridColor := nrgba(c)

	result := imaging.Clone(img)
	width, height := result.Bounds().Dx(), result.Bounds().Dy()

	// Columns walk source x unless the rendering is transposed.
	cols := gridLines(g.Region.Left, g.Region.Right, width, g.Spacing)
	rows := gridLines(g.Region.Top, g.Region.Bottom, height, g.Spacing)
	if g.SwapXY {
		cols = gridLines(g.Region.Top, g.Region.Bottom, width, g.Spacing)
		rows = gridLines(g.Region.Left, g.Region.Right, height, g.Spacing)
	}

	// Draw vertical lines
	for _, l := range cols {
		for y := 0; y < height; y++ {
			result.SetNRGBA(l.pos, y, gridColor)
		}
	}

	// Draw horizontal lines
	for _, l := range rows {
		for x := 0; x < width; x++ {
			result.SetNRGBA(x, l.pos, gridColor)
		}
	}

	if g.Labels {
		labelColor := color.NRGBA{255, 255, 255, 255}
		bgColor := color.NRGBA{0, 0, 0, 255}

		for _, r := range rows {
			for _, col := range cols {
				sx, sy := col.coord, r.coord
				if g.SwapXY {
					sx, sy = sy, sx
				}
				drawLabel(result, col.pos+2, r.pos+2, fmt.Sprintf("%d,%d", sx, sy), labelColor, bgColor)
			}
		}
	}

	return result, nil
}

// drawLabel draws a simple text label at the given position using a 3x5
// pixel font.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
		'-': {"000", "000", "111", "000", "000"},
	}

	bounds := img.Bounds()
	inside := func(px, py int) bool {
		return image.Pt(px, py).In(bounds)
	}
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	// Draw background
	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if px, py := x+dx, y+dy; inside(px, py) {
				img.SetNRGBA(px, py, bg)
			}
		}
	}

	// Draw text
	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if px, py := cx+col, y+row; pixel == '1' && inside(px, py) {
					img.SetNRGBA(px, py, fg)
				}
			}
		}
		cx += charWidth
	}
}
