package imaging

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette maps 8-bit gray levels to colors.
type Palette [256]color.NRGBA

// paletteStops lists the color stops of each named palette. Stops are evenly
// spaced and blended in CIE-Lab so perceived lightness changes smoothly.
var paletteStops = map[string][]string{
	"gray": {"#000000", "#FFFFFF"},
	"hot":  {"#000000", "#E60000", "#FFD200", "#FFFFFF"},
	"bone": {"#000000", "#545474", "#A8C8C8", "#FFFFFF"},
	"cool": {"#00FFFF", "#FF00FF"},
}

var palettes = buildPalettes()

func buildPalettes() map[string]*Palette {
	out := make(map[string]*Palette, len(paletteStops))
	for name, hexes := range paletteStops {
		stops := make([]colorful.Color, len(hexes))
		for i, h := range hexes {
			c, err := colorful.Hex(h)
			if err != nil {
				panic(fmt.Sprintf("palette %s: %v", name, err))
			}
			stops[i] = c
		}
		out[name] = newPalette(stops)
	}
	return out
}

func newPalette(stops []colorful.Color) *Palette {
	var p Palette
	segs := len(stops) - 1
	for i := range p {
		t := float64(i) / 255 * float64(segs)
		s := int(t)
		if s >= segs {
			s = segs - 1
		}
		c := stops[s].BlendLab(stops[s+1], t-float64(s)).Clamped()
		r, g, b := c.RGB255()
		p[i] = color.NRGBA{R: r, G: g, B: b, A: 0xFF}
	}
	// Pin the ends so a round trip through Lab cannot shift them.
	p[0] = nrgba(stops[0])
	p[255] = nrgba(stops[segs])
	return &p
}

func nrgba(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
}

// PaletteByName returns one of the built-in palettes.
func PaletteByName(name string) (*Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette: %s", name)
	}
	return p, nil
}

// PaletteNames lists the built-in palettes in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply colorizes a grayscale image.
func (p *Palette) Apply(g *image.Gray) *image.NRGBA {
	b := g.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := p[g.GrayAt(x, y).Y]
			i := out.PixOffset(x, y)
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return out
}

// ApplyPalette colorizes a grayscale image with a named palette.
func ApplyPalette(g *image.Gray, name string) (*image.NRGBA, error) {
	p, err := PaletteByName(name)
	if err != nil {
		return nil, err
	}
	return p.Apply(g), nil
}
