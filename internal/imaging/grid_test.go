package imaging

import (
	"image/color"
	"testing"

	"github.com/ironsheep/resample-mcp/internal/resample"
)

func TestGridLines(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		n        int
		spacing  int
		want     []gridLine
	}{
		{"one to one", 0, 100, 100, 25, []gridLine{{25, 25}, {50, 50}, {75, 75}}},
		{"zoomed", 0, 10, 20, 5, []gridLine{{10, 5}}},
		{"offset region", 3, 13, 10, 5, []gridLine{{2, 5}, {7, 10}}},
		{"mirrored", 10, 0, 10, 5, []gridLine{{5, 5}}},
		{"negative coordinates", -10, 10, 20, 10, []gridLine{{10, 0}}},
		{"empty span", 5, 5, 10, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gridLines(tt.from, tt.to, tt.n, tt.spacing)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGridOverlay_GridLines(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{0, 0, 0, 255})

	result, err := GridOverlay(img, Grid{Spacing: 25, ColorHex: "#FF0000", Region: resample.Full(100, 100)})
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}

	if b := result.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", b.Dx(), b.Dy())
	}

	// Check that grid line at x=25 is red
	if got := result.NRGBAAt(25, 50); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("grid line color at (25,50): got %v, want red", got)
	}

	// Check that non-grid position is still black (background)
	if got := result.NRGBAAt(15, 15); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("non-grid position at (15,15): got %v, want black", got)
	}
}

func TestGridOverlay_DefaultColor(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{0, 0, 0, 255})

	result, err := GridOverlay(img, Grid{Spacing: 5, Region: resample.Full(10, 10)})
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}
	if got := result.NRGBAAt(5, 0); got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("default grid color: got %v, want red", got)
	}
}

func TestGridOverlay_SwapXY(t *testing.T) {
	img := createInMemoryImage(100, 10, color.RGBA{0, 0, 0, 255})
	grid := Grid{
		Spacing: 50,
		Region:  resample.RectF{Right: 10, Bottom: 100},
		SwapXY:  true,
	}

	result, err := GridOverlay(img, grid)
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}
	// Output columns walk source y, so y=50 becomes a vertical line.
	if got := result.NRGBAAt(50, 5); got.R != 255 {
		t.Errorf("expected vertical line at x=50, got %v", got)
	}
	if got := result.NRGBAAt(5, 5); got.R != 0 {
		t.Errorf("unexpected line at (5,5): %v", got)
	}
}

func TestGridOverlay_WithCoordinates(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{128, 128, 128, 255})

	result, err := GridOverlay(img, Grid{Spacing: 25, Labels: true, Region: resample.Full(100, 100)})
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}

	// The label "25,25" starts two pixels past the intersection; the first
	// row of the glyph for '2' is lit.
	if got := result.NRGBAAt(27, 27); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("label foreground at (27,27): got %v", got)
	}
	// The background box surrounds the glyphs.
	if got := result.NRGBAAt(26, 26); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("label background at (26,26): got %v", got)
	}
}

func TestGridOverlay_Errors(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{0, 0, 0, 255})

	tests := []struct {
		name string
		grid Grid
	}{
		{"zero spacing", Grid{Spacing: 0}},
		{"negative spacing", Grid{Spacing: -5}},
		{"invalid color", Grid{Spacing: 5, ColorHex: "not-a-color"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GridOverlay(img, tt.grid); err == nil {
				t.Error("GridOverlay should fail")
			}
		})
	}
}
