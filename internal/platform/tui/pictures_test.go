package tui

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/slidepuzzle/internal/core"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pic.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// halves is red on the left and blue on the right.
func halves() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= 20 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestTileColors(t *testing.T) {
	colors := TileColors(halves(), 2)
	red := core.RGBToPalette(255, 0, 0)
	blue := core.RGBToPalette(0, 0, 255)

	want := []core.Color{red, blue, red, blue}
	for i := range want {
		if colors[i] != want[i] {
			t.Errorf("tile %d color = %v, want %v", i, colors[i], want[i])
		}
	}
}

func TestPictureLoaderLoad(t *testing.T) {
	path := writePNG(t, halves())
	p := NewPictureLoader(nil, 2)

	if err := p.Load(context.Background(), path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := p.Colors(path)[0]; got != core.RGBToPalette(255, 0, 0) {
		t.Errorf("tile 0 color = %v, want red", got)
	}

	// Another path falls back to generated colours.
	fallback := FallbackColors(2)
	if got := p.Colors("other.png"); got[0] != fallback[0] || got[1] != fallback[1] {
		t.Errorf("Colors(other) = %v, want fallback %v", got, fallback)
	}
}

func TestPictureLoaderErrors(t *testing.T) {
	p := NewPictureLoader(nil, 3)

	if err := p.Load(context.Background(), ""); err == nil {
		t.Error("Load(\"\") succeeded")
	}
	if err := p.Load(context.Background(), filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load(missing) succeeded")
	}

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(garbage, []byte("not a picture"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := p.Load(context.Background(), garbage); err == nil {
		t.Error("Load(garbage) succeeded")
	}
	if got := len(p.Colors(garbage)); got != 9 {
		t.Errorf("Colors after failed load has %d entries, want 9", got)
	}
}

func TestFallbackColorsStable(t *testing.T) {
	a, b := FallbackColors(4), FallbackColors(4)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("FallbackColors not stable at tile %d", i)
		}
		if _, ok := a[i].PaletteCode(); !ok {
			t.Errorf("tile %d colour %v is not a palette colour", i, a[i])
		}
	}
}
