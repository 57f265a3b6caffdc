package tui

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	_ "image/jpeg" // Register JPEG decoding for session pictures
	_ "image/png"  // Register PNG decoding for session pictures
	"io"
	"os"
	"sync"

	"github.com/vovakirdan/slidepuzzle/internal/core"
)

// Opener fetches a picture by the path the authority handed out.
// *authority.Client satisfies it for remote play.
type Opener interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileOpener opens pictures from the local filesystem.
type FileOpener struct{}

// Open implements Opener.
func (FileOpener) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// PictureLoader is the controller's asset loader. A terminal cannot show the
// picture itself, so each tile is painted with the average colour of its
// part of the picture.
type PictureLoader struct {
	opener Opener
	n      int

	mu     sync.Mutex
	path   string
	colors []core.Color
}

// NewPictureLoader creates a loader that cuts pictures into n×n tiles.
func NewPictureLoader(opener Opener, n int) *PictureLoader {
	if opener == nil {
		opener = FileOpener{}
	}
	return &PictureLoader{opener: opener, n: n}
}

// Load implements puzzle.AssetLoader. It runs off the event loop.
func (p *PictureLoader) Load(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("no picture for this session")
	}
	rc, err := p.opener.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("open picture: %w", err)
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return fmt.Errorf("decode picture %s: %w", path, err)
	}

	colors := TileColors(img, p.n)
	p.mu.Lock()
	p.path, p.colors = path, colors
	p.mu.Unlock()
	return nil
}

// Colors returns the tile colours of the picture at path. Tiles of a picture
// that never loaded get stable colours derived from the tile id.
func (p *PictureLoader) Colors(path string) []core.Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	if path != "" && path == p.path && len(p.colors) == p.n*p.n {
		return p.colors
	}
	return FallbackColors(p.n)
}

// TileColors averages the picture over each tile's home slot.
func TileColors(img image.Image, n int) []core.Color {
	b := img.Bounds()
	colors := make([]core.Color, n*n)
	for tile := range colors {
		col, row := tile%n, tile/n
		cell := image.Rect(
			b.Min.X+col*b.Dx()/n, b.Min.Y+row*b.Dy()/n,
			b.Min.X+(col+1)*b.Dx()/n, b.Min.Y+(row+1)*b.Dy()/n,
		)
		colors[tile] = averageColor(img, cell)
	}
	return colors
}

func averageColor(img image.Image, r image.Rectangle) core.Color {
	// Sample at most 16x16 points per tile.
	stepX := core.Max(r.Dx()/16, 1)
	stepY := core.Max(r.Dy()/16, 1)

	var sr, sg, sb, count uint64
	for y := r.Min.Y; y < r.Max.Y; y += stepY {
		for x := r.Min.X; x < r.Max.X; x += stepX {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			sr += uint64(cr >> 8)
			sg += uint64(cg >> 8)
			sb += uint64(cb >> 8)
			count++
		}
	}
	if count == 0 {
		return core.ColorGray
	}
	return core.RGBToPalette(uint8(sr/count), uint8(sg/count), uint8(sb/count))
}

// FallbackColors gives every tile a distinct, stable colour.
func FallbackColors(n int) []core.Color {
	colors := make([]core.Color, n*n)
	for tile := range colors {
		h := fnv.New32a()
		fmt.Fprintf(h, "tile-%d-%d", n, tile)
		sum := h.Sum32()
		// Keep away from the darkest cube levels so numbers stay readable.
		colors[tile] = core.RGBToPalette(uint8(96+sum%160), uint8(96+(sum>>8)%160), uint8(96+(sum>>16)%160))
	}
	return colors
}
