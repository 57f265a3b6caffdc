package core

// Color represents a foreground color for a screen cell.
// The named colors map to the basic ANSI palette; values from Palette256
// address the full xterm 256-color range.
type Color uint16

// Predefined colors for HUD and overlay elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// paletteBase offsets xterm codes so they never collide with named colors.
const paletteBase Color = 256

// Palette256 returns the color for an xterm 256-color code.
func Palette256(code uint8) Color {
	return paletteBase + Color(code)
}

// PaletteCode reports the xterm code of a Palette256 color.
func (c Color) PaletteCode() (uint8, bool) {
	if c < paletteBase {
		return 0, false
	}
	return uint8(c - paletteBase), true
}

// RGBToPalette maps an 8-bit RGB triple onto the 6x6x6 xterm color cube.
func RGBToPalette(r, g, b uint8) Color {
	level := func(v uint8) int {
		// Cube levels are 0, 95, 135, 175, 215, 255.
		if v < 48 {
			return 0
		}
		if v < 115 {
			return 1
		}
		return min(5, (int(v)-35)/40)
	}
	code := 16 + 36*level(r) + 6*level(g) + level(b)
	return Palette256(uint8(code))
}
