package tui

// Color identifies a terminal foreground color for a screen cell.
type Color uint8

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

// Cell is one character of the display buffer.
type Cell struct {
	Rune  rune
	Color Color
}

// Screen is a 2D colored character buffer. It decouples drawing from the
// terminal: observations are painted with simple cell operations and the
// platform handles the actual display.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{width: width, height: height}
	s.allocate()
	s.Clear()
	return s
}

func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int { return s.width }

// Height returns the screen height in characters.
func (s *Screen) Height() int { return s.height }

// Resize changes the screen dimensions, discarding previous content.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width = width
	s.height = height
	s.allocate()
	s.Clear()
}

// Clear fills the screen with spaces.
func (s *Screen) Clear() {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

// Set places a colored rune at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune, c Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = Cell{Rune: r, Color: c}
}

// Cell returns the cell at the given position.
// Returns a blank cell for out-of-bounds coordinates.
func (s *Screen) Cell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return Cell{Rune: ' '}
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
// Characters beyond the screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string, c Color) {
	for i, r := range text {
		s.Set(x+i, y, r, c)
	}
}

// DrawBox draws a rectangular outline.
func (s *Screen) DrawBox(x, y, w, h int, c Color) {
	if w < 2 || h < 2 {
		return
	}
	for i := 1; i < w-1; i++ {
		s.Set(x+i, y, '─', c)
		s.Set(x+i, y+h-1, '─', c)
	}
	for i := 1; i < h-1; i++ {
		s.Set(x, y+i, '│', c)
		s.Set(x+w-1, y+i, '│', c)
	}
	s.Set(x, y, '┌', c)
	s.Set(x+w-1, y, '┐', c)
	s.Set(x, y+h-1, '└', c)
	s.Set(x+w-1, y+h-1, '┘', c)
}
