package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/objarcade/objarcade/internal/sim"
)

// colorStyles maps Color to lipgloss styles.
var colorStyles = map[Color]lipgloss.Style{
	ColorDefault:       lipgloss.NewStyle(),
	ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape
// sequences.
func RenderScreen(s *Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.Cell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.Cell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// KindStyle describes how one entity kind is drawn.
type KindStyle struct {
	Glyph rune
	Color Color
}

// Theme maps entity kinds to glyphs and colors for one game.
type Theme struct {
	Kinds    map[string]KindStyle
	Fallback KindStyle
}

// themes holds the per-game display themes, keyed by game ID.
var themes = map[string]Theme{
	"atlantis": {
		Kinds: map[string]KindStyle{
			"enemy":  {Glyph: '<', Color: ColorBrightRed},
			"bullet": {Glyph: '|', Color: ColorBrightYellow},
			"cannon": {Glyph: '^', Color: ColorBrightCyan},
		},
		Fallback: KindStyle{Glyph: '?', Color: ColorWhite},
	},
	"abyss": {
		Kinds: map[string]KindStyle{
			"enemy":   {Glyph: 'o', Color: ColorBrightMagenta},
			"harpoon": {Glyph: '*', Color: ColorBrightYellow},
			"pearl":   {Glyph: '.', Color: ColorBrightWhite},
			"turret":  {Glyph: '@', Color: ColorBrightCyan},
		},
		Fallback: KindStyle{Glyph: '?', Color: ColorWhite},
	},
}

// ThemeFor returns the display theme for a game, or a plain default.
func ThemeFor(gameID string) Theme {
	if t, ok := themes[gameID]; ok {
		return t
	}
	return Theme{Fallback: KindStyle{Glyph: '#', Color: ColorWhite}}
}

// hudRows is the number of screen rows reserved for the status line.
const hudRows = 1

// DrawObservation paints an observation onto the screen: one glyph per
// active slot, world coordinates scaled to the drawable cell area below
// the HUD row.
func DrawObservation(s *Screen, obs sim.Observation, space sim.ObservationSpace, theme Theme) {
	s.Clear()

	drawW := s.Width()
	drawH := s.Height() - hudRows
	if drawW < 1 || drawH < 1 || space.WorldW < 1 || space.WorldH < 1 {
		return
	}

	for _, kind := range obs.Kinds {
		style, ok := theme.Kinds[kind.Kind]
		if !ok {
			style = theme.Fallback
		}
		for _, slot := range kind.Slots {
			if !slot.Active {
				continue
			}
			// Center of the bounding box, scaled into cells.
			cx := slot.X + slot.W.DivInt(2)
			cy := slot.Y + slot.H.DivInt(2)
			x := cx.Rounded() * drawW / space.WorldW
			y := cy.Rounded() * drawH / space.WorldH
			s.Set(clampInt(x, 0, drawW-1), clampInt(y, 0, drawH-1)+hudRows, style.Glyph, style.Color)
		}
	}
}

// DrawHUD writes the status line on the reserved top row.
func DrawHUD(s *Screen, title string, info sim.Info, terminal bool) {
	line := fmt.Sprintf("%s  score:%d  tick:%d", title, info.Score, info.Tick)
	for _, k := range []string{"wave", "level", "lives", "cannons"} {
		if v, ok := info.Extra[k]; ok {
			line += fmt.Sprintf("  %s:%d", k, v)
		}
	}
	if terminal {
		line += "  GAME OVER (r to restart)"
	}
	s.DrawText(0, 0, line, ColorBrightWhite)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
