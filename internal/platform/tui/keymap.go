package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/objarcade/objarcade/internal/sim"
)

// KeyMap translates terminal keys to a game's actions. Bindings are per
// game since action sets differ.
type KeyMap map[string]sim.Action

// gameKeyMaps holds the built-in bindings, keyed by game ID.
var gameKeyMaps = map[string]KeyMap{
	"atlantis": {
		" ":     1, // fire center
		"up":    1,
		"left":  2, // fire left cannon
		"a":     2,
		"right": 3, // fire right cannon
		"d":     3,
	},
	"abyss": {
		"left":  1, // rotate left
		"a":     1,
		"right": 2, // rotate right
		"d":     2,
		" ":     3, // fire
		"up":    3,
	},
}

// KeyMapFor returns the bindings for a game. Unknown games get number
// keys mapped to action indices so every registered game stays playable.
func KeyMapFor(gameID string, space sim.ActionSpace) KeyMap {
	if km, ok := gameKeyMaps[gameID]; ok {
		return km
	}
	km := make(KeyMap, space.N())
	for i := 0; i < space.N() && i < 10; i++ {
		km[string(rune('0'+i))] = sim.Action(i)
	}
	return km
}

// MapKey translates a key message to an action. Returns the action and
// whether the key was bound; unbound keys leave the pending action alone.
func (km KeyMap) MapKey(msg tea.KeyMsg) (sim.Action, bool) {
	a, ok := km[msg.String()]
	return a, ok
}

// IsQuitKey reports whether the key should exit the program.
func IsQuitKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+c", "q":
		return true
	}
	return false
}

// IsRestartKey reports whether the key requests a fresh episode.
func IsRestartKey(msg tea.KeyMsg) bool {
	return msg.String() == "r"
}
