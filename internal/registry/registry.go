// Package registry maps game names to their environment factories.
// Games register themselves in init() functions, so callers discover and
// instantiate environments without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/objarcade/objarcade/internal/sim"
)

// ErrUnknownGame is returned by Create for unregistered names.
var ErrUnknownGame = errors.New("registry: unknown game")

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh environment instance.
type Factory func() sim.Env

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds an environment factory to the registry. Typically called
// from a game's init() function. An inconsistent game definition is a
// construction bug, fatal and unrecoverable, so Register panics on
// duplicate IDs and on factories whose spaces fail validation.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	env := f()
	if env.ID() != id {
		panic(fmt.Sprintf("registry: game %q registered under id %q", env.ID(), id))
	}
	if err := env.ObservationSpace().Schema.Validate(); err != nil {
		panic(fmt.Sprintf("registry: game %q has an invalid entity schema: %v", id, err))
	}
	if env.ActionSpace().N() < 1 {
		panic(fmt.Sprintf("registry: game %q declares an empty action set", id))
	}

	factories[id] = f
	titles[id] = env.Title()
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new environment by its ID.
func Create(id string) (sim.Env, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
