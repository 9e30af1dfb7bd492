// Package registry provides a global registry for frontier selection policies.
// Policies register themselves in init() functions, allowing the CLI and the
// worker to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/allcolors/internal/engine"
)

// Default is the policy used when a configuration names none.
const Default = "sampled"

// Info contains metadata about a registered policy.
type Info struct {
	ID    string
	Title string
}

// Factory creates a new policy instance seeded for one run.
type Factory func(seed uint64) engine.Policy

type entry struct {
	title   string
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a policy factory to the registry.
// Typically called from a policy's init() function.
// Panics if a policy with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: policy %q already registered", id))
	}
	entries[id] = entry{title: title, factory: f}
}

// List returns information about all registered policies, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(entries))
	for id, e := range entries {
		result = append(result, Info{ID: id, Title: e.title})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a policy by its ID. An empty ID selects Default.
// Returns an error if the ID is not registered.
func Create(id string, seed uint64) (engine.Policy, error) {
	if id == "" {
		id = Default
	}

	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown policy %q", id)
	}

	return e.factory(seed), nil
}

// Exists checks if a policy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
