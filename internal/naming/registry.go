package naming

import (
	"errors"
	"fmt"
)

// Registry errors.
var (
	// ErrOriginalExists is returned when an original path is inserted twice.
	ErrOriginalExists = errors.New("naming: original path already registered")

	// ErrNameTaken is returned when a safe name is already owned by another path.
	ErrNameTaken = errors.New("naming: safe name already assigned")
)

// Pair is one original path and the safe name assigned to it.
type Pair struct {
	Original string
	Name     string
}

// Registry is an insert-only bijection between original paths and safe names.
//
// Both lookup directions are kept in lockstep: an insertion either updates
// both maps or neither. Registry is not safe for concurrent use.
type Registry struct {
	forward map[string]string // original → safe name
	inverse map[string]string // safe name → original
	order   []Pair
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		forward: make(map[string]string),
		inverse: make(map[string]string),
	}
}

// HasOriginal reports whether original has been assigned a name.
func (r *Registry) HasOriginal(original string) bool {
	_, ok := r.forward[original]
	return ok
}

// HasName reports whether name has been assigned to some original.
func (r *Registry) HasName(name string) bool {
	_, ok := r.inverse[name]
	return ok
}

// Name returns the safe name assigned to original.
func (r *Registry) Name(original string) (string, bool) {
	name, ok := r.forward[original]
	return name, ok
}

// Original returns the original path that owns name.
func (r *Registry) Original(name string) (string, bool) {
	original, ok := r.inverse[name]
	return original, ok
}

// Insert records a new (original, name) pair.
// It fails without modifying the registry if either side is already present.
func (r *Registry) Insert(original, name string) error {
	if r.HasOriginal(original) {
		return fmt.Errorf("%w: %s", ErrOriginalExists, original)
	}
	if owner, ok := r.inverse[name]; ok {
		return fmt.Errorf("%w: %s (owned by %s)", ErrNameTaken, name, owner)
	}
	r.forward[original] = name
	r.inverse[name] = original
	r.order = append(r.order, Pair{Original: original, Name: name})
	return nil
}

// Len returns the number of registered pairs.
func (r *Registry) Len() int {
	return len(r.order)
}

// Pairs returns a copy of all pairs in insertion order.
func (r *Registry) Pairs() []Pair {
	out := make([]Pair, len(r.order))
	copy(out, r.order)
	return out
}
