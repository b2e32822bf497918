// Package uid provides process-wide unique identifiers and a name<->id
// interning registry.
package uid

import (
	"sync"
	"sync/atomic"
)

// ID is an opaque, process-wide unique handle. The zero value is reserved
// as "none" and is never handed out by Make.
type ID uint64

// None is the sentinel "no id" value.
const None ID = 0

var counter uint64

// Make returns a fresh id by atomic increment. Ids are never reused.
func Make() ID {
	return ID(atomic.AddUint64(&counter, 1))
}

// Valid reports whether id is anything other than None.
func (id ID) Valid() bool {
	return id != None
}

// errNoUniqueID is the name returned by a Registry for an id with no
// bound name, matching the engine's ERROR_NO_UNIQUE_ID sentinel.
const errNoUniqueID = "ERROR_NO_UNIQUE_ID"

// Registry interns string names to stable ids. The zero Registry is not
// usable; construct one with NewRegistry.
type Registry struct {
	mu    sync.RWMutex
	byName map[string]ID
	byID   map[ID]string
}

// NewRegistry constructs an empty name<->id interning table.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]ID),
		byID:   make(map[ID]string),
	}
}

// Get returns the id bound to name, or None if name has never been seen.
// Get takes only a read lock and never allocates a new id.
func (r *Registry) Get(name string) ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// MakeNamed returns the id bound to name, allocating and binding a fresh
// one if name has not been seen before. The binding is permanent for the
// lifetime of the registry.
func (r *Registry) MakeNamed(name string) ID {
	r.mu.RLock()
	if id, ok := r.byName[name]; ok {
		r.mu.RUnlock()
		return id
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	// re-check under the exclusive lock: another writer may have raced us.
	if id, ok := r.byName[name]; ok {
		return id
	}
	id := Make()
	r.byName[name] = id
	r.byID[id] = name
	return id
}

// AsString returns the name bound to id, or the ERROR_NO_UNIQUE_ID sentinel
// if no name has been bound to it.
func (r *Registry) AsString(id ID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.byID[id]; ok {
		return name
	}
	return errNoUniqueID
}
