// Package kernel provides the dispatch harness around the codec: an
// object table for Tag::Object handles, a table of registered RPC
// services, and a Dispatcher loop that ties the wire transport to
// rpc.RecvValue/rpc.SendValue for one call at a time.
//
// None of this is part of the value codec itself -- spec.md scopes the
// dispatch loop and object table out of its core, but their existence is
// implied by Tag::Object and by "the allocator is reset between RPCs"
// needing something to drive that reset.
package kernel

import "sync"

// ObjectTable assigns stable uint32 ids to Go values so they can be
// referenced by a Tag::Object value crossing the wire, without exposing
// a real pointer to the host.
type ObjectTable struct {
	mu     sync.RWMutex
	byID   map[uint32]any
	nextID uint32
}

// NewObjectTable returns an empty ObjectTable. Id 0 is never issued, so
// it can double as a "no object" sentinel.
func NewObjectTable() *ObjectTable {
	return &ObjectTable{byID: make(map[uint32]any), nextID: 1}
}

// Register assigns obj a fresh id and returns it.
func (t *ObjectTable) Register(obj any) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.byID[id] = obj
	return id
}

// Lookup resolves id back to the object registered under it.
func (t *ObjectTable) Lookup(id uint32) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	obj, ok := t.byID[id]
	return obj, ok
}

// Forget removes id from the table, e.g. once the kernel-side value it
// named has gone out of scope.
func (t *ObjectTable) Forget(id uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.byID, id)
}
