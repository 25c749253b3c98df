// Package resource implements the kernel's proxy for a synchronization
// condition (semaphore, event, lock) that controlled operations can wait
// on and signal.
package resource

import "github.com/ctestgo/ctest/internal/ctest/orderedset"

// Resource tracks which operations are currently blocked awaiting it.
type Resource[ID comparable] struct {
	ID ID
	// Blocked is insertion-ordered: SignalResource releases operations in
	// the order they blocked, so two runs with the same seed and the same
	// blocking order make the same scheduling decisions.
	Blocked *orderedset.Set[ID]
}

// New returns an empty Resource.
func New[ID comparable](id ID) *Resource[ID] {
	return &Resource[ID]{ID: id, Blocked: orderedset.New[ID]()}
}

// Block records that opID is now awaiting this resource.
func (r *Resource[ID]) Block(opID ID) {
	r.Blocked.Insert(opID)
}

// Release removes opID from the blocked set, reporting whether it was
// present.
func (r *Resource[ID]) Release(opID ID) bool {
	return r.Blocked.Remove(opID)
}

// BlockedIDs returns a snapshot of the currently blocked operation ids, in
// the order they blocked.
func (r *Resource[ID]) BlockedIDs() []ID {
	return r.Blocked.Values()
}
