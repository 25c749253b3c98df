// Package operation implements the per-operation control block: the proxy
// for a single controlled thread, its state machine, and the condition
// variable the kernel parks it on between scheduling decisions.
package operation

import (
	"sync"

	"github.com/ctestgo/ctest/internal/ctest/orderedset"
)

// Status is the lifecycle state of an Operation.
//
//	None ──start──> Enabled ──join/wait──> Blocked* ──target ready──> Enabled
//	any non-terminal ──complete──> Completed
type Status int

const (
	// StatusNone is the status of an operation that has been created but
	// not yet started.
	StatusNone Status = iota
	// StatusEnabled is the status of an operation that is eligible to be
	// scheduled.
	StatusEnabled
	// StatusBlockedOnJoin is the status of an operation waiting for one
	// or more other operations to complete.
	StatusBlockedOnJoin
	// StatusBlockedOnResource is the status of an operation waiting for
	// one or more resources to be signaled.
	StatusBlockedOnResource
	// StatusCompleted is the terminal status; no further transitions are
	// possible from it.
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "None"
	case StatusEnabled:
		return "Enabled"
	case StatusBlockedOnJoin:
		return "BlockedOnJoin"
	case StatusBlockedOnResource:
		return "BlockedOnResource"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// wait bundles a target set together with the wait-all/wait-any flag that
// governs when the predicate is satisfied. It backs both PendingJoins
// (targets are operation ids) and PendingResources (targets are resource
// ids), which share an id space by construction (ID is the kernel's single
// identifier type).
type wait[ID comparable] struct {
	targets map[ID]struct{}
	waitAll bool
}

func newWait[ID comparable](targets []ID, waitAll bool) *wait[ID] {
	w := &wait[ID]{targets: make(map[ID]struct{}, len(targets)), waitAll: waitAll}
	for _, id := range targets {
		w.targets[id] = struct{}{}
	}
	return w
}

// resolve removes id from the wait set and reports whether the wait
// predicate is now satisfied: for wait-all, satisfied once the set is
// empty; for wait-any, satisfied immediately on the first removal.
func (w *wait[ID]) resolve(id ID) bool {
	if _, ok := w.targets[id]; !ok {
		return false
	}
	delete(w.targets, id)
	if w.waitAll {
		return len(w.targets) == 0
	}
	return true
}

// Operation is the kernel's control block for a single logical thread.
type Operation[ID comparable] struct {
	ID          ID
	Status      Status
	IsScheduled bool

	// Cond is bound to the kernel's mutex; the kernel parks the operation's
	// worker thread here between scheduling decisions.
	Cond *sync.Cond

	// JoinWaiters is the insertion-ordered set of operation ids currently
	// blocked waiting for this operation to complete. Order matters:
	// CompleteOperation re-enables them in the order they joined, so two
	// runs with the same seed and the same join order make the same
	// scheduling decisions.
	JoinWaiters *orderedset.Set[ID]

	pendingJoins     *wait[ID]
	pendingResources *wait[ID]
}

// New creates an Operation in StatusNone, parked on cond.
func New[ID comparable](id ID, cond *sync.Cond) *Operation[ID] {
	return &Operation[ID]{
		ID:          id,
		Status:      StatusNone,
		Cond:        cond,
		JoinWaiters: orderedset.New[ID](),
	}
}

// Reset returns a Completed operation's slot to StatusNone so its id can be
// reused by a subsequent create_operation call. It must not be called on a
// non-Completed operation.
func (o *Operation[ID]) Reset() {
	o.Status = StatusNone
	o.IsScheduled = false
	o.pendingJoins = nil
	o.pendingResources = nil
}

// BlockOnJoin records that this operation is now waiting for targets to
// complete (wait-all or wait-any per waitAll) and transitions it to
// StatusBlockedOnJoin.
func (o *Operation[ID]) BlockOnJoin(targets []ID, waitAll bool) {
	o.pendingJoins = newWait(targets, waitAll)
	o.Status = StatusBlockedOnJoin
}

// BlockOnResource records that this operation is now waiting for resources
// to be signaled (wait-all or wait-any per waitAll) and transitions it to
// StatusBlockedOnResource.
func (o *Operation[ID]) BlockOnResource(resourceIDs []ID, waitAll bool) {
	o.pendingResources = newWait(resourceIDs, waitAll)
	o.Status = StatusBlockedOnResource
}

// OnJoinTargetCompleted removes targetID from this operation's pending join
// set. It returns true iff the join predicate is now satisfied, in which
// case the caller should transition this operation back to StatusEnabled.
func (o *Operation[ID]) OnJoinTargetCompleted(targetID ID) bool {
	if o.pendingJoins == nil {
		return false
	}
	satisfied := o.pendingJoins.resolve(targetID)
	if satisfied {
		o.pendingJoins = nil
	}
	return satisfied
}

// OnResourceSignaled removes resourceID from this operation's pending
// resource set. It returns true iff the wait predicate is now satisfied, in
// which case the caller should transition this operation back to
// StatusEnabled.
func (o *Operation[ID]) OnResourceSignaled(resourceID ID) bool {
	if o.pendingResources == nil {
		return false
	}
	satisfied := o.pendingResources.resolve(resourceID)
	if satisfied {
		o.pendingResources = nil
	}
	return satisfied
}

// PendingResourceIDs returns the resource ids this operation is currently
// blocked on, for diagnostics (e.g. a deadlock dump).
func (o *Operation[ID]) PendingResourceIDs() []ID {
	if o.pendingResources == nil {
		return nil
	}
	ids := make([]ID, 0, len(o.pendingResources.targets))
	for id := range o.pendingResources.targets {
		ids = append(ids, id)
	}
	return ids
}
