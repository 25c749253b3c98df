// Package kernel implements the cooperative scheduler kernel: the single
// synchronized authority over operation and resource state that serializes
// every controlled thread so that, from the test program's point of view,
// execution is single-threaded and fully reproducible given a seed.
//
// # Architecture
//
// The kernel owns three pieces of state behind one mutex:
//
//  1. operation_map: every live Operation, keyed by caller-supplied id.
//  2. resource_map: every live Resource, keyed by caller-supplied id.
//  3. enabled: the deterministic-order set of operation ids eligible to run.
//
// Exactly one operation holds the execution token at a time (its
// IsScheduled flag is true). Every other live operation's worker thread is
// parked on its own *sync.Cond, bound to the kernel mutex, waiting either
// for its first scheduling (start_operation), for a join/resource
// condition to resolve, or for the scheduler to hand the token back to it.
//
// # Central handoff
//
// scheduleNextInner is the one place that consults the exploration
// strategy and performs the handoff: drain any operations still
// registering themselves as Enabled, detect deadlock/exhaustion, ask the
// strategy which enabled operation runs next, and park the previous
// operation's thread (unless it just completed) until it is rescheduled.
// Every public method that disables or completes the currently scheduled
// operation ends by calling it.
package kernel

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ctestgo/ctest/internal/ctest/enabledset"
	cerr "github.com/ctestgo/ctest/internal/ctest/errors"
	"github.com/ctestgo/ctest/internal/ctest/operation"
	"github.com/ctestgo/ctest/internal/ctest/resource"
	"github.com/ctestgo/ctest/internal/ctest/strategy"
)

// Settings configures a Kernel at construction.
type Settings[ID comparable] struct {
	// MainOperationID is the reserved id representing the test driver
	// thread. attach creates and starts it automatically.
	MainOperationID ID

	// Strategy picks the next operation to run and supplies controlled
	// nondeterministic choices. A nil Strategy puts the kernel in
	// disabled mode: every guarded call short-circuits with
	// SchedulerDisabled, matching an exploration_strategy of None.
	Strategy strategy.Strategy[ID]

	// Logger receives Debug-level structured trace events for every
	// state transition. A nil Logger defaults to a discard logger, so
	// production use without an opt-in incurs no logging overhead.
	Logger logrus.FieldLogger
}

// Kernel is the synchronized scheduler core. The zero value is not usable;
// construct one with New.
type Kernel[ID comparable] struct {
	mu sync.Mutex

	operations map[ID]*operation.Operation[ID]
	resources  map[ID]*resource.Resource[ID]
	enabled    *enabledset.Set[ID]

	scheduledOpID     ID
	pendingStartCount int
	pendingStartCond  *sync.Cond

	isAttached     bool
	iterationCount int
	mainOpID       ID

	strategy  strategy.Strategy[ID]
	lastError error

	log logrus.FieldLogger
}

// New returns a Kernel configured per settings, ready for attach.
func New[ID comparable](settings Settings[ID]) *Kernel[ID] {
	log := settings.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(discardWriter{})
		log = discard
	}

	k := &Kernel[ID]{
		operations: make(map[ID]*operation.Operation[ID]),
		resources:  make(map[ID]*resource.Resource[ID]),
		enabled:    enabledset.New[ID](),
		mainOpID:   settings.MainOperationID,
		strategy:   settings.Strategy,
		log:        log,
	}
	k.pendingStartCond = sync.NewCond(&k.mu)
	return k
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func (k *Kernel[ID]) disabled() bool { return k.strategy == nil }

// finish latches err as the most recently observed error and returns it,
// so a caller ignoring a return value can still retrieve it via
// LastError.
func (k *Kernel[ID]) finish(err error) error {
	k.lastError = err
	return err
}

func (k *Kernel[ID]) fail(code cerr.Code) error {
	return k.finish(cerr.New(code))
}

func (k *Kernel[ID]) hasIncompleteOperations() bool {
	for _, op := range k.operations {
		if op.Status != operation.StatusCompleted {
			return true
		}
	}
	return false
}

// Attach begins a new iteration: it resets PCT-style per-iteration
// strategy state (from the second iteration onward), then creates and
// starts the main operation, which becomes the initially scheduled op.
func (k *Kernel[ID]) Attach() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disabled() {
		return k.fail(cerr.SchedulerDisabled)
	}
	if k.isAttached {
		return k.fail(cerr.ClientAttached)
	}

	k.isAttached = true
	k.iterationCount++
	if k.iterationCount > 1 {
		k.strategy.PrepareNextIteration(k.iterationCount)
	}
	k.log.WithField("iteration", k.iterationCount).Debug("ctest: attach")

	mainOp := operation.New(k.mainOpID, sync.NewCond(&k.mu))
	mainOp.Status = operation.StatusEnabled
	mainOp.IsScheduled = true
	k.operations[k.mainOpID] = mainOp
	k.enabled.Insert(k.mainOpID)
	k.scheduledOpID = k.mainOpID

	return k.finish(nil)
}

// Detach ends the current iteration: every live operation is marked
// Completed and its condition variable broadcast, so any thread still
// parked inside a kernel call unblocks and observes !is_attached.
func (k *Kernel[ID]) Detach() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disabled() {
		return k.fail(cerr.SchedulerDisabled)
	}
	if !k.isAttached {
		return k.fail(cerr.ClientNotAttached)
	}

	for _, op := range k.operations {
		op.Status = operation.StatusCompleted
		op.IsScheduled = false
		op.Cond.Broadcast()
	}

	k.operations = make(map[ID]*operation.Operation[ID])
	k.resources = make(map[ID]*resource.Resource[ID])
	k.enabled.Clear()
	k.pendingStartCount = 0
	k.isAttached = false
	k.pendingStartCond.Broadcast()

	k.log.Debug("ctest: detach")

	return k.finish(nil)
}

// CreateOperation registers a new operation id, or resets a previously
// Completed slot back to None so the id can be reused within the same
// iteration.
func (k *Kernel[ID]) CreateOperation(id ID) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disabled() {
		return k.fail(cerr.SchedulerDisabled)
	}
	if !k.isAttached {
		return k.fail(cerr.ClientNotAttached)
	}
	if id == k.mainOpID {
		return k.fail(cerr.MainOperationExplicitlyCreated)
	}

	wasEmpty := len(k.operations) == 0

	if existing, ok := k.operations[id]; ok {
		if existing.Status != operation.StatusCompleted {
			return k.fail(cerr.DuplicateOperation)
		}
		existing.Reset()
	} else {
		k.operations[id] = operation.New(id, sync.NewCond(&k.mu))
	}

	if wasEmpty {
		k.scheduledOpID = id
		k.operations[id].IsScheduled = true
	}

	k.pendingStartCount++

	k.log.WithField("operation_id", id).Debug("ctest: create_operation")

	return k.finish(nil)
}

// StartOperation is called by the worker thread that will run as id. It
// enables the operation and then blocks the calling thread until the
// scheduler grants it the execution token.
func (k *Kernel[ID]) StartOperation(id ID) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disabled() {
		return k.fail(cerr.SchedulerDisabled)
	}
	if id == k.mainOpID {
		return k.fail(cerr.MainOperationExplicitlyStarted)
	}

	op, ok := k.operations[id]
	if !ok {
		return k.fail(cerr.NotExistingOperation)
	}
	if op.Status == operation.StatusCompleted {
		return k.fail(cerr.OperationAlreadyCompleted)
	}
	if op.Status != operation.StatusNone {
		return k.fail(cerr.OperationAlreadyStarted)
	}

	op.Status = operation.StatusEnabled
	k.enabled.Insert(id)

	k.pendingStartCount--
	if k.pendingStartCount == 0 {
		k.pendingStartCond.Broadcast()
	}

	k.log.WithField("operation_id", id).Debug("ctest: start_operation waiting")

	for !op.IsScheduled && k.isAttached {
		op.Cond.Wait()
	}
	if !k.isAttached {
		return k.fail(cerr.ClientNotAttached)
	}

	return k.finish(nil)
}

// JoinOperation blocks the currently scheduled operation until id
// completes.
func (k *Kernel[ID]) JoinOperation(id ID) error {
	return k.JoinOperations([]ID{id}, true)
}

// JoinOperations blocks the currently scheduled operation until the join
// predicate over ids is satisfied: all of them complete (waitAll) or any
// one of them completes (!waitAll).
func (k *Kernel[ID]) JoinOperations(ids []ID, waitAll bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disabled() {
		return k.fail(cerr.SchedulerDisabled)
	}
	if !k.isAttached {
		return k.fail(cerr.ClientNotAttached)
	}

	current := k.scheduledOpID
	curOp := k.operations[current]

	remaining := make([]ID, 0, len(ids))
	for _, id := range ids {
		target, ok := k.operations[id]
		if !ok {
			return k.fail(cerr.NotExistingOperation)
		}
		if target.Status != operation.StatusCompleted {
			remaining = append(remaining, id)
		}
	}

	satisfiedAlready := false
	if waitAll {
		satisfiedAlready = len(remaining) == 0
	} else {
		satisfiedAlready = len(remaining) < len(ids)
	}
	if satisfiedAlready {
		return k.finish(nil)
	}

	for _, id := range remaining {
		k.operations[id].JoinWaiters.Insert(current)
	}
	curOp.BlockOnJoin(remaining, waitAll)
	k.enabled.Remove(current)

	k.log.WithField("operation_id", current).WithField("targets", remaining).Debug("ctest: join blocking")

	return k.finish(k.scheduleNextInner())
}

// CompleteOperation marks id Completed, removes it from the enabled set,
// and resolves any other operation's join wait that was waiting on it.
func (k *Kernel[ID]) CompleteOperation(id ID) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disabled() {
		return k.fail(cerr.SchedulerDisabled)
	}
	if !k.isAttached {
		return k.fail(cerr.ClientNotAttached)
	}
	if id == k.mainOpID {
		return k.fail(cerr.MainOperationExplicitlyCompleted)
	}

	op, ok := k.operations[id]
	if !ok {
		return k.fail(cerr.NotExistingOperation)
	}
	if op.Status == operation.StatusCompleted {
		return k.fail(cerr.OperationAlreadyCompleted)
	}
	if op.Status == operation.StatusNone {
		return k.fail(cerr.OperationNotStarted)
	}

	op.Status = operation.StatusCompleted
	k.enabled.Remove(id)

	for _, waiterID := range op.JoinWaiters.Values() {
		waiter, ok := k.operations[waiterID]
		if !ok {
			continue
		}
		if waiter.OnJoinTargetCompleted(id) {
			waiter.Status = operation.StatusEnabled
			k.enabled.Insert(waiterID)
		}
	}
	op.JoinWaiters.Clear()

	k.log.WithField("operation_id", id).Debug("ctest: complete_operation")

	return k.finish(k.scheduleNextInner())
}

// CreateResource registers a new resource id.
func (k *Kernel[ID]) CreateResource(id ID) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disabled() {
		return k.fail(cerr.SchedulerDisabled)
	}
	if !k.isAttached {
		return k.fail(cerr.ClientNotAttached)
	}
	if _, ok := k.resources[id]; ok {
		return k.fail(cerr.DuplicateResource)
	}

	k.resources[id] = resource.New(id)

	return k.finish(nil)
}

// DeleteResource removes a resource id. Deleting a resource with a
// non-empty blocked set is a caller bug; the kernel logs a diagnostic but
// does not guard against it, leaving cleanup ordering to the caller.
func (k *Kernel[ID]) DeleteResource(id ID) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disabled() {
		return k.fail(cerr.SchedulerDisabled)
	}
	if !k.isAttached {
		return k.fail(cerr.ClientNotAttached)
	}

	res, ok := k.resources[id]
	if !ok {
		return k.fail(cerr.NotExistingResource)
	}
	if res.Blocked.Len() > 0 {
		k.log.WithField("resource_id", id).WithField("blocked_count", res.Blocked.Len()).
			Warn("ctest: delete_resource with operations still blocked on it")
	}

	delete(k.resources, id)

	return k.finish(nil)
}

// WaitResource blocks the currently scheduled operation until id is
// signaled.
func (k *Kernel[ID]) WaitResource(id ID) error {
	return k.WaitResources([]ID{id}, true)
}

// WaitResources blocks the currently scheduled operation on the given
// resource ids, released per waitAll the same way JoinOperations is.
func (k *Kernel[ID]) WaitResources(ids []ID, waitAll bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disabled() {
		return k.fail(cerr.SchedulerDisabled)
	}
	if !k.isAttached {
		return k.fail(cerr.ClientNotAttached)
	}

	for _, id := range ids {
		if _, ok := k.resources[id]; !ok {
			return k.fail(cerr.NotExistingResource)
		}
	}

	current := k.scheduledOpID
	curOp := k.operations[current]

	for _, id := range ids {
		k.resources[id].Block(current)
	}
	curOp.BlockOnResource(ids, waitAll)
	k.enabled.Remove(current)

	k.log.WithField("operation_id", current).WithField("resources", ids).Debug("ctest: wait_resource blocking")

	return k.finish(k.scheduleNextInner())
}

// SignalResource wakes every operation blocked on id whose wait predicate
// is now satisfied.
func (k *Kernel[ID]) SignalResource(id ID) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disabled() {
		return k.fail(cerr.SchedulerDisabled)
	}
	if !k.isAttached {
		return k.fail(cerr.ClientNotAttached)
	}

	res, ok := k.resources[id]
	if !ok {
		return k.fail(cerr.NotExistingResource)
	}

	for _, opID := range res.BlockedIDs() {
		op, ok := k.operations[opID]
		if !ok {
			continue
		}
		if op.OnResourceSignaled(id) {
			op.Status = operation.StatusEnabled
			k.enabled.Insert(opID)
		}
		res.Release(opID)
	}

	return k.finish(nil)
}

// SignalResourceTo wakes only opID, if it is blocked on id and its wait
// predicate is now satisfied.
func (k *Kernel[ID]) SignalResourceTo(id ID, opID ID) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disabled() {
		return k.fail(cerr.SchedulerDisabled)
	}
	if !k.isAttached {
		return k.fail(cerr.ClientNotAttached)
	}

	res, ok := k.resources[id]
	if !ok {
		return k.fail(cerr.NotExistingResource)
	}
	op, ok := k.operations[opID]
	if !ok {
		return k.fail(cerr.NotExistingOperation)
	}

	if op.OnResourceSignaled(id) {
		op.Status = operation.StatusEnabled
		k.enabled.Insert(opID)
	}
	res.Release(opID)

	return k.finish(nil)
}

// ScheduleNext lets the currently scheduled operation voluntarily cede the
// execution token at a controlled point, giving the strategy a chance to
// switch to a different enabled operation.
func (k *Kernel[ID]) ScheduleNext() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disabled() {
		return k.fail(cerr.SchedulerDisabled)
	}
	if !k.isAttached {
		return k.fail(cerr.ClientNotAttached)
	}

	return k.finish(k.scheduleNextInner())
}

// scheduleNextInner is the central handoff: drain any operation still
// registering itself, detect deadlock or exhaustion, consult the
// strategy, and park the previous operation unless it just completed.
// The caller must hold k.mu; by API contract the calling thread is always
// the one backing operations[scheduledOpID] before this call.
func (k *Kernel[ID]) scheduleNextInner() error {
	for k.pendingStartCount > 0 {
		k.pendingStartCond.Wait()
		if !k.isAttached {
			return cerr.New(cerr.ClientNotAttached)
		}
	}

	if k.enabled.Size() == 0 {
		if k.hasIncompleteOperations() {
			return cerr.New(cerr.DeadlockDetected)
		}
		return nil
	}

	enabledIDs := k.enabled.Snapshot()
	nextID, err := k.strategy.NextOperation(enabledIDs, k.scheduledOpID)
	if err != nil {
		return err
	}

	prevID := k.scheduledOpID
	k.scheduledOpID = nextID

	if prevID == nextID {
		return nil
	}

	nextOp, ok := k.operations[nextID]
	if !ok {
		return cerr.New(cerr.InternalError)
	}
	nextOp.IsScheduled = true
	nextOp.Cond.Signal()

	prevOp, ok := k.operations[prevID]
	if ok && prevOp.Status != operation.StatusCompleted {
		prevOp.IsScheduled = false
		for !prevOp.IsScheduled && k.isAttached {
			prevOp.Cond.Wait()
		}
		if !k.isAttached {
			return cerr.New(cerr.ClientNotAttached)
		}
	}

	return nil
}

// NextBoolean delegates to the strategy's controlled nondeterministic
// boolean choice.
func (k *Kernel[ID]) NextBoolean() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.disabled() {
		return false
	}
	return k.strategy.NextBoolean()
}

// NextInteger delegates to the strategy's controlled nondeterministic
// integer choice in [0, max).
func (k *Kernel[ID]) NextInteger(max int) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.disabled() {
		return 0
	}
	return k.strategy.NextInteger(max)
}

// RandomSeed reports the seed behind the current iteration's choices.
func (k *Kernel[ID]) RandomSeed() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.disabled() {
		return 0
	}
	return k.strategy.RandomSeed()
}

// ScheduledOperationID reports the id currently holding the execution
// token.
func (k *Kernel[ID]) ScheduledOperationID() ID {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.scheduledOpID
}

// LastError reports the error code latched by the most recent kernel call.
func (k *Kernel[ID]) LastError() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lastError
}
