package kernel

import "sync"

// Recorder wraps a Kernel's ScheduledOperationID calls, appending every
// observed id to an internal slice. Two runs with identical
// (random_seed, exploration_strategy_bound, user-program structure)
// should produce slice-identical recordings, letting a caller assert
// reproducibility by diffing two Schedule snapshots.
type Recorder[ID comparable] struct {
	mu       sync.Mutex
	kernel   *Kernel[ID]
	schedule []ID
}

// NewRecorder returns a Recorder wrapping k.
func NewRecorder[ID comparable](k *Kernel[ID]) *Recorder[ID] {
	return &Recorder[ID]{kernel: k}
}

// ScheduledOperationID records and returns the wrapped kernel's current
// scheduled operation id.
func (r *Recorder[ID]) ScheduledOperationID() ID {
	id := r.kernel.ScheduledOperationID()
	r.mu.Lock()
	r.schedule = append(r.schedule, id)
	r.mu.Unlock()
	return id
}

// Schedule returns a snapshot of every id recorded so far, in order.
func (r *Recorder[ID]) Schedule() []ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ID, len(r.schedule))
	copy(out, r.schedule)
	return out
}
