// Package strategy implements the pluggable exploration strategies the
// kernel consults to pick the next operation to run.
//
// A Strategy only ever sees the current enabled set and the previously
// scheduled operation id; it owns no kernel state and is accessed by the
// kernel only while the kernel's mutex is held, so none of the
// implementations in this package do their own locking.
package strategy

// Strategy is the capability set the kernel needs from an exploration
// strategy: pick the next operation, supply nondeterministic choices for
// user code (next_boolean/next_integer), report the seed in effect, and
// reset per-iteration state.
type Strategy[ID comparable] interface {
	// NextOperation returns which of the currently enabled operations
	// should run next. enabled is never empty; current is the id that was
	// scheduled immediately before this call (on the first call of an
	// iteration, the main operation's id, which Attach schedules).
	NextOperation(enabled []ID, current ID) (ID, error)

	// NextBoolean returns a controlled nondeterministic boolean choice.
	NextBoolean() bool

	// NextInteger returns a controlled nondeterministic integer in
	// [0, max).
	NextInteger(max int) int

	// RandomSeed returns the seed that produced the current iteration's
	// choices, for reproduction.
	RandomSeed() uint64

	// PrepareNextIteration resets per-iteration state ahead of the given
	// 1-based iteration number.
	PrepareNextIteration(iteration int)
}
