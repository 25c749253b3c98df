package ctest

import (
	"github.com/sirupsen/logrus"

	"github.com/ctestgo/ctest/internal/ctest/kernel"
	"github.com/ctestgo/ctest/internal/ctest/strategy"
)

// ExplorationStrategy names one of the pluggable strategies a Settings
// selects.
type ExplorationStrategy string

const (
	// StrategyNone disables the scheduler: every Scheduler call
	// short-circuits with a SchedulerDisabled error.
	StrategyNone ExplorationStrategy = "None"
	// StrategyRandom picks uniformly among enabled operations.
	StrategyRandom ExplorationStrategy = "Random"
	// StrategyPCT runs Priority-based Controlled concurrency Testing.
	StrategyPCT ExplorationStrategy = "PCT"
	// StrategyProbabilisticRandom biases toward re-scheduling the
	// currently running operation.
	StrategyProbabilisticRandom ExplorationStrategy = "ProbabilisticRandom"
)

// Settings configures a Scheduler at construction. It mirrors
// internal/ctest/config.Settings but is exported at the facade for
// callers that build it in code rather than loading YAML.
type Settings[ID comparable] struct {
	// MainOperationID is reported by ScheduledOperationID before any
	// worker operation is created, and is implicitly created and
	// started by Attach.
	MainOperationID ID

	// RandomSeed seeds the RNG for iteration 1.
	RandomSeed uint64

	// ExplorationStrategy selects the strategy consulted on every
	// scheduling decision.
	ExplorationStrategy ExplorationStrategy

	// ExplorationStrategyBound is PCT's K, or ProbabilisticRandom's stay
	// percentage. Unused by None and Random.
	ExplorationStrategyBound int

	// Logger receives Debug-level structured trace events. Nil defaults
	// to a discard logger.
	Logger logrus.FieldLogger
}

// Scheduler is the embedded-library entry point: a cooperative scheduler
// kernel bound to one exploration strategy. Construct one with New.
type Scheduler[ID comparable] struct {
	kernel *kernel.Kernel[ID]
}

// New returns a Scheduler configured per settings.
func New[ID comparable](settings Settings[ID]) *Scheduler[ID] {
	k := kernel.New(kernel.Settings[ID]{
		MainOperationID: settings.MainOperationID,
		Strategy:        buildStrategy[ID](settings),
		Logger:          settings.Logger,
	})

	return &Scheduler[ID]{kernel: k}
}

func buildStrategy[ID comparable](settings Settings[ID]) strategy.Strategy[ID] {
	switch settings.ExplorationStrategy {
	case StrategyNone, "":
		return nil
	case StrategyRandom:
		return strategy.NewRandom[ID](settings.RandomSeed)
	case StrategyPCT:
		return strategy.NewPCT[ID](settings.RandomSeed, settings.ExplorationStrategyBound)
	case StrategyProbabilisticRandom:
		return strategy.NewProbabilisticRandom[ID](settings.RandomSeed, settings.ExplorationStrategyBound)
	default:
		return nil
	}
}

// Attach begins a new iteration. See internal/ctest/kernel.Kernel.Attach.
func (s *Scheduler[ID]) Attach() error { return s.kernel.Attach() }

// Detach ends the current iteration.
func (s *Scheduler[ID]) Detach() error { return s.kernel.Detach() }

// CreateOperation registers id as a new controlled operation.
func (s *Scheduler[ID]) CreateOperation(id ID) error { return s.kernel.CreateOperation(id) }

// StartOperation is called by the goroutine that will run as id. It
// blocks until the scheduler grants id the execution token.
func (s *Scheduler[ID]) StartOperation(id ID) error { return s.kernel.StartOperation(id) }

// JoinOperation blocks the calling (currently scheduled) operation until
// id completes.
func (s *Scheduler[ID]) JoinOperation(id ID) error { return s.kernel.JoinOperation(id) }

// JoinOperations blocks until every id completes (waitAll) or any one of
// them does (!waitAll).
func (s *Scheduler[ID]) JoinOperations(ids []ID, waitAll bool) error {
	return s.kernel.JoinOperations(ids, waitAll)
}

// CompleteOperation marks id completed.
func (s *Scheduler[ID]) CompleteOperation(id ID) error { return s.kernel.CompleteOperation(id) }

// CreateResource registers id as a new resource.
func (s *Scheduler[ID]) CreateResource(id ID) error { return s.kernel.CreateResource(id) }

// DeleteResource removes id.
func (s *Scheduler[ID]) DeleteResource(id ID) error { return s.kernel.DeleteResource(id) }

// WaitResource blocks the calling operation until id is signaled.
func (s *Scheduler[ID]) WaitResource(id ID) error { return s.kernel.WaitResource(id) }

// WaitResources blocks on multiple resource ids, released per waitAll.
func (s *Scheduler[ID]) WaitResources(ids []ID, waitAll bool) error {
	return s.kernel.WaitResources(ids, waitAll)
}

// SignalResource wakes every operation blocked on id whose wait is now
// satisfied.
func (s *Scheduler[ID]) SignalResource(id ID) error { return s.kernel.SignalResource(id) }

// SignalResourceTo wakes only opID, if blocked on id.
func (s *Scheduler[ID]) SignalResourceTo(id, opID ID) error {
	return s.kernel.SignalResourceTo(id, opID)
}

// ScheduleNext lets the calling operation voluntarily cede the execution
// token at a controlled point.
func (s *Scheduler[ID]) ScheduleNext() error { return s.kernel.ScheduleNext() }

// NextBoolean returns a controlled nondeterministic boolean choice.
func (s *Scheduler[ID]) NextBoolean() bool { return s.kernel.NextBoolean() }

// NextInteger returns a controlled nondeterministic integer in
// [0, maxExclusive).
func (s *Scheduler[ID]) NextInteger(maxExclusive int) int { return s.kernel.NextInteger(maxExclusive) }

// RandomSeed reports the seed behind the current iteration's choices.
func (s *Scheduler[ID]) RandomSeed() uint64 { return s.kernel.RandomSeed() }

// ScheduledOperationID reports the id currently holding the execution
// token.
func (s *Scheduler[ID]) ScheduledOperationID() ID { return s.kernel.ScheduledOperationID() }

// LastError reports the error latched by the most recent call.
func (s *Scheduler[ID]) LastError() error { return s.kernel.LastError() }
