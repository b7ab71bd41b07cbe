// Package scheduler resolves phase/order execution for ECS systems and
// tracks per-system timing. It is generic over the world type so it has
// no dependency on package ecsrt: the same Scheduler[W] works for any
// simulation context, the way the teacher's Query/Cursor types stand
// free of any particular component set.
package scheduler

import (
	"sort"
	"time"
)

// Phase is a coarse scheduling bucket. Systems within the same phase run
// in ascending Order, then ascending insertion order (§4.7).
type Phase int

const (
	PreUpdate Phase = iota
	Update
	PostUpdate
	Presentation
	Render
)

// System is the minimal surface the Scheduler needs from a unit of
// update logic (§6 "System declaration"). Systems must be stateless with
// respect to frame data: any state a system needs must be derived from
// the world argument on each invocation.
type System[W any] interface {
	Phase() Phase
	Order() int32
	Update(world W, dt float32)
}

// Timing records per-system execution statistics: the most recent
// invocation's wall-clock time, a rolling average over the last
// window invocations, a running peak, and a total invocation count.
type Timing struct {
	Current    time.Duration
	Average    time.Duration
	Peak       time.Duration
	FrameCount uint64

	samples     [30]time.Duration
	sampleCount int
	sampleIndex int
}

func (t *Timing) record(d time.Duration) {
	t.Current = d
	if d > t.Peak {
		t.Peak = d
	}
	t.samples[t.sampleIndex%len(t.samples)] = d
	t.sampleIndex++
	if t.sampleCount < len(t.samples) {
		t.sampleCount++
	}
	var sum time.Duration
	for i := 0; i < t.sampleCount; i++ {
		sum += t.samples[i]
	}
	t.Average = sum / time.Duration(t.sampleCount)
	t.FrameCount++
}

// ResetPeaks zeros Peak while leaving Current and Average untouched.
func (t *Timing) ResetPeaks() {
	t.Peak = 0
}

type entry[W any] struct {
	system         System[W]
	insertionIndex int
	timing         Timing
}

// Scheduler holds a set of registered systems and executes them each
// tick in deterministic (phase, order, insertionIndex) order (§4.7,
// §8 property 12). Scheduling is single-threaded and cooperative: a
// system returns before the next one is invoked (§5).
type Scheduler[W any] struct {
	entries []*entry[W]
	sorted  bool
	onPanic func(system System[W], recovered any)
}

// New constructs an empty Scheduler.
func New[W any]() *Scheduler[W] {
	return &Scheduler[W]{}
}

// OnPanic installs a handler invoked when a system's Update panics. The
// scheduler always recovers the panic itself and proceeds to the next
// system (§7: "System update exceptions must not crash the scheduler");
// the handler is purely for logging.
func (s *Scheduler[W]) OnPanic(f func(system System[W], recovered any)) {
	s.onPanic = f
}

// Register appends sys in arbitrary order; Tick resolves the actual
// execution order deterministically from (phase, order, insertion).
func (s *Scheduler[W]) Register(sys System[W]) {
	s.entries = append(s.entries, &entry[W]{system: sys, insertionIndex: len(s.entries)})
	s.sorted = false
}

func (s *Scheduler[W]) ensureSorted() {
	if s.sorted {
		return
	}
	sort.SliceStable(s.entries, func(i, j int) bool {
		a, b := s.entries[i], s.entries[j]
		if a.system.Phase() != b.system.Phase() {
			return a.system.Phase() < b.system.Phase()
		}
		if a.system.Order() != b.system.Order() {
			return a.system.Order() < b.system.Order()
		}
		return a.insertionIndex < b.insertionIndex
	})
	s.sorted = true
}

// Tick runs every registered system once, in resolved order, recording
// timing for each and recovering (and reporting) any panic without
// aborting the remaining systems.
func (s *Scheduler[W]) Tick(world W, dt float32) {
	s.ensureSorted()
	for _, e := range s.entries {
		s.runOne(world, dt, e)
	}
}

func (s *Scheduler[W]) runOne(world W, dt float32, e *entry[W]) {
	defer func() {
		if r := recover(); r != nil && s.onPanic != nil {
			s.onPanic(e.system, r)
		}
	}()
	start := time.Now()
	e.system.Update(world, dt)
	e.timing.record(time.Since(start))
}

// TimingFor returns the recorded Timing for sys, if it is registered.
func (s *Scheduler[W]) TimingFor(sys System[W]) (Timing, bool) {
	for _, e := range s.entries {
		if e.system == sys {
			return e.timing, true
		}
	}
	return Timing{}, false
}

// ResetPeaks zeros every registered system's peak timing.
func (s *Scheduler[W]) ResetPeaks() {
	for _, e := range s.entries {
		e.timing.ResetPeaks()
	}
}

// Systems returns the registered systems in their resolved execution
// order.
func (s *Scheduler[W]) Systems() []System[W] {
	s.ensureSorted()
	out := make([]System[W], len(s.entries))
	for i, e := range s.entries {
		out[i] = e.system
	}
	return out
}
