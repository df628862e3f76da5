package condition

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after free-text input before
// conditions are re-evaluated.
const DefaultDebounce = 500 * time.Millisecond

// Trigger is the kind of form event that asks for re-evaluation.
type Trigger int

const (
	// TriggerChange comes from discrete controls and re-evaluates at once.
	TriggerChange Trigger = iota
	// TriggerKeyUp comes from free-text typing and is debounced.
	TriggerKeyUp
)

// Scheduler runs re-evaluations for form events. Every event bumps a
// generation counter; a debounced run fires only if no newer event arrived,
// and a run can check Current to discard results superseded mid-flight.
type Scheduler struct {
	mu         sync.Mutex
	delay      time.Duration
	timer      *time.Timer
	generation uint64
	run        func(generation uint64)
	stopped    bool
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(delay time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if delay > 0 {
			s.delay = delay
		}
	}
}

// NewScheduler calls run for every accepted re-evaluation.
func NewScheduler(run func(generation uint64), opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{delay: DefaultDebounce, run: run}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Notify records a form event.
func (s *Scheduler) Notify(trigger Trigger) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if trigger == TriggerKeyUp {
		s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.fire(gen)
}

// Current reports whether generation is still the latest event.
func (s *Scheduler) Current(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped && generation == s.generation
}

// Generation returns the latest event generation.
func (s *Scheduler) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Stop cancels any pending run and ignores later events.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) fire(generation uint64) {
	if !s.Current(generation) || s.run == nil {
		return
	}
	s.run(generation)
}
