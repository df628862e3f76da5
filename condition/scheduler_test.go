package condition

import (
	"sync"
	"testing"
	"time"
)

type runRecorder struct {
	mu   sync.Mutex
	gens []uint64
	done chan struct{}
}

func newRunRecorder() *runRecorder {
	return &runRecorder{done: make(chan struct{}, 16)}
}

func (r *runRecorder) run(gen uint64) {
	r.mu.Lock()
	r.gens = append(r.gens, gen)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *runRecorder) runs() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint64(nil), r.gens...)
}

func TestSchedulerChangeRunsImmediately(t *testing.T) {
	rec := newRunRecorder()
	s := NewScheduler(rec.run, WithDebounce(time.Hour))
	s.Notify(TriggerChange)
	if got := rec.runs(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected immediate run for generation 1, got %v", got)
	}
}

func TestSchedulerDebouncesKeyUp(t *testing.T) {
	rec := newRunRecorder()
	s := NewScheduler(rec.run, WithDebounce(20*time.Millisecond))
	for i := 0; i < 5; i++ {
		s.Notify(TriggerKeyUp)
	}
	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced run never fired")
	}
	time.Sleep(50 * time.Millisecond)
	got := rec.runs()
	if len(got) != 1 || got[0] != 5 {
		t.Fatalf("expected a single run for generation 5, got %v", got)
	}
}

func TestSchedulerChangeSupersedesPendingKeyUp(t *testing.T) {
	rec := newRunRecorder()
	s := NewScheduler(rec.run, WithDebounce(20*time.Millisecond))
	s.Notify(TriggerKeyUp)
	s.Notify(TriggerChange)
	time.Sleep(60 * time.Millisecond)
	got := rec.runs()
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected only the change run, got %v", got)
	}
	if s.Current(1) || !s.Current(2) {
		t.Fatalf("unexpected generation tracking")
	}
}

func TestSchedulerStop(t *testing.T) {
	rec := newRunRecorder()
	s := NewScheduler(rec.run, WithDebounce(10*time.Millisecond))
	s.Notify(TriggerKeyUp)
	s.Stop()
	s.Notify(TriggerChange)
	time.Sleep(40 * time.Millisecond)
	if got := rec.runs(); len(got) != 0 {
		t.Fatalf("expected no runs after stop, got %v", got)
	}
}
