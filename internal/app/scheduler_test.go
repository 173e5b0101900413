package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/takak2166/notion2telegram/internal/syncer"
)

type countingPasser struct {
	mu     sync.Mutex
	states []*syncer.State
	after  func(n int)
}

func (p *countingPasser) Pass(ctx context.Context, state *syncer.State) syncer.Report {
	p.mu.Lock()
	p.states = append(p.states, state)
	n := len(p.states)
	p.mu.Unlock()

	report := syncer.Report{Outcomes: map[string]syncer.Outcome{}}
	if n == 1 {
		report.Err = errors.New("first pass failed")
	}
	if p.after != nil {
		p.after(n)
	}
	return report
}

func TestSchedulerRunOnce(t *testing.T) {
	s := NewScheduler(&countingPasser{}, time.Hour)

	if _, ok := s.LastReport(); ok {
		t.Fatal("Expected no report before the first pass")
	}

	report := s.RunOnce(context.Background())
	if report.Err == nil {
		t.Error("Expected the first report to carry the error")
	}
	last, ok := s.LastReport()
	if !ok || last.Err == nil {
		t.Errorf("Unexpected last report %+v", last)
	}

	s.RunOnce(context.Background())
	if last, _ := s.LastReport(); last.Err != nil {
		t.Errorf("Expected the latest report, got %+v", last)
	}
	if s.Passes() != 2 {
		t.Errorf("Expected 2 passes, got %d", s.Passes())
	}
}

func TestSchedulerRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	passer := &countingPasser{after: func(n int) {
		if n == 3 {
			cancel()
		}
	}}
	s := NewScheduler(passer, 10*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Scheduler did not stop")
	}

	if s.Passes() != 3 {
		t.Errorf("Expected 3 passes, got %d", s.Passes())
	}
	passer.mu.Lock()
	defer passer.mu.Unlock()
	for i, st := range passer.states {
		if st != passer.states[0] {
			t.Errorf("Pass %d received a different state", i)
		}
	}
}
