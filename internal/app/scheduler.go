package app

import (
	"context"
	"sync"
	"time"

	"github.com/takak2166/notion2telegram/internal/logger"
	"github.com/takak2166/notion2telegram/internal/syncer"
)

// Passer runs one sync pass, implemented by *syncer.Reconciler
type Passer interface {
	Pass(ctx context.Context, state *syncer.State) syncer.Report
}

// Scheduler runs passes one after another. The sync state is only touched
// from the goroutine calling Run or RunOnce.
type Scheduler struct {
	passer   Passer
	interval time.Duration
	state    *syncer.State

	mu     sync.RWMutex
	last   *syncer.Report
	passes int
}

// NewScheduler creates a Scheduler running a pass every interval
func NewScheduler(passer Passer, interval time.Duration) *Scheduler {
	return &Scheduler{
		passer:   passer,
		interval: interval,
		state:    syncer.NewState(),
	}
}

// RunOnce runs a single pass and records its report
func (s *Scheduler) RunOnce(ctx context.Context) syncer.Report {
	report := s.passer.Pass(ctx, s.state)

	s.mu.Lock()
	s.last = &report
	s.passes++
	s.mu.Unlock()

	return report
}

// Run runs the first pass immediately and then one per tick until ctx is
// done. Ticks that arrive during a pass are dropped.
func (s *Scheduler) Run(ctx context.Context) error {
	logger.Info("Starting scheduler", map[string]interface{}{
		"interval": s.interval.String(),
	})

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Scheduler stopped", map[string]interface{}{
				"passes": s.Passes(),
			})
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			s.RunOnce(ctx)
		}
	}
}

// LastReport returns the report of the most recent pass
func (s *Scheduler) LastReport() (syncer.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return syncer.Report{}, false
	}
	return *s.last, true
}

// Passes returns the number of completed passes
func (s *Scheduler) Passes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.passes
}
