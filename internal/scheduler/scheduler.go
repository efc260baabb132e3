// Package scheduler wires up the cron job that re-runs discovery on a fixed
// interval in daemon mode.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// RunFunc executes one discovery run.
type RunFunc func(ctx context.Context) error

// Scheduler wraps robfig/cron around a RunFunc.
type Scheduler struct {
	cron *cron.Cron
	run  RunFunc
	schedule string
}

// New creates a Scheduler that fires every intervalHours hours.
func New(run RunFunc, intervalHours int) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		run:  run,
		schedule: fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. One run fires
// immediately so the first results do not wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.run(ctx); err != nil {
			log.Printf("[scheduler] run error: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] cron started, schedule %s", s.schedule)

	go func() {
		if err := s.run(ctx); err != nil {
			log.Printf("[scheduler] initial run error: %v", err)
		}
	}()
	return nil
}

// Stop gracefully shuts the scheduler down.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] cron stopped")
}
