package session

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Sweeper runs Registry.Sweep on a cron schedule.
type Sweeper struct {
	registry *Registry
	spec     string
	cron     *cron.Cron
}

func NewSweeper(registry *Registry, spec string) *Sweeper {
	return &Sweeper{
		registry: registry,
		spec:     spec,
		cron:     cron.New(),
	}
}

// Start schedules the sweep job and starts the cron loop.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.registry.Sweep(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule session sweep %q: %w", s.spec, err)
	}

	log.Printf("Session sweeper started (schedule %s)", s.spec)
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to
// expire.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
