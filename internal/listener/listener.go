package listener

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"catalogsync/internal/config"
)

// Cycle is one pass of the watched job.
type Cycle func(ctx context.Context) error

// Service reruns a job every LISTENER_INTERVAL_SEC until ctx is done.
// A failed cycle is logged and the next one runs on schedule.
type Service struct {
	name     string
	cycle    Cycle
	interval time.Duration
}

func NewService(name string, cfg config.Config, cycle Cycle) *Service {
	return &Service{name: name, cycle: cycle, interval: cfg.ListenerInterval()}
}

func (s *Service) Run(ctx context.Context) error {
	log.Infof("listener %s started interval=%s", s.name, s.interval)
	for {
		started := time.Now()
		if err := s.cycle(ctx); err != nil {
			log.WithError(err).Errorf("listener %s cycle failed", s.name)
		} else {
			log.Infof("listener %s cycle done in %s", s.name, time.Since(started).Round(time.Millisecond))
		}

		if !s.wait(ctx) {
			log.Infof("listener %s stopped", s.name)
			return nil
		}
	}
}

// wait sleeps one interval and reports false once ctx is done.
func (s *Service) wait(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.interval):
		return true
	}
}
