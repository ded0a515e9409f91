package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tickpulse/tickpulse/internal/logging"
)

// Sweeper periodically removes expired records from a Store.
type Sweeper struct {
	cron   *cron.Cron
	store  Store
	logger logging.Logger
}

// NewSweeper schedules SweepExpired on the store at the given interval.
// Start must be called to begin sweeping.
func NewSweeper(store Store, interval time.Duration, logger logging.Logger) (*Sweeper, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}

	s := &Sweeper{
		cron:   cron.New(),
		store:  store,
		logger: logger.With("module", "sweeper"),
	}

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		if removed := s.store.SweepExpired(); removed > 0 {
			s.logger.Debug(context.Background(), "swept expired token records", "removed", removed)
		}
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins the sweep schedule in its own goroutine.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
