package archive

import (
	"log/slog"
	"sync"
	"time"
)

type SweeperConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval:  1 * time.Hour,
		Retention: 30 * 24 * time.Hour,
	}
}

// Sweeper prunes archived snapshots that have not been saved to within the
// retention window, so abandoned rooms do not pile up on disk forever.
type Sweeper struct {
	store  *Store
	config SweeperConfig
	stop   chan struct{}
	wg     sync.WaitGroup
}

func NewSweeper(store *Store, config SweeperConfig) *Sweeper {
	return &Sweeper{
		store:  store,
		config: config,
		stop:   make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.run()
	slog.Info("archive sweeper started", "interval", s.config.Interval, "retention", s.config.Retention)
}

func (s *Sweeper) Stop() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.sweep()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	cutoff := time.Now().Add(-s.config.Retention)
	pruned, err := s.store.DeleteOlderThan(cutoff)
	if err != nil {
		slog.Warn("archive sweep failed", "err", err)
		return
	}
	if pruned > 0 {
		slog.Info("pruned stale room snapshots", "count", pruned)
	}
}

// Runs one sweep immediately, outside the ticker
func (s *Sweeper) SweepNow() {
	s.sweep()
}
