package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bingo-cards-backend/config"
)

// Purger is the slice of the store the sweeper needs.
type Purger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) ([]string, error)
}

// Service discards games older than the configured retention.
type Service struct {
	cfg   config.RetentionConfig
	store Purger
	log   *zap.SugaredLogger
	now   func() time.Time

	onPurge func(id string)
}

// NewService creates a sweeper over store.
func NewService(cfg config.RetentionConfig, store Purger, log *zap.SugaredLogger) *Service {
	return &Service{
		cfg:   cfg,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// OnPurge registers fn to run for every purged game id, e.g. to drop cached
// responses and close watchers. It must be called before Run.
func (s *Service) OnPurge(fn func(id string)) {
	s.onPurge = fn
}

// Run sweeps once immediately and then on every interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.log.Info("retention sweeper is disabled")
		return
	}
	s.log.Infow("starting retention sweeper", "max_age", s.cfg.MaxAge, "interval", s.cfg.Interval)

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("retention sweeper shutting down")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

// SweepOnce deletes every game created before now minus the retention age
// and returns how many went.
func (s *Service) SweepOnce(ctx context.Context) int {
	cutoff := s.now().Add(-s.cfg.MaxAge)
	ids, err := s.store.PurgeBefore(ctx, cutoff)
	if err != nil {
		s.log.Errorw("retention sweep failed", "error", err)
		return 0
	}
	if len(ids) > 0 {
		s.log.Infow("purged stale games", "count", len(ids), "cutoff", cutoff)
	}
	if s.onPurge != nil {
		for _, id := range ids {
			s.onPurge(id)
		}
	}
	return len(ids)
}
