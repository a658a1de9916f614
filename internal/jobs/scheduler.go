package jobs

import (
	"context"
	"time"

	"technicia_backend/internal/service"
	"technicia_backend/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the background maintenance jobs: reaping expired test
// sessions and rebuilding the cached leaderboards.
type Scheduler struct {
	cron        *cron.Cron
	test        *service.TestService
	leaderboard *service.LeaderboardService
}

func NewScheduler(test *service.TestService, leaderboard *service.LeaderboardService) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		test:        test,
		leaderboard: leaderboard,
	}
}

func (s *Scheduler) Start() {
	// Sessions past their budget plus grace become Abandoned. Runs every
	// minute so the attempt cap reflects expiry promptly.
	s.cron.AddFunc("* * * * *", func() {
		reaped, err := s.test.AbandonExpired()
		if err != nil {
			logger.Log.Error("session reaper failed", zap.Error(err))
			return
		}
		if reaped > 0 {
			logger.Log.Info("abandoned expired test sessions", zap.Int64("count", reaped))
		}
	})

	s.cron.AddFunc("*/5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.leaderboard.RefreshAll(ctx); err != nil {
			logger.Log.Error("leaderboard refresh failed", zap.Error(err))
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
