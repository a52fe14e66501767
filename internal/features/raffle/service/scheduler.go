package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vrf-raffle-backend/internal/common/logger"
	"vrf-raffle-backend/internal/features/raffle/repository"
)

const (
	drawLockTimeout = 5 * time.Minute
)

// Scheduler runs the orchestrator once per completed UTC day. Each tick it
// looks at yesterday; if no result is stored yet it takes the distributed
// draw lock and runs the daily raffle. A run must finish (or fail) before
// the next one is attempted; the lock enforces that across instances.
type Scheduler struct {
	ctx           context.Context
	cancel        context.CancelFunc
	repo          repository.Repository
	orchestrator  *Orchestrator
	checkInterval time.Duration
	wg            sync.WaitGroup
	now           func() time.Time
	log           zerolog.Logger
}

func NewScheduler(repo repository.Repository, orchestrator *Orchestrator, checkInterval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:           ctx,
		cancel:        cancel,
		repo:          repo,
		orchestrator:  orchestrator,
		checkInterval: checkInterval,
		now:           time.Now,
		log:           logger.With("scheduler"),
	}
}

func (s *Scheduler) Start() {
	s.log.Info().Dur("interval", s.checkInterval).Msg("starting raffle scheduler")
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.checkInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.runPending(); err != nil {
					s.log.Error().Err(err).Msg("pending draw failed")
				}
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.log.Info().Msg("stopping raffle scheduler")
	s.cancel()
	s.wg.Wait()
	s.log.Info().Msg("raffle scheduler stopped")
}

func (s *Scheduler) runPending() error {
	day := s.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := s.repo.GetRaffleResult(s.ctx, day)
	if err == nil {
		return nil // already drawn
	}
	if !errors.Is(err, repository.ErrRaffleNotFound) {
		return err
	}

	lockKey := "raffle:draw:" + day
	if err := s.repo.AcquireLock(s.ctx, lockKey, drawLockTimeout); err != nil {
		if errors.Is(err, repository.ErrAlreadyLocked) {
			return nil // another instance is drawing
		}
		return err
	}
	defer func() {
		if err := s.repo.ReleaseLock(s.ctx, lockKey); err != nil {
			s.log.Warn().Err(err).Str("key", lockKey).Msg("failed to release draw lock")
		}
	}()

	_, err = s.orchestrator.RunDaily(s.ctx, day)
	return err
}
