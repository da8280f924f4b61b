package scheduler

import (
	"context"
	"time"

	"leadflow_backend/internal/leads/service"
	"leadflow_backend/platform/logger"
)

const defaultStaleSweepInterval = time.Hour

// StaleSweeper periodically runs the stale-lead sweep directly against
// the service. It runs inside the worker process alongside the asynq
// server so one-off rescore tasks and the safety-net sweep share a home.
type StaleSweeper struct {
	svc      *service.Service
	log      *logger.Logger
	interval time.Duration
}

func NewStaleSweeper(svc *service.Service, log *logger.Logger, interval time.Duration) *StaleSweeper {
	if interval <= 0 {
		interval = defaultStaleSweepInterval
	}
	return &StaleSweeper{svc: svc, log: log, interval: interval}
}

func (s *StaleSweeper) Run(ctx context.Context) {
	if s == nil || s.svc == nil {
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *StaleSweeper) sweep(ctx context.Context) {
	if _, err := s.svc.SweepStale(ctx); err != nil {
		s.log.Error("stale lead sweep failed", "error", err)
	}
}
