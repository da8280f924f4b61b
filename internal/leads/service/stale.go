package service

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/scoring"

	"github.com/google/uuid"
)

// SweepStale finds every active lead that has gone too long without
// contact and publishes one StaleLeadsDetected event for the batch. It
// returns the affected lead IDs. Run periodically by the worker.
func (s *Service) SweepStale(ctx context.Context) ([]uuid.UUID, error) {
	cutoff := time.Now().UTC().Add(-scoring.StaleAfter)
	leads, err := s.store.ListStale(ctx, cutoff, domain.InitialStage)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(leads))
	for _, lead := range leads {
		ids = append(ids, lead.ID)
	}
	s.bus.Publish(ctx, events.StaleLeadsDetected{
		BaseEvent: events.NewBaseEvent(),
		LeadIDs:   ids,
	})
	s.log.Info("stale lead sweep finished", "count", len(ids))
	return ids, nil
}

// RescoreLead re-evaluates a single lead's staleness, typically from the
// delayed job enqueued at creation or contact. A lead that has since
// been contacted, moved stages, or been archived is left alone.
func (s *Service) RescoreLead(ctx context.Context, id uuid.UUID) error {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if lead.Status != domain.StatusActive {
		return nil
	}

	now := time.Now().UTC()
	if !scoring.IsStale(lead.LastContactedAt, intakeTime(lead), lead.PipelineStage, now) {
		return nil
	}

	s.bus.Publish(ctx, events.StaleLeadsDetected{
		BaseEvent: events.NewBaseEvent(),
		LeadIDs:   []uuid.UUID{lead.ID},
	})
	return nil
}
