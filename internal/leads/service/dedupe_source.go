package service

import (
	"context"

	"leadflow_backend/internal/leads/dedupe"
	"leadflow_backend/internal/leads/repository"
)

// dedupeSource adapts the store to the detector's source interface.
type dedupeSource struct {
	store Store
}

func (src *dedupeSource) FindByEmail(ctx context.Context, email string) (*dedupe.ExistingLead, error) {
	c, err := src.store.FindByEmail(ctx, email)
	return toExisting(c), err
}

func (src *dedupeSource) FindByPhoneDigits(ctx context.Context, digits string) (*dedupe.ExistingLead, error) {
	c, err := src.store.FindByPhoneDigits(ctx, digits)
	return toExisting(c), err
}

func (src *dedupeSource) FindByNameLocation(ctx context.Context, name, location string) (*dedupe.ExistingLead, error) {
	c, err := src.store.FindByNameLocation(ctx, name, location)
	return toExisting(c), err
}

func (src *dedupeSource) FetchAll(ctx context.Context) ([]dedupe.ExistingLead, error) {
	candidates, err := src.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	existing := make([]dedupe.ExistingLead, 0, len(candidates))
	for i := range candidates {
		existing = append(existing, *toExisting(&candidates[i]))
	}
	return existing, nil
}

func toExisting(c *repository.DuplicateCandidate) *dedupe.ExistingLead {
	if c == nil {
		return nil
	}
	return &dedupe.ExistingLead{
		ID:       c.ID,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Location: c.Location,
	}
}
