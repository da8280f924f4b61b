package service

import (
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/scoring"
	"leadflow_backend/internal/leads/transport"
)

// toResponse maps a stored lead onto the wire shape and computes the
// read-time fields (scoreLabel, tierLabel, isStale, priorityRank). These
// are derived on every read so they can never go stale in storage.
func (s *Service) toResponse(lead repository.Lead) transport.LeadResponse {
	now := time.Now().UTC()
	tier := domain.ServiceTier(lead.ServiceTier)
	profile := s.ref.Profile(tier)
	isStale := lead.Status == domain.StatusActive &&
		scoring.IsStale(lead.LastContactedAt, intakeTime(lead), lead.PipelineStage, now)

	tags := lead.Tags
	if tags == nil {
		tags = []string{}
	}

	return transport.LeadResponse{
		ID:              lead.ID,
		Name:            lead.Name,
		Email:           lead.Email,
		Phone:           lead.Phone,
		Location:        lead.Location,
		StreetAddress:   lead.StreetAddress,
		ZipCode:         lead.ZipCode,
		State:           lead.State,
		County:          lead.County,
		Region:          lead.Region,
		ServiceType:     lead.ServiceType,
		ServiceTier:     lead.ServiceTier,
		TierLabel:       profile.Label,
		TierColor:       profile.Color,
		ProjectScope:    lead.ProjectScope,
		EstimatedValue:  lead.EstimatedValue,
		LeadType:        lead.LeadType,
		LeadScore:       lead.LeadScore,
		ScoreLabel:      scoring.Label(lead.LeadScore),
		Tags:            tags,
		ConfidenceScore: lead.ConfidenceScore,
		PipelineStage:   lead.PipelineStage,
		Status:          lead.Status,
		IsStale:         isStale,
		PriorityRank:    scoring.PriorityRank(lead.LeadScore, tier, isStale),
		Notes:           lead.Notes,
		Source:          lead.Source,
		LastContactedAt: lead.LastContactedAt,
		DiscoveredAt:    lead.DiscoveredAt,
		CreatedAt:       lead.CreatedAt,
		UpdatedAt:       lead.UpdatedAt,
	}
}

// intakeTime is the reference clock for a never-contacted lead: when the
// lead was discovered, falling back to when it was created.
func intakeTime(lead repository.Lead) time.Time {
	if lead.DiscoveredAt != nil {
		return *lead.DiscoveredAt
	}
	return lead.CreatedAt
}
