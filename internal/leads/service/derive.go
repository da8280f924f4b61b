package service

import (
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/geofence"
	"leadflow_backend/internal/leads/refdata"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/scoring"
	"leadflow_backend/internal/leads/tagging"
	"leadflow_backend/internal/leads/transport"
)

// deriveInput is the merged raw state the derivation pipeline runs over.
type deriveInput struct {
	RawService      string
	ZipCode         string
	State           string
	Location        string
	LeadType        domain.LeadType
	ProjectScope    domain.ProjectScope
	EstimatedValue  *float64
	HasEmail        bool
	HasPhone        bool
	ConfidenceScore *float64
}

// derivation holds every field the pipeline computes. Tier always comes
// from the classified service, never from caller input.
type derivation struct {
	Service  domain.ServiceType
	Tier     domain.ServiceTier
	Scope    domain.ProjectScope
	LeadType domain.LeadType
	Geo      geofence.Result
	Tags     []domain.Tag
	Score    int
	Status   string
}

// derive runs classification, geofencing, tagging, and scoring in order.
// Each stage feeds the next: the geofence county feeds the tag rules, the
// tags feed the score bonus.
func (s *Service) derive(in deriveInput) derivation {
	svc, ok := s.classifier.Classify(in.RawService)
	if !ok {
		svc = refdata.DefaultService
	}
	tier := s.ref.TierFor(svc)

	scope := in.ProjectScope
	if !domain.IsKnownScope(scope) {
		scope = ""
	}

	geo := s.geo.ValidateLocation(in.ZipCode, in.State)

	tags := s.tagger.AssignTags(tagging.Input{
		ServiceType:    svc,
		Location:       in.Location,
		County:         geo.County,
		LeadType:       in.LeadType,
		EstimatedValue: in.EstimatedValue,
	})

	score := s.scorer.Compute(scoring.Input{
		ServiceTier:     tier,
		ProjectScope:    scope,
		EstimatedValue:  in.EstimatedValue,
		County:          geo.County,
		HasEmail:        in.HasEmail,
		HasPhone:        in.HasPhone,
		Tags:            tags,
		ConfidenceScore: in.ConfidenceScore,
	})

	status := domain.StatusActive
	if !geo.IsServiceable {
		status = domain.StatusArchived
	}

	return derivation{
		Service:  svc,
		Tier:     tier,
		Scope:    scope,
		LeadType: in.LeadType,
		Geo:      geo,
		Tags:     tags,
		Score:    score,
		Status:   status,
	}
}

// mergeForDerive overlays the update request on the stored lead so the
// derivation pipeline sees the post-update state.
func mergeForDerive(current repository.Lead, req transport.UpdateLeadRequest) deriveInput {
	in := deriveInput{
		RawService:      current.ServiceType,
		ZipCode:         current.ZipCode,
		State:           current.State,
		Location:        current.Location,
		LeadType:        domain.ParseLeadType(current.LeadType),
		EstimatedValue:  current.EstimatedValue,
		HasEmail:        current.Email != nil && *current.Email != "",
		HasPhone:        current.Phone != nil && *current.Phone != "",
		ConfidenceScore: current.ConfidenceScore,
	}
	if current.ProjectScope != nil {
		in.ProjectScope = domain.ProjectScope(*current.ProjectScope)
	}

	if req.ServiceType != nil {
		in.RawService = *req.ServiceType
	}
	if req.ZipCode != nil {
		in.ZipCode = *req.ZipCode
	}
	if req.State != nil {
		in.State = *req.State
	}
	if req.Location != nil {
		in.Location = *req.Location
	}
	if req.LeadType != nil {
		in.LeadType = domain.ParseLeadType(*req.LeadType)
	}
	if req.ProjectScope != nil {
		in.ProjectScope = domain.ParseScope(*req.ProjectScope)
	}
	if req.EstimatedValue != nil {
		in.EstimatedValue = req.EstimatedValue
	}
	if req.Email != nil {
		in.HasEmail = *req.Email != ""
	}
	if req.Phone != nil {
		in.HasPhone = *req.Phone != ""
	}
	return in
}
