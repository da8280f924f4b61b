// Package service orchestrates the lead intake pipeline: contact
// normalization, service classification, geofence validation, tagging,
// scoring, and persistence. Derived fields are recomputed here on every
// write; callers can never set a tier, tag, or score directly.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/classification"
	"leadflow_backend/internal/leads/dedupe"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/geofence"
	"leadflow_backend/internal/leads/ports"
	"leadflow_backend/internal/leads/refdata"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/scoring"
	"leadflow_backend/internal/leads/tagging"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Store is the persistence boundary the service writes through. It is
// implemented by repository.Repository; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context, filters repository.ListFilters) ([]repository.Lead, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage string) (repository.Lead, error)
	MarkContacted(ctx context.Context, id uuid.UUID, at time.Time) (repository.Lead, error)
	ListStale(ctx context.Context, cutoff time.Time, initialStage string) ([]repository.Lead, error)

	FindByEmail(ctx context.Context, email string) (*repository.DuplicateCandidate, error)
	FindByPhoneDigits(ctx context.Context, digits string) (*repository.DuplicateCandidate, error)
	FindByNameLocation(ctx context.Context, name, location string) (*repository.DuplicateCandidate, error)
	FetchAll(ctx context.Context) ([]repository.DuplicateCandidate, error)

	SummarizeByRegion(ctx context.Context) ([]repository.RegionSummary, error)
	SummarizeByStage(ctx context.Context) ([]repository.StageSummary, error)
	SummarizeByTier(ctx context.Context) ([]repository.TierSummary, error)
}

// Jobs is the background-job boundary. The scheduler client implements
// it; a nil Jobs disables enqueueing.
type Jobs interface {
	// EnqueueLeadRescore schedules a rescore check for the lead after the
	// given delay, so staleness is re-evaluated without polling.
	EnqueueLeadRescore(ctx context.Context, leadID uuid.UUID, delay time.Duration) error
}

type Service struct {
	store      Store
	ref        *refdata.Data
	classifier *classification.Classifier
	geo        *geofence.Validator
	tagger     *tagging.Engine
	scorer     *scoring.Engine
	detector   *dedupe.Detector
	extractor  ports.Extractor
	bus        events.Bus
	jobs       Jobs
	log        *logger.Logger
}

func New(store Store, ref *refdata.Data, extractor ports.Extractor, bus events.Bus, jobs Jobs, log *logger.Logger) *Service {
	tagger := tagging.New(ref)
	return &Service{
		store:      store,
		ref:        ref,
		classifier: classification.New(ref),
		geo:        geofence.New(ref),
		tagger:     tagger,
		scorer:     scoring.New(ref, tagger),
		detector:   dedupe.New(&dedupeSource{store: store}),
		extractor:  extractor,
		bus:        bus,
		jobs:       jobs,
		log:        log,
	}
}

func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	return s.create(ctx, req, nil)
}

// create is the shared intake path. discoveredAt is non-nil only for
// AI-discovered leads.
func (s *Service) create(ctx context.Context, req transport.CreateLeadRequest, discoveredAt *time.Time) (transport.LeadResponse, error) {
	req.Phone = phone.NormalizeE164(req.Phone)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if strings.TrimSpace(req.State) == "" {
		req.State = s.ref.StateCode
	}

	d := s.derive(deriveInput{
		RawService:      req.ServiceType,
		ZipCode:         req.ZipCode,
		State:           req.State,
		Location:        req.Location,
		LeadType:        domain.ParseLeadType(req.LeadType),
		ProjectScope:    domain.ParseScope(req.ProjectScope),
		EstimatedValue:  req.EstimatedValue,
		HasEmail:        req.Email != "",
		HasPhone:        req.Phone != "",
		ConfidenceScore: req.ConfidenceScore,
	})

	params := repository.CreateLeadParams{
		Name:            strings.TrimSpace(req.Name),
		Location:        req.Location,
		ZipCode:         req.ZipCode,
		State:           req.State,
		ServiceType:     string(d.Service),
		ServiceTier:     int(d.Tier),
		EstimatedValue:  req.EstimatedValue,
		LeadType:        string(d.LeadType),
		LeadScore:       d.Score,
		Tags:            tagStrings(d.Tags),
		ConfidenceScore: req.ConfidenceScore,
		PipelineStage:   domain.InitialStage,
		Status:          d.Status,
		DiscoveredAt:    discoveredAt,
	}
	if req.Email != "" {
		params.Email = &req.Email
	}
	if req.Phone != "" {
		params.Phone = &req.Phone
	}
	if req.StreetAddress != "" {
		params.StreetAddress = &req.StreetAddress
	}
	if d.Geo.County != "" {
		params.County = &d.Geo.County
	}
	if d.Geo.Region != "" {
		params.Region = &d.Geo.Region
	}
	if scope := string(d.Scope); scope != "" {
		params.ProjectScope = &scope
	}
	if req.Source != "" {
		params.Source = &req.Source
	}
	notes := req.Notes
	if d.Status == domain.StatusArchived {
		notes = appendNote(notes, d.Geo.Message)
	}
	if notes != "" {
		params.Notes = &notes
	}

	lead, err := s.store.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, apperr.Internal("failed to create lead", err)
	}

	s.publishCreated(ctx, lead, d)
	s.enqueueRescore(ctx, lead.ID)
	return s.toResponse(lead), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Internal("failed to load lead", err)
	}
	return s.toResponse(lead), nil
}

func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	leads, err := s.store.List(ctx, repository.ListFilters{
		Status:        req.Status,
		PipelineStage: req.PipelineStage,
		ServiceTier:   req.ServiceTier,
		Region:        req.Region,
		MinScore:      req.MinScore,
	})
	if err != nil {
		return transport.LeadListResponse{}, apperr.Internal("failed to list leads", err)
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, s.toResponse(lead))
	}
	return transport.LeadListResponse{Items: items, Total: len(items)}, nil
}

// Update applies field changes and recomputes every derived field from
// the merged state, so a service-type or ZIP change moves tier, tags,
// score, county, region, and status together.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Internal("failed to load lead", err)
	}

	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		req.Phone = &normalized
	}
	if req.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &lowered
	}

	merged := mergeForDerive(current, req)
	d := s.derive(merged)

	params := repository.UpdateLeadParams{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Location:       req.Location,
		StreetAddress:  req.StreetAddress,
		ZipCode:        req.ZipCode,
		State:          req.State,
		EstimatedValue: req.EstimatedValue,
		Notes:          req.Notes,

		ServiceTier: int(d.Tier),
		LeadScore:   d.Score,
		Tags:        tagStrings(d.Tags),
		Status:      d.Status,
	}
	if req.ServiceType != nil {
		canonical := string(d.Service)
		params.ServiceType = &canonical
	}
	if req.ProjectScope != nil {
		scope := string(d.Scope)
		params.ProjectScope = &scope
	}
	if req.LeadType != nil {
		lt := string(d.LeadType)
		params.LeadType = &lt
	}
	if d.Geo.County != "" {
		params.County = &d.Geo.County
	}
	if d.Geo.Region != "" {
		params.Region = &d.Geo.Region
	}

	lead, err := s.store.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Internal("failed to update lead", err)
	}

	if current.Status == domain.StatusActive && lead.Status == domain.StatusArchived {
		s.bus.Publish(ctx, events.LeadArchived{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Reason:    d.Geo.Message,
		})
	}
	return s.toResponse(lead), nil
}

func (s *Service) TransitionStage(ctx context.Context, id uuid.UUID, stage string) (transport.LeadResponse, error) {
	if !domain.IsKnownStage(stage) {
		return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("unknown pipeline stage %q", stage))
	}

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Internal("failed to load lead", err)
	}
	if current.PipelineStage == stage {
		return s.toResponse(current), nil
	}

	lead, err := s.store.UpdateStage(ctx, id, stage)
	if err != nil {
		return transport.LeadResponse{}, apperr.Internal("failed to update stage", err)
	}

	s.bus.Publish(ctx, events.LeadStageChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		FromStage: current.PipelineStage,
		ToStage:   stage,
	})
	return s.toResponse(lead), nil
}

func (s *Service) MarkContacted(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.store.MarkContacted(ctx, id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Internal("failed to mark lead contacted", err)
	}
	s.enqueueRescore(ctx, lead.ID)
	return s.toResponse(lead), nil
}

func (s *Service) CheckDuplicate(ctx context.Context, req transport.DuplicateCheckRequest) (transport.DuplicateCheckResponse, error) {
	result, err := s.detector.Find(ctx, dedupe.Candidate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		return transport.DuplicateCheckResponse{}, apperr.Unavailable("duplicate check unavailable", err)
	}
	if !result.IsDuplicate {
		return transport.DuplicateCheckResponse{}, nil
	}

	resp := transport.DuplicateCheckResponse{
		IsDuplicate: true,
		MatchType:   string(result.MatchType),
	}
	if result.MatchedLeadID != nil {
		if lead, err := s.store.GetByID(ctx, *result.MatchedLeadID); err == nil {
			full := s.toResponse(lead)
			resp.ExistingLead = &full
		}
	}
	return resp, nil
}

// Analytics assembles the dashboard rollups.
func (s *Service) Analytics(ctx context.Context) (transport.AnalyticsResponse, error) {
	var (
		regions []repository.RegionSummary
		stages  []repository.StageSummary
		tiers   []repository.TierSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		regions, err = s.store.SummarizeByRegion(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stages, err = s.store.SummarizeByStage(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tiers, err = s.store.SummarizeByTier(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.AnalyticsResponse{}, apperr.Internal("failed to summarize pipeline", err)
	}

	resp := transport.AnalyticsResponse{
		Regions: make([]transport.RegionSummaryResponse, 0, len(regions)),
		Stages:  make([]transport.StageSummaryResponse, 0, len(stages)),
		Tiers:   make([]transport.TierSummaryResponse, 0, len(tiers)),
	}
	for _, r := range regions {
		resp.Regions = append(resp.Regions, transport.RegionSummaryResponse{
			Region:         r.Region,
			LeadCount:      r.LeadCount,
			EstimatedValue: r.EstimatedValue,
			AverageScore:   r.AverageScore,
		})
	}
	for _, st := range stages {
		resp.Stages = append(resp.Stages, transport.StageSummaryResponse{
			PipelineStage:  st.PipelineStage,
			LeadCount:      st.LeadCount,
			EstimatedValue: st.EstimatedValue,
		})
	}
	for _, t := range tiers {
		resp.Tiers = append(resp.Tiers, transport.TierSummaryResponse{
			ServiceTier:    t.ServiceTier,
			TierLabel:      s.ref.Profile(domain.ServiceTier(t.ServiceTier)).Label,
			LeadCount:      t.LeadCount,
			EstimatedValue: t.EstimatedValue,
		})
	}
	return resp, nil
}

func (s *Service) publishCreated(ctx context.Context, lead repository.Lead, d derivation) {
	source := ""
	if lead.Source != nil {
		source = *lead.Source
	}
	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		Name:        lead.Name,
		ServiceType: lead.ServiceType,
		Location:    lead.Location,
		Score:       lead.LeadScore,
		Tags:        lead.Tags,
		Source:      source,
	})
	if lead.Status == domain.StatusArchived {
		s.bus.Publish(ctx, events.LeadArchived{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Reason:    d.Geo.Message,
		})
	}
	s.log.LeadEvent("lead.created", lead.ID.String(), lead.LeadScore)
}

func (s *Service) enqueueRescore(ctx context.Context, id uuid.UUID) {
	if s.jobs == nil {
		return
	}
	if err := s.jobs.EnqueueLeadRescore(ctx, id, scoring.StaleAfter); err != nil {
		s.log.Warn("failed to enqueue rescore job", "lead_id", id, "error", err)
	}
}

func appendNote(notes, extra string) string {
	if extra == "" {
		return notes
	}
	if notes == "" {
		return extra
	}
	return notes + "\n" + extra
}

func tagStrings(tags []domain.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, string(t))
	}
	return out
}
