package service

import (
	"context"
	"strings"
	"time"

	"leadflow_backend/internal/leads/dedupe"
	"leadflow_backend/internal/leads/ports"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/phone"
)

// defaultDiscoverySource marks leads saved from extraction when the
// provider did not name a source.
const defaultDiscoverySource = "ai-discovery"

// ExtractAndSave parses one free-form text blob into a lead candidate and
// runs it through the full intake pipeline. A candidate matching an
// existing lead is rejected with a conflict.
func (s *Service) ExtractAndSave(ctx context.Context, req transport.ExtractRequest) (transport.LeadResponse, error) {
	if s.extractor == nil {
		return transport.LeadResponse{}, apperr.Unavailable("extraction is not configured", nil)
	}

	extracted, err := s.extractor.Extract(ctx, req.Text)
	if err != nil {
		return transport.LeadResponse{}, apperr.Unavailable("extraction failed", err)
	}
	createReq, err := s.fromExtracted(extracted)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	result, err := s.detector.Find(ctx, candidateOf(createReq))
	if err != nil {
		// Store unreachable: save anyway, duplicate status unknown.
		s.log.Warn("duplicate check unavailable, saving extracted lead unchecked", "error", err)
	} else if result.IsDuplicate {
		return transport.LeadResponse{}, apperr.Conflict("extracted lead matches an existing lead").
			WithDetails(map[string]string{"matchType": string(result.MatchType)})
	}

	now := time.Now().UTC()
	return s.create(ctx, createReq, &now)
}

// DiscoverAndSave parses a document into many candidates, drops the ones
// that match existing leads or earlier candidates in the same batch, and
// saves the rest. A failed duplicate snapshot never blocks the batch.
func (s *Service) DiscoverAndSave(ctx context.Context, req transport.DiscoverRequest) (transport.DiscoverResponse, error) {
	if s.extractor == nil {
		return transport.DiscoverResponse{}, apperr.Unavailable("extraction is not configured", nil)
	}

	extracted, err := s.extractor.Discover(ctx, req.Text)
	if err != nil {
		return transport.DiscoverResponse{}, apperr.Unavailable("discovery failed", err)
	}

	resp := transport.DiscoverResponse{
		Saved:      []transport.LeadResponse{},
		Duplicates: []transport.DiscoveredDupe{},
		Rejected:   []transport.DiscoveredReject{},
	}

	requests := make([]transport.CreateLeadRequest, 0, len(extracted))
	candidates := make([]dedupe.Candidate, 0, len(extracted))
	for _, e := range extracted {
		createReq, err := s.fromExtracted(e)
		if err != nil {
			resp.Rejected = append(resp.Rejected, transport.DiscoveredReject{
				Name:   e.Name,
				Reason: err.Error(),
			})
			continue
		}
		requests = append(requests, createReq)
		candidates = append(candidates, candidateOf(createReq))
	}

	results, err := s.detector.FindBatch(ctx, candidates)
	if err != nil {
		s.log.Warn("duplicate snapshot unavailable, saving discovered leads unchecked", "error", err)
		results = nil
	}

	now := time.Now().UTC()
	seen := newBatchSeen()
	for i, createReq := range requests {
		if r, ok := results[i]; ok && r.IsDuplicate {
			resp.Duplicates = append(resp.Duplicates, transport.DiscoveredDupe{
				Name:      createReq.Name,
				MatchType: string(r.MatchType),
			})
			continue
		}
		if matchType, dup := seen.check(candidates[i]); dup {
			resp.Duplicates = append(resp.Duplicates, transport.DiscoveredDupe{
				Name:      createReq.Name,
				MatchType: matchType,
			})
			continue
		}

		saved, err := s.create(ctx, createReq, &now)
		if err != nil {
			resp.Rejected = append(resp.Rejected, transport.DiscoveredReject{
				Name:   createReq.Name,
				Reason: err.Error(),
			})
			continue
		}
		seen.add(candidates[i])
		resp.Saved = append(resp.Saved, saved)
	}
	return resp, nil
}

// fromExtracted maps an untrusted extraction candidate onto the intake
// request shape, applying the same defaulting a manual submission gets.
func (s *Service) fromExtracted(e ports.ExtractedLead) (transport.CreateLeadRequest, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return transport.CreateLeadRequest{}, apperr.Validation("extracted lead has no name")
	}
	location := strings.TrimSpace(e.Location)
	if location == "" {
		location = strings.TrimSpace(e.StreetAddress)
	}
	if location == "" {
		return transport.CreateLeadRequest{}, apperr.Validation("extracted lead has no location")
	}
	source := strings.TrimSpace(e.Source)
	if source == "" {
		source = defaultDiscoverySource
	}

	return transport.CreateLeadRequest{
		Name:            name,
		Email:           e.Email,
		Phone:           e.Phone,
		Location:        location,
		StreetAddress:   e.StreetAddress,
		ZipCode:         strings.TrimSpace(e.ZipCode),
		State:           strings.TrimSpace(e.State),
		ServiceType:     e.ServiceType,
		ProjectScope:    e.ProjectScope,
		EstimatedValue:  e.EstimatedValue,
		LeadType:        e.LeadType,
		Notes:           e.Notes,
		Source:          source,
		ConfidenceScore: e.ConfidenceScore,
	}, nil
}

func candidateOf(req transport.CreateLeadRequest) dedupe.Candidate {
	return dedupe.Candidate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
	}
}

// batchSeen tracks saved candidates within one discovery batch so two
// identical candidates in the same document cannot both be saved.
type batchSeen struct {
	emails map[string]struct{}
	phones map[string]struct{}
}

func newBatchSeen() *batchSeen {
	return &batchSeen{
		emails: make(map[string]struct{}),
		phones: make(map[string]struct{}),
	}
}

func (b *batchSeen) check(c dedupe.Candidate) (string, bool) {
	if email := strings.ToLower(strings.TrimSpace(c.Email)); email != "" {
		if _, ok := b.emails[email]; ok {
			return string(dedupe.MatchEmail), true
		}
	}
	if digits := digitsOf(c.Phone); digits != "" {
		if _, ok := b.phones[digits]; ok {
			return string(dedupe.MatchPhone), true
		}
	}
	return "", false
}

func (b *batchSeen) add(c dedupe.Candidate) {
	if email := strings.ToLower(strings.TrimSpace(c.Email)); email != "" {
		b.emails[email] = struct{}{}
	}
	if digits := digitsOf(c.Phone); digits != "" {
		b.phones[digits] = struct{}{}
	}
}

func digitsOf(raw string) string {
	normalized := phone.NormalizeE164(raw)
	var sb strings.Builder
	for _, r := range normalized {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
