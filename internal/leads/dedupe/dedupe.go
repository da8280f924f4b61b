// Package dedupe decides whether a candidate lead already exists in the
// store. Matching is an ordered cascade of independent strategies (exact
// email, normalized phone, fuzzy name+location) evaluated short-circuit
// in priority order. The single-candidate path queries the store per
// strategy; the batch path fetches one snapshot and evaluates every
// candidate against it in memory, producing results identical to the
// single path per candidate.
package dedupe

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// MatchType identifies which strategy matched a duplicate.
type MatchType string

const (
	MatchEmail        MatchType = "email"
	MatchPhone        MatchType = "phone"
	MatchAddress      MatchType = "address"
	MatchNameLocation MatchType = "name_location"
)

// minPhoneDigits is the minimum digit count for a phone number to be
// considered matchable at all.
const minPhoneDigits = 10

// ExistingLead is the minimal view of a persisted lead the detector
// matches against.
type ExistingLead struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Phone    string
	Location string
}

// Candidate is an incoming lead to check. All fields are optional; a
// strategy whose fields are absent simply never matches.
type Candidate struct {
	Name     string
	Email    string
	Phone    string
	Location string
}

// Result is the transient outcome of one duplicate check.
type Result struct {
	IsDuplicate   bool
	MatchedLeadID *uuid.UUID
	MatchType     MatchType
}

// Source is the store boundary the detector reads through. Lookup
// failures propagate to the caller unretried; the caller decides whether
// to proceed without duplicate checking.
type Source interface {
	// FindByEmail matches a normalized (lowercased, trimmed) email.
	FindByEmail(ctx context.Context, email string) (*ExistingLead, error)
	// FindByPhoneDigits matches a digits-only phone string.
	FindByPhoneDigits(ctx context.Context, digits string) (*ExistingLead, error)
	// FindByNameLocation matches leads whose normalized name contains the
	// candidate name and whose location contains the candidate location,
	// both case-insensitively.
	FindByNameLocation(ctx context.Context, name, location string) (*ExistingLead, error)
	// FetchAll returns the full snapshot for batch evaluation.
	FetchAll(ctx context.Context) ([]ExistingLead, error)
}

// Detector runs the matching cascade against a Source.
type Detector struct {
	src Source
}

// New creates a detector over the given source.
func New(src Source) *Detector {
	return &Detector{src: src}
}

// strategy pairs a store lookup with the equivalent in-memory predicate
// so single and batch modes cannot drift apart.
type strategy struct {
	matchType MatchType
	lookup    func(ctx context.Context, d *Detector, c Candidate) (*ExistingLead, error)
	inMemory  func(c Candidate, existing ExistingLead) bool
}

var strategies = []strategy{
	{
		matchType: MatchEmail,
		lookup: func(ctx context.Context, d *Detector, c Candidate) (*ExistingLead, error) {
			email := normalizeEmail(c.Email)
			if email == "" {
				return nil, nil
			}
			return d.src.FindByEmail(ctx, email)
		},
		inMemory: func(c Candidate, existing ExistingLead) bool {
			email := normalizeEmail(c.Email)
			return email != "" && normalizeEmail(existing.Email) == email
		},
	},
	{
		matchType: MatchPhone,
		lookup: func(ctx context.Context, d *Detector, c Candidate) (*ExistingLead, error) {
			digits := phoneDigits(c.Phone)
			if len(digits) < minPhoneDigits {
				return nil, nil
			}
			return d.src.FindByPhoneDigits(ctx, digits)
		},
		inMemory: func(c Candidate, existing ExistingLead) bool {
			digits := phoneDigits(c.Phone)
			return len(digits) >= minPhoneDigits && phoneDigits(existing.Phone) == digits
		},
	},
	{
		matchType: MatchNameLocation,
		lookup: func(ctx context.Context, d *Detector, c Candidate) (*ExistingLead, error) {
			name := normalizeName(c.Name)
			if name == "" || c.Location == "" {
				return nil, nil
			}
			return d.src.FindByNameLocation(ctx, name, c.Location)
		},
		inMemory: func(c Candidate, existing ExistingLead) bool {
			name := normalizeName(c.Name)
			if name == "" || c.Location == "" {
				return false
			}
			return strings.Contains(normalizeName(existing.Name), name) &&
				strings.Contains(strings.ToLower(existing.Location), strings.ToLower(c.Location))
		},
	},
}

// Find checks one candidate against the store, first hit wins.
func (d *Detector) Find(ctx context.Context, candidate Candidate) (Result, error) {
	for _, s := range strategies {
		existing, err := s.lookup(ctx, d, candidate)
		if err != nil {
			return Result{}, err
		}
		if existing != nil {
			return Result{IsDuplicate: true, MatchedLeadID: &existing.ID, MatchType: s.matchType}, nil
		}
	}
	return Result{}, nil
}

// FindBatch checks every candidate against one point-in-time snapshot of
// the store. Candidates are never matched against each other, only
// against already-persisted leads, so the results match calling Find
// once per candidate on the same snapshot.
func (d *Detector) FindBatch(ctx context.Context, candidates []Candidate) (map[int]Result, error) {
	snapshot, err := d.src.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make(map[int]Result, len(candidates))
	for i, candidate := range candidates {
		results[i] = matchAgainstSnapshot(candidate, snapshot)
	}
	return results, nil
}

func matchAgainstSnapshot(candidate Candidate, snapshot []ExistingLead) Result {
	for _, s := range strategies {
		for _, existing := range snapshot {
			if s.inMemory(candidate, existing) {
				id := existing.ID
				return Result{IsDuplicate: true, MatchedLeadID: &id, MatchType: s.matchType}
			}
		}
	}
	return Result{}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
