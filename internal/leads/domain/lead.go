// Package domain holds the shared lead vocabulary: tiers, tags, lead
// types, pipeline stages, and statuses. It contains no behavior beyond
// parsing and membership checks so every other leads package can depend
// on it without cycles.
package domain

import "strings"

// ServiceTier groups the canonical service types into four fixed priority
// classes. Lower ordinal means higher typical deal value.
type ServiceTier int

const (
	TierEpic      ServiceTier = 1
	TierModernize ServiceTier = 2
	TierExterior  ServiceTier = 3
	TierService   ServiceTier = 4
)

// ServiceType is one of the 17 canonical service names. Raw user or AI
// input is mapped onto these by the classification package.
type ServiceType string

// Tag is a strategic marker derived from service, value, location, and
// lead type. A lead can carry zero to five tags.
type Tag string

const (
	TagWhale      Tag = "Whale"
	TagQuickTurn  Tag = "Quick-Turn"
	TagLuxury     Tag = "Luxury"
	TagCommercial Tag = "Commercial"
	TagMultiUnit  Tag = "Multi-Unit"
)

// LeadType classifies the contact behind a lead.
type LeadType string

const (
	LeadTypeHomeowner       LeadType = "Homeowner"
	LeadTypeInvestor        LeadType = "Investor"
	LeadTypePropertyManager LeadType = "Property Manager"
	LeadTypeHOAManager      LeadType = "HOA Manager"
	LeadTypeCommercial      LeadType = "Commercial"
)

var knownLeadTypes = map[LeadType]struct{}{
	LeadTypeHomeowner:       {},
	LeadTypeInvestor:        {},
	LeadTypePropertyManager: {},
	LeadTypeHOAManager:      {},
	LeadTypeCommercial:      {},
}

// ParseLeadType maps raw input onto a known lead type. Unrecognized input
// defaults to Homeowner; lead type is an AI-sourced field and is expected
// to sometimes be noisy.
func ParseLeadType(raw string) LeadType {
	lt := LeadType(raw)
	if _, ok := knownLeadTypes[lt]; ok {
		return lt
	}
	return LeadTypeHomeowner
}

// ProjectScope is a coarse project-size bucket, independent of tier.
type ProjectScope string

const (
	ScopeSmall      ProjectScope = "small"
	ScopeMedium     ProjectScope = "medium"
	ScopeLarge      ProjectScope = "large"
	ScopeEnterprise ProjectScope = "enterprise"
)

var knownScopes = map[ProjectScope]struct{}{
	ScopeSmall:      {},
	ScopeMedium:     {},
	ScopeLarge:      {},
	ScopeEnterprise: {},
}

// IsKnownScope reports whether the scope is one of the four buckets.
func IsKnownScope(scope ProjectScope) bool {
	_, ok := knownScopes[scope]
	return ok
}

// scopeAliases maps common phrasings onto the canonical buckets. Scope is
// an AI-sourced field too, so intake sees vocabulary like "Whole-Home".
var scopeAliases = map[string]ProjectScope{
	"whole-home": ScopeEnterprise,
	"whole home": ScopeEnterprise,
	"full home":  ScopeEnterprise,
}

// ParseScope maps raw input onto a known project scope, case-insensitively
// and through the alias table. Unrecognized input parses to the empty
// scope, which scores as the neutral default.
func ParseScope(raw string) ProjectScope {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return ""
	}
	scope := ProjectScope(normalized)
	if _, ok := knownScopes[scope]; ok {
		return scope
	}
	if aliased, ok := scopeAliases[normalized]; ok {
		return aliased
	}
	return ""
}

// Lead status. Archival is a status change, never a deletion.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Pipeline stages, in funnel order.
const (
	StageNew        = "New"
	StageContacted  = "Contacted"
	StageEstimating = "Estimating"
	StageQuoted     = "Quoted"
	StageWon        = "Won"
	StageLost       = "Lost"
)

// InitialStage is the stage every new lead enters the pipeline in.
const InitialStage = StageNew

var knownStages = map[string]struct{}{
	StageNew:        {},
	StageContacted:  {},
	StageEstimating: {},
	StageQuoted:     {},
	StageWon:        {},
	StageLost:       {},
}

// IsKnownStage reports whether stage is a valid pipeline stage.
func IsKnownStage(stage string) bool {
	_, ok := knownStages[stage]
	return ok
}
