// Package tagging derives strategic tags from classified, validated lead
// data and computes the tag bonus consumed by scoring. Rules are
// independent: every rule that matches contributes its tag, and display
// ordering is resolved by a fixed priority table rather than evaluation
// order.
package tagging

import (
	"sort"
	"strings"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/refdata"
)

// Input carries the fields the tag rules look at.
type Input struct {
	ServiceType    domain.ServiceType
	Location       string
	County         string
	LeadType       domain.LeadType
	EstimatedValue *float64
}

// Engine evaluates the tag rules against reference data.
type Engine struct {
	ref *refdata.Data
}

// New creates a tagging engine over the given reference data.
func New(ref *refdata.Data) *Engine {
	return &Engine{ref: ref}
}

// AssignTags returns every tag whose rule matches, sorted by display
// priority. Each rule fires at most once.
func (e *Engine) AssignTags(in Input) []domain.Tag {
	var tags []domain.Tag

	if e.isWhale(in) {
		tags = append(tags, domain.TagWhale)
	}
	if e.ref.TierFor(in.ServiceType) == domain.TierService {
		tags = append(tags, domain.TagQuickTurn)
	}
	if e.isLuxury(in) {
		tags = append(tags, domain.TagLuxury)
	}
	switch in.LeadType {
	case domain.LeadTypeCommercial, domain.LeadTypeHOAManager:
		tags = append(tags, domain.TagCommercial)
	case domain.LeadTypePropertyManager, domain.LeadTypeInvestor:
		tags = append(tags, domain.TagMultiUnit)
	}

	e.SortByPriority(tags)
	return tags
}

// Bonus sums the fixed per-tag score contributions. No cap is applied
// here; the total-score clamp happens in scoring.
func (e *Engine) Bonus(tags []domain.Tag) float64 {
	total := 0.0
	for _, tag := range tags {
		total += e.ref.TagBonuses[tag]
	}
	return total
}

// SortByPriority orders tags in place by the display priority table.
func (e *Engine) SortByPriority(tags []domain.Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		return e.ref.TagPriorities[tags[i]] < e.ref.TagPriorities[tags[j]]
	})
}

// isWhale fires on EPIC-tier services or on estimated value at or above
// the whale threshold. The value rule is intentionally not gated by tier:
// a SERVICE-tier lead with an unusually high stated value is still a
// whale.
func (e *Engine) isWhale(in Input) bool {
	if e.ref.TierFor(in.ServiceType) == domain.TierEpic {
		return true
	}
	return in.EstimatedValue != nil && *in.EstimatedValue >= e.ref.WhaleValueThreshold
}

func (e *Engine) isLuxury(in Input) bool {
	location := strings.ToLower(in.Location)
	for _, area := range e.ref.LuxuryAreas {
		if strings.Contains(location, strings.ToLower(area)) {
			return true
		}
	}
	if in.County == "" {
		return false
	}
	for county := range e.ref.LuxuryCounties {
		if strings.EqualFold(county, in.County) {
			return true
		}
	}
	return false
}
