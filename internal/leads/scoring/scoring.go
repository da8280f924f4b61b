// Package scoring combines tier, scope, value, location, contact
// completeness, tags, and optional AI confidence into a single 0-100
// lead score, and derives the read-time labels and priority ranks the
// dashboard sorts on. Everything here is a pure function of its inputs
// and the reference tables.
package scoring

import (
	"math"
	"strings"
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/refdata"
	"leadflow_backend/internal/leads/tagging"
)

// Factor weights. They sum to 1.0; tag and confidence bonuses are added
// on top before the final clamp.
const (
	weightTier       = 0.40
	weightScope      = 0.25
	weightValue      = 0.20
	weightLocation   = 0.10
	weightEngagement = 0.05

	// neutralScore is used when an optional factor is absent.
	neutralScore = 50.0

	// Value interpolation endpoints within a tier's expected range.
	valueScoreFloor   = 30.0
	valueScoreCeiling = 100.0

	// locationPremium applies only on an explicit premium-county match;
	// every other in-state case scores locationBase, including an
	// unknown county.
	locationPremium = 100.0
	locationBase    = 70.0

	// maxConfidenceBonus caps the AI-confidence contribution.
	maxConfidenceBonus = 5.0

	// StaleAfter is how long a lead may go uncontacted before it is
	// considered stale.
	StaleAfter = 24 * time.Hour
)

// Input carries everything the score depends on. ServiceTier must come
// from the classifier, never from caller-supplied state.
type Input struct {
	ServiceTier     domain.ServiceTier
	ProjectScope    domain.ProjectScope // "" when absent
	EstimatedValue  *float64
	County          string
	HasEmail        bool
	HasPhone        bool
	Tags            []domain.Tag
	ConfidenceScore *float64 // 0-100, AI-discovered leads only
}

// Engine computes lead scores against reference data.
type Engine struct {
	ref    *refdata.Data
	tagger *tagging.Engine
}

// New creates a scoring engine. The tag bonus is delegated to the
// tagging engine so the two never disagree on per-tag contributions.
func New(ref *refdata.Data, tagger *tagging.Engine) *Engine {
	return &Engine{ref: ref, tagger: tagger}
}

// Compute returns the weighted lead score, always an integer in [0,100].
func (e *Engine) Compute(in Input) int {
	profile := e.ref.Profile(in.ServiceTier)

	tierScore := profile.BaseScore
	scopeScore := neutralScore
	if s, ok := e.ref.ScopeScores[in.ProjectScope]; ok {
		scopeScore = s
	}
	valueScore := e.valueScore(in.EstimatedValue, profile)
	locationScore := e.locationScore(in.County)
	engagementScore := 0.0
	if in.HasEmail {
		engagementScore += 50
	}
	if in.HasPhone {
		engagementScore += 50
	}

	total := weightTier*tierScore +
		weightScope*scopeScore +
		weightValue*valueScore +
		weightLocation*locationScore +
		weightEngagement*engagementScore

	if len(in.Tags) > 0 {
		total += e.tagger.Bonus(in.Tags)
	}

	if in.ConfidenceScore != nil {
		bonus := *in.ConfidenceScore / 100 * maxConfidenceBonus
		total += math.Min(maxConfidenceBonus, bonus)
	}

	return clamp(math.Round(total))
}

// valueScore interpolates the estimated value within the tier's expected
// range: at or below MinValue scores the floor, at or above MaxValue the
// ceiling, linear in between. Absent or non-positive values are neutral.
func (e *Engine) valueScore(value *float64, profile refdata.TierProfile) float64 {
	if value == nil || *value <= 0 {
		return neutralScore
	}
	v := *value
	switch {
	case v >= profile.MaxValue:
		return valueScoreCeiling
	case v <= profile.MinValue:
		return valueScoreFloor
	default:
		span := profile.MaxValue - profile.MinValue
		return valueScoreFloor + (valueScoreCeiling-valueScoreFloor)*(v-profile.MinValue)/span
	}
}

func (e *Engine) locationScore(county string) float64 {
	for premium := range e.ref.PremiumCounties {
		if strings.EqualFold(premium, county) {
			return locationPremium
		}
	}
	return locationBase
}

func clamp(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

// Label buckets a score into its human-facing temperature label.
func Label(score int) string {
	switch {
	case score >= 80:
		return "Hot Lead"
	case score >= 60:
		return "Warm Lead"
	case score >= 40:
		return "Cool Lead"
	default:
		return "Cold Lead"
	}
}

// PriorityRank produces the sort key for attention ordering. Staleness
// dominates tier, which dominates raw score in typical ranges, so leads
// needing contact always sort first regardless of value. Never persisted.
func PriorityRank(score int, tier domain.ServiceTier, isStale bool) int {
	rank := score + (5-int(tier))*10
	if isStale {
		rank += 50
	}
	return rank
}

// IsStale reports whether a lead has gone too long without contact. A
// contacted lead goes stale when the last contact is older than the
// threshold. A never-contacted lead goes stale only while it still sits
// in the initial pipeline stage, measured from discovery or creation.
func IsStale(lastContactedAt *time.Time, createdAt time.Time, pipelineStage string, now time.Time) bool {
	if lastContactedAt != nil {
		return now.Sub(*lastContactedAt) > StaleAfter
	}
	if pipelineStage != domain.InitialStage {
		return false
	}
	return now.Sub(createdAt) > StaleAfter
}
