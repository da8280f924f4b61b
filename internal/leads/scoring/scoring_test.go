package scoring

import (
	"testing"
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/refdata"
	"leadflow_backend/internal/leads/tagging"
)

func newEngine() *Engine {
	ref := refdata.Default()
	return New(ref, tagging.New(ref))
}

func f64(v float64) *float64 { return &v }

func TestCompute_HighValueEpicLead(t *testing.T) {
	e := newEngine()

	// Fully reachable contact, EPIC tier, value above the tier ceiling,
	// Whale tag. This is the strongest realistic manual-entry lead.
	score := e.Compute(Input{
		ServiceTier:    domain.TierEpic,
		EstimatedValue: f64(450000),
		HasEmail:       true,
		HasPhone:       true,
		Tags:           []domain.Tag{domain.TagWhale},
	})

	if score < 90 {
		t.Fatalf("expected a hot score >= 90, got %d", score)
	}
	if score != 92 {
		t.Fatalf("expected 92 (32+12.5+20+7+5+15 rounded), got %d", score)
	}
}

func TestCompute_AllOptionalAbsent(t *testing.T) {
	e := newEngine()

	score := e.Compute(Input{ServiceTier: domain.TierService})
	if score != 38 {
		t.Fatalf("expected neutral SERVICE-tier score 38, got %d", score)
	}
}

func TestCompute_ScopeMapping(t *testing.T) {
	e := newEngine()

	at := func(scope domain.ProjectScope) int {
		return e.Compute(Input{ServiceTier: domain.TierService, ProjectScope: scope})
	}

	absent := at("")
	small := at(domain.ScopeSmall)
	medium := at(domain.ScopeMedium)
	large := at(domain.ScopeLarge)
	enterprise := at(domain.ScopeEnterprise)

	// 20/50/75/100 at weight .25 over the 37.5 neutral base.
	if small != 30 || medium != 38 || large != 44 || enterprise != 50 {
		t.Fatalf("expected scope scores 30/38/44/50, got %d/%d/%d/%d", small, medium, large, enterprise)
	}
	if medium != absent {
		t.Fatalf("expected absent scope to score as medium: %d vs %d", absent, medium)
	}
}

func TestCompute_Bounds(t *testing.T) {
	e := newEngine()

	tiers := []domain.ServiceTier{domain.TierEpic, domain.TierModernize, domain.TierExterior, domain.TierService}
	scopes := []domain.ProjectScope{"", domain.ScopeSmall, domain.ScopeEnterprise}
	values := []*float64{nil, f64(0), f64(100), f64(5000000)}
	tagSets := [][]domain.Tag{nil, {domain.TagWhale, domain.TagLuxury, domain.TagMultiUnit, domain.TagCommercial, domain.TagQuickTurn}}
	confidences := []*float64{nil, f64(0), f64(100)}

	for _, tier := range tiers {
		for _, scope := range scopes {
			for _, value := range values {
				for _, tags := range tagSets {
					for _, conf := range confidences {
						score := e.Compute(Input{
							ServiceTier:     tier,
							ProjectScope:    scope,
							EstimatedValue:  value,
							County:          "Fairfax",
							HasEmail:        true,
							HasPhone:        true,
							Tags:            tags,
							ConfidenceScore: conf,
						})
						if score < 0 || score > 100 {
							t.Fatalf("score %d out of bounds for tier=%d scope=%q", score, tier, scope)
						}
					}
				}
			}
		}
	}
}

func TestCompute_ValueMonotonic(t *testing.T) {
	e := newEngine()

	prev := -1
	for value := 30000.0; value <= 100000; value += 5000 {
		score := e.Compute(Input{
			ServiceTier:    domain.TierModernize,
			EstimatedValue: f64(value),
		})
		if score < prev {
			t.Fatalf("score decreased from %d to %d at value %v", prev, score, value)
		}
		prev = score
	}
}

func TestCompute_PremiumCountyCaseInsensitive(t *testing.T) {
	e := newEngine()

	base := e.Compute(Input{ServiceTier: domain.TierExterior, County: "Culpeper"})
	premium := e.Compute(Input{ServiceTier: domain.TierExterior, County: "fairfax"})
	unknown := e.Compute(Input{ServiceTier: domain.TierExterior})

	if premium <= base {
		t.Fatalf("expected premium county to raise score: base=%d premium=%d", base, premium)
	}
	// Unknown county and known-but-non-premium county score identically.
	if base != unknown {
		t.Fatalf("expected unknown county to equal non-premium county: %d vs %d", unknown, base)
	}
}

func TestCompute_ConfidenceBonusCapped(t *testing.T) {
	e := newEngine()

	without := e.Compute(Input{ServiceTier: domain.TierService})
	capped := e.Compute(Input{ServiceTier: domain.TierService, ConfidenceScore: f64(100)})
	half := e.Compute(Input{ServiceTier: domain.TierService, ConfidenceScore: f64(50)})

	if capped-without != 5 {
		t.Fatalf("expected full confidence to add 5, got %d", capped-without)
	}
	if half-without > 3 {
		t.Fatalf("expected half confidence to add about 2.5, got %d", half-without)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	e := newEngine()

	in := Input{
		ServiceTier:     domain.TierModernize,
		ProjectScope:    domain.ScopeLarge,
		EstimatedValue:  f64(75000),
		County:          "Arlington",
		HasEmail:        true,
		Tags:            []domain.Tag{domain.TagLuxury},
		ConfidenceScore: f64(80),
	}
	if first, second := e.Compute(in), e.Compute(in); first != second {
		t.Fatalf("score not deterministic: %d vs %d", first, second)
	}
}

func TestLabel(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{95, "Hot Lead"},
		{80, "Hot Lead"},
		{79, "Warm Lead"},
		{60, "Warm Lead"},
		{59, "Cool Lead"},
		{40, "Cool Lead"},
		{39, "Cold Lead"},
		{0, "Cold Lead"},
	}
	for _, tc := range cases {
		if got := Label(tc.score); got != tc.want {
			t.Fatalf("Label(%d): expected %q, got %q", tc.score, tc.want, got)
		}
	}
}

func TestPriorityRank_StalenessDominates(t *testing.T) {
	// A stale low-tier lead must outrank a fresh high-tier lead with a
	// better score.
	stale := PriorityRank(40, domain.TierService, true)
	fresh := PriorityRank(75, domain.TierEpic, false)
	if stale <= fresh {
		t.Fatalf("expected stale lead to sort first: stale=%d fresh=%d", stale, fresh)
	}

	if got := PriorityRank(50, domain.TierEpic, false); got != 90 {
		t.Fatalf("expected rank 90, got %d", got)
	}
}

func TestIsStale(t *testing.T) {
	now := time.Now()
	old := now.Add(-25 * time.Hour)
	recent := now.Add(-2 * time.Hour)

	if !IsStale(&old, now, domain.StageContacted, now) {
		t.Fatalf("expected lead contacted 25h ago to be stale")
	}
	if IsStale(&recent, now, domain.StageContacted, now) {
		t.Fatalf("expected lead contacted 2h ago to be fresh")
	}
	if !IsStale(nil, old, domain.StageNew, now) {
		t.Fatalf("expected never-contacted day-old lead in initial stage to be stale")
	}
	if IsStale(nil, old, domain.StageQuoted, now) {
		t.Fatalf("expected never-contacted lead past initial stage to be fresh")
	}
	if IsStale(nil, recent, domain.StageNew, now) {
		t.Fatalf("expected fresh never-contacted lead to be fresh")
	}
}
