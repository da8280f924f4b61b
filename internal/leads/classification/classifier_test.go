package classification

import (
	"testing"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/refdata"
)

func TestClassify_ExactMatchWins(t *testing.T) {
	c := New(refdata.Default())

	got, ok := c.Classify("kitchen remodel")
	if !ok {
		t.Fatalf("expected match for exact name")
	}
	if got != refdata.ServiceKitchenRemodel {
		t.Fatalf("expected %q, got %q", refdata.ServiceKitchenRemodel, got)
	}
}

func TestClassify_SubstringMatch(t *testing.T) {
	c := New(refdata.Default())

	cases := []struct {
		input string
		want  domain.ServiceType
	}{
		{"kitchen remodeling", refdata.ServiceKitchenRemodel},
		{"full kitchen remodel with island", refdata.ServiceKitchenRemodel},
		{"roof", refdata.ServiceRoofing},
		{"need new construction on our lot", refdata.ServiceNewConstruction},
	}

	for _, tc := range cases {
		got, ok := c.Classify(tc.input)
		if !ok {
			t.Fatalf("expected match for %q", tc.input)
		}
		if got != tc.want {
			t.Fatalf("input %q: expected %q, got %q", tc.input, tc.want, got)
		}
	}
}

func TestClassify_KeywordFallback(t *testing.T) {
	c := New(refdata.Default())

	cases := []struct {
		input string
		want  domain.ServiceType
	}{
		{"fix up the shed out back", refdata.ServiceSheShed},
		{"pressure washing the driveway", refdata.ServicePowerWashing},
		{"gutters are overflowing", refdata.ServiceGutterCleaning},
		{"want to finish our basement", refdata.ServiceBasementFinishing},
	}

	for _, tc := range cases {
		got, ok := c.Classify(tc.input)
		if !ok {
			t.Fatalf("expected keyword match for %q", tc.input)
		}
		if got != tc.want {
			t.Fatalf("input %q: expected %q, got %q", tc.input, tc.want, got)
		}
	}
}

func TestClassify_NoMatch(t *testing.T) {
	c := New(refdata.Default())

	for _, input := range []string{"", "   ", "pool installation"} {
		if got, ok := c.Classify(input); ok {
			t.Fatalf("expected no match for %q, got %q", input, got)
		}
	}
}

func TestTierFor_TotalMapping(t *testing.T) {
	ref := refdata.Default()
	c := New(ref)

	if len(ref.Catalog) != 17 {
		t.Fatalf("expected 17 canonical services, got %d", len(ref.Catalog))
	}

	for _, entry := range ref.Catalog {
		tier := c.TierFor(entry.Service)
		if tier < domain.TierEpic || tier > domain.TierService {
			t.Fatalf("service %q mapped to invalid tier %d", entry.Service, tier)
		}
		if tier != entry.Tier {
			t.Fatalf("service %q: tier %d does not match catalog %d", entry.Service, tier, entry.Tier)
		}
	}

	// Base scores must be strictly decreasing as the tier number rises.
	prev := ref.Profile(domain.TierEpic).BaseScore
	for _, tier := range []domain.ServiceTier{domain.TierModernize, domain.TierExterior, domain.TierService} {
		base := ref.Profile(tier).BaseScore
		if base >= prev {
			t.Fatalf("base score for tier %d (%v) not below previous tier (%v)", tier, base, prev)
		}
		prev = base
	}
}

func TestTierFor_UnknownFailsClosed(t *testing.T) {
	c := New(refdata.Default())

	if tier := c.TierFor("Moon Base Construction"); tier != domain.TierService {
		t.Fatalf("expected unknown service to fail closed to SERVICE tier, got %d", tier)
	}
}
