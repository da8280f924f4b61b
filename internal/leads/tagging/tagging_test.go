package tagging

import (
	"testing"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/refdata"
)

func hasTag(tags []domain.Tag, want domain.Tag) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}

func f64(v float64) *float64 { return &v }

func TestAssignTags_WhaleByService(t *testing.T) {
	e := New(refdata.Default())

	tags := e.AssignTags(Input{
		ServiceType: refdata.ServiceNewConstruction,
		LeadType:    domain.LeadTypeHomeowner,
	})
	if !hasTag(tags, domain.TagWhale) {
		t.Fatalf("expected EPIC service to tag Whale, got %v", tags)
	}
	if len(tags) != 1 {
		t.Fatalf("expected only Whale, got %v", tags)
	}
}

func TestAssignTags_WhaleByValueIgnoresTier(t *testing.T) {
	e := New(refdata.Default())

	// A SERVICE-tier lead with a stated value over the threshold still
	// gets the Whale tag; the value rule is not gated by tier.
	tags := e.AssignTags(Input{
		ServiceType:    refdata.ServiceGutterCleaning,
		LeadType:       domain.LeadTypeHomeowner,
		EstimatedValue: f64(120000),
	})
	if !hasTag(tags, domain.TagWhale) {
		t.Fatalf("expected value-based Whale, got %v", tags)
	}
	if !hasTag(tags, domain.TagQuickTurn) {
		t.Fatalf("expected SERVICE-tier Quick-Turn, got %v", tags)
	}
	// Display ordering follows the priority table: Whale before Quick-Turn.
	if tags[0] != domain.TagWhale || tags[len(tags)-1] != domain.TagQuickTurn {
		t.Fatalf("expected priority ordering, got %v", tags)
	}
}

func TestAssignTags_WhaleNotDoubled(t *testing.T) {
	e := New(refdata.Default())

	tags := e.AssignTags(Input{
		ServiceType:    refdata.ServiceNewConstruction,
		LeadType:       domain.LeadTypeHomeowner,
		EstimatedValue: f64(500000),
	})
	count := 0
	for _, tag := range tags {
		if tag == domain.TagWhale {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected Whale exactly once, got %v", tags)
	}
}

func TestAssignTags_LuxuryByLocationAndCounty(t *testing.T) {
	e := New(refdata.Default())

	byArea := e.AssignTags(Input{
		ServiceType: refdata.ServiceRoofing,
		Location:    "McLean, VA",
		LeadType:    domain.LeadTypeHomeowner,
	})
	if !hasTag(byArea, domain.TagLuxury) {
		t.Fatalf("expected luxury-area location to tag Luxury, got %v", byArea)
	}

	byCounty := e.AssignTags(Input{
		ServiceType: refdata.ServiceRoofing,
		Location:    "Herndon",
		County:      "fairfax",
		LeadType:    domain.LeadTypeHomeowner,
	})
	if !hasTag(byCounty, domain.TagLuxury) {
		t.Fatalf("expected luxury county (case-insensitive) to tag Luxury, got %v", byCounty)
	}
}

func TestAssignTags_LeadTypeRules(t *testing.T) {
	e := New(refdata.Default())

	cases := []struct {
		leadType domain.LeadType
		want     domain.Tag
	}{
		{domain.LeadTypeCommercial, domain.TagCommercial},
		{domain.LeadTypeHOAManager, domain.TagCommercial},
		{domain.LeadTypePropertyManager, domain.TagMultiUnit},
		{domain.LeadTypeInvestor, domain.TagMultiUnit},
	}

	for _, tc := range cases {
		tags := e.AssignTags(Input{
			ServiceType: refdata.ServiceRoofing,
			LeadType:    tc.leadType,
		})
		if !hasTag(tags, tc.want) {
			t.Fatalf("lead type %q: expected %q, got %v", tc.leadType, tc.want, tags)
		}
	}

	if tags := e.AssignTags(Input{ServiceType: refdata.ServiceRoofing, LeadType: domain.LeadTypeHomeowner}); len(tags) != 0 {
		t.Fatalf("expected homeowner roofing lead to carry no tags, got %v", tags)
	}
}

func TestBonus_Additive(t *testing.T) {
	e := New(refdata.Default())

	if got := e.Bonus([]domain.Tag{domain.TagWhale, domain.TagLuxury}); got != 25 {
		t.Fatalf("expected Whale+Luxury bonus of 25, got %v", got)
	}
	if got := e.Bonus(nil); got != 0 {
		t.Fatalf("expected empty bonus 0, got %v", got)
	}
	all := []domain.Tag{domain.TagWhale, domain.TagLuxury, domain.TagMultiUnit, domain.TagCommercial, domain.TagQuickTurn}
	if got := e.Bonus(all); got != 41 {
		t.Fatalf("expected full bonus 41, got %v", got)
	}
}
