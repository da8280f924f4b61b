package domain

import "testing"

func TestParseLeadType(t *testing.T) {
	if got := ParseLeadType("Investor"); got != LeadTypeInvestor {
		t.Errorf("ParseLeadType(Investor) = %q", got)
	}
	for _, raw := range []string{"", "residential", "homeowner"} {
		if got := ParseLeadType(raw); got != LeadTypeHomeowner {
			t.Errorf("ParseLeadType(%q) = %q, want Homeowner fallback", raw, got)
		}
	}
}

func TestParseScope(t *testing.T) {
	cases := map[string]ProjectScope{
		"small":      ScopeSmall,
		"Medium":     ScopeMedium,
		" LARGE ":    ScopeLarge,
		"enterprise": ScopeEnterprise,
		"Whole-Home": ScopeEnterprise,
		"whole home": ScopeEnterprise,
		"Full Home":  ScopeEnterprise,
		"":           "",
		"huge":       "",
	}
	for raw, want := range cases {
		if got := ParseScope(raw); got != want {
			t.Errorf("ParseScope(%q) = %q, want %q", raw, got, want)
		}
	}
}
