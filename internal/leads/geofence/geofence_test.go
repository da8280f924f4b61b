package geofence

import (
	"testing"

	"leadflow_backend/internal/leads/refdata"
)

func TestValidateLocation_KnownCounty(t *testing.T) {
	v := New(refdata.Default())

	result := v.ValidateLocation("22030", "")
	if !result.IsValid || !result.IsServiceable {
		t.Fatalf("expected 22030 to be serviceable, got %+v", result)
	}
	if result.County != "Fairfax" {
		t.Fatalf("expected county Fairfax, got %q", result.County)
	}
	if result.Region != "Northern Virginia" {
		t.Fatalf("expected region Northern Virginia, got %q", result.Region)
	}
}

func TestValidateLocation_OutOfAreaPrefix(t *testing.T) {
	v := New(refdata.Default())

	result := v.ValidateLocation("20814", "")
	if result.IsServiceable {
		t.Fatalf("expected 20814 to be outside the service area")
	}
	if result.County != "" {
		t.Fatalf("expected no county for out-of-area ZIP, got %q", result.County)
	}
	if !v.ShouldArchive("20814", "") {
		t.Fatalf("expected out-of-area lead to be archived")
	}
}

func TestValidateLocation_ForeignState(t *testing.T) {
	v := New(refdata.Default())

	for _, state := range []string{"MD", "Maryland", "nc"} {
		result := v.ValidateLocation("22030", state)
		if result.IsValid || result.IsServiceable {
			t.Fatalf("expected state %q to short-circuit as invalid, got %+v", state, result)
		}
	}
}

func TestValidateLocation_HomeStateSpellings(t *testing.T) {
	v := New(refdata.Default())

	for _, state := range []string{"VA", "va", "Virginia", "virginia"} {
		result := v.ValidateLocation("22030", state)
		if !result.IsServiceable {
			t.Fatalf("expected state %q to be accepted, got %+v", state, result)
		}
	}
}

func TestValidateLocation_MalformedZIP(t *testing.T) {
	v := New(refdata.Default())

	for _, zip := range []string{"", "2203", "abc", "12a4"} {
		result := v.ValidateLocation(zip, "")
		if result.IsValid {
			t.Fatalf("expected ZIP %q to be invalid", zip)
		}
		if result.Message == "" {
			t.Fatalf("expected a format-error message for ZIP %q", zip)
		}
	}
}

func TestValidateLocation_ZIPPlusFour(t *testing.T) {
	v := New(refdata.Default())

	result := v.ValidateLocation("22030-1234", "")
	if !result.IsServiceable || result.County != "Fairfax" {
		t.Fatalf("expected ZIP+4 input to normalize, got %+v", result)
	}
}

func TestValidateLocation_UnmappedCountyStillServiceable(t *testing.T) {
	v := New(refdata.Default())

	// 22946 has a serviceable prefix but no county table entry.
	result := v.ValidateLocation("22946", "")
	if !result.IsValid || !result.IsServiceable {
		t.Fatalf("expected unmapped in-area ZIP to stay serviceable, got %+v", result)
	}
	if result.County != "" || result.Region != "" {
		t.Fatalf("expected empty county and region, got %q/%q", result.County, result.Region)
	}
}

func TestIsInServiceArea_AgreesWithValidate(t *testing.T) {
	ref := refdata.Default()
	v := New(ref)

	zips := []string{"20814", "22946", "90210", "10001"}
	for zip := range ref.ZIPCounties {
		zips = append(zips, zip)
	}

	for _, zip := range zips {
		if got, want := v.IsInServiceArea(zip), v.ValidateLocation(zip, "").IsServiceable; got != want {
			t.Fatalf("ZIP %s: IsInServiceArea=%v disagrees with ValidateLocation=%v", zip, got, want)
		}
	}
}

func TestZIPTableRoundTrip(t *testing.T) {
	ref := refdata.Default()
	v := New(ref)

	for zip, county := range ref.ZIPCounties {
		result := v.ValidateLocation(zip, "")
		if !result.IsServiceable {
			t.Fatalf("table ZIP %s should be serviceable", zip)
		}
		if result.County != county {
			t.Fatalf("table ZIP %s: expected county %q, got %q", zip, county, result.County)
		}
	}
}
