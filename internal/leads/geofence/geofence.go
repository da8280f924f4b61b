// Package geofence validates lead locations against the serviceable
// region. Validation never fails with an error: malformed or out-of-area
// input produces a structured verdict so bulk pipelines can keep going.
package geofence

import (
	"fmt"
	"strings"

	"leadflow_backend/internal/leads/refdata"
)

// Result is the structured verdict for a ZIP/state pair.
type Result struct {
	// IsValid is false only for malformed input or a foreign state.
	IsValid bool
	// IsServiceable reports whether the location falls inside the
	// serviceable region. This is the sole gate for active-vs-archived
	// status on new leads.
	IsServiceable bool
	// County is the resolved county, or "" when the ZIP is not in the
	// lookup table. A serviceable ZIP with no county entry is still valid.
	County string
	// Region is the named region the county belongs to, or "".
	Region string
	// Message is a human-readable explanation of the verdict.
	Message string
}

// Validator checks locations against the reference geography.
type Validator struct {
	ref *refdata.Data
}

// New creates a validator over the given reference data.
func New(ref *refdata.Data) *Validator {
	return &Validator{ref: ref}
}

// ValidateLocation resolves a ZIP (and optional state, "" for absent)
// into a geofence verdict.
func (v *Validator) ValidateLocation(zip, state string) Result {
	if state != "" && !v.isServiceableState(state) {
		return Result{
			IsValid:       false,
			IsServiceable: false,
			Message:       fmt.Sprintf("lead is in %s, outside the %s service area", state, v.ref.StateName),
		}
	}

	normalized := normalizeZIP(zip)
	if len(normalized) < 5 {
		return Result{
			IsValid:       false,
			IsServiceable: false,
			Message:       "ZIP code must contain at least 5 digits",
		}
	}

	if _, ok := v.ref.ZIPPrefixes[normalized[:2]]; !ok {
		return Result{
			IsValid:       false,
			IsServiceable: false,
			Message:       fmt.Sprintf("ZIP %s is outside the service area", normalized),
		}
	}

	county := v.ref.ZIPCounties[normalized]
	result := Result{
		IsValid:       true,
		IsServiceable: true,
		County:        county,
		Message:       "location is inside the service area",
	}
	if county != "" {
		result.Region = v.ref.RegionFor(county)
		result.Message = fmt.Sprintf("location resolved to %s County", county)
	}
	return result
}

// IsInServiceArea is a lightweight check on ZIP-prefix membership alone.
// For any well-formed 5-digit ZIP it agrees with ValidateLocation.
func (v *Validator) IsInServiceArea(zip string) bool {
	normalized := normalizeZIP(zip)
	if len(normalized) < 5 {
		return false
	}
	_, ok := v.ref.ZIPPrefixes[normalized[:2]]
	return ok
}

// ShouldArchive reports whether a newly created lead at this location
// must be stored archived instead of active.
func (v *Validator) ShouldArchive(zip, state string) bool {
	return !v.ValidateLocation(zip, state).IsServiceable
}

func (v *Validator) isServiceableState(state string) bool {
	trimmed := strings.TrimSpace(state)
	return strings.EqualFold(trimmed, v.ref.StateCode) || strings.EqualFold(trimmed, v.ref.StateName)
}

// normalizeZIP keeps the first 5 digits of the input, tolerating ZIP+4
// and stray punctuation.
func normalizeZIP(zip string) string {
	var b strings.Builder
	for _, r := range zip {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 5 {
				break
			}
		}
	}
	return b.String()
}
