// Package classification maps free-text service descriptions onto the
// canonical service catalog. Input comes from web forms and from AI
// extraction, so it is treated as noisy: the classifier cascades from
// exact match to substring match to a keyword dictionary, and reports no
// match rather than guessing.
package classification

import (
	"strings"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/refdata"
)

// Classifier resolves raw service text against a reference catalog.
type Classifier struct {
	ref *refdata.Data
}

// New creates a classifier over the given reference data.
func New(ref *refdata.Data) *Classifier {
	return &Classifier{ref: ref}
}

// Classify maps raw service text to a canonical service type.
//
// The cascade is: exact case-insensitive match, then case-insensitive
// substring match in either direction (first catalog entry wins; there is
// deliberately no ranking among multiple substring hits), then the ordered
// keyword dictionary. Returns ("", false) when nothing matches; the caller
// must substitute a fallback service.
func (c *Classifier) Classify(raw string) (domain.ServiceType, bool) {
	input := strings.ToLower(strings.TrimSpace(raw))
	if input == "" {
		return "", false
	}

	for _, entry := range c.ref.Catalog {
		if strings.ToLower(string(entry.Service)) == input {
			return entry.Service, true
		}
	}

	for _, entry := range c.ref.Catalog {
		name := strings.ToLower(string(entry.Service))
		if strings.Contains(input, name) || strings.Contains(name, input) {
			return entry.Service, true
		}
	}

	for _, kw := range c.ref.Keywords {
		if strings.Contains(input, kw.Keyword) {
			return kw.Service, true
		}
	}

	return "", false
}

// TierFor resolves the tier for a service type, failing closed to the
// SERVICE tier for anything outside the catalog.
func (c *Classifier) TierFor(service domain.ServiceType) domain.ServiceTier {
	return c.ref.TierFor(service)
}
