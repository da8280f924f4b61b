// Package ports defines the interfaces the leads domain requires from
// external systems. Implementations are provided by the composition root,
// so the domain never imports provider SDKs directly.
package ports

import "context"

// ExtractedLead is an untrusted lead candidate produced by an extraction
// provider. Every field is raw input: the service pipeline re-runs
// classification, geofencing, tagging, and scoring before anything is saved.
type ExtractedLead struct {
	Name            string
	Email           string
	Phone           string
	Location        string
	StreetAddress   string
	ZipCode         string
	State           string
	ServiceType     string
	ProjectScope    string
	EstimatedValue  *float64
	LeadType        string
	Notes           string
	Source          string
	ConfidenceScore *float64
}

// Extractor turns unstructured text into lead candidates.
type Extractor interface {
	// Extract parses a single free-form text blob (an email body, a form
	// dump, a call transcript) into at most one lead candidate.
	Extract(ctx context.Context, text string) (ExtractedLead, error)

	// Discover scans a larger document (a directory page, a permit feed)
	// and returns every lead candidate it can find.
	Discover(ctx context.Context, text string) ([]ExtractedLead, error)
}
