// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead enters the pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	Name        string    `json:"name"`
	ServiceType string    `json:"serviceType"`
	Location    string    `json:"location"`
	Score       int       `json:"score"`
	Tags        []string  `json:"tags,omitempty"`
	Source      string    `json:"source,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadArchived is published when a lead is stored archived because its
// location failed geofence validation.
type LeadArchived struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Reason string    `json:"reason"`
}

func (e LeadArchived) EventName() string { return "leads.lead.archived" }

// LeadStageChanged is published when a lead moves between pipeline stages.
type LeadStageChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	FromStage string    `json:"fromStage"`
	ToStage   string    `json:"toStage"`
}

func (e LeadStageChanged) EventName() string { return "leads.lead.stage_changed" }

// StaleLeadsDetected is published by the background sweep when active
// leads have gone too long without contact.
type StaleLeadsDetected struct {
	BaseEvent
	LeadIDs []uuid.UUID `json:"leadIds"`
}

func (e StaleLeadsDetected) EventName() string { return "leads.stale.detected" }
