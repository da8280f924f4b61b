package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type CreateLeadRequest struct {
	Name            string   `json:"name" validate:"required,min=1,max=200"`
	Email           string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string   `json:"phone,omitempty" validate:"omitempty,min=5,max=25"`
	Location        string   `json:"location" validate:"required,min=1,max=200"`
	StreetAddress   string   `json:"streetAddress,omitempty" validate:"max=200"`
	ZipCode         string   `json:"zipCode" validate:"required,min=3,max=12"`
	State           string   `json:"state,omitempty" validate:"max=50"`
	ServiceType     string   `json:"serviceType" validate:"required,min=1,max=100"`
	ProjectScope    string   `json:"projectScope,omitempty" validate:"omitempty,oneof=small medium large enterprise"`
	EstimatedValue  *float64 `json:"estimatedValue,omitempty" validate:"omitempty,gte=0"`
	LeadType        string   `json:"leadType,omitempty" validate:"max=50"`
	Notes           string   `json:"notes,omitempty" validate:"max=5000"`
	Source          string   `json:"source,omitempty" validate:"max=100"`
	ConfidenceScore *float64 `json:"confidenceScore,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type UpdateLeadRequest struct {
	Name           *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email          *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string  `json:"phone,omitempty" validate:"omitempty,min=5,max=25"`
	Location       *string  `json:"location,omitempty" validate:"omitempty,min=1,max=200"`
	StreetAddress  *string  `json:"streetAddress,omitempty" validate:"omitempty,max=200"`
	ZipCode        *string  `json:"zipCode,omitempty" validate:"omitempty,min=3,max=12"`
	State          *string  `json:"state,omitempty" validate:"omitempty,max=50"`
	ServiceType    *string  `json:"serviceType,omitempty" validate:"omitempty,min=1,max=100"`
	ProjectScope   *string  `json:"projectScope,omitempty" validate:"omitempty,oneof=small medium large enterprise"`
	EstimatedValue *float64 `json:"estimatedValue,omitempty" validate:"omitempty,gte=0"`
	LeadType       *string  `json:"leadType,omitempty" validate:"omitempty,max=50"`
	Notes          *string  `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type UpdateStageRequest struct {
	PipelineStage string `json:"pipelineStage" validate:"required,oneof=New Contacted Estimating Quoted Won Lost"`
}

type ListLeadsRequest struct {
	Status        string `form:"status" validate:"omitempty,oneof=active archived"`
	PipelineStage string `form:"pipelineStage" validate:"omitempty,oneof=New Contacted Estimating Quoted Won Lost"`
	ServiceTier   int    `form:"serviceTier" validate:"omitempty,min=1,max=4"`
	Region        string `form:"region" validate:"omitempty,max=100"`
	MinScore      int    `form:"minScore" validate:"omitempty,min=0,max=100"`
}

type DuplicateCheckRequest struct {
	Name     string `json:"name,omitempty" validate:"max=200"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=25"`
	Location string `json:"location,omitempty" validate:"max=200"`
}

type ExtractRequest struct {
	Text string `json:"text" validate:"required,min=1,max=50000"`
}

type DiscoverRequest struct {
	Text string `json:"text" validate:"required,min=1,max=200000"`
}

// Response DTOs
type LeadResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Email           *string    `json:"email,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Location        string     `json:"location"`
	StreetAddress   *string    `json:"streetAddress,omitempty"`
	ZipCode         string     `json:"zipCode"`
	State           string     `json:"state"`
	County          *string    `json:"county,omitempty"`
	Region          *string    `json:"region,omitempty"`
	ServiceType     string     `json:"serviceType"`
	ServiceTier     int        `json:"serviceTier"`
	TierLabel       string     `json:"tierLabel"`
	TierColor       string     `json:"tierColor"`
	ProjectScope    *string    `json:"projectScope,omitempty"`
	EstimatedValue  *float64   `json:"estimatedValue,omitempty"`
	LeadType        string     `json:"leadType"`
	LeadScore       int        `json:"leadScore"`
	ScoreLabel      string     `json:"scoreLabel"`
	Tags            []string   `json:"tags"`
	ConfidenceScore *float64   `json:"confidenceScore,omitempty"`
	PipelineStage   string     `json:"pipelineStage"`
	Status          string     `json:"status"`
	IsStale         bool       `json:"isStale"`
	PriorityRank    int        `json:"priorityRank"`
	Notes           *string    `json:"notes,omitempty"`
	Source          *string    `json:"source,omitempty"`
	LastContactedAt *time.Time `json:"lastContactedAt,omitempty"`
	DiscoveredAt    *time.Time `json:"discoveredAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type DuplicateCheckResponse struct {
	IsDuplicate  bool          `json:"isDuplicate"`
	MatchType    string        `json:"matchType,omitempty"`
	ExistingLead *LeadResponse `json:"existingLead,omitempty"`
}

type DiscoverResponse struct {
	Saved      []LeadResponse     `json:"saved"`
	Duplicates []DiscoveredDupe   `json:"duplicates"`
	Rejected   []DiscoveredReject `json:"rejected"`
}

// DiscoveredDupe reports a candidate that was dropped because it matched
// an existing lead or an earlier candidate from the same batch.
type DiscoveredDupe struct {
	Name      string `json:"name"`
	MatchType string `json:"matchType"`
}

// DiscoveredReject reports a candidate that could not be saved.
type DiscoveredReject struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type RegionSummaryResponse struct {
	Region         string  `json:"region"`
	LeadCount      int     `json:"leadCount"`
	EstimatedValue float64 `json:"estimatedValue"`
	AverageScore   float64 `json:"averageScore"`
}

type StageSummaryResponse struct {
	PipelineStage  string  `json:"pipelineStage"`
	LeadCount      int     `json:"leadCount"`
	EstimatedValue float64 `json:"estimatedValue"`
}

type TierSummaryResponse struct {
	ServiceTier    int     `json:"serviceTier"`
	TierLabel      string  `json:"tierLabel"`
	LeadCount      int     `json:"leadCount"`
	EstimatedValue float64 `json:"estimatedValue"`
}

type AnalyticsResponse struct {
	Regions []RegionSummaryResponse `json:"regions"`
	Stages  []StageSummaryResponse  `json:"stages"`
	Tiers   []TierSummaryResponse   `json:"tiers"`
}
