// Package extraction implements the lead extraction provider on the
// Gemini API. It returns raw candidates only; all classification,
// validation, and scoring stays in the leads service.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"leadflow_backend/internal/leads/ports"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
)

const defaultModel = "gemini-2.0-flash"

const extractInstruction = `You extract home-contracting lead data from raw text.
Return ONLY a JSON object with these fields (omit unknown ones):
name, email, phone, location, streetAddress, zipCode, state, serviceType,
projectScope (small|medium|large|enterprise), estimatedValue (number),
leadType (Homeowner|Investor|Property Manager|HOA Manager|Commercial),
notes, source, confidenceScore (0-100, how confident you are in this lead).`

const discoverInstruction = `You find home-contracting leads in a document.
Return ONLY a JSON array of lead objects, each with the same fields as a
single extraction. Return [] when the document contains no leads.`

// Client calls the Gemini API and maps its JSON output onto lead
// candidates. It implements ports.Extractor.
type Client struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

func NewClient(ctx context.Context, cfg config.ExtractionConfig, log *logger.Logger) (*Client, error) {
	if cfg.GetGeminiAPIKey() == "" {
		return nil, fmt.Errorf("extraction: missing API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction: create client: %w", err)
	}
	model := cfg.GetGeminiModel()
	if model == "" {
		model = defaultModel
	}
	return &Client{client: client, model: model, log: log}, nil
}

// candidateJSON is the wire shape the prompt asks the model for.
type candidateJSON struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Location        string   `json:"location"`
	StreetAddress   string   `json:"streetAddress"`
	ZipCode         string   `json:"zipCode"`
	State           string   `json:"state"`
	ServiceType     string   `json:"serviceType"`
	ProjectScope    string   `json:"projectScope"`
	EstimatedValue  *float64 `json:"estimatedValue"`
	LeadType        string   `json:"leadType"`
	Notes           string   `json:"notes"`
	Source          string   `json:"source"`
	ConfidenceScore *float64 `json:"confidenceScore"`
}

func (c *Client) Extract(ctx context.Context, text string) (ports.ExtractedLead, error) {
	raw, err := c.generate(ctx, extractInstruction, text)
	if err != nil {
		return ports.ExtractedLead{}, err
	}
	var parsed candidateJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return ports.ExtractedLead{}, fmt.Errorf("extraction: malformed model output: %w", err)
	}
	return toExtracted(parsed), nil
}

func (c *Client) Discover(ctx context.Context, text string) ([]ports.ExtractedLead, error) {
	raw, err := c.generate(ctx, discoverInstruction, text)
	if err != nil {
		return nil, err
	}
	var parsed []candidateJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("extraction: malformed model output: %w", err)
	}
	leads := make([]ports.ExtractedLead, 0, len(parsed))
	for _, p := range parsed {
		leads = append(leads, toExtracted(p))
	}
	return leads, nil
}

func (c *Client) generate(ctx context.Context, instruction, text string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(text),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return "", fmt.Errorf("extraction: generate: %w", err)
	}
	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", fmt.Errorf("extraction: empty model response")
	}
	return out, nil
}

func toExtracted(p candidateJSON) ports.ExtractedLead {
	return ports.ExtractedLead{
		Name:            p.Name,
		Email:           p.Email,
		Phone:           p.Phone,
		Location:        p.Location,
		StreetAddress:   p.StreetAddress,
		ZipCode:         p.ZipCode,
		State:           p.State,
		ServiceType:     p.ServiceType,
		ProjectScope:    p.ProjectScope,
		EstimatedValue:  p.EstimatedValue,
		LeadType:        p.LeadType,
		Notes:           p.Notes,
		Source:          p.Source,
		ConfidenceScore: p.ConfidenceScore,
	}
}

var _ ports.Extractor = (*Client)(nil)
