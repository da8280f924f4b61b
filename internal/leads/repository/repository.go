// Package repository is the persistence boundary for leads. Column names
// follow the storage vocabulary (snake_case); translation to the domain
// vocabulary happens here and in the transport mappers, never in SQL
// leaking upward.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead mirrors the leads table row.
type Lead struct {
	ID              uuid.UUID
	Name            string
	Email           *string
	Phone           *string
	Location        string
	StreetAddress   *string
	ZipCode         string
	State           string
	County          *string
	Region          *string
	ServiceType     string
	ServiceTier     int
	ProjectScope    *string
	EstimatedValue  *float64
	LeadType        string
	LeadScore       int
	Tags            []string
	ConfidenceScore *float64
	PipelineStage   string
	Status          string
	Notes           *string
	Source          *string
	LastContactedAt *time.Time
	DiscoveredAt    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const leadColumns = `id, name, email, phone, location, street_address, zip_code, state, county, region,
	service_type, service_tier, project_scope, estimated_value, lead_type, lead_score, tags,
	confidence_score, pipeline_stage, status, notes, source, last_contacted_at, discovered_at,
	created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Location, &lead.StreetAddress,
		&lead.ZipCode, &lead.State, &lead.County, &lead.Region,
		&lead.ServiceType, &lead.ServiceTier, &lead.ProjectScope, &lead.EstimatedValue,
		&lead.LeadType, &lead.LeadScore, &lead.Tags, &lead.ConfidenceScore,
		&lead.PipelineStage, &lead.Status, &lead.Notes, &lead.Source,
		&lead.LastContactedAt, &lead.DiscoveredAt, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

type CreateLeadParams struct {
	Name            string
	Email           *string
	Phone           *string
	Location        string
	StreetAddress   *string
	ZipCode         string
	State           string
	County          *string
	Region          *string
	ServiceType     string
	ServiceTier     int
	ProjectScope    *string
	EstimatedValue  *float64
	LeadType        string
	LeadScore       int
	Tags            []string
	ConfidenceScore *float64
	PipelineStage   string
	Status          string
	Notes           *string
	Source          *string
	DiscoveredAt    *time.Time
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			name, email, phone, location, street_address, zip_code, state, county, region,
			service_type, service_tier, project_scope, estimated_value, lead_type, lead_score,
			tags, confidence_score, pipeline_stage, status, notes, source, discovered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING `+leadColumns,
		params.Name, params.Email, params.Phone, params.Location, params.StreetAddress,
		params.ZipCode, params.State, params.County, params.Region,
		params.ServiceType, params.ServiceTier, params.ProjectScope, params.EstimatedValue,
		params.LeadType, params.LeadScore, params.Tags, params.ConfidenceScore,
		params.PipelineStage, params.Status, params.Notes, params.Source, params.DiscoveredAt,
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	return scanLead(row)
}

// ListFilters are the equality filters the store boundary supports.
type ListFilters struct {
	Status        string
	PipelineStage string
	ServiceTier   int
	Region        string
	MinScore      int
}

func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	var conditions []string
	var args []any

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filters.Status != "" {
		addCondition("status = $%d", filters.Status)
	}
	if filters.PipelineStage != "" {
		addCondition("pipeline_stage = $%d", filters.PipelineStage)
	}
	if filters.ServiceTier != 0 {
		addCondition("service_tier = $%d", filters.ServiceTier)
	}
	if filters.Region != "" {
		addCondition("region = $%d", filters.Region)
	}
	if filters.MinScore != 0 {
		addCondition("lead_score >= $%d", filters.MinScore)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY lead_score DESC, created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// UpdateLeadParams carries optional field updates; nil means unchanged.
// Derived fields (tier, score, tags, county, region, status) are always
// rewritten because the service recomputes them on every update.
type UpdateLeadParams struct {
	Name           *string
	Email          *string
	Phone          *string
	Location       *string
	StreetAddress  *string
	ZipCode        *string
	State          *string
	ProjectScope   *string
	EstimatedValue *float64
	LeadType       *string
	ServiceType    *string
	Notes          *string

	ServiceTier int
	LeadScore   int
	Tags        []string
	County      *string
	Region      *string
	Status      string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			location = COALESCE($5, location),
			street_address = COALESCE($6, street_address),
			zip_code = COALESCE($7, zip_code),
			state = COALESCE($8, state),
			project_scope = COALESCE($9, project_scope),
			estimated_value = COALESCE($10, estimated_value),
			lead_type = COALESCE($11, lead_type),
			service_type = COALESCE($12, service_type),
			notes = COALESCE($13, notes),
			service_tier = $14,
			lead_score = $15,
			tags = $16,
			county = $17,
			region = $18,
			status = $19,
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id,
		params.Name, params.Email, params.Phone, params.Location, params.StreetAddress,
		params.ZipCode, params.State, params.ProjectScope, params.EstimatedValue,
		params.LeadType, params.ServiceType, params.Notes,
		params.ServiceTier, params.LeadScore, params.Tags, params.County, params.Region, params.Status,
	)
	return scanLead(row)
}

func (r *Repository) UpdateStage(ctx context.Context, id uuid.UUID, stage string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET pipeline_stage = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, stage)
	return scanLead(row)
}

func (r *Repository) MarkContacted(ctx context.Context, id uuid.UUID, at time.Time) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET last_contacted_at = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, at)
	return scanLead(row)
}

// ListStale returns active leads that have gone without contact past the
// cutoff: contacted leads whose last contact predates it, and
// never-contacted leads still in the initial stage whose intake
// (discovery, falling back to creation) predates it.
func (r *Repository) ListStale(ctx context.Context, cutoff time.Time, initialStage string) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE status = 'active'
		  AND (
			(last_contacted_at IS NOT NULL AND last_contacted_at < $1)
			OR (last_contacted_at IS NULL AND pipeline_stage = $2 AND COALESCE(discovered_at, created_at) < $1)
		  )
		ORDER BY created_at ASC
	`, cutoff, initialStage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
