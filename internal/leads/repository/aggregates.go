package repository

import "context"

// RegionSummary is a per-region rollup for territory analytics.
type RegionSummary struct {
	Region         string
	LeadCount      int
	EstimatedValue float64
	AverageScore   float64
}

// StageSummary is a per-pipeline-stage rollup for funnel analytics.
type StageSummary struct {
	PipelineStage  string
	LeadCount      int
	EstimatedValue float64
}

// TierSummary is a per-tier rollup for revenue analytics.
type TierSummary struct {
	ServiceTier    int
	LeadCount      int
	EstimatedValue float64
}

// SummarizeByRegion aggregates active leads per region. Leads with no
// resolved region are grouped under the empty string.
func (r *Repository) SummarizeByRegion(ctx context.Context) ([]RegionSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(region, ''), COUNT(*), COALESCE(SUM(estimated_value), 0), COALESCE(AVG(lead_score), 0)
		FROM leads
		WHERE status = 'active'
		GROUP BY region
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]RegionSummary, 0)
	for rows.Next() {
		var s RegionSummary
		if err := rows.Scan(&s.Region, &s.LeadCount, &s.EstimatedValue, &s.AverageScore); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// SummarizeByStage aggregates active leads per pipeline stage.
func (r *Repository) SummarizeByStage(ctx context.Context) ([]StageSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pipeline_stage, COUNT(*), COALESCE(SUM(estimated_value), 0)
		FROM leads
		WHERE status = 'active'
		GROUP BY pipeline_stage
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]StageSummary, 0)
	for rows.Next() {
		var s StageSummary
		if err := rows.Scan(&s.PipelineStage, &s.LeadCount, &s.EstimatedValue); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// SummarizeByTier aggregates active leads per service tier.
func (r *Repository) SummarizeByTier(ctx context.Context) ([]TierSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT service_tier, COUNT(*), COALESCE(SUM(estimated_value), 0)
		FROM leads
		WHERE status = 'active'
		GROUP BY service_tier
		ORDER BY service_tier ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]TierSummary, 0)
	for rows.Next() {
		var s TierSummary
		if err := rows.Scan(&s.ServiceTier, &s.LeadCount, &s.EstimatedValue); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
