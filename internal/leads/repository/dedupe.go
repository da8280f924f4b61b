package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DuplicateCandidate is the minimal lead view the duplicate detector
// matches against.
type DuplicateCandidate struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Phone    string
	Location string
}

func scanCandidate(row pgx.Row) (*DuplicateCandidate, error) {
	var c DuplicateCandidate
	var email, phone *string
	err := row.Scan(&c.ID, &c.Name, &email, &phone, &c.Location)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if email != nil {
		c.Email = *email
	}
	if phone != nil {
		c.Phone = *phone
	}
	return &c, nil
}

// FindByEmail matches an already-normalized (lowercased, trimmed) email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*DuplicateCandidate, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, location
		FROM leads
		WHERE email IS NOT NULL AND lower(trim(email)) = $1
		LIMIT 1
	`, email)
	return scanCandidate(row)
}

// FindByPhoneDigits matches a digits-only phone string against stored
// phones normalized in SQL.
func (r *Repository) FindByPhoneDigits(ctx context.Context, digits string) (*DuplicateCandidate, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, location
		FROM leads
		WHERE phone IS NOT NULL AND regexp_replace(phone, '\D', '', 'g') = $1
		LIMIT 1
	`, digits)
	return scanCandidate(row)
}

// FindByNameLocation matches leads whose normalized name contains the
// candidate name and whose location contains the candidate location.
func (r *Repository) FindByNameLocation(ctx context.Context, name, location string) (*DuplicateCandidate, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, location
		FROM leads
		WHERE regexp_replace(lower(trim(name)), '\s+', ' ', 'g') LIKE '%' || $1 || '%'
		  AND location ILIKE '%' || $2 || '%'
		LIMIT 1
	`, name, location)
	return scanCandidate(row)
}

// FetchAll returns the full duplicate-matching snapshot for batch mode.
func (r *Repository) FetchAll(ctx context.Context) ([]DuplicateCandidate, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, email, phone, location FROM leads`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]DuplicateCandidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	return candidates, rows.Err()
}
