package facility

import (
	"context"
	"fmt"

	"github.com/ehr/records/internal/platform/db"
)

// A facility is active when it accepts assignment.
const sqlListActive = `SELECT id, name, phone, fax, street, city, state, website, email
	FROM facility
	WHERE accepts_assignment = 1
	ORDER BY id`

const sqlGetActive = `SELECT id, name, phone, fax, street, city, state, website, email
	FROM facility
	WHERE accepts_assignment = 1 AND id = $1`

type repoPG struct {
	q db.Querier
}

func NewRepoPG(q db.Querier) Repository {
	return &repoPG{q: q}
}

func scanFacility(row db.Row) (*Facility, error) {
	var f Facility
	err := row.Scan(&f.ID, &f.Name, &f.Phone, &f.Fax, &f.Street, &f.City, &f.State, &f.Website, &f.Email)
	return &f, err
}

func (r *repoPG) ListActive(ctx context.Context) ([]*Facility, error) {
	rows, err := r.q.Query(ctx, sqlListActive)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	defer rows.Close()

	facilities := []*Facility{}
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, fmt.Errorf("scan facility: %w", err)
		}
		facilities = append(facilities, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	return facilities, nil
}

func (r *repoPG) GetActiveByID(ctx context.Context, id int64) (*Facility, error) {
	f, err := scanFacility(r.q.QueryRow(ctx, sqlGetActive, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("facility by id: %w", err)
	}
	return f, nil
}
