package patient

import (
	"context"
	"fmt"

	"github.com/ehr/records/internal/platform/db"
)

const patientCols = `pd.id, pd.ss, pd.fname, pd.lname, pd.mname, pd.street,
	substr(pd.sex, 1, 1), to_char(pd.DOB, 'YYYY-MM-DD'), pd.prevision,
	pd.phone_cell, pd.phone_home, pd.email, pd.state, pd.city,
	pd.country_code, pd.occupation, pd.passport`

const patientFrom = "patient_data pd"

type repoPG struct {
	q db.Querier
}

func NewRepoPG(q db.Querier) Repository {
	return &repoPG{q: q}
}

func scanPatient(row db.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.RUT, &p.FirstName, &p.PaternalName, &p.MaternalName, &p.Address,
		&p.Sex, &p.BirthDate, &p.HealthInsurance,
		&p.CellPhone, &p.HomePhone, &p.Email, &p.CommuneID, &p.RegionID,
		&p.CountryCode, &p.Occupation, &p.Passport)
	return &p, err
}

func (r *repoPG) GetByRUT(ctx context.Context, rut string) (*Patient, error) {
	p, err := scanPatient(r.q.QueryRow(ctx,
		"SELECT "+patientCols+" FROM "+patientFrom+" WHERE pd.ss = $1 LIMIT 1", rut))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("patient by rut: %w", err)
	}
	return p, nil
}

func (r *repoPG) Search(ctx context.Context, c Criteria, limit, offset int) ([]*Patient, error) {
	qb := db.NewSearchQuery(patientFrom, patientCols)
	if c.RUT != "" {
		qb.Equal("pd.ss", c.RUT)
	}
	if c.FirstName != "" {
		qb.Contains(c.FirstName, "pd.fname")
	}
	if c.LastName != "" {
		qb.Contains(c.LastName, "pd.lname", "pd.mname")
	}
	if c.BirthDate != nil {
		qb.Equal("pd.DOB", *c.BirthDate)
	}
	if c.Email != "" {
		qb.Contains(c.Email, "pd.email")
	}
	if c.Phone != "" {
		qb.Contains(c.Phone, "pd.phone_cell", "pd.phone_home")
	}
	if qb.Empty() {
		return nil, ErrNoCriteria
	}
	qb.OrderBy("pd.id")

	rows, err := r.q.Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("patient search: %w", err)
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("patient search scan: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("patient search: %w", err)
	}
	return patients, nil
}
