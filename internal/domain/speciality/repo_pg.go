package speciality

import (
	"context"
	"fmt"

	"github.com/ehr/records/internal/platform/db"
)

const sqlListActive = `SELECT li.list_id, li.option_id, li.title, nom.id, nom.nombre
	FROM list_options li
	LEFT JOIN especialidades_web espe ON li.option_id = espe.id_especialidad
	LEFT JOIN nombre_especialidades nom ON espe.id_nombre_especialidad = nom.id
	WHERE li.list_id = 'especialidades' AND li.activity = 1
	ORDER BY li.option_id`

// Category type '0' marks patient appointment categories.
const sqlFirstOffering = `SELECT pc_catid, pc_catname, pc_catdesc, pc_duration, pc_cattype, pc_active, pc_especialidad
	FROM openemr_postcalendar_categories
	WHERE pc_cattype = '0' AND pc_active = 1 AND pc_especialidad = $1
	ORDER BY pc_catid
	LIMIT 1`

type repoPG struct {
	q db.Querier
}

func NewRepoPG(q db.Querier) Repository {
	return &repoPG{q: q}
}

func (r *repoPG) ListActive(ctx context.Context) ([]*Speciality, error) {
	rows, err := r.q.Query(ctx, sqlListActive)
	if err != nil {
		return nil, fmt.Errorf("list specialities: %w", err)
	}
	defer rows.Close()

	specialities := []*Speciality{}
	for rows.Next() {
		var s Speciality
		if err := rows.Scan(&s.ListID, &s.OptionID, &s.Title, &s.GroupID, &s.GroupName); err != nil {
			return nil, fmt.Errorf("scan speciality: %w", err)
		}
		specialities = append(specialities, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list specialities: %w", err)
	}
	return specialities, nil
}

func (r *repoPG) FirstOffering(ctx context.Context, specialityID int64) (*Offering, error) {
	var o Offering
	err := r.q.QueryRow(ctx, sqlFirstOffering, specialityID).Scan(
		&o.CategoryID, &o.Name, &o.Description, &o.Duration, &o.CategoryType, &o.Active, &o.SpecialityID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("speciality offering: %w", err)
	}
	return &o, nil
}
