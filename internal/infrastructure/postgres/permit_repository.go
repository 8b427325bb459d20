package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

var _ repository.PermitRepository = (*PermitRepo)(nil)

// PermitRepo lectura de udeservering_ansoegninger.
type PermitRepo struct {
	q Querier
}

// NewPermitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPermitRepository(q Querier) *PermitRepo {
	return &PermitRepo{q: q}
}

// permitSortColumns traduce la clave de orden pública a la columna SQL.
var permitSortColumns = map[string]string{
	"ansoegningsdato": "ansoegningsdato",
	"firmanavn":       "firmanavn",
	"adresse":         "adresse",
	"zone":            "serveringszone",
	"areal":           "serveringsareal",
}

// Search devuelve los permisos que coinciden con la búsqueda libre sobre
// firma, dirección, CVR, zona y ubicación.
func (r *PermitRepo) Search(ctx context.Context, q repository.PermitQuery) ([]*entity.Permit, error) {
	col, ok := permitSortColumns[q.Sort]
	if !ok {
		col = "ansoegningsdato"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}

	query := `
		SELECT id, COALESCE(firmanavn, ''), COALESCE(adresse, ''), COALESCE(cvr, ''),
			COALESCE(serveringszone, ''), COALESCE(lokation, ''),
			COALESCE(serveringsareal, 0), COALESCE(facadelaengde, 0),
			COALESCE(periodetype, ''), COALESCE(indevaerende_maaneder, ''), COALESCE(fremtidige_maaneder, ''),
			aktiv_fra, aktiv_til, ansoegningsdato
		FROM udeservering_ansoegninger`
	var args []any
	if s := strings.TrimSpace(q.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		query += `
		WHERE firmanavn ILIKE $1 ESCAPE '\' OR adresse ILIKE $1 ESCAPE '\' OR cvr ILIKE $1 ESCAPE '\'
			OR serveringszone ILIKE $1 ESCAPE '\' OR lokation ILIKE $1 ESCAPE '\'`
	}
	query += fmt.Sprintf(` ORDER BY %s %s NULLS LAST, id %s`, col, dir, dir)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search ansoegninger: %w", err)
	}
	defer rows.Close()
	list := []*entity.Permit{}
	for rows.Next() {
		var p entity.Permit
		if err := rows.Scan(
			&p.ID, &p.CompanyName, &p.Address, &p.CVR,
			&p.Zone, &p.Location,
			&p.Area, &p.FacadeLength,
			&p.PeriodType, &p.CurrentMonths, &p.FutureMonths,
			&p.ActiveFrom, &p.ActiveTo, &p.ApplicationDate,
		); err != nil {
			return nil, fmt.Errorf("scan ansoegning: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
