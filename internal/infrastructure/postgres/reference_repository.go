package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/udeservering-api/internal/domain"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// ReferenceRepo escrituras sobre udeservering_parametre, udeservering_takster y
// udeservering_saesoner. Se usa dentro de TxRunner.RunReference.
type ReferenceRepo struct {
	q Querier
}

// NewReferenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReferenceRepository(q Querier) *ReferenceRepo {
	return &ReferenceRepo{q: q}
}

func (r *ReferenceRepo) UpsertParameter(ctx context.Context, p entity.Parameter) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO udeservering_parametre (aar, navn, vaerdi) VALUES ($1, $2, $3)
		ON CONFLICT (aar, navn) DO UPDATE SET vaerdi = EXCLUDED.vaerdi`,
		p.Year, p.Name, p.Value)
	if err != nil {
		return fmt.Errorf("upsert parametre: %w", err)
	}
	return nil
}

func (r *ReferenceRepo) DeleteParameter(ctx context.Context, year int, name string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM udeservering_parametre WHERE aar = $1 AND navn = $2`, year, name)
	if err != nil {
		return false, fmt.Errorf("delete parametre: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ReferenceRepo) UpsertZoneRate(ctx context.Context, z entity.ZoneRate) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO udeservering_takster (aar, zone, sommer_pris_m2, vinter_pris_m2, psp_element, materiale_nr)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		ON CONFLICT (aar, zone) DO UPDATE SET
			sommer_pris_m2 = EXCLUDED.sommer_pris_m2,
			vinter_pris_m2 = EXCLUDED.vinter_pris_m2,
			psp_element = EXCLUDED.psp_element,
			materiale_nr = EXCLUDED.materiale_nr`,
		z.Year, z.Zone, z.SummerPriceM2, z.WinterPriceM2, z.PSPElement, z.MaterialNumber)
	if err != nil {
		return fmt.Errorf("upsert takster: %w", err)
	}
	return nil
}

func (r *ReferenceRepo) DeleteZoneRate(ctx context.Context, year int, zone string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM udeservering_takster WHERE aar = $1 AND UPPER(zone) = $2`, year, zone)
	if err != nil {
		return false, fmt.Errorf("delete takster: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ReferenceRepo) UpsertSeason(ctx context.Context, s entity.MonthSeason) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO udeservering_saesoner (aar, maaned, saeson) VALUES ($1, $2, $3)
		ON CONFLICT (aar, maaned) DO UPDATE SET saeson = EXCLUDED.saeson`,
		s.Year, s.Month, s.Season)
	if err != nil {
		return fmt.Errorf("upsert saesoner: %w", err)
	}
	return nil
}

func (r *ReferenceRepo) DeleteSeason(ctx context.Context, year, month int) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM udeservering_saesoner WHERE aar = $1 AND maaned = $2`, year, month)
	if err != nil {
		return false, fmt.Errorf("delete saesoner: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// LatestYear MAX(aar) sobre las tres tablas.
func (r *ReferenceRepo) LatestYear(ctx context.Context) (int, bool, error) {
	var year *int
	err := r.q.QueryRow(ctx, `
		SELECT MAX(aar) FROM (
			SELECT aar FROM udeservering_parametre
			UNION ALL SELECT aar FROM udeservering_takster
			UNION ALL SELECT aar FROM udeservering_saesoner
		) t`).Scan(&year)
	if err != nil {
		return 0, false, fmt.Errorf("latest year: %w", err)
	}
	if year == nil {
		return 0, false, nil
	}
	return *year, true, nil
}

func (r *ReferenceRepo) HasYear(ctx context.Context, year int) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM udeservering_parametre WHERE aar = $1)
			OR EXISTS (SELECT 1 FROM udeservering_takster WHERE aar = $1)
			OR EXISTS (SELECT 1 FROM udeservering_saesoner WHERE aar = $1)`, year).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has year: %w", err)
	}
	return exists, nil
}

// CopyYear copia las filas de from a to. Una clave duplicada (otro proceso
// clonó en paralelo) se reporta como ErrConflict.
func (r *ReferenceRepo) CopyYear(ctx context.Context, from, to int) error {
	stmts := []struct{ name, sql string }{
		{"parametre", `
			INSERT INTO udeservering_parametre (aar, navn, vaerdi)
			SELECT $2, navn, vaerdi FROM udeservering_parametre WHERE aar = $1`},
		{"takster", `
			INSERT INTO udeservering_takster (aar, zone, sommer_pris_m2, vinter_pris_m2, psp_element, materiale_nr)
			SELECT $2, zone, sommer_pris_m2, vinter_pris_m2, psp_element, materiale_nr
			FROM udeservering_takster WHERE aar = $1`},
		{"saesoner", `
			INSERT INTO udeservering_saesoner (aar, maaned, saeson)
			SELECT $2, maaned, saeson FROM udeservering_saesoner WHERE aar = $1`},
	}
	for _, s := range stmts {
		if _, err := r.q.Exec(ctx, s.sql, from, to); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s %d ya existe", domain.ErrConflict, s.name, to)
			}
			return fmt.Errorf("copy %s %d->%d: %w", s.name, from, to, err)
		}
	}
	return nil
}
