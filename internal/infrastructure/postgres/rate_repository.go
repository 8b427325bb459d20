package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/pricing"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

var _ repository.RateRepository = (*RateRepo)(nil)

// RateRepo carga el RateSet de un año.
type RateRepo struct {
	db TxBeginner
}

// NewRateRepository construye el adaptador sobre el pool.
func NewRateRepository(db TxBeginner) *RateRepo {
	return &RateRepo{db: db}
}

// LoadRates lee las tres tablas en una única transacción de solo lectura
// REPEATABLE READ, de modo que todas ven la misma instantánea.
func (r *RateRepo) LoadRates(ctx context.Context, year int) (*pricing.RateSet, error) {
	var rs *pricing.RateSet
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := runTx(ctx, r.db, opts, func(tx pgx.Tx) error {
		params, err := loadParameters(ctx, tx, year)
		if err != nil {
			return err
		}
		zones, err := loadZoneRates(ctx, tx, year)
		if err != nil {
			return err
		}
		seasons, err := loadSeasons(ctx, tx, year)
		if err != nil {
			return err
		}
		rs = pricing.NewRateSet(year, params, zones, seasons)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load rates %d: %w", year, err)
	}
	return rs, nil
}

func loadParameters(ctx context.Context, q Querier, year int) ([]entity.Parameter, error) {
	rows, err := q.Query(ctx, `SELECT aar, navn, vaerdi FROM udeservering_parametre WHERE aar = $1`, year)
	if err != nil {
		return nil, fmt.Errorf("query parametre: %w", err)
	}
	defer rows.Close()
	var list []entity.Parameter
	for rows.Next() {
		var p entity.Parameter
		if err := rows.Scan(&p.Year, &p.Name, &p.Value); err != nil {
			return nil, fmt.Errorf("scan parametre: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func loadZoneRates(ctx context.Context, q Querier, year int) ([]entity.ZoneRate, error) {
	rows, err := q.Query(ctx, `
		SELECT aar, zone, sommer_pris_m2, vinter_pris_m2, COALESCE(psp_element, ''), COALESCE(materiale_nr, '')
		FROM udeservering_takster WHERE aar = $1`, year)
	if err != nil {
		return nil, fmt.Errorf("query takster: %w", err)
	}
	defer rows.Close()
	var list []entity.ZoneRate
	for rows.Next() {
		var z entity.ZoneRate
		if err := rows.Scan(&z.Year, &z.Zone, &z.SummerPriceM2, &z.WinterPriceM2, &z.PSPElement, &z.MaterialNumber); err != nil {
			return nil, fmt.Errorf("scan takster: %w", err)
		}
		list = append(list, z)
	}
	return list, rows.Err()
}

func loadSeasons(ctx context.Context, q Querier, year int) ([]entity.MonthSeason, error) {
	rows, err := q.Query(ctx, `SELECT aar, maaned, saeson FROM udeservering_saesoner WHERE aar = $1`, year)
	if err != nil {
		return nil, fmt.Errorf("query saesoner: %w", err)
	}
	defer rows.Close()
	var list []entity.MonthSeason
	for rows.Next() {
		var s entity.MonthSeason
		if err := rows.Scan(&s.Year, &s.Month, &s.Season); err != nil {
			return nil, fmt.Errorf("scan saesoner: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
