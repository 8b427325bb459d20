package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

var _ repository.StatisticsRepository = (*StatisticsRepo)(nil)

// StatisticsRepo agregados de udeservering_fakturalinjer.
type StatisticsRepo struct {
	q Querier
}

// NewStatisticsRepository construye el adaptador.
func NewStatisticsRepository(q Querier) *StatisticsRepo {
	return &StatisticsRepo{q: q}
}

// CountByStatus líneas y suma de precios por estado (NULL = Ny).
func (r *StatisticsRepo) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(faktura_status, 'Ny') AS status, COUNT(*), COALESCE(SUM(pris), 0)
		FROM udeservering_fakturalinjer
		GROUP BY COALESCE(faktura_status, 'Ny')`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	var list []repository.StatusCount
	for rows.Next() {
		var c repository.StatusCount
		if err := rows.Scan(&c.Status, &c.Count, &c.Amount); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Totals número de líneas y de firmas distintas.
func (r *StatisticsRepo) Totals(ctx context.Context) (repository.LineTotals, error) {
	var t repository.LineTotals
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT firmanavn) FROM udeservering_fakturalinjer`).Scan(&t.Lines, &t.Companies)
	if err != nil {
		return t, fmt.Errorf("totals: %w", err)
	}
	return t, nil
}
