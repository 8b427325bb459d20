// Package statistics resume el estado del flujo de facturación.
package statistics

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

// Summary totales por estado. Statuses siempre trae los cuatro estados en orden
// de flujo; los valores heredados desconocidos van después, por nombre.
type Summary struct {
	Statuses  []repository.StatusCount
	Lines     int
	Companies int
	Amount    decimal.Decimal
}

// UseCase estadísticas de líneas de factura.
type UseCase struct {
	repo repository.StatisticsRepository
}

func NewUseCase(repo repository.StatisticsRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Summary agrega conteos e importes por estado y los totales globales.
func (uc *UseCase) Summary(ctx context.Context) (*Summary, error) {
	counts, err := uc.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := uc.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]repository.StatusCount, len(counts))
	for _, c := range counts {
		st := c.Status
		if st == "" {
			st = entity.LineStatusNew
		}
		acc := byStatus[st]
		acc.Count += c.Count
		acc.Amount = acc.Amount.Add(c.Amount)
		byStatus[st] = acc
	}

	s := &Summary{Lines: totals.Lines, Companies: totals.Companies, Amount: decimal.Zero}
	for _, st := range entity.LineStatuses {
		c := byStatus[st]
		c.Status = st
		s.Statuses = append(s.Statuses, c)
		s.Amount = s.Amount.Add(c.Amount)
		delete(byStatus, st)
	}
	legacy := make([]string, 0, len(byStatus))
	for st := range byStatus {
		legacy = append(legacy, st)
	}
	sort.Strings(legacy)
	for _, st := range legacy {
		c := byStatus[st]
		c.Status = st
		s.Statuses = append(s.Statuses, c)
		s.Amount = s.Amount.Add(c.Amount)
	}
	return s, nil
}
