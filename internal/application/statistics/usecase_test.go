package statistics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/udeservering-api/internal/application/statistics"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

type stubStats struct {
	counts []repository.StatusCount
	totals repository.LineTotals
	err    error
}

func (s stubStats) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	return s.counts, s.err
}

func (s stubStats) Totals(ctx context.Context) (repository.LineTotals, error) {
	return s.totals, nil
}

func TestSummary_SiempreCuatroEstados(t *testing.T) {
	uc := statistics.NewUseCase(stubStats{
		counts: []repository.StatusCount{
			{Status: entity.LineStatusToInvoice, Count: 3, Amount: decimal.RequireFromString("1200.50")},
			{Status: "", Count: 1, Amount: decimal.Zero},
			{Status: entity.LineStatusNew, Count: 2, Amount: decimal.Zero},
		},
		totals: repository.LineTotals{Lines: 6, Companies: 4},
	})

	s, err := uc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, s.Statuses, 4)
	assert.Equal(t, entity.LineStatusNew, s.Statuses[0].Status)
	assert.Equal(t, 3, s.Statuses[0].Count)
	assert.Equal(t, 3, s.Statuses[1].Count)
	assert.Equal(t, 0, s.Statuses[2].Count)
	assert.Equal(t, entity.LineStatusDoNotInvoice, s.Statuses[3].Status)
	assert.Equal(t, 6, s.Lines)
	assert.Equal(t, 4, s.Companies)
	assert.Equal(t, "1200.5", s.Amount.String())
}

func TestSummary_EstadosHeredadosSeConservan(t *testing.T) {
	uc := statistics.NewUseCase(stubStats{
		counts: []repository.StatusCount{
			{Status: entity.LineStatusInvoiced, Count: 1, Amount: decimal.RequireFromString("100")},
			{Status: "Sendt", Count: 2, Amount: decimal.RequireFromString("50")},
			{Status: "Annulleret", Count: 1, Amount: decimal.RequireFromString("25")},
		},
		totals: repository.LineTotals{Lines: 4, Companies: 2},
	})

	s, err := uc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, s.Statuses, 6)
	assert.Equal(t, "Annulleret", s.Statuses[4].Status)
	assert.Equal(t, "Sendt", s.Statuses[5].Status)
	assert.Equal(t, 2, s.Statuses[5].Count)

	lines := 0
	for _, st := range s.Statuses {
		lines += st.Count
	}
	assert.Equal(t, s.Lines, lines)
	assert.Equal(t, "175", s.Amount.String())
}

func TestSummary_Error(t *testing.T) {
	_, err := statistics.NewUseCase(stubStats{err: errors.New("x")}).Summary(context.Background())
	assert.Error(t, err)
}
