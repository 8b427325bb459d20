package rates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/udeservering-api/internal/application/rates"
	"github.com/jhoicas/udeservering-api/internal/domain"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/pricing"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

// memRef almacén de referencia en memoria que implementa ambos puertos.
type memRef struct {
	params  map[int]map[string]string
	zones   map[int]map[string]entity.ZoneRate
	seasons map[int]map[int]string
	failTx  error
}

func newMemRef() *memRef {
	return &memRef{
		params:  map[int]map[string]string{},
		zones:   map[int]map[string]entity.ZoneRate{},
		seasons: map[int]map[int]string{},
	}
}

func (m *memRef) RunReference(ctx context.Context, fn func(repo repository.ReferenceRepository) error) error {
	if m.failTx != nil {
		return m.failTx
	}
	return fn(m)
}

func (m *memRef) LoadRates(ctx context.Context, year int) (*pricing.RateSet, error) {
	var ps []entity.Parameter
	for n, v := range m.params[year] {
		ps = append(ps, entity.Parameter{Year: year, Name: n, Value: v})
	}
	var zs []entity.ZoneRate
	for _, z := range m.zones[year] {
		zs = append(zs, z)
	}
	var ss []entity.MonthSeason
	for mo, s := range m.seasons[year] {
		ss = append(ss, entity.MonthSeason{Year: year, Month: mo, Season: s})
	}
	return pricing.NewRateSet(year, ps, zs, ss), nil
}

func (m *memRef) UpsertParameter(ctx context.Context, p entity.Parameter) error {
	if m.params[p.Year] == nil {
		m.params[p.Year] = map[string]string{}
	}
	m.params[p.Year][p.Name] = p.Value
	return nil
}

func (m *memRef) DeleteParameter(ctx context.Context, year int, name string) (bool, error) {
	_, ok := m.params[year][name]
	delete(m.params[year], name)
	return ok, nil
}

func (m *memRef) UpsertZoneRate(ctx context.Context, z entity.ZoneRate) error {
	if m.zones[z.Year] == nil {
		m.zones[z.Year] = map[string]entity.ZoneRate{}
	}
	m.zones[z.Year][z.Zone] = z
	return nil
}

func (m *memRef) DeleteZoneRate(ctx context.Context, year int, zone string) (bool, error) {
	_, ok := m.zones[year][zone]
	delete(m.zones[year], zone)
	return ok, nil
}

func (m *memRef) UpsertSeason(ctx context.Context, s entity.MonthSeason) error {
	if m.seasons[s.Year] == nil {
		m.seasons[s.Year] = map[int]string{}
	}
	m.seasons[s.Year][s.Month] = s.Season
	return nil
}

func (m *memRef) DeleteSeason(ctx context.Context, year, month int) (bool, error) {
	_, ok := m.seasons[year][month]
	delete(m.seasons[year], month)
	return ok, nil
}

func (m *memRef) LatestYear(ctx context.Context) (int, bool, error) {
	latest := 0
	for _, years := range []map[int]bool{keys(m.params), keys(m.zones), keys(m.seasons)} {
		for y := range years {
			if y > latest {
				latest = y
			}
		}
	}
	return latest, latest > 0, nil
}

func (m *memRef) HasYear(ctx context.Context, year int) (bool, error) {
	return len(m.params[year]) > 0 || len(m.zones[year]) > 0 || len(m.seasons[year]) > 0, nil
}

func (m *memRef) CopyYear(ctx context.Context, from, to int) error {
	for n, v := range m.params[from] {
		_ = m.UpsertParameter(ctx, entity.Parameter{Year: to, Name: n, Value: v})
	}
	for _, z := range m.zones[from] {
		z.Year = to
		_ = m.UpsertZoneRate(ctx, z)
	}
	for mo, s := range m.seasons[from] {
		_ = m.UpsertSeason(ctx, entity.MonthSeason{Year: to, Month: mo, Season: s})
	}
	return nil
}

func keys[V any](m map[int]V) map[int]bool {
	out := make(map[int]bool, len(m))
	for k, v := range m {
		switch x := any(v).(type) {
		case map[string]string:
			if len(x) == 0 {
				continue
			}
		case map[string]entity.ZoneRate:
			if len(x) == 0 {
				continue
			}
		case map[int]string:
			if len(x) == 0 {
				continue
			}
		}
		out[k] = true
	}
	return out
}

func newReferenceService(t *testing.T) (*rates.ReferenceService, *rates.RateCache, *memRef) {
	t.Helper()
	store := newMemRef()
	cache, err := rates.NewRateCache(store, 10, zerolog.Nop())
	require.NoError(t, err)
	return rates.NewReferenceService(store, cache, zerolog.Nop()), cache, store
}

func TestReferenceService_EscrituraInvalidaElAño(t *testing.T) {
	svc, _, _ := newReferenceService(t)
	ctx := context.Background()

	require.NoError(t, svc.UpsertZoneRate(ctx, entity.ZoneRate{
		Year: 2025, Zone: "is1", SummerPriceM2: decimal.NewFromInt(450), WinterPriceM2: decimal.NewFromInt(300),
	}))
	rs, err := svc.GetReference(ctx, 2025)
	require.NoError(t, err)
	z, ok := rs.ZoneRate("IS1")
	require.True(t, ok)
	assert.Equal(t, "IS1", z.Zone)

	require.NoError(t, svc.UpsertZoneRate(ctx, entity.ZoneRate{
		Year: 2025, Zone: "IS1", SummerPriceM2: decimal.NewFromInt(500), WinterPriceM2: decimal.NewFromInt(300),
	}))
	rs, err = svc.GetReference(ctx, 2025)
	require.NoError(t, err)
	z, _ = rs.ZoneRate("IS1")
	assert.True(t, z.SummerPriceM2.Equal(decimal.NewFromInt(500)))

	res := pricing.Price(rs, pricing.Input{Zone: "is1", Location: "Andet", Area: decimal.NewFromInt(2), Month: 1, Year: 2025})
	require.True(t, res.OK)
	assert.Equal(t, "600", res.Amount.String())
}

func TestReferenceService_TransaccionFallidaTambienInvalida(t *testing.T) {
	svc, cache, store := newReferenceService(t)
	ctx := context.Background()
	require.NoError(t, svc.UpsertParameter(ctx, entity.Parameter{Year: 2025, Name: entity.ParamMinimumAmount, Value: "250"}))
	_, err := cache.Get(ctx, 2025)
	require.NoError(t, err)
	before := cache.Stats().Misses

	store.failTx = errors.New("tx abortada")
	err = svc.UpsertParameter(ctx, entity.Parameter{Year: 2025, Name: entity.ParamMinimumAmount, Value: "300"})
	require.Error(t, err)

	store.failTx = nil
	_, err = cache.Get(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, before+1, cache.Stats().Misses)
}

func TestReferenceService_Validacion(t *testing.T) {
	svc, _, _ := newReferenceService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		call func() error
	}{
		{"parámetro sin nombre", func() error {
			return svc.UpsertParameter(ctx, entity.Parameter{Year: 2025, Name: " "})
		}},
		{"zona vacía", func() error {
			return svc.UpsertZoneRate(ctx, entity.ZoneRate{Year: 2025})
		}},
		{"precio negativo", func() error {
			return svc.UpsertZoneRate(ctx, entity.ZoneRate{Year: 2025, Zone: "IS1", SummerPriceM2: decimal.NewFromInt(-1)})
		}},
		{"mes 13", func() error {
			return svc.UpsertSeason(ctx, entity.MonthSeason{Year: 2025, Month: 13, Season: "Sommer"})
		}},
		{"temporada desconocida", func() error {
			return svc.UpsertSeason(ctx, entity.MonthSeason{Year: 2025, Month: 5, Season: "Forår"})
		}},
		{"año cero", func() error {
			_, err := svc.GetReference(ctx, 0)
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestReferenceService_TemporadaNormalizada(t *testing.T) {
	svc, _, store := newReferenceService(t)
	require.NoError(t, svc.UpsertSeason(context.Background(), entity.MonthSeason{Year: 2025, Month: 6, Season: " sommer "}))
	assert.Equal(t, entity.SeasonSummer, store.seasons[2025][6])
}

func TestReferenceService_DeleteInexistente(t *testing.T) {
	svc, _, _ := newReferenceService(t)
	ctx := context.Background()
	assert.ErrorIs(t, svc.DeleteParameter(ctx, 2025, "Findes ikke"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteZoneRate(ctx, 2025, "IS9"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteSeason(ctx, 2025, 3), domain.ErrNotFound)
}

func TestReferenceService_CloneYear(t *testing.T) {
	svc, _, store := newReferenceService(t)
	ctx := context.Background()

	_, err := svc.CloneYear(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.UpsertParameter(ctx, entity.Parameter{Year: 2025, Name: entity.ParamFacadeWidth, Value: "0,8"}))
	require.NoError(t, svc.UpsertZoneRate(ctx, entity.ZoneRate{
		Year: 2025, Zone: "IS1", SummerPriceM2: decimal.NewFromInt(450), WinterPriceM2: decimal.NewFromInt(300), PSPElement: "XG-1",
	}))
	require.NoError(t, svc.UpsertSeason(ctx, entity.MonthSeason{Year: 2025, Month: 7, Season: entity.SeasonSummer}))

	// 2026 en caché (vacío) antes de clonar: debe recargarse después.
	rs, err := svc.GetReference(ctx, 2026)
	require.NoError(t, err)
	assert.Empty(t, rs.ZoneRates())

	year, err := svc.CloneYear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2026, year)
	assert.Equal(t, "0,8", store.params[2026][entity.ParamFacadeWidth])
	assert.Equal(t, "XG-1", store.zones[2026]["IS1"].PSPElement)

	rs, err = svc.GetReference(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, rs.ZoneRates(), 1)
	season, ok := rs.Season(7)
	assert.True(t, ok)
	assert.Equal(t, entity.SeasonSummer, season)

	latest, err := svc.LatestYear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2026, latest)

}

func TestReferenceService_CloneYearConflicto(t *testing.T) {
	svc, _, store := newReferenceService(t)
	ctx := context.Background()
	require.NoError(t, svc.UpsertParameter(ctx, entity.Parameter{Year: 2025, Name: "a", Value: "1"}))

	tx := &conflictTx{memRef: store}
	conflicting := rates.NewReferenceService(tx, mustCache(t, store), zerolog.Nop())
	_, err := conflicting.CloneYear(ctx)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, store.params[2026])
}

// conflictTx informa que el año siguiente ya tiene datos.
type conflictTx struct{ *memRef }

func (c *conflictTx) RunReference(ctx context.Context, fn func(repo repository.ReferenceRepository) error) error {
	return fn(c)
}

func (c *conflictTx) HasYear(ctx context.Context, year int) (bool, error) { return true, nil }

func mustCache(t *testing.T, repo *memRef) *rates.RateCache {
	t.Helper()
	c, err := rates.NewRateCache(repo, 10, zerolog.Nop())
	require.NoError(t, err)
	return c
}
