package rates_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/udeservering-api/internal/application/rates"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/pricing"
)

// fakeRateRepo devuelve un RateSet cuya tarifa de verano IS1 es price[year].
type fakeRateRepo struct {
	mu    sync.Mutex
	price map[int]string
	loads atomic.Int32
	err   error
	gate  chan struct{} // si no es nil, LoadRates espera a que se cierre
}

func newFakeRateRepo() *fakeRateRepo {
	return &fakeRateRepo{price: map[int]string{}}
}

func (f *fakeRateRepo) set(year int, price string) {
	f.mu.Lock()
	f.price[year] = price
	f.mu.Unlock()
}

func (f *fakeRateRepo) LoadRates(ctx context.Context, year int) (*pricing.RateSet, error) {
	f.mu.Lock()
	p, ok := f.price[year]
	gate := f.gate
	err := f.err
	f.mu.Unlock()
	f.loads.Add(1)
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	var zones []entity.ZoneRate
	if ok {
		zones = append(zones, entity.ZoneRate{
			Year: year, Zone: "IS1",
			SummerPriceM2: decimal.RequireFromString(p), WinterPriceM2: decimal.RequireFromString("300"),
		})
	}
	return pricing.NewRateSet(year, nil, zones, nil), nil
}

func summerPrice(t *testing.T, rs *pricing.RateSet) string {
	t.Helper()
	z, ok := rs.ZoneRate("IS1")
	require.True(t, ok)
	return z.SummerPriceM2.String()
}

func TestRateCache_GetMemoriza(t *testing.T) {
	repo := newFakeRateRepo()
	repo.set(2025, "450")
	c, err := rates.NewRateCache(repo, 0, zerolog.Nop())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		rs, err := c.Get(context.Background(), 2025)
		require.NoError(t, err)
		assert.Equal(t, "450", summerPrice(t, rs))
	}
	assert.Equal(t, int32(1), repo.loads.Load())

	st := c.Stats()
	assert.Equal(t, 1, st.Years)
	assert.Equal(t, uint64(2), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
}

func TestRateCache_InvalidateSoloAfectaAlAño(t *testing.T) {
	repo := newFakeRateRepo()
	repo.set(2024, "400")
	repo.set(2025, "450")
	c, err := rates.NewRateCache(repo, 10, zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Get(ctx, 2024)
	require.NoError(t, err)
	_, err = c.Get(ctx, 2025)
	require.NoError(t, err)

	repo.set(2024, "999")
	repo.set(2025, "500")
	c.Invalidate(2025)

	rs, err := c.Get(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, "500", summerPrice(t, rs))

	rs, err = c.Get(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, "400", summerPrice(t, rs), "2024 sigue en caché")
}

func TestRateCache_InvalidateAll(t *testing.T) {
	repo := newFakeRateRepo()
	repo.set(2024, "400")
	c, err := rates.NewRateCache(repo, 10, zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Get(ctx, 2024)
	require.NoError(t, err)
	repo.set(2024, "410")
	c.InvalidateAll()

	rs, err := c.Get(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, "410", summerPrice(t, rs))
	assert.Equal(t, int32(2), repo.loads.Load())
}

func TestRateCache_ErrorNoSeCachea(t *testing.T) {
	repo := newFakeRateRepo()
	repo.set(2025, "450")
	repo.err = errors.New("conexión rechazada")
	c, err := rates.NewRateCache(repo, 10, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.Get(context.Background(), 2025)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conexión rechazada")

	repo.mu.Lock()
	repo.err = nil
	repo.mu.Unlock()
	rs, err := c.Get(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, "450", summerPrice(t, rs))
}

func TestRateCache_CargasConcurrentesSeAgrupan(t *testing.T) {
	repo := newFakeRateRepo()
	repo.set(2025, "450")
	gate := make(chan struct{})
	repo.gate = gate
	c, err := rates.NewRateCache(repo, 10, zerolog.Nop())
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(context.Background(), 2025)
			errs <- err
		}()
	}
	require.Eventually(t, func() bool { return repo.loads.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), repo.loads.Load())
}

// Cancelar al llamador que inició la carga no afecta a los que esperan el mismo año.
func TestRateCache_CancelacionDeUnLlamadorNoAfectaALosDemas(t *testing.T) {
	repo := newFakeRateRepo()
	repo.set(2025, "450")
	gate := make(chan struct{})
	repo.gate = gate
	c, err := rates.NewRateCache(repo, 10, zerolog.Nop())
	require.NoError(t, err)

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	errA := make(chan error, 1)
	go func() {
		_, err := c.Get(ctxA, 2025)
		errA <- err
	}()
	require.Eventually(t, func() bool { return repo.loads.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		price string
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		rs, err := c.Get(context.Background(), 2025)
		if err != nil {
			resB <- result{err: err}
			return
		}
		z, _ := rs.ZoneRate("IS1")
		resB <- result{price: z.SummerPriceM2.String()}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("el llamador cancelado sigue esperando")
	}

	close(gate)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, "450", b.price)
	assert.Equal(t, int32(1), repo.loads.Load())

	_, err = c.Get(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, int32(1), repo.loads.Load(), "la carga compartida quedó en caché")
}

// Una carga iniciada antes de una invalidación no debe quedar en caché.
func TestRateCache_CargaEnCursoNoSobreviveInvalidacion(t *testing.T) {
	repo := newFakeRateRepo()
	repo.set(2025, "450")
	gate := make(chan struct{})
	repo.gate = gate
	c, err := rates.NewRateCache(repo, 10, zerolog.Nop())
	require.NoError(t, err)

	done := make(chan string, 1)
	go func() {
		rs, err := c.Get(context.Background(), 2025)
		if err != nil {
			done <- err.Error()
			return
		}
		z, _ := rs.ZoneRate("IS1")
		done <- z.SummerPriceM2.String()
	}()
	require.Eventually(t, func() bool { return repo.loads.Load() == 1 }, time.Second, time.Millisecond)

	repo.set(2025, "500")
	c.Invalidate(2025)
	repo.mu.Lock()
	repo.gate = nil
	repo.mu.Unlock()
	close(gate)
	assert.Equal(t, "450", <-done)

	rs, err := c.Get(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, "500", summerPrice(t, rs))
	assert.Equal(t, int32(2), repo.loads.Load())
}
