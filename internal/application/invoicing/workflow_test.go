package invoicing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/udeservering-api/internal/application/invoicing"
	"github.com/jhoicas/udeservering-api/internal/domain"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	engine "github.com/jhoicas/udeservering-api/internal/domain/pricing"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

// memLines repositorio en memoria; RunInvoicing restaura el estado si fn falla.
type memLines struct {
	mu      sync.Mutex
	rows    map[int64]entity.InvoiceLine
	locked  []int64
	failGet error
}

func newMemLines(lines ...entity.InvoiceLine) *memLines {
	m := &memLines{rows: map[int64]entity.InvoiceLine{}}
	for _, l := range lines {
		m.rows[l.ID] = l
	}
	return m
}

func (m *memLines) RunInvoicing(ctx context.Context, fn func(lines repository.InvoiceLineRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make(map[int64]entity.InvoiceLine, len(m.rows))
	for k, v := range m.rows {
		snapshot[k] = v
	}
	if err := fn(m); err != nil {
		m.rows = snapshot
		return err
	}
	return nil
}

func (m *memLines) get(id int64) (*entity.InvoiceLine, error) {
	if m.failGet != nil {
		return nil, m.failGet
	}
	l, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (m *memLines) GetByID(ctx context.Context, id int64) (*entity.InvoiceLine, error) {
	return m.get(id)
}

func (m *memLines) GetForUpdate(ctx context.Context, id int64) (*entity.InvoiceLine, error) {
	m.locked = append(m.locked, id)
	return m.get(id)
}

func (m *memLines) ListByStatus(ctx context.Context, status string) ([]*entity.InvoiceLine, error) {
	var out []*entity.InvoiceLine
	for _, l := range m.rows {
		if l.Status == status {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

func (m *memLines) UpdateEditable(ctx context.Context, id int64, edits entity.InvoiceLineEdits, status string) error {
	l := m.rows[id]
	edits.ApplyTo(&l)
	l.Status = status
	m.rows[id] = l
	return nil
}

func (m *memLines) Approve(ctx context.Context, id int64, price *decimal.Decimal) (bool, error) {
	l := m.rows[id]
	if l.IsFrozen() {
		return false, nil
	}
	l.Status = entity.LineStatusToInvoice
	l.Price = price
	m.rows[id] = l
	return true, nil
}

func (m *memLines) SetStatus(ctx context.Context, id int64, status string) error {
	l := m.rows[id]
	l.Status = status
	m.rows[id] = l
	return nil
}

func (m *memLines) Delete(ctx context.Context, id int64) (bool, error) {
	_, ok := m.rows[id]
	delete(m.rows, id)
	return ok, nil
}

type enginePricer struct {
	rs  *engine.RateSet
	err error
}

func (p enginePricer) Price(ctx context.Context, in engine.Input) (engine.Result, error) {
	if err := in.Validate(); err != nil {
		return engine.Result{}, err
	}
	if p.err != nil {
		return engine.Result{}, p.err
	}
	return engine.Price(p.rs, in), nil
}

type recorder struct {
	events []invoicing.LineApproved
	err    error
}

func (r *recorder) PublishLineApproved(ctx context.Context, ev invoicing.LineApproved) error {
	r.events = append(r.events, ev)
	return r.err
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rates() *engine.RateSet {
	return engine.NewRateSet(2025, nil,
		[]entity.ZoneRate{{Year: 2025, Zone: "IS1", SummerPriceM2: d("450"), WinterPriceM2: d("300")}},
		[]entity.MonthSeason{{Year: 2025, Month: 7, Season: entity.SeasonSummer}},
	)
}

func line(id int64, status string) entity.InvoiceLine {
	return entity.InvoiceLine{
		ID: id, PermitID: 10 + id, CompanyName: "Café Aarhus", Zone: "IS1", Location: "Andet",
		Area: d("2"), FacadeLength: d("0"), BillingMonth: "Juli", BillingYear: 2025, Status: status,
	}
}

func newWorkflow(store *memLines, events *recorder) *invoicing.Workflow {
	var pub invoicing.EventPublisher
	if events != nil {
		pub = events
	}
	return invoicing.NewWorkflow(store, store, enginePricer{rs: rates()}, pub, zerolog.Nop())
}

func TestApplyTransition_GodkendPriceaYCongela(t *testing.T) {
	store := newMemLines(line(1, entity.LineStatusNew))
	events := &recorder{}
	wf := newWorkflow(store, events)

	out, err := wf.ApplyTransition(context.Background(), 1, "godkend", entity.InvoiceLineEdits{})
	require.NoError(t, err)
	assert.False(t, out.Skipped)
	assert.Equal(t, entity.LineStatusToInvoice, out.Line.Status)
	require.NotNil(t, out.Line.Price)
	assert.Equal(t, "900", out.Line.Price.String())
	assert.Equal(t, []int64{1}, store.locked)

	require.Len(t, events.events, 1)
	assert.Equal(t, int64(1), events.events[0].LineID)
	assert.Equal(t, int64(11), events.events[0].PermitID)

	// Segunda aprobación: la línea congelada no se recalcula aunque cambien las tarifas.
	wf2 := invoicing.NewWorkflow(store, store, enginePricer{rs: engine.NewRateSet(2025, nil, nil, nil)}, events, zerolog.Nop())
	out, err = wf2.ApplyTransition(context.Background(), 1, "godkend", entity.InvoiceLineEdits{})
	require.NoError(t, err)
	assert.True(t, out.Skipped)
	assert.Equal(t, "900", store.rows[1].Price.String())
	assert.Len(t, events.events, 1)
}

func TestApplyTransition_GodkendConEdiciones(t *testing.T) {
	store := newMemLines(line(1, entity.LineStatusNew))
	wf := newWorkflow(store, nil)
	area := d("10")
	facade := d("5")
	loc := entity.LocationAtFacade

	out, err := wf.ApplyTransition(context.Background(), 1, "GODKEND", entity.InvoiceLineEdits{Area: &area, FacadeLength: &facade, Location: &loc})
	require.NoError(t, err)
	assert.Equal(t, "2700", out.Line.Price.String())
	assert.Equal(t, entity.LocationAtFacade, store.rows[1].Location)
}

func TestApplyTransition_GodkendSinTarifaGuardaNull(t *testing.T) {
	l := line(1, entity.LineStatusNew)
	l.Zone = "ZZ"
	store := newMemLines(l)
	events := &recorder{err: errors.New("broker caído")}
	wf := newWorkflow(store, events)

	out, err := wf.ApplyTransition(context.Background(), 1, "godkend", entity.InvoiceLineEdits{})
	require.NoError(t, err, "los fallos de publicación no son fatales")
	assert.Equal(t, entity.LineStatusToInvoice, out.Line.Status)
	assert.Nil(t, out.Line.Price)
	assert.Contains(t, out.PriceReason, "zone rate not found")
	assert.Nil(t, store.rows[1].Price)
}

func TestApplyTransition_GodkendMesDesconocido(t *testing.T) {
	l := line(1, entity.LineStatusNew)
	l.BillingMonth = "Juillet"
	store := newMemLines(l)
	out, err := newWorkflow(store, nil).ApplyTransition(context.Background(), 1, "godkend", entity.InvoiceLineEdits{})
	require.NoError(t, err)
	assert.Nil(t, out.Line.Price)
	assert.Equal(t, entity.LineStatusToInvoice, store.rows[1].Status)
}

func TestApplyTransition_ErrorDelAlmacenEsFatal(t *testing.T) {
	store := newMemLines(line(1, entity.LineStatusNew))
	wf := invoicing.NewWorkflow(store, store, enginePricer{err: errors.New("sin conexión")}, nil, zerolog.Nop())

	_, err := wf.ApplyTransition(context.Background(), 1, "godkend", entity.InvoiceLineEdits{})
	require.Error(t, err)
	assert.Equal(t, entity.LineStatusNew, store.rows[1].Status)
}

func TestApplyTransition_FakturerIkkeEsAbsorbente(t *testing.T) {
	store := newMemLines(line(1, entity.LineStatusDoNotInvoice))
	wf := newWorkflow(store, nil)
	for _, action := range []string{"godkend", "save", "ikke"} {
		_, err := wf.ApplyTransition(context.Background(), 1, action, entity.InvoiceLineEdits{})
		assert.ErrorIs(t, err, domain.ErrConflict, action)
	}
}

func TestApplyTransition_SaveEIkke(t *testing.T) {
	store := newMemLines(line(1, entity.LineStatusNew), line(2, entity.LineStatusNew))
	wf := newWorkflow(store, nil)
	comment := "flyttet"
	area := d("3.5")

	out, err := wf.ApplyTransition(context.Background(), 1, "save", entity.InvoiceLineEdits{Area: &area, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, entity.LineStatusNew, out.Line.Status)
	assert.Nil(t, out.Line.Price)
	assert.Equal(t, "3.5", store.rows[1].Area.String())
	assert.Equal(t, "flyttet", store.rows[1].Comment)

	out, err = wf.ApplyTransition(context.Background(), 2, "ikke", entity.InvoiceLineEdits{})
	require.NoError(t, err)
	assert.Equal(t, entity.LineStatusDoNotInvoice, out.Line.Status)
	assert.Nil(t, store.rows[2].Price)
}

func TestApplyTransition_Validacion(t *testing.T) {
	store := newMemLines(line(1, entity.LineStatusNew))
	wf := newWorkflow(store, nil)
	neg := d("-1")

	_, err := wf.ApplyTransition(context.Background(), 1, "slet", entity.InvoiceLineEdits{})
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
	_, err = wf.ApplyTransition(context.Background(), 0, "save", entity.InvoiceLineEdits{})
	assert.ErrorIs(t, err, domain.ErrMissingID)
	_, err = wf.ApplyTransition(context.Background(), 1, "save", entity.InvoiceLineEdits{Area: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = wf.ApplyTransition(context.Background(), 99, "save", entity.InvoiceLineEdits{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []int64{99}, store.locked, "la validación no accede al almacén")
}

func TestApproveBulk(t *testing.T) {
	store := newMemLines(
		line(1, entity.LineStatusNew),
		line(2, entity.LineStatusToInvoice),
		line(3, entity.LineStatusDoNotInvoice),
	)
	zz := line(4, entity.LineStatusNew)
	zz.Zone = "ZZ"
	store.rows[4] = zz
	events := &recorder{}
	wf := newWorkflow(store, events)

	items, err := wf.ApproveBulk(context.Background(), []int64{1, 2, 3, 4, 5, 1})
	require.NoError(t, err)
	require.Len(t, items, 5)

	assert.Equal(t, entity.LineStatusToInvoice, items[0].Status)
	assert.Equal(t, "900", items[0].Price.String())
	assert.True(t, items[1].Skipped)
	assert.Contains(t, items[2].Error, "conflicto")
	assert.Equal(t, entity.LineStatusToInvoice, items[3].Status)
	assert.Nil(t, items[3].Price)
	assert.Contains(t, items[4].Error, "no encontrado")

	assert.Len(t, events.events, 2)
}

func TestApproveBulk_ErrorDelAlmacenDetiene(t *testing.T) {
	store := newMemLines(line(1, entity.LineStatusNew), line(2, entity.LineStatusNew))
	store.failGet = errors.New("sin conexión")
	_, err := newWorkflow(store, nil).ApproveBulk(context.Background(), []int64{1, 2})
	require.Error(t, err)

	_, err = newWorkflow(store, nil).ApproveBulk(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReset(t *testing.T) {
	store := newMemLines(
		line(1, entity.LineStatusToInvoice),
		line(2, entity.LineStatusInvoiced),
		line(3, entity.LineStatusDoNotInvoice),
	)
	wf := newWorkflow(store, nil)

	require.NoError(t, wf.Reset(context.Background(), 1))
	assert.NotContains(t, store.rows, int64(1))
	assert.ErrorIs(t, wf.Reset(context.Background(), 2), domain.ErrConflict)
	assert.ErrorIs(t, wf.Reset(context.Background(), 1), domain.ErrNotFound)

	items, err := wf.ResetBulk(context.Background(), []int64{2, 3})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].Skipped)
	assert.Empty(t, items[1].Error)
	assert.Contains(t, store.rows, int64(2))
	assert.NotContains(t, store.rows, int64(3))
}

func TestListByStatus(t *testing.T) {
	store := newMemLines(line(1, entity.LineStatusToInvoice), line(2, entity.LineStatusNew))
	wf := newWorkflow(store, nil)

	lines, err := wf.ListByStatus(context.Background(), "til-fakturering")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ID)

	_, err = wf.ListByStatus(context.Background(), "betalt")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = wf.Get(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
