// Package invoicing implementa el flujo de estados de las líneas de factura:
// guardar, aprobar (godkend), rechazar (ikke) y reiniciar.
package invoicing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/udeservering-api/internal/domain"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/months"
	engine "github.com/jhoicas/udeservering-api/internal/domain/pricing"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

// Acciones aceptadas por ApplyTransition.
const (
	ActionSave    = "save"
	ActionApprove = "godkend"
	ActionReject  = "ikke"
)

// MaxBulk máximo de líneas por operación masiva.
const MaxBulk = 500

// Outcome resultado de una transición sobre una línea.
type Outcome struct {
	Line *entity.InvoiceLine
	// Skipped: la línea ya estaba congelada y no se tocó.
	Skipped bool
	// PriceReason explica por qué el precio quedó vacío al aprobar.
	PriceReason string
}

// BulkItem resultado por línea de una operación masiva.
type BulkItem struct {
	ID      int64            `json:"id"`
	Status  string           `json:"status,omitempty"`
	Price   *decimal.Decimal `json:"price,omitempty"`
	Skipped bool             `json:"skipped"`
	Error   string           `json:"error,omitempty"`
}

// Workflow casos de uso del flujo de líneas de factura.
type Workflow struct {
	tx     InvoicingTxRunner
	lines  repository.InvoiceLineRepository
	pricer Pricer
	events EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

// NewWorkflow construye el flujo. events puede ser nil.
func NewWorkflow(tx InvoicingTxRunner, lines repository.InvoiceLineRepository, pricer Pricer, events EventPublisher, log zerolog.Logger) *Workflow {
	return &Workflow{tx: tx, lines: lines, pricer: pricer, events: events, log: log, now: time.Now}
}

// ParseAction normaliza la acción; cualquier otra cosa es ErrInvalidAction.
func ParseAction(s string) (string, error) {
	a := strings.ToLower(strings.TrimSpace(s))
	switch a {
	case ActionSave, ActionApprove, ActionReject:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q (save|godkend|ikke)", domain.ErrInvalidAction, s)
}

// Get devuelve una línea por id.
func (w *Workflow) Get(ctx context.Context, id int64) (*entity.InvoiceLine, error) {
	if id <= 0 {
		return nil, domain.ErrMissingID
	}
	l, err := w.lines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

// ListByStatus devuelve las líneas en el estado dado.
func (w *Workflow) ListByStatus(ctx context.Context, status string) ([]*entity.InvoiceLine, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return w.lines.ListByStatus(ctx, st)
}

// ParseStatus acepta el nombre del estado o su forma de ruta (til-fakturering).
func ParseStatus(s string) (string, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "")
	for _, st := range entity.LineStatuses {
		if strings.ToLower(st) == key {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, s)
}

// ApplyTransition aplica una acción a una línea dentro de una transacción con
// la fila bloqueada.
func (w *Workflow) ApplyTransition(ctx context.Context, id int64, action string, edits entity.InvoiceLineEdits) (*Outcome, error) {
	act, err := ParseAction(action)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domain.ErrMissingID
	}
	if err := validateEdits(edits); err != nil {
		return nil, err
	}

	var out Outcome
	err = w.tx.RunInvoicing(ctx, func(repo repository.InvoiceLineRepository) error {
		line, err := lockLine(ctx, repo, id)
		if err != nil {
			return err
		}
		out.Line = line
		switch act {
		case ActionSave:
			return w.save(ctx, repo, line, edits)
		case ActionApprove:
			return w.approve(ctx, repo, line, edits, &out)
		default:
			return w.reject(ctx, repo, line)
		}
	})
	if err != nil {
		return nil, err
	}
	if act == ActionApprove && !out.Skipped {
		w.publish(ctx, out.Line)
	}
	return &out, nil
}

func (w *Workflow) save(ctx context.Context, repo repository.InvoiceLineRepository, line *entity.InvoiceLine, edits entity.InvoiceLineEdits) error {
	if line.Status != entity.LineStatusNew {
		return fmt.Errorf("%w: la línea %d está en estado %s", domain.ErrConflict, line.ID, line.Status)
	}
	if err := repo.UpdateEditable(ctx, line.ID, edits, entity.LineStatusNew); err != nil {
		return err
	}
	edits.ApplyTo(line)
	return nil
}

func (w *Workflow) approve(ctx context.Context, repo repository.InvoiceLineRepository, line *entity.InvoiceLine, edits entity.InvoiceLineEdits, out *Outcome) error {
	if line.IsFrozen() {
		out.Skipped = true
		return nil
	}
	if line.Status == entity.LineStatusDoNotInvoice {
		return fmt.Errorf("%w: la línea %d está marcada como %s", domain.ErrConflict, line.ID, line.Status)
	}
	if !edits.IsEmpty() {
		if err := repo.UpdateEditable(ctx, line.ID, edits, entity.LineStatusNew); err != nil {
			return err
		}
		edits.ApplyTo(line)
	}

	price, reason, err := w.priceLine(ctx, line)
	if err != nil {
		return err
	}
	ok, err := repo.Approve(ctx, line.ID, price)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: la línea %d cambió de estado", domain.ErrConflict, line.ID)
	}
	line.Status = entity.LineStatusToInvoice
	line.Price = price
	out.PriceReason = reason
	return nil
}

func (w *Workflow) reject(ctx context.Context, repo repository.InvoiceLineRepository, line *entity.InvoiceLine) error {
	if line.Status != entity.LineStatusNew {
		return fmt.Errorf("%w: la línea %d está en estado %s", domain.ErrConflict, line.ID, line.Status)
	}
	if err := repo.SetStatus(ctx, line.ID, entity.LineStatusDoNotInvoice); err != nil {
		return err
	}
	line.Status = entity.LineStatusDoNotInvoice
	return nil
}

// priceLine devuelve nil y el motivo cuando el precio no se puede calcular;
// solo los errores del almacén se devuelven como error.
func (w *Workflow) priceLine(ctx context.Context, line *entity.InvoiceLine) (*decimal.Decimal, string, error) {
	month, ok := months.Parse(line.BillingMonth)
	if !ok {
		reason := fmt.Sprintf("mes desconocido: %q", line.BillingMonth)
		w.log.Warn().Int64("line_id", line.ID).Msg(reason)
		return nil, reason, nil
	}
	res, err := w.pricer.Price(ctx, engine.Input{
		Zone:         line.Zone,
		Location:     line.Location,
		Area:         line.Area,
		FacadeLength: line.FacadeLength,
		Month:        int(month),
		Year:         line.BillingYear,
	})
	if err != nil {
		if domain.IsValidation(err) {
			w.log.Warn().Err(err).Int64("line_id", line.ID).Msg("línea sin precio")
			return nil, err.Error(), nil
		}
		return nil, "", fmt.Errorf("calcular precio línea %d: %w", line.ID, err)
	}
	if !res.OK {
		return nil, res.Reason, nil
	}
	amount := res.Amount
	return &amount, "", nil
}

// ApproveBulk aprueba cada línea en su propia transacción. Los conflictos y
// líneas inexistentes quedan en el resultado de la línea; un error del
// almacén detiene el proceso y se devuelve junto con lo ya procesado.
func (w *Workflow) ApproveBulk(ctx context.Context, ids []int64) ([]BulkItem, error) {
	return w.bulk(ctx, ids, func(id int64) (BulkItem, error) {
		out, err := w.ApplyTransition(ctx, id, ActionApprove, entity.InvoiceLineEdits{})
		if err != nil {
			return BulkItem{ID: id}, err
		}
		return BulkItem{ID: id, Status: out.Line.Status, Price: out.Line.Price, Skipped: out.Skipped, Error: out.PriceReason}, nil
	})
}

// Reset elimina la línea. Las líneas Faktureret no se pueden reiniciar.
func (w *Workflow) Reset(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrMissingID
	}
	return w.tx.RunInvoicing(ctx, func(repo repository.InvoiceLineRepository) error {
		line, err := lockLine(ctx, repo, id)
		if err != nil {
			return err
		}
		if line.Status == entity.LineStatusInvoiced {
			return fmt.Errorf("%w: la línea %d ya está facturada", domain.ErrConflict, id)
		}
		ok, err := repo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
		w.log.Info().Int64("line_id", id).Str("status", line.Status).Msg("línea reiniciada")
		return nil
	})
}

// ResetBulk reinicia varias líneas; las facturadas se omiten.
func (w *Workflow) ResetBulk(ctx context.Context, ids []int64) ([]BulkItem, error) {
	return w.bulk(ctx, ids, func(id int64) (BulkItem, error) {
		err := w.Reset(ctx, id)
		if errors.Is(err, domain.ErrConflict) {
			return BulkItem{ID: id, Status: entity.LineStatusInvoiced, Skipped: true}, nil
		}
		if err != nil {
			return BulkItem{ID: id}, err
		}
		return BulkItem{ID: id}, nil
	})
}

func (w *Workflow) bulk(ctx context.Context, ids []int64, fn func(id int64) (BulkItem, error)) ([]BulkItem, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: lista de ids vacía", domain.ErrInvalidInput)
	}
	if len(ids) > MaxBulk {
		return nil, fmt.Errorf("%w: máximo %d líneas por operación", domain.ErrInvalidInput, MaxBulk)
	}
	seen := make(map[int64]bool, len(ids))
	items := make([]BulkItem, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		item, err := fn(id)
		if err != nil {
			if !isLineError(err) {
				return items, err
			}
			item.Error = err.Error()
		}
		items = append(items, item)
	}
	return items, nil
}

// isLineError errores que afectan solo a una línea en operaciones masivas.
func isLineError(err error) bool {
	return domain.IsValidation(err) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict)
}

func (w *Workflow) publish(ctx context.Context, line *entity.InvoiceLine) {
	if w.events == nil {
		return
	}
	ev := LineApproved{
		EventID:      uuid.New(),
		LineID:       line.ID,
		PermitID:     line.PermitID,
		Zone:         line.Zone,
		BillingMonth: line.BillingMonth,
		BillingYear:  line.BillingYear,
		Price:        line.Price,
		OccurredAt:   w.now().UTC(),
	}
	if err := w.events.PublishLineApproved(ctx, ev); err != nil {
		w.log.Error().Err(err).Int64("line_id", line.ID).Msg("no se pudo publicar fakturalinje.til_fakturering")
	}
}

func lockLine(ctx context.Context, repo repository.InvoiceLineRepository, id int64) (*entity.InvoiceLine, error) {
	line, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, fmt.Errorf("%w: línea %d", domain.ErrNotFound, id)
	}
	if line.Status == "" {
		line.Status = entity.LineStatusNew
	}
	return line, nil
}

func validateEdits(e entity.InvoiceLineEdits) error {
	if e.Area != nil && e.Area.IsNegative() {
		return fmt.Errorf("%w: área debe ser >= 0", domain.ErrInvalidInput)
	}
	if e.FacadeLength != nil && e.FacadeLength.IsNegative() {
		return fmt.Errorf("%w: fachada debe ser >= 0", domain.ErrInvalidInput)
	}
	return nil
}
