package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	engine "github.com/jhoicas/udeservering-api/internal/domain/pricing"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

// InvoicingTxRunner ejecuta fn en una transacción con el repositorio de líneas atado a ella.
type InvoicingTxRunner interface {
	RunInvoicing(ctx context.Context, fn func(lines repository.InvoiceLineRepository) error) error
}

// Pricer calcula el precio de un periodo (implementado por pricing.Service).
type Pricer interface {
	Price(ctx context.Context, in engine.Input) (engine.Result, error)
}

// LineApproved evento emitido tras confirmar el paso de una línea a TilFakturering.
type LineApproved struct {
	EventID      uuid.UUID        `json:"event_id"`
	LineID       int64            `json:"line_id"`
	PermitID     int64            `json:"permit_id"`
	Zone         string           `json:"zone"`
	BillingMonth string           `json:"billing_month"`
	BillingYear  int              `json:"billing_year"`
	Price        *decimal.Decimal `json:"price"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

// EventPublisher publica eventos del flujo de facturación.
type EventPublisher interface {
	PublishLineApproved(ctx context.Context, ev LineApproved) error
}

// BillingBasisRenderer genera el PDF del faktureringsgrundlag.
type BillingBasisRenderer interface {
	GenerateBillingBasisPDF(ctx context.Context, lines []*entity.InvoiceLine, generatedAt time.Time) ([]byte, error)
}
