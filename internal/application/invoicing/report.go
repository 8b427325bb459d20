package invoicing

import (
	"context"
	"time"

	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

// Report documentos derivados de las líneas aprobadas.
type Report struct {
	lines    repository.InvoiceLineRepository
	renderer BillingBasisRenderer
	now      func() time.Time
}

func NewReport(lines repository.InvoiceLineRepository, renderer BillingBasisRenderer) *Report {
	return &Report{lines: lines, renderer: renderer, now: time.Now}
}

// BillingBasisPDF PDF con todas las líneas en TilFakturering.
func (r *Report) BillingBasisPDF(ctx context.Context) ([]byte, error) {
	lines, err := r.lines.ListByStatus(ctx, entity.LineStatusToInvoice)
	if err != nil {
		return nil, err
	}
	return r.renderer.GenerateBillingBasisPDF(ctx, lines, r.now())
}
