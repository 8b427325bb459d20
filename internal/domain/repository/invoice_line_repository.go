package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/udeservering-api/internal/domain/entity"
)

// InvoiceLineRepository puerto de persistencia de las líneas de factura.
// GetByID y GetForUpdate devuelven (nil, nil) si la línea no existe.
type InvoiceLineRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.InvoiceLine, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.InvoiceLine, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.InvoiceLine, error)

	// UpdateEditable aplica solo los campos editables presentes y fija el estado.
	UpdateEditable(ctx context.Context, id int64, edits entity.InvoiceLineEdits, status string) error
	// Approve guarda precio (nil = desconocido) y estado TilFakturering solo si la
	// línea no está congelada. Devuelve false si no se actualizó ninguna fila.
	Approve(ctx context.Context, id int64, price *decimal.Decimal) (bool, error)
	SetStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) (bool, error)
}
