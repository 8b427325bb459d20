package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una línea de factura (fakturalinje).
const (
	LineStatusNew          = "Ny"
	LineStatusToInvoice    = "TilFakturering" // aprobada, pendiente de facturar
	LineStatusInvoiced     = "Faktureret"     // facturada por el sistema externo
	LineStatusDoNotInvoice = "FakturerIkke"   // rechazada
)

// LineStatuses lista los estados en orden de flujo.
var LineStatuses = []string{LineStatusNew, LineStatusToInvoice, LineStatusInvoiced, LineStatusDoNotInvoice}

// InvoiceLine es una instancia facturable de un permiso para un periodo.
// Zona, ubicación, área y fachada se copian del permiso al generarse la línea
// y pueden sobrescribirse mientras la línea está en estado Ny.
type InvoiceLine struct {
	ID           int64
	PermitID     int64
	CompanyName  string
	Address      string
	Zone         string
	Location     string
	Area         decimal.Decimal
	FacadeLength decimal.Decimal
	BillingMonth string // nombre del mes en danés, ej. "Juli"
	BillingYear  int
	Status       string
	Price        *decimal.Decimal // nil hasta la aprobación (o si el precio no se pudo calcular)
	Comment      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsFrozen indica si la línea ya no puede recalcularse.
func (l *InvoiceLine) IsFrozen() bool {
	return l.Status == LineStatusToInvoice || l.Status == LineStatusInvoiced
}

// InvoiceLineEdits actualización parcial de los campos editables.
// Solo estos cuatro campos pueden modificarse; nil = sin cambio.
type InvoiceLineEdits struct {
	Area         *decimal.Decimal
	FacadeLength *decimal.Decimal
	Location     *string
	Comment      *string
}

// IsEmpty indica si no hay ningún campo a modificar.
func (e InvoiceLineEdits) IsEmpty() bool {
	return e.Area == nil && e.FacadeLength == nil && e.Location == nil && e.Comment == nil
}

// ApplyTo copia los campos presentes sobre la línea.
func (e InvoiceLineEdits) ApplyTo(l *InvoiceLine) {
	if e.Area != nil {
		l.Area = *e.Area
	}
	if e.FacadeLength != nil {
		l.FacadeLength = *e.FacadeLength
	}
	if e.Location != nil {
		l.Location = *e.Location
	}
	if e.Comment != nil {
		l.Comment = *e.Comment
	}
}
