package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLineResponse fakturalinje en la API.
type InvoiceLineResponse struct {
	ID           int64            `json:"id"`
	PermitID     int64            `json:"permit_id"`
	CompanyName  string           `json:"company_name"`
	Address      string           `json:"address"`
	Zone         string           `json:"zone"`
	Location     string           `json:"location"`
	Area         decimal.Decimal  `json:"area" swaggertype:"string"`
	FacadeLength decimal.Decimal  `json:"facade_length" swaggertype:"string"`
	BillingMonth string           `json:"billing_month"`
	BillingYear  int              `json:"billing_year"`
	Status       string           `json:"status"`
	Price        *decimal.Decimal `json:"price" swaggertype:"string"`
	Comment      string           `json:"comment,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// InvoiceLineListResponse listado por estado.
type InvoiceLineListResponse struct {
	Status string                `json:"status"`
	Total  int                   `json:"total"`
	Items  []InvoiceLineResponse `json:"items"`
}

// TransitionRequest cuerpo de POST /fakturalinjer/:id/handling.
// Los campos editables ausentes no se modifican.
type TransitionRequest struct {
	Action       string           `json:"action" validate:"required"`
	Area         *decimal.Decimal `json:"area,omitempty" swaggertype:"string"`
	FacadeLength *decimal.Decimal `json:"facade_length,omitempty" swaggertype:"string"`
	Location     *string          `json:"location,omitempty" validate:"omitempty,max=100"`
	Comment      *string          `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// TransitionResponse resultado de una transición.
type TransitionResponse struct {
	Line        InvoiceLineResponse `json:"line"`
	Skipped     bool                `json:"skipped"`
	PriceReason string              `json:"price_reason,omitempty"`
}

// BulkItemResponse resultado por línea de una operación masiva.
type BulkItemResponse struct {
	ID      int64            `json:"id"`
	Status  string           `json:"status,omitempty"`
	Price   *decimal.Decimal `json:"price,omitempty" swaggertype:"string"`
	Skipped bool             `json:"skipped"`
	Error   string           `json:"error,omitempty"`
}

// BulkResponse resultado de godkend/nulstil masivo.
type BulkResponse struct {
	Processed int                `json:"processed"`
	Items     []BulkItemResponse `json:"items"`
}
