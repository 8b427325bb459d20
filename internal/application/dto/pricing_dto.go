package dto

import "github.com/shopspring/decimal"

// PriceRequest cuerpo de POST /pris.
type PriceRequest struct {
	Zone         string          `json:"zone" validate:"required,max=20"`
	Location     string          `json:"location" validate:"max=100"`
	Area         decimal.Decimal `json:"area" swaggertype:"string"`
	FacadeLength decimal.Decimal `json:"facade_length" swaggertype:"string"`
	Month        int             `json:"month" validate:"min=1,max=12"`
	Year         int             `json:"year" validate:"gt=0"`
}

// PriceResponse resultado del cálculo. Con ok=false solo llegan ok y reason.
type PriceResponse struct {
	OK             bool             `json:"ok"`
	Zone           string           `json:"zone,omitempty"`
	Season         string           `json:"season,omitempty"`
	Summer         *bool            `json:"summer,omitempty"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty" swaggertype:"string"`
	GrossArea      *decimal.Decimal `json:"gross_area,omitempty" swaggertype:"string"`
	NetArea        *decimal.Decimal `json:"net_area,omitempty" swaggertype:"string"`
	Amount         *decimal.Decimal `json:"amount,omitempty" swaggertype:"string"`
	MinimumApplied *bool            `json:"minimum_applied,omitempty"`
	Reason         string           `json:"reason,omitempty"`
}
