package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PermitListQuery query string de GET /ansoegninger.
type PermitListQuery struct {
	Search   string `query:"search" validate:"max=200"`
	Sort     string `query:"sort"`
	Order    string `query:"order"`
	Filter   string `query:"filter"`
	Strategy string `query:"strategy"`
	Limit    int    `query:"limit" validate:"min=0,max=500"`
	Offset   int    `query:"offset" validate:"min=0"`
}

// PermitResponse ansøgning en la API.
type PermitResponse struct {
	ID              int64           `json:"id"`
	CompanyName     string          `json:"company_name"`
	Address         string          `json:"address"`
	CVR             string          `json:"cvr"`
	Zone            string          `json:"zone"`
	Location        string          `json:"location"`
	Area            decimal.Decimal `json:"area" swaggertype:"string"`
	FacadeLength    decimal.Decimal `json:"facade_length" swaggertype:"string"`
	PeriodType      string          `json:"period_type,omitempty"`
	CurrentMonths   string          `json:"current_months,omitempty"`
	FutureMonths    string          `json:"future_months,omitempty"`
	ActiveFrom      *time.Time      `json:"active_from,omitempty"`
	ActiveTo        *time.Time      `json:"active_to,omitempty"`
	ApplicationDate *time.Time      `json:"application_date,omitempty"`
	Eligible        bool            `json:"eligible"`
}

// PermitListResponse página de ansøgninger.
type PermitListResponse struct {
	PageResponse
	Filter   string           `json:"filter"`
	Strategy string           `json:"strategy"`
	Items    []PermitResponse `json:"items"`
}
