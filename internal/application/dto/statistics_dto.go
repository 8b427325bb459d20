package dto

import "github.com/shopspring/decimal"

// StatisticsTotals totales globales.
type StatisticsTotals struct {
	Rows  int `json:"rows"`
	Firms int `json:"firms"`
}

// StatisticsResponse cuerpo de GET /statistik.
type StatisticsResponse struct {
	Status  map[string]int             `json:"status"`
	Amounts map[string]decimal.Decimal `json:"amounts" swaggertype:"object,string"`
	Total   decimal.Decimal            `json:"total_amount" swaggertype:"string"`
	Totals  StatisticsTotals           `json:"totals"`
}
