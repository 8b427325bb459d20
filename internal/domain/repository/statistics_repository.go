package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StatusCount líneas e importe acumulado por estado.
type StatusCount struct {
	Status string
	Count  int
	Amount decimal.Decimal
}

// LineTotals totales globales de líneas de factura.
type LineTotals struct {
	Lines     int
	Companies int
}

// StatisticsRepository consultas de solo lectura para el panel de estadística.
type StatisticsRepository interface {
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	Totals(ctx context.Context) (LineTotals, error)
}
