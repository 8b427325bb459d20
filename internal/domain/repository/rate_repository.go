package repository

import (
	"context"

	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/pricing"
)

// RateRepository carga los datos de referencia de un año.
// LoadRates devuelve el conjunto completo o un error; nunca un conjunto parcial.
type RateRepository interface {
	LoadRates(ctx context.Context, year int) (*pricing.RateSet, error)
}

// ReferenceRepository escrituras sobre parámetros, tarifas y temporadas.
// Solo debe usarse desde el servicio de referencia, que invalida la caché.
// Los Delete devuelven false si no existía la fila.
type ReferenceRepository interface {
	UpsertParameter(ctx context.Context, p entity.Parameter) error
	DeleteParameter(ctx context.Context, year int, name string) (bool, error)
	UpsertZoneRate(ctx context.Context, z entity.ZoneRate) error
	DeleteZoneRate(ctx context.Context, year int, zone string) (bool, error)
	UpsertSeason(ctx context.Context, s entity.MonthSeason) error
	DeleteSeason(ctx context.Context, year, month int) (bool, error)

	// LatestYear último año con datos en cualquiera de las tres tablas; ok=false si no hay datos.
	LatestYear(ctx context.Context) (year int, ok bool, err error)
	// HasYear indica si existe alguna fila de referencia para el año.
	HasYear(ctx context.Context, year int) (bool, error)
	// CopyYear copia literalmente todas las filas de from a to.
	CopyYear(ctx context.Context, from, to int) error
}
