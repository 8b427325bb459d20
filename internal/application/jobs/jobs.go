// Package jobs contiene las tareas programadas sobre los datos de referencia.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/udeservering-api/internal/domain"
	"github.com/jhoicas/udeservering-api/internal/domain/pricing"
)

// RateLoader precarga tarifas (rates.RateCache).
type RateLoader interface {
	Get(ctx context.Context, year int) (*pricing.RateSet, error)
}

// YearCloner clona el último año de referencia (rates.ReferenceService).
type YearCloner interface {
	LatestYear(ctx context.Context) (int, error)
	CloneYear(ctx context.Context) (int, error)
}

// Jobs tareas invocadas por el Scheduler.
type Jobs struct {
	rates   RateLoader
	ref     YearCloner
	log     zerolog.Logger
	now     func() time.Time
	timeout time.Duration
}

func NewJobs(rates RateLoader, ref YearCloner, log zerolog.Logger) *Jobs {
	return &Jobs{rates: rates, ref: ref, log: log, now: time.Now, timeout: time.Minute}
}

// WarmRates precarga el RateSet del año en curso.
func (j *Jobs) WarmRates() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	year := j.now().Year()
	rs, err := j.rates.Get(ctx, year)
	if err != nil {
		j.log.Error().Err(err).Int("year", year).Msg("precarga de tarifas fallida")
		return
	}
	j.log.Info().Int("year", year).Int("zones", len(rs.ZoneRates())).Msg("tarifas precargadas")
}

// CloneNextYear clona el año en curso al siguiente si este aún no existe.
// Devuelve el año creado o 0 si no hizo nada.
func (j *Jobs) CloneNextYear() int {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	current := j.now().Year()
	latest, err := j.ref.LatestYear(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("clonado anual: no se pudo leer el último año")
		return 0
	}
	if latest != current {
		j.log.Debug().Int("latest", latest).Int("current", current).Msg("clonado anual: nada que hacer")
		return 0
	}
	year, err := j.ref.CloneYear(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			j.log.Info().Err(err).Msg("clonado anual: el año ya existe")
			return 0
		}
		j.log.Error().Err(err).Msg("clonado anual fallido")
		return 0
	}
	j.log.Info().Int("year", year).Msg("datos de referencia clonados")
	return year
}
