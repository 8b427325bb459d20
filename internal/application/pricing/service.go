// Package pricing expone el motor de precios a la capa de interfaces,
// resolviendo las tarifas del año a través de la caché.
package pricing

import (
	"context"

	"github.com/rs/zerolog"

	engine "github.com/jhoicas/udeservering-api/internal/domain/pricing"
)

// RateSource entrega el RateSet de un año (implementado por rates.RateCache).
type RateSource interface {
	Get(ctx context.Context, year int) (*engine.RateSet, error)
}

// Service calcula precios de periodos.
type Service struct {
	rates RateSource
	log   zerolog.Logger
}

// NewService construye el servicio.
func NewService(rates RateSource, log zerolog.Logger) *Service {
	return &Service{rates: rates, log: log}
}

// Price valida la entrada, obtiene las tarifas del año y calcula el importe.
// Una zona sin tarifa devuelve un Result con OK=false y error nil; los errores
// del almacén se devuelven como error.
func (s *Service) Price(ctx context.Context, in engine.Input) (engine.Result, error) {
	if err := in.Validate(); err != nil {
		return engine.Result{}, err
	}
	rs, err := s.rates.Get(ctx, in.Year)
	if err != nil {
		return engine.Result{}, err
	}
	res := engine.Price(rs, in)
	if !res.OK {
		s.log.Warn().Str("zone", in.Zone).Int("year", in.Year).Str("reason", res.Reason).Msg("precio no calculado")
	}
	return res, nil
}
