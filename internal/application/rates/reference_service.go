package rates

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/udeservering-api/internal/domain"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/pricing"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

// ReferenceTxRunner ejecuta fn dentro de una transacción con el repositorio de referencia.
type ReferenceTxRunner interface {
	RunReference(ctx context.Context, fn func(repo repository.ReferenceRepository) error) error
}

// ReferenceService es el único camino de escritura para parámetros, tarifas y
// temporadas. Toda escritura invalida la caché del año afectado en defer, aun
// si la transacción falla, para que ningún llamador pueda olvidarlo.
type ReferenceService struct {
	tx    ReferenceTxRunner
	cache *RateCache
	log   zerolog.Logger
}

// NewReferenceService construye el servicio.
func NewReferenceService(tx ReferenceTxRunner, cache *RateCache, log zerolog.Logger) *ReferenceService {
	return &ReferenceService{tx: tx, cache: cache, log: log}
}

// GetReference devuelve los datos de referencia del año (vía caché).
func (s *ReferenceService) GetReference(ctx context.Context, year int) (*pricing.RateSet, error) {
	if year <= 0 {
		return nil, fmt.Errorf("%w: año %d", domain.ErrInvalidInput, year)
	}
	return s.cache.Get(ctx, year)
}

// InvalidateRates invalida un año o, con year nil, todos.
func (s *ReferenceService) InvalidateRates(year *int) {
	if year == nil {
		s.cache.InvalidateAll()
		return
	}
	s.cache.Invalidate(*year)
}

// UpsertParameter crea o reemplaza un parámetro del año.
func (s *ReferenceService) UpsertParameter(ctx context.Context, p entity.Parameter) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Value = strings.TrimSpace(p.Value)
	if p.Year <= 0 || p.Name == "" {
		return fmt.Errorf("%w: año y nombre del parámetro son requeridos", domain.ErrInvalidInput)
	}
	return s.write(ctx, p.Year, func(repo repository.ReferenceRepository) error {
		return repo.UpsertParameter(ctx, p)
	})
}

// DeleteParameter elimina un parámetro; ErrNotFound si no existía.
func (s *ReferenceService) DeleteParameter(ctx context.Context, year int, name string) error {
	name = strings.TrimSpace(name)
	if year <= 0 || name == "" {
		return fmt.Errorf("%w: año y nombre del parámetro son requeridos", domain.ErrInvalidInput)
	}
	return s.write(ctx, year, func(repo repository.ReferenceRepository) error {
		return found(repo.DeleteParameter(ctx, year, name))
	})
}

// UpsertZoneRate crea o reemplaza la tarifa de una zona (zona en mayúsculas).
func (s *ReferenceService) UpsertZoneRate(ctx context.Context, z entity.ZoneRate) error {
	z.Zone = pricing.NormalizeZone(z.Zone)
	if z.Year <= 0 || z.Zone == "" {
		return fmt.Errorf("%w: año y zona son requeridos", domain.ErrInvalidInput)
	}
	if z.SummerPriceM2.LessThan(decimal.Zero) || z.WinterPriceM2.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: los precios por m² deben ser >= 0", domain.ErrInvalidInput)
	}
	return s.write(ctx, z.Year, func(repo repository.ReferenceRepository) error {
		return repo.UpsertZoneRate(ctx, z)
	})
}

// DeleteZoneRate elimina la tarifa de una zona.
func (s *ReferenceService) DeleteZoneRate(ctx context.Context, year int, zone string) error {
	zone = pricing.NormalizeZone(zone)
	if year <= 0 || zone == "" {
		return fmt.Errorf("%w: año y zona son requeridos", domain.ErrInvalidInput)
	}
	return s.write(ctx, year, func(repo repository.ReferenceRepository) error {
		return found(repo.DeleteZoneRate(ctx, year, zone))
	})
}

// UpsertSeason asigna un mes a "Sommer" o "Vinter".
func (s *ReferenceService) UpsertSeason(ctx context.Context, ms entity.MonthSeason) error {
	if ms.Year <= 0 || ms.Month < 1 || ms.Month > 12 {
		return fmt.Errorf("%w: año y mes (1-12) son requeridos", domain.ErrInvalidInput)
	}
	switch {
	case strings.EqualFold(strings.TrimSpace(ms.Season), entity.SeasonSummer):
		ms.Season = entity.SeasonSummer
	case strings.EqualFold(strings.TrimSpace(ms.Season), entity.SeasonWinter):
		ms.Season = entity.SeasonWinter
	default:
		return fmt.Errorf("%w: temporada %q (Sommer|Vinter)", domain.ErrInvalidInput, ms.Season)
	}
	return s.write(ctx, ms.Year, func(repo repository.ReferenceRepository) error {
		return repo.UpsertSeason(ctx, ms)
	})
}

// DeleteSeason elimina el mapeo de un mes.
func (s *ReferenceService) DeleteSeason(ctx context.Context, year, month int) error {
	if year <= 0 || month < 1 || month > 12 {
		return fmt.Errorf("%w: año y mes (1-12) son requeridos", domain.ErrInvalidInput)
	}
	return s.write(ctx, year, func(repo repository.ReferenceRepository) error {
		return found(repo.DeleteSeason(ctx, year, month))
	})
}

// LatestYear último año con datos de referencia; ErrNotFound si no hay ninguno.
func (s *ReferenceService) LatestYear(ctx context.Context) (int, error) {
	var latest int
	err := s.tx.RunReference(ctx, func(repo repository.ReferenceRepository) error {
		y, ok, err := repo.LatestYear(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: no hay datos de referencia", domain.ErrNotFound)
		}
		latest = y
		return nil
	})
	return latest, err
}

// CloneYear copia parámetros, tarifas y temporadas del último año existente a
// año+1 en una sola transacción y devuelve el año nuevo.
// ErrNotFound si no hay datos; ErrConflict si el año destino ya tiene filas.
func (s *ReferenceService) CloneYear(ctx context.Context) (int, error) {
	var from, to int
	defer func() {
		if to > 0 {
			s.cache.Invalidate(to)
		}
	}()
	err := s.tx.RunReference(ctx, func(repo repository.ReferenceRepository) error {
		latest, ok, err := repo.LatestYear(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: no hay datos de referencia para copiar", domain.ErrNotFound)
		}
		from, to = latest, latest+1
		exists, err := repo.HasYear(ctx, to)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: el año %d ya tiene datos de referencia", domain.ErrConflict, to)
		}
		return repo.CopyYear(ctx, from, to)
	})
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("from", from).Int("to", to).Msg("datos de referencia copiados")
	return to, nil
}

func (s *ReferenceService) write(ctx context.Context, year int, fn func(repo repository.ReferenceRepository) error) error {
	defer s.cache.Invalidate(year)
	return s.tx.RunReference(ctx, fn)
}

func found(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
