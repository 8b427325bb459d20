// Package pricing contiene el motor de precios de udeservering: convierte zona,
// tipo de ubicación, área, fachada, mes y año en un importe facturable.
//
// Price es una función pura: el resultado depende solo de la entrada y del
// RateSet recibido. La resolución del RateSet (caché por año) vive en la capa
// de aplicación.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/udeservering-api/internal/domain"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
)

// Valores por defecto cuando el parámetro no existe para el año.
var (
	DefaultFacadeWidth   = decimal.RequireFromString("0.8")   // m de fondo descontados por metro de fachada
	DefaultMinimumArea   = decimal.RequireFromString("1.0")   // m²
	DefaultMinimumAmount = decimal.RequireFromString("250.0") // kr.
)

// Input datos de entrada del cálculo.
type Input struct {
	Zone         string
	Location     string
	Area         decimal.Decimal
	FacadeLength decimal.Decimal
	Month        int
	Year         int
}

// Result resultado del cálculo. Si OK es false solo Reason tiene sentido.
type Result struct {
	OK             bool
	Zone           string
	Season         string
	Summer         bool
	UnitPrice      decimal.Decimal
	GrossArea      decimal.Decimal
	NetArea        decimal.Decimal
	Amount         decimal.Decimal
	MinimumApplied bool
	Reason         string
}

// Validate comprueba la entrada antes de cualquier acceso a datos.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Zone) == "" {
		return fmt.Errorf("%w: zona requerida", domain.ErrInvalidInput)
	}
	if in.Month < 1 || in.Month > 12 {
		return fmt.Errorf("%w: mes %d fuera de rango", domain.ErrInvalidInput, in.Month)
	}
	if in.Year <= 0 {
		return fmt.Errorf("%w: año %d inválido", domain.ErrInvalidInput, in.Year)
	}
	if in.Area.IsNegative() || in.FacadeLength.IsNegative() {
		return fmt.Errorf("%w: área y fachada deben ser >= 0", domain.ErrInvalidInput)
	}
	return nil
}

// Price calcula el importe de un periodo.
//
//  1. temporada del mes (mes sin mapear = invierno)
//  2. tarifa de la zona; si no existe el resultado es fallido
//  3. precio unitario según temporada
//  4. parámetros del año con valores por defecto
//  5. área bruta = max(área, área mínima)
//  6. área neta = bruta - fachada*ancho (solo "Ved facade", nunca < 0)
//  7. importe = max(neta*precio, importe mínimo)
func Price(rates *RateSet, in Input) Result {
	season, _ := rates.Season(in.Month)
	summer := strings.EqualFold(season, entity.SeasonSummer)

	rate, ok := rates.ZoneRate(in.Zone)
	if !ok {
		return Result{
			Zone:   NormalizeZone(in.Zone),
			Reason: fmt.Sprintf("%s: %s (%d)", domain.ErrZoneRateNotFound, strings.TrimSpace(in.Zone), rates.Year()),
		}
	}

	unitPrice := rate.WinterPriceM2
	if summer {
		unitPrice = rate.SummerPriceM2
	}

	facadeWidth := rates.ParamDecimal(entity.ParamFacadeWidth, DefaultFacadeWidth)
	minArea := rates.ParamDecimal(entity.ParamMinimumArea, DefaultMinimumArea)
	minAmount := rates.ParamDecimal(entity.ParamMinimumAmount, DefaultMinimumAmount)

	gross := decimal.Max(in.Area, minArea)
	net := gross
	if IsAtFacade(in.Location) {
		net = decimal.Max(gross.Sub(in.FacadeLength.Mul(facadeWidth)), decimal.Zero)
	}

	raw := net.Mul(unitPrice)
	final := decimal.Max(raw, minAmount)

	return Result{
		OK:             true,
		Zone:           rate.Zone,
		Season:         season,
		Summer:         summer,
		UnitPrice:      unitPrice.Round(2),
		GrossArea:      gross.Round(2),
		NetArea:        net.Round(2),
		Amount:         final.Round(2),
		MinimumApplied: final.Equal(minAmount) && raw.LessThan(minAmount),
	}
}

// IsAtFacade indica si la ubicación es "Ved facade".
func IsAtFacade(location string) bool {
	return strings.EqualFold(strings.TrimSpace(location), entity.LocationAtFacade)
}
