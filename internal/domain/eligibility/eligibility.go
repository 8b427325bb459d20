// Package eligibility decide si un permiso está vigente (facturable) hoy.
//
// Conviven dos diseños que no son equivalentes:
//   - maanedsliste: periodo + listas JSON de meses del año en curso y futuros.
//   - datointerval: intervalo aktiv-fra / aktiv-til a granularidad de mes.
//
// Ambos se exponen como Strategy con nombre; la configuración elige el
// autoritativo y cada listado puede pedir el otro explícitamente.
package eligibility

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/jhoicas/udeservering-api/internal/domain"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/months"
)

// Nombres de las estrategias.
const (
	StrategyMonthList = "maanedsliste"
	StrategyDateRange = "datointerval"
)

// Strategy predicado de vigencia.
type Strategy interface {
	Name() string
	IsEligible(p *entity.Permit, today time.Time) bool
}

// ByName devuelve la estrategia registrada con ese nombre.
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyDateRange:
		return DateRangeStrategy{}, nil
	case StrategyMonthList:
		return MonthListStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: estrategia de vigencia %q", domain.ErrInvalidInput, name)
	}
}

// MonthListStrategy diseño por listas de meses.
type MonthListStrategy struct{}

// Name implementa Strategy.
func (MonthListStrategy) Name() string { return StrategyMonthList }

// IsEligible: "Fremtidige år" siempre; "Indeværende år" si algún mes del año en
// curso es >= al mes actual; "Indeværende og fremtidige år" si se cumple lo
// anterior o hay meses para años futuros.
func (MonthListStrategy) IsEligible(p *entity.Permit, today time.Time) bool {
	switch strings.TrimSpace(p.PeriodType) {
	case entity.PeriodFutureYears:
		return true
	case entity.PeriodCurrentYear:
		return hasRemainingMonth(p.CurrentMonths, today.Month())
	case entity.PeriodCurrentAndFutureYears:
		return hasRemainingMonth(p.CurrentMonths, today.Month()) || hasMonths(p.FutureMonths)
	default:
		return false
	}
}

// DateRangeStrategy diseño por intervalo de fechas.
type DateRangeStrategy struct{}

// Name implementa Strategy.
func (DateRangeStrategy) Name() string { return StrategyDateRange }

// IsEligible: mes(aktiv-fra) <= mes(hoy) y (sin aktiv-til o mes(aktiv-til) >= mes(hoy)).
// Sin aktiv-fra el permiso no está vigente.
func (DateRangeStrategy) IsEligible(p *entity.Permit, today time.Time) bool {
	if p.ActiveFrom == nil {
		return false
	}
	now := monthIndex(today)
	if monthIndex(*p.ActiveFrom) > now {
		return false
	}
	return p.ActiveTo == nil || monthIndex(*p.ActiveTo) >= now
}

// monthIndex trunca a mes: año*12 + mes.
func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// decodeMonths lee una lista JSON de nombres de mes; ok=false si no es JSON válido.
func decodeMonths(raw string) ([]string, bool) {
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, false
	}
	return list, true
}

func hasRemainingMonth(raw string, current time.Month) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if list, ok := decodeMonths(raw); ok {
		for _, name := range list {
			if m, ok := months.Parse(name); ok && m >= current {
				return true
			}
		}
		return false
	}
	// Texto no JSON: mismo criterio que LIKE '%"Maj"%'.
	for _, name := range months.FromMonth(current) {
		if strings.Contains(raw, `"`+name+`"`) {
			return true
		}
	}
	return false
}

// hasMonths: cualquier texto no vacío cuenta como dato de años futuros,
// incluidos "[]" y "null"; NULL llega como "".
func hasMonths(raw string) bool {
	return strings.TrimSpace(raw) != ""
}
