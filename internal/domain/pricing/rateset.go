package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/udeservering-api/internal/domain/entity"
)

// RateSet agrupa los datos de referencia de un año: parámetros, tarifas por zona
// y la tabla mes → temporada. Se construye completo en una sola carga y no se
// modifica después; las escrituras crean un RateSet nuevo al invalidar la caché.
type RateSet struct {
	year       int
	parameters map[string]string
	zoneRates  map[string]entity.ZoneRate
	seasons    map[int]string
}

// NewRateSet construye el conjunto a partir de las filas leídas del almacén.
// Las zonas se indexan normalizadas (mayúsculas) para la búsqueda sin distinción de caso.
func NewRateSet(year int, params []entity.Parameter, zones []entity.ZoneRate, seasons []entity.MonthSeason) *RateSet {
	rs := &RateSet{
		year:       year,
		parameters: make(map[string]string, len(params)),
		zoneRates:  make(map[string]entity.ZoneRate, len(zones)),
		seasons:    make(map[int]string, len(seasons)),
	}
	for _, p := range params {
		rs.parameters[strings.TrimSpace(p.Name)] = strings.TrimSpace(p.Value)
	}
	for _, z := range zones {
		z.Zone = NormalizeZone(z.Zone)
		rs.zoneRates[z.Zone] = z
	}
	for _, s := range seasons {
		if s.Month < 1 || s.Month > 12 {
			continue
		}
		rs.seasons[s.Month] = strings.TrimSpace(s.Season)
	}
	return rs
}

// NormalizeZone aplica trim y mayúsculas con reglas del danés (æ, ø, å).
func NormalizeZone(zone string) string {
	return cases.Upper(language.Danish).String(strings.TrimSpace(zone))
}

// Year año de los datos de referencia.
func (r *RateSet) Year() int { return r.year }

// Season devuelve la temporada del mes; ok=false si el mes no está mapeado.
func (r *RateSet) Season(month int) (string, bool) {
	s, ok := r.seasons[month]
	return s, ok
}

// ZoneRate busca la tarifa de la zona sin distinguir mayúsculas.
func (r *RateSet) ZoneRate(zone string) (entity.ZoneRate, bool) {
	z, ok := r.zoneRates[NormalizeZone(zone)]
	return z, ok
}

// Param devuelve el valor crudo de un parámetro.
func (r *RateSet) Param(name string) (string, bool) {
	v, ok := r.parameters[name]
	return v, ok
}

// ParamDecimal devuelve el parámetro como decimal o def si falta o no es numérico.
// Acepta coma decimal ("0,8").
func (r *RateSet) ParamDecimal(name string, def decimal.Decimal) decimal.Decimal {
	raw, ok := r.Param(name)
	if !ok || raw == "" {
		return def
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return def
	}
	return d
}

// Parameters copia ordenada por nombre.
func (r *RateSet) Parameters() []entity.Parameter {
	out := make([]entity.Parameter, 0, len(r.parameters))
	for name, value := range r.parameters {
		out = append(out, entity.Parameter{Year: r.year, Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ZoneRates copia ordenada por zona.
func (r *RateSet) ZoneRates() []entity.ZoneRate {
	out := make([]entity.ZoneRate, 0, len(r.zoneRates))
	for _, z := range r.zoneRates {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Zone < out[j].Zone })
	return out
}

// MonthSeasons copia ordenada por mes.
func (r *RateSet) MonthSeasons() []entity.MonthSeason {
	out := make([]entity.MonthSeason, 0, len(r.seasons))
	for m, s := range r.seasons {
		out = append(out, entity.MonthSeason{Year: r.year, Month: m, Season: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
