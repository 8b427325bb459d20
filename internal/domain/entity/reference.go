package entity

import "github.com/shopspring/decimal"

// Etiquetas de temporada.
const (
	SeasonSummer = "Sommer"
	SeasonWinter = "Vinter"
)

// Nombres de los parámetros ajustables por año.
const (
	ParamFacadeWidth   = "Facadebredde i meter"
	ParamMinimumArea   = "Minimums opkrævningsareal"
	ParamMinimumAmount = "Minimums opkrævningsbeløb"
)

// Parameter valor configurable (numérico o texto) de un año.
type Parameter struct {
	Year  int
	Name  string
	Value string
}

// ZoneRate tarifa (takst) por m² de una zona para un año.
type ZoneRate struct {
	Year           int
	Zone           string // siempre en mayúsculas
	SummerPriceM2  decimal.Decimal
	WinterPriceM2  decimal.Decimal
	PSPElement     string
	MaterialNumber string
}

// MonthSeason asigna un mes (1..12) a una temporada para un año.
type MonthSeason struct {
	Year   int
	Month  int
	Season string
}
