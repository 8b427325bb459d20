package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de periodo de una ansøgning (solicitud de udeservering).
const (
	PeriodCurrentYear           = "Indeværende år"
	PeriodFutureYears           = "Fremtidige år"
	PeriodCurrentAndFutureYears = "Indeværende og fremtidige år"
)

// LocationAtFacade es el tipo de ubicación sujeto a descuento por fachada.
const LocationAtFacade = "Ved facade"

// Permit representa una solicitud/permiso de servicio exterior (ansøgning).
// Es solo lectura para el núcleo: la escribe un proceso externo.
type Permit struct {
	ID              int64
	CompanyName     string
	Address         string
	CVR             string
	Zone            string
	Location        string          // "Ved facade" u otro
	Area            decimal.Decimal // Serveringsareal (m²)
	FacadeLength    decimal.Decimal // Facadelængde (m)
	PeriodType      string
	CurrentMonths   string     // JSON con los nombres de mes del año en curso (diseño por lista de meses)
	FutureMonths    string     // JSON con los nombres de mes de años futuros
	ActiveFrom      *time.Time // diseño por intervalo de fechas
	ActiveTo        *time.Time // nil = sin fecha de término
	ApplicationDate *time.Time // nil si la columna es NULL
}
