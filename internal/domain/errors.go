package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrInvalidAction    = errors.New("acción inválida")
	ErrMissingID        = errors.New("identificador requerido")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrZoneRateNotFound = errors.New("zone rate not found")
)

// IsValidation indica si el error corresponde a una validación previa al acceso a datos.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidAction) || errors.Is(err, ErrMissingID)
}
