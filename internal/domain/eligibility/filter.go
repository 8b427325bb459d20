package eligibility

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/udeservering-api/internal/domain"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
)

// Mode filtro del listado de permisos.
type Mode string

const (
	ModeActive   Mode = "aktive"
	ModeInactive Mode = "inaktive"
	ModeAll      Mode = "alle"
)

// ParseMode valida el filtro; vacío equivale a "alle".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAll:
		return ModeAll, nil
	case ModeActive:
		return ModeActive, nil
	case ModeInactive:
		return ModeInactive, nil
	default:
		return "", fmt.Errorf("%w: filtro %q", domain.ErrInvalidInput, s)
	}
}

// Keep indica si el permiso pasa el filtro con la estrategia dada.
func (m Mode) Keep(s Strategy, p *entity.Permit, today time.Time) bool {
	switch m {
	case ModeActive:
		return s.IsEligible(p, today)
	case ModeInactive:
		return !s.IsEligible(p, today)
	default:
		return true
	}
}
