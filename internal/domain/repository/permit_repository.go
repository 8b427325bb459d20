package repository

import (
	"context"

	"github.com/jhoicas/udeservering-api/internal/domain/entity"
)

// PermitQuery búsqueda y orden del listado de permisos.
// Sort debe venir ya validado contra la lista blanca de columnas.
type PermitQuery struct {
	Search string
	Sort   string
	Desc   bool
}

// PermitRepository lectura de permisos (ansøgninger). El núcleo no los modifica.
type PermitRepository interface {
	Search(ctx context.Context, q PermitQuery) ([]*entity.Permit, error)
}
