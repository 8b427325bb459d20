// Package permits lista las ansøgninger con búsqueda, orden, paginación y el
// filtro de vigencia.
package permits

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/udeservering-api/internal/domain"
	"github.com/jhoicas/udeservering-api/internal/domain/eligibility"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

// Columnas de orden permitidas.
const (
	SortApplicationDate = "ansoegningsdato"
	SortCompany         = "firmanavn"
	SortAddress         = "adresse"
	SortZone            = "zone"
	SortArea            = "areal"
)

var sortable = map[string]bool{
	SortApplicationDate: true,
	SortCompany:         true,
	SortAddress:         true,
	SortZone:            true,
	SortArea:            true,
}

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ListQuery parámetros del listado.
type ListQuery struct {
	Search   string
	Sort     string
	Order    string // asc | desc
	Filter   string // aktive | inaktive | alle
	Strategy string // vacío = estrategia configurada
	Limit    int
	Offset   int
}

// ListResult página de permisos.
type ListResult struct {
	Items    []*entity.Permit
	Total    int
	Limit    int
	Offset   int
	Filter   eligibility.Mode
	Strategy string
}

// UseCase listado de permisos.
type UseCase struct {
	repo     repository.PermitRepository
	strategy eligibility.Strategy
	now      func() time.Time
}

// NewUseCase construye el caso de uso con la estrategia autoritativa.
func NewUseCase(repo repository.PermitRepository, strategy eligibility.Strategy) *UseCase {
	if strategy == nil {
		strategy = eligibility.DateRangeStrategy{}
	}
	return &UseCase{repo: repo, strategy: strategy, now: time.Now}
}

// Strategy devuelve la estrategia configurada.
func (uc *UseCase) Strategy() eligibility.Strategy { return uc.strategy }

// List busca, filtra por vigencia y pagina.
func (uc *UseCase) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	mode, err := eligibility.ParseMode(q.Filter)
	if err != nil {
		return nil, err
	}
	strategy := uc.strategy
	if strings.TrimSpace(q.Strategy) != "" {
		if strategy, err = eligibility.ByName(q.Strategy); err != nil {
			return nil, err
		}
	}
	sort := strings.ToLower(strings.TrimSpace(q.Sort))
	if sort == "" {
		sort = SortApplicationDate
	}
	if !sortable[sort] {
		return nil, fmt.Errorf("%w: columna de orden %q", domain.ErrInvalidInput, q.Sort)
	}
	desc := true
	switch strings.ToLower(strings.TrimSpace(q.Order)) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return nil, fmt.Errorf("%w: orden %q (asc|desc)", domain.ErrInvalidInput, q.Order)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if q.Offset < 0 {
		return nil, fmt.Errorf("%w: offset negativo", domain.ErrInvalidInput)
	}

	all, err := uc.repo.Search(ctx, repository.PermitQuery{Search: strings.TrimSpace(q.Search), Sort: sort, Desc: desc})
	if err != nil {
		return nil, err
	}
	today := uc.now()
	kept := make([]*entity.Permit, 0, len(all))
	for _, p := range all {
		if mode.Keep(strategy, p, today) {
			kept = append(kept, p)
		}
	}

	res := &ListResult{Total: len(kept), Limit: limit, Offset: q.Offset, Filter: mode, Strategy: strategy.Name()}
	if q.Offset < len(kept) {
		end := q.Offset + limit
		if end > len(kept) {
			end = len(kept)
		}
		res.Items = kept[q.Offset:end]
	} else {
		res.Items = []*entity.Permit{}
	}
	return res, nil
}
