package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/udeservering-api/internal/application/dto"
	"github.com/jhoicas/udeservering-api/internal/application/permits"
	"github.com/jhoicas/udeservering-api/internal/domain/eligibility"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
)

// PermitHandler listado de ansøgninger.
type PermitHandler struct {
	uc  *permits.UseCase
	log zerolog.Logger
}

func NewPermitHandler(uc *permits.UseCase, log zerolog.Logger) *PermitHandler {
	return &PermitHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar ansøgninger
// @Tags         ansoegninger
// @Produce      json
// @Param        search    query     string  false  "texto libre sobre firma, dirección, CVR, zona y ubicación"
// @Param        sort      query     string  false  "ansoegningsdato | firmanavn | adresse | zone | areal"
// @Param        order     query     string  false  "asc | desc"
// @Param        filter    query     string  false  "alle | aktive | inaktive"
// @Param        strategy  query     string  false  "maanedsliste | datointerval"
// @Param        limit     query     int     false  "máximo 500"
// @Param        offset    query     int     false  "desplazamiento"
// @Success      200       {object}  dto.PermitListResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      500       {object}  dto.ErrorResponse
// @Router       /ansoegninger [get]
func (h *PermitHandler) List(c *fiber.Ctx) error {
	var q dto.PermitListQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.uc.List(c.UserContext(), permits.ListQuery{
		Search:   q.Search,
		Sort:     q.Sort,
		Order:    q.Order,
		Filter:   q.Filter,
		Strategy: q.Strategy,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	strategy, err := eligibility.ByName(res.Strategy)
	if err != nil {
		strategy = h.uc.Strategy()
	}
	today := time.Now()
	items := make([]dto.PermitResponse, 0, len(res.Items))
	for _, p := range res.Items {
		items = append(items, toPermitResponse(p, strategy.IsEligible(p, today)))
	}
	return c.JSON(dto.PermitListResponse{
		PageResponse: dto.PageResponse{Limit: res.Limit, Offset: res.Offset, Total: res.Total},
		Filter:       string(res.Filter),
		Strategy:     res.Strategy,
		Items:        items,
	})
}

func toPermitResponse(p *entity.Permit, eligible bool) dto.PermitResponse {
	return dto.PermitResponse{
		ID:              p.ID,
		CompanyName:     p.CompanyName,
		Address:         p.Address,
		CVR:             p.CVR,
		Zone:            p.Zone,
		Location:        p.Location,
		Area:            p.Area,
		FacadeLength:    p.FacadeLength,
		PeriodType:      p.PeriodType,
		CurrentMonths:   p.CurrentMonths,
		FutureMonths:    p.FutureMonths,
		ActiveFrom:      p.ActiveFrom,
		ActiveTo:        p.ActiveTo,
		ApplicationDate: p.ApplicationDate,
		Eligible:        eligible,
	}
}
