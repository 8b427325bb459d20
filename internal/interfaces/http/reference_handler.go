package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/udeservering-api/internal/application/dto"
	"github.com/jhoicas/udeservering-api/internal/application/rates"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
)

// ReferenceHandler takster: parámetros, tarifas por zona y temporadas.
type ReferenceHandler struct {
	svc   *rates.ReferenceService
	cache *rates.RateCache
	log   zerolog.Logger
}

func NewReferenceHandler(svc *rates.ReferenceService, cache *rates.RateCache, log zerolog.Logger) *ReferenceHandler {
	return &ReferenceHandler{svc: svc, cache: cache, log: log}
}

// Get godoc
// @Summary      Datos de referencia de un año
// @Tags         takster
// @Produce      json
// @Param        aar  path      int  true  "año"
// @Success      200  {object}  dto.ReferenceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /takster/{aar} [get]
func (h *ReferenceHandler) Get(c *fiber.Ctx) error {
	year, err := paramInt(c, "aar")
	if err != nil {
		return respondError(c, h.log, err)
	}
	rs, err := h.svc.GetReference(c.UserContext(), year)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := dto.ReferenceResponse{
		Year:       rs.Year(),
		Parameters: []dto.ParameterDTO{},
		Zones:      []dto.ZoneRateDTO{},
		Seasons:    []dto.SeasonDTO{},
	}
	for _, p := range rs.Parameters() {
		out.Parameters = append(out.Parameters, dto.ParameterDTO{Name: p.Name, Value: p.Value})
	}
	for _, z := range rs.ZoneRates() {
		out.Zones = append(out.Zones, dto.ZoneRateDTO{
			Zone:           z.Zone,
			SummerPriceM2:  z.SummerPriceM2,
			WinterPriceM2:  z.WinterPriceM2,
			PSPElement:     z.PSPElement,
			MaterialNumber: z.MaterialNumber,
		})
	}
	for _, s := range rs.MonthSeasons() {
		out.Seasons = append(out.Seasons, dto.SeasonDTO{Month: s.Month, Season: s.Season})
	}
	return c.JSON(out)
}

// UpsertParameter godoc
// @Summary      Crear o actualizar un parámetro
// @Tags         takster
// @Security     Bearer
// @Accept       json
// @Param        aar     path  int     true  "año"
// @Param        navn    path  string  true  "nombre del parámetro"
// @Param        body    body  dto.ParameterRequest  true  "value"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /takster/{aar}/parametre/{navn} [put]
func (h *ReferenceHandler) UpsertParameter(c *fiber.Ctx) error {
	year, err := paramInt(c, "aar")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.ParameterRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	name := c.Params("navn")
	if err := h.svc.UpsertParameter(c.UserContext(), entity.Parameter{Year: year, Name: name, Value: in.Value}); err != nil {
		return respondError(c, h.log, err)
	}
	h.audit(c, "upsert_parameter", year, name)
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteParameter godoc
// @Summary      Borrar un parámetro
// @Tags         takster
// @Security     Bearer
// @Param        aar     path  int     true  "año"
// @Param        navn    path  string  true  "nombre del parámetro"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /takster/{aar}/parametre/{navn} [delete]
func (h *ReferenceHandler) DeleteParameter(c *fiber.Ctx) error {
	year, err := paramInt(c, "aar")
	if err != nil {
		return respondError(c, h.log, err)
	}
	name := c.Params("navn")
	if err := h.svc.DeleteParameter(c.UserContext(), year, name); err != nil {
		return respondError(c, h.log, err)
	}
	h.audit(c, "delete_parameter", year, name)
	return c.SendStatus(fiber.StatusNoContent)
}

// UpsertZoneRate godoc
// @Summary      Crear o actualizar la tarifa de una zona
// @Tags         takster
// @Security     Bearer
// @Accept       json
// @Param        aar     path  int     true  "año"
// @Param        zone    path  string  true  "zona"
// @Param        body    body  dto.ZoneRateRequest  true  "precios por m², PSP y material"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /takster/{aar}/zoner/{zone} [put]
func (h *ReferenceHandler) UpsertZoneRate(c *fiber.Ctx) error {
	year, err := paramInt(c, "aar")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.ZoneRateRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	zone := c.Params("zone")
	err = h.svc.UpsertZoneRate(c.UserContext(), entity.ZoneRate{
		Year:           year,
		Zone:           zone,
		SummerPriceM2:  in.SummerPriceM2,
		WinterPriceM2:  in.WinterPriceM2,
		PSPElement:     in.PSPElement,
		MaterialNumber: in.MaterialNumber,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.audit(c, "upsert_zone", year, zone)
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteZoneRate godoc
// @Summary      Borrar la tarifa de una zona
// @Tags         takster
// @Security     Bearer
// @Param        aar     path  int     true  "año"
// @Param        zone    path  string  true  "zona"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /takster/{aar}/zoner/{zone} [delete]
func (h *ReferenceHandler) DeleteZoneRate(c *fiber.Ctx) error {
	year, err := paramInt(c, "aar")
	if err != nil {
		return respondError(c, h.log, err)
	}
	zone := c.Params("zone")
	if err := h.svc.DeleteZoneRate(c.UserContext(), year, zone); err != nil {
		return respondError(c, h.log, err)
	}
	h.audit(c, "delete_zone", year, zone)
	return c.SendStatus(fiber.StatusNoContent)
}

// UpsertSeason godoc
// @Summary      Asignar la temporada de un mes
// @Tags         takster
// @Security     Bearer
// @Accept       json
// @Param        aar     path  int     true  "año"
// @Param        maaned  path  int     true  "mes 1-12"
// @Param        body    body  dto.SeasonRequest  true  "season"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /takster/{aar}/saesoner/{maaned} [put]
func (h *ReferenceHandler) UpsertSeason(c *fiber.Ctx) error {
	year, err := paramInt(c, "aar")
	if err != nil {
		return respondError(c, h.log, err)
	}
	month, err := paramInt(c, "maaned")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.SeasonRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.svc.UpsertSeason(c.UserContext(), entity.MonthSeason{Year: year, Month: month, Season: in.Season}); err != nil {
		return respondError(c, h.log, err)
	}
	h.audit(c, "upsert_season", year, strconv.Itoa(month))
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteSeason godoc
// @Summary      Borrar la temporada de un mes
// @Tags         takster
// @Security     Bearer
// @Param        aar     path  int     true  "año"
// @Param        maaned  path  int     true  "mes 1-12"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /takster/{aar}/saesoner/{maaned} [delete]
func (h *ReferenceHandler) DeleteSeason(c *fiber.Ctx) error {
	year, err := paramInt(c, "aar")
	if err != nil {
		return respondError(c, h.log, err)
	}
	month, err := paramInt(c, "maaned")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.svc.DeleteSeason(c.UserContext(), year, month); err != nil {
		return respondError(c, h.log, err)
	}
	h.audit(c, "delete_season", year, strconv.Itoa(month))
	return c.SendStatus(fiber.StatusNoContent)
}

// CloneYear godoc
// @Summary      Copiar el último año de referencia al siguiente
// @Tags         takster
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.CloneYearResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /takster/klon [post]
func (h *ReferenceHandler) CloneYear(c *fiber.Ctx) error {
	year, err := h.svc.CloneYear(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.audit(c, "clone_year", year, "")
	return c.Status(fiber.StatusCreated).JSON(dto.CloneYearResponse{Year: year})
}

// ClearCache godoc
// @Summary      Vaciar la caché de tarifas
// @Description  Sin aar se vacían todos los años.
// @Tags         takster
// @Security     Bearer
// @Produce      json
// @Param        aar  query     int  false  "año"
// @Success      200  {object}  dto.CacheResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /takster/cache/ryd [post]
func (h *ReferenceHandler) ClearCache(c *fiber.Ctx) error {
	invalidated := "alle"
	if raw := c.Query("aar"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "aar debe ser un entero positivo"})
		}
		h.svc.InvalidateRates(&year)
		invalidated = raw
	} else {
		h.svc.InvalidateRates(nil)
	}
	st := h.cache.Stats()
	return c.JSON(dto.CacheResponse{Invalidated: invalidated, Years: st.Years, Hits: st.Hits, Misses: st.Misses})
}

func (h *ReferenceHandler) audit(c *fiber.Ctx, op string, year int, key string) {
	h.log.Info().Str("op", op).Int("year", year).Str("key", key).Str("user_id", GetUserID(c)).Msg("datos de referencia modificados")
}
