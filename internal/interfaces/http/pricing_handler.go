package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/udeservering-api/internal/application/dto"
	"github.com/jhoicas/udeservering-api/internal/application/pricing"
	engine "github.com/jhoicas/udeservering-api/internal/domain/pricing"
)

// PricingHandler cálculo de precios.
type PricingHandler struct {
	svc *pricing.Service
	log zerolog.Logger
}

func NewPricingHandler(svc *pricing.Service, log zerolog.Logger) *PricingHandler {
	return &PricingHandler{svc: svc, log: log}
}

// Price godoc
// @Summary      Calcular precio de un periodo
// @Description  Una zona sin tarifa responde 200 con ok=false y reason, sin importes.
// @Tags         pris
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PriceRequest  true  "zone, location, area, facade_length, month, year"
// @Success      200   {object}  dto.PriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /pris [post]
func (h *PricingHandler) Price(c *fiber.Ctx) error {
	var in dto.PriceRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.svc.Price(c.UserContext(), engine.Input{
		Zone:         in.Zone,
		Location:     in.Location,
		Area:         in.Area,
		FacadeLength: in.FacadeLength,
		Month:        in.Month,
		Year:         in.Year,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toPriceResponse(res))
}

func toPriceResponse(res engine.Result) dto.PriceResponse {
	if !res.OK {
		return dto.PriceResponse{OK: false, Zone: res.Zone, Reason: res.Reason}
	}
	return dto.PriceResponse{
		OK:             true,
		Zone:           res.Zone,
		Season:         res.Season,
		Summer:         &res.Summer,
		UnitPrice:      &res.UnitPrice,
		GrossArea:      &res.GrossArea,
		NetArea:        &res.NetArea,
		Amount:         &res.Amount,
		MinimumApplied: &res.MinimumApplied,
		Reason:         res.Reason,
	}
}
