package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/udeservering-api/internal/application/dto"
	"github.com/jhoicas/udeservering-api/internal/application/statistics"
)

// StatisticsHandler panel de estadística.
type StatisticsHandler struct {
	uc  *statistics.UseCase
	log zerolog.Logger
}

func NewStatisticsHandler(uc *statistics.UseCase, log zerolog.Logger) *StatisticsHandler {
	return &StatisticsHandler{uc: uc, log: log}
}

// Summary godoc
// @Summary      Estadística de fakturalinjer
// @Tags         statistik
// @Produce      json
// @Success      200  {object}  dto.StatisticsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /statistik [get]
func (h *StatisticsHandler) Summary(c *fiber.Ctx) error {
	s, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := dto.StatisticsResponse{
		Status:  make(map[string]int, len(s.Statuses)),
		Amounts: make(map[string]decimal.Decimal, len(s.Statuses)),
		Total:   s.Amount,
		Totals:  dto.StatisticsTotals{Rows: s.Lines, Firms: s.Companies},
	}
	for _, st := range s.Statuses {
		out.Status[st.Status] = st.Count
		out.Amounts[st.Status] = st.Amount
	}
	return c.JSON(out)
}
