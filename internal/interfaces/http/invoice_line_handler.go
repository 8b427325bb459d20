package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/udeservering-api/internal/application/dto"
	"github.com/jhoicas/udeservering-api/internal/application/invoicing"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
)

// InvoiceLineHandler flujo de fakturalinjer.
type InvoiceLineHandler struct {
	wf     *invoicing.Workflow
	report *invoicing.Report
	log    zerolog.Logger
}

func NewInvoiceLineHandler(wf *invoicing.Workflow, report *invoicing.Report, log zerolog.Logger) *InvoiceLineHandler {
	return &InvoiceLineHandler{wf: wf, report: report, log: log}
}

// List godoc
// @Summary      Listar fakturalinjer por estado
// @Tags         fakturalinjer
// @Produce      json
// @Param        status  query     string  false  "ny | til-fakturering | faktureret | fakturer-ikke (por defecto ny)"
// @Success      200     {object}  dto.InvoiceLineListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /fakturalinjer [get]
func (h *InvoiceLineHandler) List(c *fiber.Ctx) error {
	return h.list(c, c.Query("status", entity.LineStatusNew))
}

// ListStatus godoc
// @Summary      Listar fakturalinjer con estado fijo
// @Tags         fakturalinjer
// @Produce      json
// @Success      200  {object}  dto.InvoiceLineListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /fakturalinjer/til-fakturering [get]
// @Router       /fakturalinjer/faktureret [get]
func (h *InvoiceLineHandler) ListStatus(status string) fiber.Handler {
	return func(c *fiber.Ctx) error { return h.list(c, status) }
}

func (h *InvoiceLineHandler) list(c *fiber.Ctx, status string) error {
	lines, err := h.wf.ListByStatus(c.UserContext(), status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	st, _ := invoicing.ParseStatus(status)
	out := dto.InvoiceLineListResponse{Status: st, Total: len(lines), Items: make([]dto.InvoiceLineResponse, 0, len(lines))}
	for _, l := range lines {
		out.Items = append(out.Items, toInvoiceLineResponse(l))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener una fakturalinje
// @Tags         fakturalinjer
// @Produce      json
// @Param        id   path      int  true  "ID de la línea"
// @Success      200  {object}  dto.InvoiceLineResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /fakturalinjer/{id} [get]
func (h *InvoiceLineHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramInt(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	l, err := h.wf.Get(c.UserContext(), int64(id))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toInvoiceLineResponse(l))
}

// Transition godoc
// @Summary      Aplicar una acción a una fakturalinje
// @Description  Acciones: save, godkend, ikke.
// @Tags         fakturalinjer
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "ID de la línea"
// @Param        body  body      dto.TransitionRequest  true  "action y campos editables"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /fakturalinjer/{id}/handling [post]
func (h *InvoiceLineHandler) Transition(c *fiber.Ctx) error {
	id, err := paramInt(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.TransitionRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	edits := entity.InvoiceLineEdits{
		Area:         in.Area,
		FacadeLength: in.FacadeLength,
		Location:     in.Location,
		Comment:      in.Comment,
	}
	out, err := h.wf.ApplyTransition(c.UserContext(), int64(id), in.Action, edits)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Info().Int64("line_id", out.Line.ID).Str("action", in.Action).Str("status", out.Line.Status).
		Bool("skipped", out.Skipped).Str("user_id", GetUserID(c)).Msg("transición aplicada")
	return c.JSON(dto.TransitionResponse{
		Line:        toInvoiceLineResponse(out.Line),
		Skipped:     out.Skipped,
		PriceReason: out.PriceReason,
	})
}

// ApproveBulk godoc
// @Summary      Aprobar varias fakturalinjer
// @Description  Cada línea en su propia transacción; los errores por línea van en su item.
// @Tags         fakturalinjer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.IDsRequest  true  "ids (máximo 500)"
// @Success      200   {object}  dto.BulkResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /fakturalinjer/godkend [post]
func (h *InvoiceLineHandler) ApproveBulk(c *fiber.Ctx) error {
	return h.bulk(c, h.wf.ApproveBulk)
}

// ResetBulk godoc
// @Summary      Restablecer varias fakturalinjer
// @Tags         fakturalinjer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.IDsRequest  true  "ids (máximo 500)"
// @Success      200   {object}  dto.BulkResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /fakturalinjer/nulstil [post]
func (h *InvoiceLineHandler) ResetBulk(c *fiber.Ctx) error {
	return h.bulk(c, h.wf.ResetBulk)
}

func (h *InvoiceLineHandler) bulk(c *fiber.Ctx, fn func(ctx context.Context, ids []int64) ([]invoicing.BulkItem, error)) error {
	var in dto.IDsRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	items, err := fn(c.UserContext(), in.IDs)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := dto.BulkResponse{Processed: len(items), Items: make([]dto.BulkItemResponse, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, dto.BulkItemResponse{
			ID:      it.ID,
			Status:  it.Status,
			Price:   it.Price,
			Skipped: it.Skipped,
			Error:   it.Error,
		})
	}
	return c.JSON(out)
}

// Reset godoc
// @Summary      Restablecer una fakturalinje
// @Description  Borra la línea; una línea Faktureret se rechaza.
// @Tags         fakturalinjer
// @Param        id   path  int  true  "ID de la línea"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /fakturalinjer/{id} [delete]
func (h *InvoiceLineHandler) Reset(c *fiber.Ctx) error {
	id, err := paramInt(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.wf.Reset(c.UserContext(), int64(id)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BillingBasisPDF godoc
// @Summary      Faktureringsgrundlag en PDF
// @Tags         fakturalinjer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /fakturalinjer/til-fakturering/pdf [get]
func (h *InvoiceLineHandler) BillingBasisPDF(c *fiber.Ctx) error {
	out, err := h.report.BillingBasisPDF(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="faktureringsgrundlag-`+time.Now().Format("2006-01-02")+`.pdf"`)
	return c.Send(out)
}

func toInvoiceLineResponse(l *entity.InvoiceLine) dto.InvoiceLineResponse {
	return dto.InvoiceLineResponse{
		ID:           l.ID,
		PermitID:     l.PermitID,
		CompanyName:  l.CompanyName,
		Address:      l.Address,
		Zone:         l.Zone,
		Location:     l.Location,
		Area:         l.Area,
		FacadeLength: l.FacadeLength,
		BillingMonth: l.BillingMonth,
		BillingYear:  l.BillingYear,
		Status:       l.Status,
		Price:        l.Price,
		Comment:      l.Comment,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
