package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/antifraude-api/internal/application/dto"
	"github.com/jhoicas/antifraude-api/internal/application/report"
)

// ReportHandler denuncias de usuarios.
type ReportHandler struct {
	uc *report.ReportUseCase
}

func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Submit godoc
// @Summary      Enviar una denuncia (anónima si no hay token)
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitReportRequest  true  "type, content, source"
// @Success      201   {object}  dto.SubmitReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports [post]
func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitReportRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Submit(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar denuncias
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        page      query  int     false  "página"
// @Param        per_page  query  int     false  "por página"
// @Param        status    query  string  false  "pending | processing | resolved"
// @Param        type      query  string  false  "sms | call | website | app | other"
// @Success      200  {object}  dto.ReportListResponse
// @Router       /api/admin/reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), dto.ReportListRequest{
		PageRequest: pageFromQuery(c),
		Status:      c.Query("status"),
		Type:        c.Query("type"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar el estado de una denuncia
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "id"
// @Param        body  body  dto.UpdateReportStatusRequest  true  "status"
// @Success      200   {object}  dto.UpdateReportStatusResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/reports/{id}/status [put]
func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateReportStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// BatchUpdateStatus godoc
// @Summary      Cambiar el estado de varias denuncias
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchUpdateReportsRequest  true  "report_ids, status"
// @Success      200   {object}  dto.BatchUpdateReportsResponse
// @Router       /api/admin/reports/batch [put]
func (h *ReportHandler) BatchUpdateStatus(c *fiber.Ctx) error {
	var in dto.BatchUpdateReportsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.BatchUpdateStatus(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
