package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/antifraude-api/internal/application/admin"
	"github.com/jhoicas/antifraude-api/internal/application/dto"
)

// AdminHandler endpoints de administración de casos (rol admin).
type AdminHandler struct {
	uc *admin.AdminUseCase
}

func NewAdminHandler(uc *admin.AdminUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Page: c.QueryInt("page", 1), PerPage: c.QueryInt("per_page", 10)}
}

// ListRecords godoc
// @Summary      Listar registros de casos
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        page            query  int     false  "página (1)"
// @Param        per_page        query  int     false  "por página (10, máx. 100)"
// @Param        fraud_type      query  string  false  "tipo de fraude"
// @Param        is_fraud        query  string  false  "true | false"
// @Param        search_keyword  query  string  false  "texto o usuario"
// @Success      200  {object}  dto.RecordListResponse
// @Router       /api/admin/records [get]
func (h *AdminHandler) ListRecords(c *fiber.Ctx) error {
	out, err := h.uc.ListRecords(c.Context(), dto.RecordListRequest{
		PageRequest: pageFromQuery(c),
		FraudType:   c.Query("fraud_type"),
		IsFraud:     c.Query("is_fraud"),
		Keyword:     c.Query("search_keyword"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteRecord godoc
// @Summary      Eliminar un registro
// @Tags         admin
// @Security     Bearer
// @Param        id   path  string  true  "id del registro"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/records/{id} [delete]
func (h *AdminHandler) DeleteRecord(c *fiber.Ctx) error {
	if err := h.uc.DeleteRecord(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "registro eliminado"})
}

// Stats godoc
// @Summary      Estadísticas del panel
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListSequences godoc
// @Summary      Estado de los consecutivos
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SequenceDTO
// @Router       /api/admin/sequences [get]
func (h *AdminHandler) ListSequences(c *fiber.Ctx) error {
	out, err := h.uc.ListSequences(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ResetCategory godoc
// @Summary      Reiniciar el consecutivo de una categoría
// @Description  Borra los registros de la categoría y vuelve el consecutivo a 1.
// @Tags         admin
// @Security     Bearer
// @Param        code  path  string  true  "código de categoría (a..l, z)"
// @Success      200   {object}  dto.ResetCategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/sequences/{code}/reset [post]
func (h *AdminHandler) ResetCategory(c *fiber.Ctx) error {
	out, err := h.uc.ResetCategory(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ResetAll godoc
// @Summary      Borrar todos los registros y reiniciar los consecutivos
// @Tags         admin
// @Security     Bearer
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/admin/reset [post]
func (h *AdminHandler) ResetAll(c *fiber.Ctx) error {
	n, err := h.uc.ResetAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "datos reiniciados", "deleted_records": n})
}
