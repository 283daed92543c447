package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/antifraude-api/internal/application/dto"
	"github.com/jhoicas/antifraude-api/internal/application/intake"
)

// IntakeHandler recepción de textos sospechosos.
type IntakeHandler struct {
	uc *intake.IntakeUseCase
}

func NewIntakeHandler(uc *intake.IntakeUseCase) *IntakeHandler {
	return &IntakeHandler{uc: uc}
}

// Analyze godoc
// @Summary      Analizar un texto y registrar el caso
// @Description  Clasifica el texto (modelo remoto con respaldo por palabras clave), asigna el
//               número de caso <código><5 dígitos> y guarda el registro.
// @Tags         intake
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AnalyzeRequest  true  "text"
// @Success      200   {object}  dto.AnalyzeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "CASE_SERIAL_EXHAUSTED"
// @Failure      500   {object}  dto.ErrorResponse  "PERSISTENCE_FAILURE"
// @Failure      503   {object}  dto.ErrorResponse  "SERIAL_BUSY"
// @Router       /api/analyze [post]
func (h *IntakeHandler) Analyze(c *fiber.Ctx) error {
	var in dto.AnalyzeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Analyze(c.Context(), GetUserID(c), in.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
