package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/antifraude-api/internal/application/dto"
	"github.com/jhoicas/antifraude-api/internal/domain"
)

// respondError traduce errores de dominio a status HTTP + dto.ErrorResponse.
// Los errores no reconocidos son 500 con mensaje genérico; el detalle queda en el log.
func respondError(c *fiber.Ctx, err error) error {
	status, code, msg := fiber.StatusInternalServerError, "INTERNAL", "error interno"
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		status, code, msg = fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrAllocationExhausted):
		status, code, msg = fiber.StatusConflict, "CASE_SERIAL_EXHAUSTED", "se agotaron los números de caso de la categoría; contacte al administrador"
	case errors.Is(err, domain.ErrLockTimeout):
		c.Set(fiber.HeaderRetryAfter, "1")
		status, code, msg = fiber.StatusServiceUnavailable, "SERIAL_BUSY", "servicio ocupado, reintente"
	case errors.Is(err, domain.ErrPersistenceFailure):
		status, code, msg = fiber.StatusInternalServerError, "PERSISTENCE_FAILURE", "no se pudo guardar el caso"
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = fiber.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrUserAlreadyExists):
		status, code, msg = fiber.StatusConflict, "USER_EXISTS", "el usuario ya está registrado"
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		status, code, msg = fiber.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		status, code, msg = fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"
	case errors.Is(err, domain.ErrForbidden):
		status, code, msg = fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"
	}
	if status >= fiber.StatusInternalServerError {
		// El request logger registra el error devuelto por el handler.
		c.Locals(localHandlerErr, err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
