package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/docvault-api/internal/application/dto"
	"github.com/jhoicas/docvault-api/internal/application/keys"
	"github.com/jhoicas/docvault-api/internal/domain"
)

// writeError traduce la taxonomía de errores del dominio a respuestas HTTP.
// Los rechazos de dominio viajan como JSON bien formado; solo los fallos de
// infraestructura desconocidos terminan en 500.
func writeError(c *fiber.Ctx, err error) error {
	var delegationErr *keys.DelegationError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrKeyMissing):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "KEY_MISSING", Message: "un contenedor nuevo requiere una llave adjunta"})
	case errors.Is(err, domain.ErrVersionExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "VERSION_EXISTS", Message: err.Error()})
	case errors.Is(err, domain.ErrCategoryImmutable),
		errors.Is(err, domain.ErrGroupImmutable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IMMUTABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyInState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_IN_STATE", Message: err.Error()})
	case errors.As(err, &delegationErr):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "KEY_DELEGATION", Message: delegationErr.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
