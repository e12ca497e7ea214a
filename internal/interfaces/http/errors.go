package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/erp-backend/internal/application/dto"
	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/pkg/logger"
)

// writeError traduce errores de dominio a dto.ErrorResponse con su status HTTP.
// Lo que no es de dominio se registra y sale como 500 sin detalles internos.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientInventory):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_INVENTORY", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	}
	logger.OrNop(log).Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: msg})
}

// unauthorized y forbidden envuelven los sentinels con el detalle que ve el cliente.
func unauthorized(c *fiber.Ctx, detail string) error {
	return writeError(c, nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, detail))
}

func forbidden(c *fiber.Ctx, detail string) error {
	return writeError(c, nil, fmt.Errorf("%w: %s", domain.ErrForbidden, detail))
}

// pathID lee un parámetro de ruta que debe ser UUID (todas las llaves de la base lo son).
func pathID(c *fiber.Ctx, name string) (string, error) {
	return checkID(name, c.Params(name))
}

// queryID igual que pathID para un parámetro de query obligatorio.
func queryID(c *fiber.Ctx, name string) (string, error) {
	return checkID(name, c.Query(name))
}

func checkID(field, id string) (string, error) {
	if id == "" {
		return "", domain.NewValidationError(field, "es obligatorio")
	}
	if err := uuid.Validate(id); err != nil {
		return "", domain.NewValidationError(field, "debe ser un UUID válido")
	}
	return id, nil
}
