package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/1gnale/car-chain-api/internal/domain"
)

// ErrorResponse respuesta de error uniforme de la API.
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Fields  []domain.CampoInvalido `json:"fields,omitempty"`
}

// modoDesarrollo controla si los errores internos exponen el detalle crudo.
// Lo fija Router a partir del entorno configurado.
var modoDesarrollo bool

// respondError traduce los errores de dominio a códigos HTTP. Los handlers
// solo agregan casos propios antes de delegar acá.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Code: "VALIDATION", Message: "hay campos inválidos", Fields: verr.Campos,
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrTransicionInvalida):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrPrimerPagoNoAprobada),
		errors.Is(err, domain.ErrRenovacionNoImpaga),
		errors.Is(err, domain.ErrPolizaSinPeriodoPago),
		errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrServicioExterno):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Code: "EXTERNAL_SERVICE", Message: err.Error()})
	default:
		mensaje := "error interno"
		if modoDesarrollo {
			mensaje = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Code: "INTERNAL", Message: mensaje})
	}
}
