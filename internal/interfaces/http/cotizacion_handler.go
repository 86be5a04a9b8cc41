package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/1gnale/car-chain-api/internal/application/quotes"
)

// CotizacionHandler maneja las peticiones HTTP de cotización.
type CotizacionHandler struct {
	uc *quotes.UseCase
}

// NewCotizacionHandler construye el handler.
func NewCotizacionHandler(uc *quotes.UseCase) *CotizacionHandler {
	return &CotizacionHandler{uc: uc}
}

// CotizarRequest cuerpo para generar una cotización.
type CotizarRequest struct {
	VehiculoID string `json:"vehiculoId"`
}

// Cotizar godoc
// @Summary      Cotizar un vehículo
// @Description  Calcula la prima de cada cobertura activa aplicando las franjas tarifarias vigentes.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Param        body  body  CotizarRequest  true  "Vehículo a cotizar"
// @Success      201   {object}  quotes.Resultado
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/cotizaciones [post]
func (h *CotizacionHandler) Cotizar(c *fiber.Ctx) error {
	var in CotizarRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.Cotizar(c.Context(), in.VehiculoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Get godoc
// @Summary      Obtener una cotización con sus líneas
// @Tags         cotizaciones
// @Produce      json
// @Param        id  path  string  true  "ID de la cotización"
// @Success      200  {object}  quotes.Resultado
// @Failure      404  {object}  ErrorResponse
// @Router       /api/cotizaciones/{id} [get]
func (h *CotizacionHandler) Get(c *fiber.Ctx) error {
	res, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
