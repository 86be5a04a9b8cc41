package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/1gnale/car-chain-api/internal/application/claims"
)

// SiniestroHandler maneja las peticiones HTTP de siniestros y revisiones.
type SiniestroHandler struct {
	uc *claims.UseCase
}

// NewSiniestroHandler construye el handler.
func NewSiniestroHandler(uc *claims.UseCase) *SiniestroHandler {
	return &SiniestroHandler{uc: uc}
}

// ResolverRequest cuerpo para resolver un trámite.
type ResolverRequest struct {
	Aprobado bool `json:"aprobado"`
}

// Registrar godoc
// @Summary      Registrar un siniestro
// @Description  Solo se admite sobre pólizas con cobertura (VIGENTE o IMPAGA).
// @Tags         siniestros
// @Accept       json
// @Produce      json
// @Param        body  body  claims.RegistrarSiniestroInput  true  "Datos del siniestro"
// @Success      201   {object}  entity.Siniestro
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /api/siniestros [post]
func (h *SiniestroHandler) Registrar(c *fiber.Ctx) error {
	var in claims.RegistrarSiniestroInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.uc.RegistrarSiniestro(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// Get godoc
// @Summary      Obtener siniestro por ID
// @Tags         siniestros
// @Produce      json
// @Param        id  path  string  true  "ID del siniestro"
// @Success      200  {object}  entity.Siniestro
// @Failure      404  {object}  ErrorResponse
// @Router       /api/siniestros/{id} [get]
func (h *SiniestroHandler) Get(c *fiber.Ctx) error {
	s, err := h.uc.GetSiniestro(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

// Resolver godoc
// @Summary      Resolver un siniestro
// @Description  Aprueba o rechaza el trámite; la resolución es definitiva.
// @Tags         siniestros
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del siniestro"
// @Param        body  body  ResolverRequest  true  "Resolución"
// @Success      200   {object}  entity.Siniestro
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /api/siniestros/{id}/resolucion [put]
func (h *SiniestroHandler) Resolver(c *fiber.Ctx) error {
	var in ResolverRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.uc.ResolverSiniestro(c.Context(), c.Params("id"), in.Aprobado)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

// ResolverRevision godoc
// @Summary      Resolver la revisión de una póliza
// @Description  Aprueba o rechaza la revisión y mueve la póliza a APROBADA o RECHAZADA.
// @Tags         revisiones
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la revisión"
// @Param        body  body  ResolverRequest  true  "Resolución"
// @Success      200   {object}  entity.Revision
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /api/revisiones/{id}/resolucion [put]
func (h *SiniestroHandler) ResolverRevision(c *fiber.Ctx) error {
	var in ResolverRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rev, err := h.uc.ResolverRevision(c.Context(), c.Params("id"), in.Aprobado)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rev)
}
