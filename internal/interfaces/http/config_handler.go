package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/1gnale/car-chain-api/internal/application/rates"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
)

// ConfigHandler maneja las peticiones HTTP para la configuración tarifaria.
type ConfigHandler struct {
	uc *rates.UseCase
}

// NewConfigHandler construye el handler.
func NewConfigHandler(uc *rates.UseCase) *ConfigHandler {
	return &ConfigHandler{uc: uc}
}

// CrearConfigRequest cuerpo para crear una franja tarifaria.
type CrearConfigRequest struct {
	Nombre      string           `json:"nombre"`
	Minimo      *int             `json:"minimo"`
	Maximo      *int             `json:"maximo"`
	LocalidadID *string          `json:"localidadId"`
	Descuento   *decimal.Decimal `json:"descuento"`
	Ganancia    *decimal.Decimal `json:"ganancia"`
	Recargo     *decimal.Decimal `json:"recargo"`
}

// ActualizarConfigRequest cuerpo para actualizar una franja; campos ausentes no cambian.
type ActualizarConfigRequest struct {
	Nombre    *string          `json:"nombre"`
	Minimo    *int             `json:"minimo"`
	Maximo    *int             `json:"maximo"`
	Descuento *decimal.Decimal `json:"descuento"`
	Ganancia  *decimal.Decimal `json:"ganancia"`
	Recargo   *decimal.Decimal `json:"recargo"`
	Activo    *bool            `json:"activo"`
}

// Crear godoc
// @Summary      Crear franja tarifaria
// @Tags         configs
// @Accept       json
// @Produce      json
// @Param        tipo  path  string  true  "EDAD | ANTIGUEDAD | LOCALIDAD"
// @Param        body  body  CrearConfigRequest  true  "Datos de la franja"
// @Success      201   {object}  entity.ConfigTarifa
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /api/configs/{tipo} [post]
func (h *ConfigHandler) Crear(c *fiber.Ctx) error {
	tipo := entity.TipoConfig(c.Params("tipo"))
	var in CrearConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cfg, err := h.uc.Crear(c.Context(), tipo, rates.CrearConfigInput{
		Nombre:      in.Nombre,
		Minimo:      in.Minimo,
		Maximo:      in.Maximo,
		LocalidadID: in.LocalidadID,
		Descuento:   in.Descuento,
		Ganancia:    in.Ganancia,
		Recargo:     in.Recargo,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cfg)
}

// ListActivas godoc
// @Summary      Listar franjas activas de un tipo
// @Tags         configs
// @Produce      json
// @Param        tipo  path  string  true  "EDAD | ANTIGUEDAD | LOCALIDAD"
// @Success      200   {array}  entity.ConfigTarifa
// @Router       /api/configs/{tipo} [get]
func (h *ConfigHandler) ListActivas(c *fiber.Ctx) error {
	tipo := entity.TipoConfig(c.Params("tipo"))
	list, err := h.uc.ListActivas(c.Context(), tipo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// BuscarPorValor godoc
// @Summary      Buscar la franja activa que contiene un valor
// @Tags         configs
// @Produce      json
// @Param        tipo   path   string  true  "EDAD | ANTIGUEDAD"
// @Param        valor  query  int     true  "Valor a buscar"
// @Success      200    {object}  entity.ConfigTarifa
// @Failure      404    {object}  ErrorResponse
// @Router       /api/configs/{tipo}/buscar [get]
func (h *ConfigHandler) BuscarPorValor(c *fiber.Ctx) error {
	tipo := entity.TipoConfig(c.Params("tipo"))
	valor := c.QueryInt("valor", -1)
	cfg, err := h.uc.BuscarPorValor(c.Context(), tipo, valor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cfg)
}

// BuscarPorLocalidad godoc
// @Summary      Buscar la configuración activa de una localidad
// @Tags         configs
// @Produce      json
// @Param        localidadId  path  string  true  "ID de la localidad"
// @Success      200  {object}  entity.ConfigTarifa
// @Failure      404  {object}  ErrorResponse
// @Router       /api/configs/localidad/{localidadId} [get]
func (h *ConfigHandler) BuscarPorLocalidad(c *fiber.Ctx) error {
	cfg, err := h.uc.BuscarPorLocalidad(c.Context(), c.Params("localidadId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cfg)
}

// Get godoc
// @Summary      Obtener franja por ID
// @Tags         configs
// @Produce      json
// @Param        id  path  string  true  "ID de la franja"
// @Success      200  {object}  entity.ConfigTarifa
// @Failure      404  {object}  ErrorResponse
// @Router       /api/configs/id/{id} [get]
func (h *ConfigHandler) Get(c *fiber.Ctx) error {
	cfg, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cfg)
}

// Actualizar godoc
// @Summary      Actualizar franja tarifaria
// @Tags         configs
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la franja"
// @Param        body  body  ActualizarConfigRequest  true  "Campos a modificar"
// @Success      200   {object}  entity.ConfigTarifa
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /api/configs/id/{id} [put]
func (h *ConfigHandler) Actualizar(c *fiber.Ctx) error {
	var in ActualizarConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cfg, err := h.uc.Actualizar(c.Context(), c.Params("id"), rates.ActualizarConfigInput{
		Nombre:    in.Nombre,
		Minimo:    in.Minimo,
		Maximo:    in.Maximo,
		Descuento: in.Descuento,
		Ganancia:  in.Ganancia,
		Recargo:   in.Recargo,
		Activo:    in.Activo,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cfg)
}

// Desactivar godoc
// @Summary      Desactivar franja tarifaria (baja lógica)
// @Tags         configs
// @Param        id  path  string  true  "ID de la franja"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /api/configs/id/{id} [delete]
func (h *ConfigHandler) Desactivar(c *fiber.Ctx) error {
	if err := h.uc.Desactivar(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
