package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/1gnale/car-chain-api/internal/application/payment"
	"github.com/1gnale/car-chain-api/internal/domain"
)

// PagoHandler maneja la iniciación de pagos y los retornos de la pasarela.
//
// Los retornos son GET porque la pasarela redirige el navegador del asegurado:
// todos los ids necesarios para conciliar viajan en el path, sin sesión.
type PagoHandler struct {
	rec *payment.Reconciler
}

// NewPagoHandler construye el handler.
func NewPagoHandler(rec *payment.Reconciler) *PagoHandler {
	return &PagoHandler{rec: rec}
}

// IniciarPagoRequest cuerpo para iniciar el pago de una cuota.
type IniciarPagoRequest struct {
	PolizaNumero       string          `json:"polizaNumero"`
	TipoContratacionID string          `json:"tipoContratacionId"`
	PeriodoPagoID      string          `json:"periodoPagoId"`
	Monto              decimal.Decimal `json:"monto"`
	Renovacion         bool            `json:"renovacion"`
}

// IniciarPagoResponse respuesta con la URL de checkout.
type IniciarPagoResponse struct {
	InitURL string `json:"initUrl"`
	PagoID  string `json:"pagoId"`
}

// RetornoResponse respuesta informativa de un retorno de pasarela.
type RetornoResponse struct {
	Estado       string `json:"estado"`
	PolizaNumero string `json:"polizaNumero"`
	Mensaje      string `json:"mensaje"`
}

// Iniciar godoc
// @Summary      Iniciar el pago de una cuota
// @Description  Crea el pago pendiente y la preferencia en la pasarela; devuelve la URL de checkout.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Param        body  body  IniciarPagoRequest  true  "Datos del pago"
// @Success      201   {object}  IniciarPagoResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      502   {object}  ErrorResponse
// @Router       /api/pagos [post]
func (h *PagoHandler) Iniciar(c *fiber.Ctx) error {
	var in IniciarPagoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	url, pago, err := h.rec.IniciarPago(c.Context(), payment.IniciarPagoInput{
		PolizaNumero:       in.PolizaNumero,
		TipoContratacionID: in.TipoContratacionID,
		PeriodoPagoID:      in.PeriodoPagoID,
		Monto:              in.Monto,
		Renovacion:         in.Renovacion,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(IniciarPagoResponse{InitURL: url, PagoID: pago.ID})
}

// RetornoExito godoc
// @Summary      Retorno de pago aprobado
// @Description  Concilia el pago aprobado: primer pago o renovación según el estado de la póliza.
// @Tags         pagos
// @Produce      json
// @Param        poliza      path   string  true   "Número de póliza"
// @Param        pago        path   string  true   "ID del pago"
// @Param        tipo        path   string  true   "ID del tipo de contratación"
// @Param        periodo     path   string  true   "ID del período de pago"
// @Param        payment_id  query  string  false  "ID del pago en la pasarela"
// @Success      200  {object}  entity.Poliza
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/pagos/retorno/exito/{poliza}/{pago}/{tipo}/{periodo} [get]
func (h *PagoHandler) RetornoExito(c *fiber.Ctx) error {
	p, err := h.rec.ConfirmarRetorno(
		c.Context(),
		c.Params("poliza"),
		c.Params("pago"),
		c.Params("tipo"),
		c.Params("periodo"),
		c.Query("payment_id"),
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// RetornoPendiente godoc
// @Summary      Retorno de pago pendiente de acreditación
// @Description  No cambia nada: el pago queda PENDIENTE hasta que la pasarela lo resuelva.
// @Tags         pagos
// @Produce      json
// @Param        poliza   path  string  true  "Número de póliza"
// @Param        pago     path  string  true  "ID del pago"
// @Param        tipo     path  string  true  "ID del tipo de contratación"
// @Param        periodo  path  string  true  "ID del período de pago"
// @Success      200  {object}  RetornoResponse
// @Router       /api/pagos/retorno/pendiente/{poliza}/{pago}/{tipo}/{periodo} [get]
func (h *PagoHandler) RetornoPendiente(c *fiber.Ctx) error {
	return c.JSON(RetornoResponse{
		Estado:       "PENDIENTE",
		PolizaNumero: c.Params("poliza"),
		Mensaje:      "el pago está pendiente de acreditación; la póliza se activará al confirmarse",
	})
}

// RetornoFracaso godoc
// @Summary      Retorno de pago rechazado
// @Description  Anula el pago fallido para que pueda reintentarse desde cero.
// @Tags         pagos
// @Produce      json
// @Param        poliza   path  string  true  "Número de póliza"
// @Param        pago     path  string  true  "ID del pago"
// @Param        tipo     path  string  true  "ID del tipo de contratación"
// @Param        periodo  path  string  true  "ID del período de pago"
// @Success      200  {object}  RetornoResponse
// @Router       /api/pagos/retorno/fracaso/{poliza}/{pago}/{tipo}/{periodo} [get]
func (h *PagoHandler) RetornoFracaso(c *fiber.Ctx) error {
	// Un retorno repetido puede llegar cuando el pago ya fue anulado; no es error.
	if err := h.rec.AnularPagoFallido(c.Context(), c.Params("pago")); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return respondError(c, err)
	}
	return c.JSON(RetornoResponse{
		Estado:       "FRACASO",
		PolizaNumero: c.Params("poliza"),
		Mensaje:      "el pago fue rechazado; puede reintentarse iniciando un pago nuevo",
	})
}
