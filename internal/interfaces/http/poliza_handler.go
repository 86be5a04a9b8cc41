package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/1gnale/car-chain-api/internal/application/policy"
)

// PolizaHandler maneja las peticiones HTTP del ciclo de vida de pólizas.
type PolizaHandler struct {
	uc *policy.UseCase
}

// NewPolizaHandler construye el handler.
func NewPolizaHandler(uc *policy.UseCase) *PolizaHandler {
	return &PolizaHandler{uc: uc}
}

// VehiculoRequest datos del vehículo a asegurar.
type VehiculoRequest struct {
	Matricula   string `json:"matricula"`
	Chasis      string `json:"chasis"`
	NumeroMotor string `json:"numeroMotor"`
	Anio        int    `json:"anio"`
	GNC         bool   `json:"gnc"`
	VersionID   string `json:"versionId"`
	PersonaID   string `json:"personaId"`
}

// CotizacionRequest snapshot de cotización que viaja con el alta completa.
type CotizacionRequest struct {
	FechaVencimiento    time.Time       `json:"fechaVencimiento"`
	ConfigEdadID        *string         `json:"configEdadId"`
	ConfigAntiguedadID  *string         `json:"configAntiguedadId"`
	ConfigLocalidadID   *string         `json:"configLocalidadId"`
	DescuentoEdad       decimal.Decimal `json:"descuentoEdad"`
	RecargoEdad         decimal.Decimal `json:"recargoEdad"`
	DescuentoAntiguedad decimal.Decimal `json:"descuentoAntiguedad"`
	RecargoAntiguedad   decimal.Decimal `json:"recargoAntiguedad"`
	DescuentoLocalidad  decimal.Decimal `json:"descuentoLocalidad"`
	RecargoLocalidad    decimal.Decimal `json:"recargoLocalidad"`
}

// LineaRequest una cobertura cotizada con su monto asegurado.
type LineaRequest struct {
	CoberturaID string          `json:"coberturaId"`
	Monto       decimal.Decimal `json:"monto"`
}

// CrearPolizaRequest cuerpo del alta completa de póliza.
type CrearPolizaRequest struct {
	Vehiculo              VehiculoRequest            `json:"vehiculo"`
	Cotizacion            CotizacionRequest          `json:"cotizacion"`
	Lineas                []LineaRequest             `json:"lineas"`
	CoberturaContratadaID string                     `json:"coberturaContratadaId"`
	Documentacion         policy.DocumentacionInput  `json:"documentacion"`
}

// CrearDesdeLineaRequest cuerpo del alta de póliza sobre una cotización ya
// persistida.
type CrearDesdeLineaRequest struct {
	DocumentacionID   string `json:"documentacionId"`
	LineaCotizacionID string `json:"lineaCotizacionId"`
}

// CambiarEstadoRequest cuerpo de la transición de estado manual.
type CambiarEstadoRequest struct {
	Estado string `json:"estado"`
}

// AsignarResponsableRequest cuerpo de asignación de responsable.
type AsignarResponsableRequest struct {
	Legajo string `json:"legajo"`
}

// Crear godoc
// @Summary      Alta completa de póliza
// @Description  Crea vehículo, cotización, líneas, documentación y la póliza en una sola transacción.
// @Tags         polizas
// @Accept       json
// @Produce      json
// @Param        body  body  CrearPolizaRequest  true  "Datos del alta"
// @Success      201   {object}  entity.Poliza
// @Failure      400   {object}  ErrorResponse
// @Router       /api/polizas [post]
func (h *PolizaHandler) Crear(c *fiber.Ctx) error {
	var in CrearPolizaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lineas := make([]policy.LineaInput, 0, len(in.Lineas))
	for _, l := range in.Lineas {
		lineas = append(lineas, policy.LineaInput{CoberturaID: l.CoberturaID, Monto: l.Monto})
	}
	p, err := h.uc.CrearCompleta(c.Context(), policy.CrearCompletaInput{
		Vehiculo: policy.VehiculoInput{
			Matricula:   in.Vehiculo.Matricula,
			Chasis:      in.Vehiculo.Chasis,
			NumeroMotor: in.Vehiculo.NumeroMotor,
			Anio:        in.Vehiculo.Anio,
			GNC:         in.Vehiculo.GNC,
			VersionID:   in.Vehiculo.VersionID,
			PersonaID:   in.Vehiculo.PersonaID,
		},
		Cotizacion: policy.CotizacionSnapshot{
			FechaVencimiento:    in.Cotizacion.FechaVencimiento,
			ConfigEdadID:        in.Cotizacion.ConfigEdadID,
			ConfigAntiguedadID:  in.Cotizacion.ConfigAntiguedadID,
			ConfigLocalidadID:   in.Cotizacion.ConfigLocalidadID,
			DescuentoEdad:       in.Cotizacion.DescuentoEdad,
			RecargoEdad:         in.Cotizacion.RecargoEdad,
			DescuentoAntiguedad: in.Cotizacion.DescuentoAntiguedad,
			RecargoAntiguedad:   in.Cotizacion.RecargoAntiguedad,
			DescuentoLocalidad:  in.Cotizacion.DescuentoLocalidad,
			RecargoLocalidad:    in.Cotizacion.RecargoLocalidad,
		},
		Lineas:                lineas,
		CoberturaContratadaID: in.CoberturaContratadaID,
		Documentacion:         in.Documentacion,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// CrearDesdeLinea godoc
// @Summary      Alta de póliza sobre una línea de cotización existente
// @Description  Emite la póliza PENDIENTE copiando el monto asegurado del precio de mercado de la versión.
// @Tags         polizas
// @Accept       json
// @Produce      json
// @Param        body  body  CrearDesdeLineaRequest  true  "Documentación y línea de cotización"
// @Success      201   {object}  entity.Poliza
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/polizas/desde-linea [post]
func (h *PolizaHandler) CrearDesdeLinea(c *fiber.Ctx) error {
	var in CrearDesdeLineaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Crear(c.Context(), in.DocumentacionID, in.LineaCotizacionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// Get godoc
// @Summary      Obtener póliza por número
// @Tags         polizas
// @Produce      json
// @Param        numero  path  string  true  "Número de póliza"
// @Success      200  {object}  entity.Poliza
// @Failure      404  {object}  ErrorResponse
// @Router       /api/polizas/{numero} [get]
func (h *PolizaHandler) Get(c *fiber.Ctx) error {
	p, err := h.uc.Get(c.Context(), c.Params("numero"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// CambiarEstado godoc
// @Summary      Transicionar el estado de una póliza
// @Tags         polizas
// @Accept       json
// @Produce      json
// @Param        numero  path  string  true  "Número de póliza"
// @Param        body    body  CambiarEstadoRequest  true  "Estado destino"
// @Success      200  {object}  entity.Poliza
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/polizas/{numero}/estado [put]
func (h *PolizaHandler) CambiarEstado(c *fiber.Ctx) error {
	var in CambiarEstadoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.CambiarEstado(c.Context(), c.Params("numero"), in.Estado)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// AsignarResponsable godoc
// @Summary      Asignar responsable de revisión
// @Tags         polizas
// @Accept       json
// @Produce      json
// @Param        numero  path  string  true  "Número de póliza"
// @Param        body    body  AsignarResponsableRequest  true  "Legajo del responsable"
// @Success      200  {object}  entity.Poliza
// @Failure      404  {object}  ErrorResponse
// @Router       /api/polizas/{numero}/responsable [put]
func (h *PolizaHandler) AsignarResponsable(c *fiber.Ctx) error {
	var in AsignarResponsableRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.AsignarResponsable(c.Context(), c.Params("numero"), in.Legajo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// RegistrarRevision godoc
// @Summary      Abrir la revisión de una póliza pendiente
// @Description  Mueve la póliza de PENDIENTE a EN_REVISION y crea el registro de revisión.
// @Tags         polizas
// @Produce      json
// @Param        numero  path  string  true  "Número de póliza"
// @Success      201  {object}  entity.Revision
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/polizas/{numero}/revisiones [post]
func (h *PolizaHandler) RegistrarRevision(c *fiber.Ctx) error {
	rev, err := h.uc.RegistrarRevision(c.Context(), c.Params("numero"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rev)
}

// Certificado godoc
// @Summary      Descargar el certificado de cobertura en PDF
// @Tags         polizas
// @Produce      application/pdf
// @Param        numero  path  string  true  "Número de póliza"
// @Success      200  {file}    binary
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/polizas/{numero}/certificado [get]
func (h *PolizaHandler) Certificado(c *fiber.Ctx) error {
	pdf, err := h.uc.Certificado(c.Context(), c.Params("numero"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="certificado-`+c.Params("numero")+`.pdf"`)
	return c.Send(pdf)
}
