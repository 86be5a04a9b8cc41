package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstadoPago es el estado interno de un pago.
type EstadoPago string

const (
	PagoPendiente EstadoPago = "PENDIENTE"
	PagoAprobado  EstadoPago = "APROBADO"
)

// Pago registra un intento de pago de una póliza junto con los campos de
// correlación de la pasarela externa. Se crea PENDIENTE al iniciar el intento
// y pasa a APROBADO en la confirmación; un intento fallido se elimina.
type Pago struct {
	ID           string
	PolizaNumero string
	Total        decimal.Decimal
	Fecha        time.Time
	Hora         string // HH:MM:SS

	// Correlación con la pasarela.
	PagoExternoID      string // id del pago en la pasarela
	EstadoExterno      string
	DetalleEstado      string
	ReferenciaExterna  string
	MetodoPago         string
	TipoPago           string
	PreferenciaID      string

	Estado    EstadoPago
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TipoContratacion define la duración del contrato en meses.
type TipoContratacion struct {
	ID            string
	Nombre        string
	CantidadMeses int
	Activo        bool
}

// PeriodoPago define cada cuántos meses vence una cuota.
type PeriodoPago struct {
	ID            string
	Nombre        string
	CantidadMeses int
	Descuento     decimal.Decimal
	Activo        bool
}
