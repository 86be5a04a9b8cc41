package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/1gnale/car-chain-api/internal/domain"
)

// EstadoPoliza es el estado del ciclo de vida de una póliza.
// Los valores se persisten tal cual (columnas de texto).
type EstadoPoliza string

const (
	PolizaPendiente  EstadoPoliza = "PENDIENTE"
	PolizaEnRevision EstadoPoliza = "EN_REVISIÓN"
	PolizaRechazada  EstadoPoliza = "RECHAZADA"
	PolizaAprobada   EstadoPoliza = "APROBADA"
	PolizaVigente    EstadoPoliza = "VIGENTE"
	PolizaImpaga     EstadoPoliza = "IMPAGA"
	PolizaVencida    EstadoPoliza = "VENCIDA"
	PolizaCancelada  EstadoPoliza = "CANCELADA"
)

// transicionesPoliza es la tabla de transiciones permitidas; todo cambio de
// estado pasa por aquí. RECHAZADA, VENCIDA y CANCELADA son terminales.
var transicionesPoliza = map[EstadoPoliza][]EstadoPoliza{
	PolizaPendiente:  {PolizaEnRevision},
	PolizaEnRevision: {PolizaAprobada, PolizaRechazada},
	PolizaAprobada:   {PolizaVigente},
	PolizaVigente:    {PolizaImpaga, PolizaVencida, PolizaCancelada},
	PolizaImpaga:     {PolizaVigente, PolizaCancelada},
	PolizaRechazada:  {},
	PolizaVencida:    {},
	PolizaCancelada:  {},
}

// ParseEstadoPoliza valida un valor persistido o recibido por API.
func ParseEstadoPoliza(s string) (EstadoPoliza, error) {
	e := EstadoPoliza(s)
	if _, ok := transicionesPoliza[e]; !ok {
		return "", domain.ErrInvalidInput
	}
	return e, nil
}

// PuedeTransicionarA indica si la tabla permite pasar de e a destino.
func (e EstadoPoliza) PuedeTransicionarA(destino EstadoPoliza) bool {
	for _, permitido := range transicionesPoliza[e] {
		if permitido == destino {
			return true
		}
	}
	return false
}

// EsTerminal indica si el estado no admite salidas.
func (e EstadoPoliza) EsTerminal() bool {
	return len(transicionesPoliza[e]) == 0
}

// Poliza es el contrato asegurado, entidad central del sistema.
// La mutación de Estado y de las fechas contractuales pertenece en exclusiva
// a los casos de uso de póliza y de conciliación de pagos.
type Poliza struct {
	NumeroPoliza         string
	UsuarioLegajo        *string         // empleado responsable; nulo hasta asignación
	DocumentacionID      string
	LineaCotizacionID    string
	TipoContratacionID   *string         // nulo hasta el primer pago
	PeriodoPagoID        *string         // nulo hasta el primer pago
	PrecioPolizaActual   decimal.Decimal
	MontoAsegurado       decimal.Decimal // precio de mercado de la versión al crear
	FechaContratacion    *time.Time
	HoraContratacion     string          // HH:MM:SS, junto a FechaContratacion
	FechaDePago          *time.Time      // próximo vencimiento de cuota
	FechaVencimiento     *time.Time      // fin del contrato
	FechaCancelacion     *time.Time
	RenovacionAutomatica bool
	Estado               EstadoPoliza
	HashNotarizacion     string          // hash de la transacción en el ledger; vacío = pendiente
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CambiarEstado aplica la tabla de transiciones; ErrTransicionInvalida si el
// movimiento no está permitido.
func (p *Poliza) CambiarEstado(destino EstadoPoliza) error {
	if !p.Estado.PuedeTransicionarA(destino) {
		return domain.ErrTransicionInvalida
	}
	p.Estado = destino
	return nil
}
