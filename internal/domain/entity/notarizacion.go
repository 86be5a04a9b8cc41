package entity

import "time"

// EstadoEvento es el estado de un evento en la cola de notarización.
type EstadoEvento string

const (
	EventoPendiente EstadoEvento = "PENDIENTE"
	EventoEnviado   EstadoEvento = "ENVIADA"
	EventoError     EstadoEvento = "ERROR" // agotó reintentos
)

// ActaNotarial es el subconjunto de datos de la póliza que se asienta en el
// ledger externo para evidencia de integridad.
type ActaNotarial struct {
	NombreAsegurado  string `json:"nombreAsegurado"`
	Documento        string `json:"documento"`
	NumeroPoliza     string `json:"numeroPoliza"`
	Estado           string `json:"estado"`
	FechaVencimiento string `json:"fechaVencimiento"` // YYYY-MM-DD
	Matricula        string `json:"matricula"`
}

// EventoNotarizacion es una fila de la cola (outbox) de notarización. Se
// inserta en la misma transacción que confirma el pago; un despachador
// independiente lo entrega al ledger con reintentos. El commit local nunca
// espera al ledger.
type EventoNotarizacion struct {
	ID              string
	PolizaNumero    string
	Acta            ActaNotarial
	Estado          EstadoEvento
	Intentos        int
	UltimoError     string
	HashTransaccion string
	CreatedAt       time.Time
	EnviadoAt       *time.Time
}
