package entity

import "time"

// EstadoTramite es el patrón de aprobación en dos pasos compartido por
// siniestros y revisiones.
type EstadoTramite string

const (
	TramitePendiente EstadoTramite = "PENDIENTE"
	TramiteRechazado EstadoTramite = "RECHAZADA"
	TramiteAprobado  EstadoTramite = "APROBADA"
)

// EsTerminal indica si el trámite ya fue resuelto.
func (e EstadoTramite) EsTerminal() bool { return e != TramitePendiente }

// Siniestro es un reclamo sobre una póliza.
type Siniestro struct {
	ID           string
	PolizaNumero string
	Fecha        time.Time
	Hora         string
	Descripcion  string
	Estado       EstadoTramite
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Revision es la evaluación de suscripción previa a aprobar una póliza.
type Revision struct {
	ID           string
	PolizaNumero string
	Fecha        time.Time
	Estado       EstadoTramite
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
