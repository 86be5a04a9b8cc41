package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrTransicionInvalida = errors.New("transición de estado no permitida")
	ErrSolapamiento       = errors.New("el rango se solapa con una configuración activa")
	ErrServicioExterno    = errors.New("fallo en servicio externo")

	// Precondiciones de pago sobre el estado de la póliza.
	ErrPrimerPagoNoAprobada = errors.New("el primer pago solo se permite sobre una póliza aprobada")
	ErrRenovacionNoImpaga   = errors.New("el pago de renovación solo se permite sobre una póliza impaga")
	ErrPolizaSinPeriodoPago = errors.New("la póliza no tiene período de pago asignado")
)

// CampoInvalido es un par campo/mensaje dentro de un error de validación.
type CampoInvalido struct {
	Campo   string `json:"campo"`
	Mensaje string `json:"mensaje"`
}

// ValidationError agrupa los campos inválidos de una operación.
// Envuelve ErrInvalidInput para que errors.Is siga funcionando en los handlers.
type ValidationError struct {
	Campos []CampoInvalido
}

func (e *ValidationError) Error() string {
	if len(e.Campos) == 0 {
		return ErrInvalidInput.Error()
	}
	partes := make([]string, 0, len(e.Campos))
	for _, c := range e.Campos {
		partes = append(partes, c.Campo+": "+c.Mensaje)
	}
	return "validación: " + strings.Join(partes, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Agregar suma un campo inválido al error.
func (e *ValidationError) Agregar(campo, mensaje string) {
	e.Campos = append(e.Campos, CampoInvalido{Campo: campo, Mensaje: mensaje})
}

// TieneCampos indica si se registró al menos un campo inválido.
func (e *ValidationError) TieneCampos() bool { return len(e.Campos) > 0 }
