package repository

import (
	"time"

	"github.com/1gnale/car-chain-api/internal/domain/entity"
)

// PolizaRepository define el puerto de persistencia para Poliza.
type PolizaRepository interface {
	Create(p *entity.Poliza) error
	GetByNumero(numero string) (*entity.Poliza, error)
	// Update persiste los campos mutables (estado, fechas, precio, período,
	// tipo de contratación, responsable, hash de notarización).
	Update(p *entity.Poliza) error
	// UpdateEstadoCondicional cambia el estado solo si el actual coincide con
	// alguno de los esperados; devuelve false si ninguna fila calificó. Evita
	// el lost-update entre la confirmación de pago y el barrido.
	UpdateEstadoCondicional(numero string, desde []entity.EstadoPoliza, hacia entity.EstadoPoliza) (bool, error)
	// MarcarImpagas degrada en bloque las pólizas VIGENTE con fecha de pago
	// anterior a ahora; devuelve la cantidad afectada.
	MarcarImpagas(ahora time.Time) (int64, error)
	SetHashNotarizacion(numero, hash string) error
}
