package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehiculo es el bien asegurado. Marca/modelo/versión son catálogos externos;
// aquí solo interesa la referencia a la versión (de la que se copia el precio
// de mercado) y los datos identificatorios.
type Vehiculo struct {
	ID          string
	Matricula   string
	Chasis      string
	NumeroMotor string
	Anio        int // año de fabricación; define la antigüedad al cotizar
	GNC         bool
	VersionID   string
	PersonaID   string
	CreatedAt   time.Time
}

// Version es la entrada de catálogo con el precio de mercado vigente.
type Version struct {
	ID            string
	Nombre        string
	PrecioMercado decimal.Decimal
}

// Persona es el titular del vehículo / tomador de la póliza.
type Persona struct {
	ID              string
	Nombre          string
	Apellido        string
	Documento       string
	FechaNacimiento time.Time
	LocalidadID     string
}

// Edad calcula los años cumplidos a la fecha dada.
func (p Persona) Edad(en time.Time) int {
	edad := en.Year() - p.FechaNacimiento.Year()
	cumple := time.Date(en.Year(), p.FechaNacimiento.Month(), p.FechaNacimiento.Day(), 0, 0, 0, 0, en.Location())
	if en.Before(cumple) {
		edad--
	}
	return edad
}
