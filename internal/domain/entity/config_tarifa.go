package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TipoConfig distingue las tres clases de configuración tarifaria.
type TipoConfig string

const (
	ConfigEdad       TipoConfig = "EDAD"
	ConfigAntiguedad TipoConfig = "ANTIGUEDAD"
	ConfigLocalidad  TipoConfig = "LOCALIDAD"
)

// ConfigTarifa es una franja numérica (edad, antigüedad del vehículo) o una
// entrada por localidad, con factores de descuento/ganancia/recargo que se
// aplican al cotizar. Entre franjas activas del mismo tipo los rangos
// [Minimo, Maximo] no pueden solaparse; para LOCALIDAD rige en cambio la
// unicidad de configuración activa por localidad.
type ConfigTarifa struct {
	ID          string
	Tipo        TipoConfig
	Nombre      string
	Minimo      int // inclusivo; sin uso en LOCALIDAD
	Maximo      int // inclusivo; sin uso en LOCALIDAD
	LocalidadID *string // solo LOCALIDAD
	Descuento   decimal.Decimal
	Ganancia    decimal.Decimal
	Recargo     decimal.Decimal
	Activo      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Contiene indica si valor cae dentro del rango cerrado [Minimo, Maximo].
func (c ConfigTarifa) Contiene(valor int) bool {
	return valor >= c.Minimo && valor <= c.Maximo
}

// SeSolapaCon aplica solapamiento de intervalos cerrados:
// a.min <= b.max && a.max >= b.min.
func (c ConfigTarifa) SeSolapaCon(otra ConfigTarifa) bool {
	return c.Minimo <= otra.Maximo && c.Maximo >= otra.Minimo
}
