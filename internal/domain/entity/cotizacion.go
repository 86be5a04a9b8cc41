package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cotizacion es una propuesta de precio previa a la póliza. Las franjas
// tarifarias aplicadas se copian como snapshot histórico: editar o desactivar
// una ConfigTarifa después no altera cotizaciones ya emitidas.
type Cotizacion struct {
	ID               string
	VehiculoID       string
	FechaCreacion    time.Time
	FechaVencimiento time.Time

	// Referencias informativas a las franjas usadas (pueden quedar vacías si
	// ninguna franja activa cubría el valor).
	ConfigEdadID       *string
	ConfigAntiguedadID *string
	ConfigLocalidadID  *string

	// Snapshot de factores al momento de cotizar.
	DescuentoEdad       decimal.Decimal
	RecargoEdad         decimal.Decimal
	DescuentoAntiguedad decimal.Decimal
	RecargoAntiguedad   decimal.Decimal
	DescuentoLocalidad  decimal.Decimal
	RecargoLocalidad    decimal.Decimal
}

// LineaCotizacion liga una cobertura a una cotización con su prima calculada.
type LineaCotizacion struct {
	ID           string
	CotizacionID string
	CoberturaID  string
	Monto        decimal.Decimal
}

// Cobertura es una categoría de riesgo asegurable (responsabilidad civil,
// todo riesgo, etc.). Recargo es el factor sobre el monto asegurado con el
// que se calcula la prima base de la línea.
type Cobertura struct {
	ID          string
	Nombre      string
	Descripcion string
	Recargo     decimal.Decimal
	Activo      bool
}
