// Package fechas centraliza la aritmética de calendario de las fechas
// contractuales (próxima cuota, fin de contrato).
package fechas

import "time"

// SumarMeses suma n meses calendario a t ajustando el día al último día del
// mes destino cuando el día original no existe: 2024-01-31 + 1 mes =
// 2024-02-29 (no 2024-03-02 como haría AddDate). Todas las fechas de pago y
// vencimiento del sistema usan esta regla.
func SumarMeses(t time.Time, n int) time.Time {
	anio, mes, dia := t.Date()
	primero := time.Date(anio, mes, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	destino := primero.AddDate(0, n, 0)

	if ultimo := ultimoDia(destino.Year(), destino.Month()); dia > ultimo {
		dia = ultimo
	}
	return time.Date(destino.Year(), destino.Month(), dia, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func ultimoDia(anio int, mes time.Month) int {
	// Día 0 del mes siguiente es el último día de este mes.
	return time.Date(anio, mes+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
