package fechas_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/1gnale/car-chain-api/pkg/fechas"
)

func fecha(anio int, mes time.Month, dia int) time.Time {
	return time.Date(anio, mes, dia, 0, 0, 0, 0, time.UTC)
}

func TestSumarMeses(t *testing.T) {
	casos := []struct {
		nombre   string
		desde    time.Time
		meses    int
		esperado time.Time
	}{
		{"caso simple", fecha(2024, time.February, 1), 3, fecha(2024, time.May, 1)},
		{"año completo", fecha(2024, time.February, 1), 12, fecha(2025, time.February, 1)},
		{"cruce de año", fecha(2024, time.November, 15), 3, fecha(2025, time.February, 15)},
		{"ajuste a fin de mes bisiesto", fecha(2024, time.January, 31), 1, fecha(2024, time.February, 29)},
		{"ajuste a fin de mes no bisiesto", fecha(2023, time.January, 31), 1, fecha(2023, time.February, 28)},
		{"31 a mes de 30", fecha(2024, time.March, 31), 1, fecha(2024, time.April, 30)},
		{"sin ajuste necesario", fecha(2024, time.February, 29), 1, fecha(2024, time.March, 29)},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.esperado, fechas.SumarMeses(c.desde, c.meses))
		})
	}
}

func TestSumarMeses_ConservaHora(t *testing.T) {
	desde := time.Date(2024, time.June, 10, 14, 30, 45, 0, time.UTC)
	res := fechas.SumarMeses(desde, 6)
	assert.Equal(t, time.Date(2024, time.December, 10, 14, 30, 45, 0, time.UTC), res)
}
