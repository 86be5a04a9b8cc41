package quotes_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1gnale/car-chain-api/internal/application/quotes"
	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/infrastructure/memoria"
)

var hoy = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func nuevoEscenario(t *testing.T) (*memoria.Almacen, *quotes.UseCase) {
	t.Helper()
	a := memoria.NewAlmacen()

	// Titular de 34 años en la localidad loc-cba, auto 2020 (4 años de
	// antigüedad) con precio de mercado 1.000.000.
	a.GuardarPersona(entity.Persona{
		ID:              "per-1",
		Nombre:          "Ana",
		Apellido:        "García",
		FechaNacimiento: time.Date(1990, 3, 10, 0, 0, 0, 0, time.UTC),
		LocalidadID:     "loc-cba",
	})
	a.GuardarVersion(entity.Version{ID: "ver-1", Nombre: "Corsa 1.4", PrecioMercado: decimal.NewFromInt(1_000_000)})
	a.GuardarCobertura(entity.Cobertura{ID: "cob-rc", Nombre: "Responsabilidad civil", Recargo: decimal.NewFromInt(2), Activo: true})
	require.NoError(t, a.Vehiculos().Create(&entity.Vehiculo{
		ID: "veh-1", Matricula: "AB123CD", Anio: 2020, VersionID: "ver-1", PersonaID: "per-1",
	}))

	uc := quotes.NewUseCase(a.Cotizaciones(), a.Vehiculos(), a.Configs(), a.Catalogos())
	uc.FijarReloj(func() time.Time { return hoy })
	return a, uc
}

func franja(t *testing.T, a *memoria.Almacen, id string, tipo entity.TipoConfig, min, max int, descuento, recargo int64) {
	t.Helper()
	require.NoError(t, a.Configs().Create(&entity.ConfigTarifa{
		ID:        id,
		Tipo:      tipo,
		Minimo:    min,
		Maximo:    max,
		Descuento: decimal.NewFromInt(descuento),
		Recargo:   decimal.NewFromInt(recargo),
		Activo:    true,
	}))
}

func TestCotizar_AplicaFranjas(t *testing.T) {
	a, uc := nuevoEscenario(t)
	franja(t, a, "cfg-edad", entity.ConfigEdad, 30, 40, 10, 0)       // -10 por edad
	franja(t, a, "cfg-ant", entity.ConfigAntiguedad, 0, 5, 0, 5)     // +5 por antigüedad
	localidad := "loc-cba"
	require.NoError(t, a.Configs().Create(&entity.ConfigTarifa{
		ID:          "cfg-loc",
		Tipo:        entity.ConfigLocalidad,
		LocalidadID: &localidad,
		Recargo:     decimal.NewFromInt(3), // +3 por zona
		Activo:      true,
	}))

	res, err := uc.Cotizar(context.Background(), "veh-1")
	require.NoError(t, err)

	cot := res.Cotizacion
	require.NotNil(t, cot.ConfigEdadID)
	assert.Equal(t, "cfg-edad", *cot.ConfigEdadID)
	require.NotNil(t, cot.ConfigAntiguedadID)
	assert.Equal(t, "cfg-ant", *cot.ConfigAntiguedadID)
	require.NotNil(t, cot.ConfigLocalidadID)
	assert.Equal(t, "cfg-loc", *cot.ConfigLocalidadID)
	assert.Equal(t, hoy.Add(30*24*time.Hour), cot.FechaVencimiento)

	// Prima base 1.000.000 * 2% = 20.000; ajuste neto 5+3-10 = -2% → 19.600.
	require.Len(t, res.Lineas, 1)
	assert.True(t, res.Lineas[0].Monto.Equal(decimal.NewFromInt(19_600)),
		"monto %s", res.Lineas[0].Monto)
	assert.Equal(t, "cob-rc", res.Lineas[0].CoberturaID)
}

func TestCotizar_SinFranjasCotizaBase(t *testing.T) {
	// Sin bandas activas los factores quedan en cero y la prima es la base.
	_, uc := nuevoEscenario(t)

	res, err := uc.Cotizar(context.Background(), "veh-1")
	require.NoError(t, err)

	assert.Nil(t, res.Cotizacion.ConfigEdadID)
	assert.Nil(t, res.Cotizacion.ConfigAntiguedadID)
	assert.Nil(t, res.Cotizacion.ConfigLocalidadID)
	require.Len(t, res.Lineas, 1)
	assert.True(t, res.Lineas[0].Monto.Equal(decimal.NewFromInt(20_000)),
		"monto %s", res.Lineas[0].Monto)
}

func TestCotizar_SnapshotInmuneACambios(t *testing.T) {
	a, uc := nuevoEscenario(t)
	franja(t, a, "cfg-edad", entity.ConfigEdad, 30, 40, 10, 0)

	res, err := uc.Cotizar(context.Background(), "veh-1")
	require.NoError(t, err)

	// Desactivar la franja después no toca la cotización emitida.
	cfg, err := a.Configs().GetByID("cfg-edad")
	require.NoError(t, err)
	cfg.Activo = false
	require.NoError(t, a.Configs().Update(cfg))

	relectura, err := uc.Get(context.Background(), res.Cotizacion.ID)
	require.NoError(t, err)
	assert.True(t, relectura.Cotizacion.DescuentoEdad.Equal(decimal.NewFromInt(10)))
}

func TestCotizar_UnaLineaPorCoberturaActiva(t *testing.T) {
	a, uc := nuevoEscenario(t)
	a.GuardarCobertura(entity.Cobertura{ID: "cob-tr", Nombre: "Todo riesgo", Recargo: decimal.NewFromInt(5), Activo: true})
	a.GuardarCobertura(entity.Cobertura{ID: "cob-baja", Nombre: "Descontinuada", Recargo: decimal.NewFromInt(9), Activo: false})

	res, err := uc.Cotizar(context.Background(), "veh-1")
	require.NoError(t, err)

	ids := make([]string, 0, len(res.Lineas))
	for _, l := range res.Lineas {
		ids = append(ids, l.CoberturaID)
	}
	assert.ElementsMatch(t, []string{"cob-rc", "cob-tr"}, ids)
}

func TestCotizar_VehiculoInexistente(t *testing.T) {
	_, uc := nuevoEscenario(t)
	_, err := uc.Cotizar(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_NoEncontrada(t *testing.T) {
	_, uc := nuevoEscenario(t)
	_, err := uc.Get(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
