package policy_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1gnale/car-chain-api/internal/application/policy"
	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/infrastructure/memoria"
)

type certificadosFake struct{ llamadas int }

func (f *certificadosFake) GenerarCertificado(_ context.Context, _ policy.DatosCertificado) ([]byte, error) {
	f.llamadas++
	return []byte("%PDF-1.4"), nil
}

func nuevoUseCase(t *testing.T) (*memoria.Almacen, *policy.UseCase) {
	t.Helper()
	a := memoria.NewAlmacen()
	a.GuardarPersona(entity.Persona{
		ID: "per-1", Nombre: "Ana", Apellido: "García", Documento: "30111222",
		FechaNacimiento: time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC),
		LocalidadID:     "loc-1",
	})
	a.GuardarVersion(entity.Version{ID: "ver-1", Nombre: "Corsa 1.4", PrecioMercado: decimal.NewFromInt(1_000_000)})
	a.GuardarCobertura(entity.Cobertura{ID: "cob-rc", Nombre: "Responsabilidad civil", Recargo: decimal.NewFromInt(2), Activo: true})
	a.GuardarCobertura(entity.Cobertura{ID: "cob-tr", Nombre: "Todo riesgo", Recargo: decimal.NewFromInt(5), Activo: true})

	uc := policy.NewUseCase(
		memoria.NewTxRunner(a),
		a.Polizas(), a.Cotizaciones(), a.Vehiculos(), a.Documentaciones(),
		a.Revisiones(), a.Catalogos(),
		&certificadosFake{},
	)
	return a, uc
}

func inputCompleta() policy.CrearCompletaInput {
	return policy.CrearCompletaInput{
		Vehiculo: policy.VehiculoInput{
			Matricula: "AB123CD",
			Chasis:    "8AG123456",
			Anio:      2020,
			VersionID: "ver-1",
			PersonaID: "per-1",
		},
		Cotizacion: policy.CotizacionSnapshot{
			FechaVencimiento: time.Now().Add(30 * 24 * time.Hour),
			DescuentoEdad:    decimal.NewFromInt(10),
		},
		Lineas: []policy.LineaInput{
			{CoberturaID: "cob-rc", Monto: decimal.NewFromInt(20_000)},
			{CoberturaID: "cob-tr", Monto: decimal.NewFromInt(50_000)},
		},
		CoberturaContratadaID: "cob-rc",
		Documentacion:         documentacionCompleta(),
	}
}

func TestCrearCompleta(t *testing.T) {
	a, uc := nuevoUseCase(t)

	p, err := uc.CrearCompleta(context.Background(), inputCompleta())
	require.NoError(t, err)

	assert.Equal(t, entity.PolizaPendiente, p.Estado)
	assert.False(t, p.RenovacionAutomatica)
	assert.True(t, p.MontoAsegurado.Equal(decimal.NewFromInt(1_000_000)))
	assert.NotEmpty(t, p.NumeroPoliza)

	conteos := a.Conteos()
	assert.Equal(t, 1, conteos["polizas"])
	assert.Equal(t, 1, conteos["vehiculos"])
	assert.Equal(t, 1, conteos["cotizaciones"])
	assert.Equal(t, 2, conteos["lineas"])
	assert.Equal(t, 1, conteos["documentaciones"])

	// La línea contratada corresponde a la cobertura elegida.
	linea, err := a.Cotizaciones().GetLineaByID(p.LineaCotizacionID)
	require.NoError(t, err)
	assert.Equal(t, "cob-rc", linea.CoberturaID)
}

func TestCrearCompleta_TodoONada(t *testing.T) {
	casos := []struct {
		nombre  string
		mutar   func(*policy.CrearCompletaInput)
		esperado error
	}{
		{
			"cobertura inexistente en la segunda línea",
			func(in *policy.CrearCompletaInput) { in.Lineas[1].CoberturaID = "no-existe" },
			domain.ErrNotFound,
		},
		{
			"prima no positiva",
			func(in *policy.CrearCompletaInput) { in.Lineas[1].Monto = decimal.Zero },
			domain.ErrInvalidInput,
		},
		{
			"cobertura contratada fuera de las líneas",
			func(in *policy.CrearCompletaInput) { in.CoberturaContratadaID = "cob-otro" },
			domain.ErrInvalidInput,
		},
		{
			"versión inexistente",
			func(in *policy.CrearCompletaInput) { in.Vehiculo.VersionID = "no-existe" },
			domain.ErrNotFound,
		},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			a, uc := nuevoUseCase(t)
			in := inputCompleta()
			c.mutar(&in)

			_, err := uc.CrearCompleta(context.Background(), in)
			assert.ErrorIs(t, err, c.esperado)

			// El fallo a mitad de camino no deja nada persistido.
			for coleccion, n := range a.Conteos() {
				assert.Zero(t, n, coleccion)
			}
		})
	}
}

func TestCrearCompleta_DocumentacionInvalida(t *testing.T) {
	a, uc := nuevoUseCase(t)
	in := inputCompleta()
	in.Documentacion.FotoTecho = ""

	_, err := uc.CrearCompleta(context.Background(), in)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	for coleccion, n := range a.Conteos() {
		assert.Zero(t, n, coleccion)
	}
}

func TestCrearCompleta_GuardaImagenesSinPrefijo(t *testing.T) {
	a, uc := nuevoUseCase(t)
	in := inputCompleta()
	in.Documentacion.FotoFrontal = "data:image/png;base64," + imagenValida

	p, err := uc.CrearCompleta(context.Background(), in)
	require.NoError(t, err)

	doc, err := a.Documentaciones().GetByID(p.DocumentacionID)
	require.NoError(t, err)
	assert.Equal(t, imagenValida, doc.FotoFrontal)
}

func crearPendiente(t *testing.T, uc *policy.UseCase) *entity.Poliza {
	t.Helper()
	p, err := uc.CrearCompleta(context.Background(), inputCompleta())
	require.NoError(t, err)
	return p
}

func TestCambiarEstado_Cancelacion(t *testing.T) {
	a, uc := nuevoUseCase(t)
	p := crearPendiente(t, uc)

	// Ruta completa hasta VIGENTE y cancelación.
	_, err := uc.RegistrarRevision(context.Background(), p.NumeroPoliza)
	require.NoError(t, err)
	_, err = uc.CambiarEstado(context.Background(), p.NumeroPoliza, "APROBADA")
	require.NoError(t, err)
	_, err = uc.CambiarEstado(context.Background(), p.NumeroPoliza, "VIGENTE")
	require.NoError(t, err)

	cancelada, err := uc.CambiarEstado(context.Background(), p.NumeroPoliza, "CANCELADA")
	require.NoError(t, err)
	assert.Equal(t, entity.PolizaCancelada, cancelada.Estado)
	assert.NotNil(t, cancelada.FechaCancelacion)

	// CANCELADA es terminal.
	_, err = uc.CambiarEstado(context.Background(), p.NumeroPoliza, "VIGENTE")
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida)

	guardada, err := a.Polizas().GetByNumero(p.NumeroPoliza)
	require.NoError(t, err)
	assert.Equal(t, entity.PolizaCancelada, guardada.Estado)
}

func TestCambiarEstado_TransicionInvalida(t *testing.T) {
	_, uc := nuevoUseCase(t)
	p := crearPendiente(t, uc)

	// PENDIENTE no salta directo a VIGENTE.
	_, err := uc.CambiarEstado(context.Background(), p.NumeroPoliza, "VIGENTE")
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida)

	_, err = uc.CambiarEstado(context.Background(), p.NumeroPoliza, "INEXISTENTE")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CambiarEstado(context.Background(), "NO-EXISTE", "VIGENTE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistrarRevision(t *testing.T) {
	a, uc := nuevoUseCase(t)
	p := crearPendiente(t, uc)

	rev, err := uc.RegistrarRevision(context.Background(), p.NumeroPoliza)
	require.NoError(t, err)
	assert.Equal(t, entity.TramitePendiente, rev.Estado)
	assert.Equal(t, p.NumeroPoliza, rev.PolizaNumero)

	actual, err := a.Polizas().GetByNumero(p.NumeroPoliza)
	require.NoError(t, err)
	assert.Equal(t, entity.PolizaEnRevision, actual.Estado)

	// Solo una revisión por póliza pendiente.
	_, err = uc.RegistrarRevision(context.Background(), p.NumeroPoliza)
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida)
}

func TestAsignarResponsable(t *testing.T) {
	_, uc := nuevoUseCase(t)
	p := crearPendiente(t, uc)

	asignada, err := uc.AsignarResponsable(context.Background(), p.NumeroPoliza, "EMP-042")
	require.NoError(t, err)
	require.NotNil(t, asignada.UsuarioLegajo)
	assert.Equal(t, "EMP-042", *asignada.UsuarioLegajo)
	// No cambia el estado.
	assert.Equal(t, entity.PolizaPendiente, asignada.Estado)

	_, err = uc.AsignarResponsable(context.Background(), p.NumeroPoliza, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCertificado(t *testing.T) {
	_, uc := nuevoUseCase(t)
	p := crearPendiente(t, uc)

	pdf, err := uc.Certificado(context.Background(), p.NumeroPoliza)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	_, err = uc.Certificado(context.Background(), "NO-EXISTE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// sembrarCadena persiste documentación, vehículo, cotización y línea para el
// alta simple sobre una cotización existente.
func sembrarCadena(t *testing.T, a *memoria.Almacen) {
	t.Helper()
	require.NoError(t, a.Documentaciones().Create(&entity.Documentacion{ID: "doc-1", FotoFrontal: imagenValida}))
	require.NoError(t, a.Vehiculos().Create(&entity.Vehiculo{
		ID: "veh-1", Matricula: "AB123CD", Anio: 2020, VersionID: "ver-1", PersonaID: "per-1",
	}))
	require.NoError(t, a.Cotizaciones().Create(&entity.Cotizacion{ID: "cot-1", VehiculoID: "veh-1"}))
	require.NoError(t, a.Cotizaciones().CreateLinea(&entity.LineaCotizacion{
		ID: "lin-1", CotizacionID: "cot-1", CoberturaID: "cob-rc", Monto: decimal.NewFromInt(20_000),
	}))
}

func TestCrear(t *testing.T) {
	a, uc := nuevoUseCase(t)
	sembrarCadena(t, a)

	p, err := uc.Crear(context.Background(), "doc-1", "lin-1")
	require.NoError(t, err)

	assert.Equal(t, entity.PolizaPendiente, p.Estado)
	assert.False(t, p.RenovacionAutomatica)
	assert.Equal(t, "doc-1", p.DocumentacionID)
	assert.Equal(t, "lin-1", p.LineaCotizacionID)
	// El monto asegurado sale del precio de mercado de la versión.
	assert.True(t, p.MontoAsegurado.Equal(decimal.NewFromInt(1_000_000)))
	assert.Equal(t, 1, a.Conteos()["polizas"])
}

func TestCrear_CadenaRota(t *testing.T) {
	a, uc := nuevoUseCase(t)
	sembrarCadena(t, a)

	// Eslabones sueltos: línea sin cotización, cotización sin vehículo y
	// vehículo sin versión.
	require.NoError(t, a.Cotizaciones().CreateLinea(&entity.LineaCotizacion{
		ID: "lin-sin-cot", CotizacionID: "no-existe", CoberturaID: "cob-rc",
	}))
	require.NoError(t, a.Cotizaciones().Create(&entity.Cotizacion{ID: "cot-sin-veh", VehiculoID: "no-existe"}))
	require.NoError(t, a.Cotizaciones().CreateLinea(&entity.LineaCotizacion{
		ID: "lin-sin-veh", CotizacionID: "cot-sin-veh", CoberturaID: "cob-rc",
	}))
	require.NoError(t, a.Vehiculos().Create(&entity.Vehiculo{
		ID: "veh-sin-ver", Matricula: "ZZ999ZZ", Anio: 2020, VersionID: "no-existe", PersonaID: "per-1",
	}))
	require.NoError(t, a.Cotizaciones().Create(&entity.Cotizacion{ID: "cot-sin-ver", VehiculoID: "veh-sin-ver"}))
	require.NoError(t, a.Cotizaciones().CreateLinea(&entity.LineaCotizacion{
		ID: "lin-sin-ver", CotizacionID: "cot-sin-ver", CoberturaID: "cob-rc",
	}))

	casos := []struct {
		nombre               string
		documentacion, linea string
	}{
		{"documentación inexistente", "no-existe", "lin-1"},
		{"línea inexistente", "doc-1", "no-existe"},
		{"cotización inexistente", "doc-1", "lin-sin-cot"},
		{"vehículo inexistente", "doc-1", "lin-sin-veh"},
		{"versión inexistente", "doc-1", "lin-sin-ver"},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := uc.Crear(context.Background(), c.documentacion, c.linea)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
	assert.Zero(t, a.Conteos()["polizas"])
}
