package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1gnale/car-chain-api/internal/application/payment"
	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/infrastructure/memoria"
)

// pasarelaFake registra las preferencias creadas y permite forzar fallos.
type pasarelaFake struct {
	preferencias []payment.PreferenciaInput
	fallar       bool
}

func (f *pasarelaFake) CrearPreferencia(_ context.Context, in payment.PreferenciaInput) (*payment.Preferencia, error) {
	if f.fallar {
		return nil, errors.New("pasarela caída")
	}
	f.preferencias = append(f.preferencias, in)
	return &payment.Preferencia{
		ID:      "pref-001",
		InitURL: "https://pasarela.test/checkout/pref-001",
	}, nil
}

type escenario struct {
	almacen    *memoria.Almacen
	reconciler *payment.Reconciler
	pasarela   *pasarelaFake
}

// nuevoEscenario arma un almacén con la cadena completa persona → vehículo →
// cotización → línea → póliza y catálogos de contratación.
func nuevoEscenario(t *testing.T, estado entity.EstadoPoliza, ahora func() time.Time) *escenario {
	t.Helper()

	a := memoria.NewAlmacen()
	a.GuardarPersona(entity.Persona{
		ID:              "per-1",
		Nombre:          "Ana",
		Apellido:        "García",
		Documento:       "30111222",
		FechaNacimiento: time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC),
		LocalidadID:     "loc-1",
	})
	a.GuardarTipoContratacion(entity.TipoContratacion{ID: "tipo-anual", Nombre: "Anual", CantidadMeses: 12, Activo: true})
	a.GuardarPeriodoPago(entity.PeriodoPago{ID: "per-trim", Nombre: "Trimestral", CantidadMeses: 3, Activo: true})

	require.NoError(t, a.Vehiculos().Create(&entity.Vehiculo{
		ID: "veh-1", Matricula: "AB123CD", Anio: 2020, VersionID: "ver-1", PersonaID: "per-1",
	}))
	require.NoError(t, a.Cotizaciones().Create(&entity.Cotizacion{ID: "cot-1", VehiculoID: "veh-1"}))
	require.NoError(t, a.Cotizaciones().CreateLinea(&entity.LineaCotizacion{
		ID: "lin-1", CotizacionID: "cot-1", CoberturaID: "cob-1", Monto: decimal.NewFromInt(15000),
	}))
	require.NoError(t, a.Polizas().Create(&entity.Poliza{
		NumeroPoliza:      "POL-001",
		LineaCotizacionID: "lin-1",
		DocumentacionID:   "doc-1",
		Estado:            estado,
	}))

	pasarela := &pasarelaFake{}
	rec := payment.NewReconciler(
		memoria.NewTxRunner(a),
		a.Polizas(), a.Pagos(), a.Cotizaciones(), a.Vehiculos(), a.Catalogos(),
		pasarela,
		"https://api.carchain.test",
		30*time.Minute,
	)
	if ahora != nil {
		rec.FijarReloj(ahora)
	}
	return &escenario{almacen: a, reconciler: rec, pasarela: pasarela}
}

func inputIniciar() payment.IniciarPagoInput {
	return payment.IniciarPagoInput{
		PolizaNumero:       "POL-001",
		TipoContratacionID: "tipo-anual",
		PeriodoPagoID:      "per-trim",
		Monto:              decimal.NewFromInt(15000),
	}
}

func TestIniciarPago_PrimerPago(t *testing.T) {
	e := nuevoEscenario(t, entity.PolizaAprobada, nil)

	url, pago, err := e.reconciler.IniciarPago(context.Background(), inputIniciar())
	require.NoError(t, err)

	assert.Equal(t, "https://pasarela.test/checkout/pref-001", url)
	assert.Equal(t, entity.PagoPendiente, pago.Estado)
	assert.Equal(t, "pref-001", pago.PreferenciaID)
	assert.Equal(t, "POL-001", pago.ReferenciaExterna)

	// Las URLs de retorno llevan todos los ids para la conciliación sin sesión.
	require.Len(t, e.pasarela.preferencias, 1)
	urls := e.pasarela.preferencias[0].URLs
	assert.Equal(t, "https://api.carchain.test/api/pagos/retorno/exito/POL-001/"+pago.ID+"/tipo-anual/per-trim", urls.Exito)
	assert.Equal(t, "https://api.carchain.test/api/pagos/retorno/pendiente/POL-001/"+pago.ID+"/tipo-anual/per-trim", urls.Pendiente)
	assert.Equal(t, "https://api.carchain.test/api/pagos/retorno/fracaso/POL-001/"+pago.ID+"/tipo-anual/per-trim", urls.Fracaso)
}

func TestIniciarPago_PrimerPagoRequiereAprobada(t *testing.T) {
	for _, estado := range []entity.EstadoPoliza{
		entity.PolizaPendiente, entity.PolizaEnRevision, entity.PolizaVigente,
		entity.PolizaImpaga, entity.PolizaVencida, entity.PolizaCancelada,
	} {
		t.Run(string(estado), func(t *testing.T) {
			e := nuevoEscenario(t, estado, nil)

			_, _, err := e.reconciler.IniciarPago(context.Background(), inputIniciar())
			assert.ErrorIs(t, err, domain.ErrPrimerPagoNoAprobada)
			// La precondición corta antes de crear nada.
			assert.Zero(t, e.almacen.Conteos()["pagos"])
		})
	}
}

func TestIniciarPago_RenovacionRequiereImpaga(t *testing.T) {
	e := nuevoEscenario(t, entity.PolizaVigente, nil)

	in := inputIniciar()
	in.Renovacion = true
	_, _, err := e.reconciler.IniciarPago(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrRenovacionNoImpaga)
	assert.Zero(t, e.almacen.Conteos()["pagos"])
}

func TestIniciarPago_FalloDePasarelaNoDejaPago(t *testing.T) {
	e := nuevoEscenario(t, entity.PolizaAprobada, nil)
	e.pasarela.fallar = true

	_, _, err := e.reconciler.IniciarPago(context.Background(), inputIniciar())
	assert.ErrorIs(t, err, domain.ErrServicioExterno)
	assert.Zero(t, e.almacen.Conteos()["pagos"])
}

func TestIniciarPago_MontoInvalido(t *testing.T) {
	e := nuevoEscenario(t, entity.PolizaAprobada, nil)

	in := inputIniciar()
	in.Monto = decimal.Zero
	_, _, err := e.reconciler.IniciarPago(context.Background(), in)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfirmarPrimerPago_FechasYEstado(t *testing.T) {
	// Contrato anual (12 meses) con cuota trimestral (3 meses), confirmado el
	// 2024-02-01: la próxima cuota vence el 2024-05-01 y la póliza el
	// 2025-02-01.
	confirmacion := time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC)
	e := nuevoEscenario(t, entity.PolizaAprobada, func() time.Time { return confirmacion })

	_, pago, err := e.reconciler.IniciarPago(context.Background(), inputIniciar())
	require.NoError(t, err)

	p, err := e.reconciler.ConfirmarPrimerPago(context.Background(), "POL-001", pago.ID, "tipo-anual", "per-trim", "mp-777")
	require.NoError(t, err)

	assert.Equal(t, entity.PolizaVigente, p.Estado)
	require.NotNil(t, p.FechaDePago)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), *p.FechaDePago)
	require.NotNil(t, p.FechaVencimiento)
	assert.Equal(t, time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC), *p.FechaVencimiento)
	require.NotNil(t, p.FechaContratacion)
	assert.Equal(t, confirmacion, *p.FechaContratacion)
	assert.Equal(t, "10:30:00", p.HoraContratacion)
	require.NotNil(t, p.TipoContratacionID)
	assert.Equal(t, "tipo-anual", *p.TipoContratacionID)
	require.NotNil(t, p.PeriodoPagoID)
	assert.Equal(t, "per-trim", *p.PeriodoPagoID)
	assert.True(t, p.PrecioPolizaActual.Equal(decimal.NewFromInt(15000)))

	aprobado, err := e.almacen.Pagos().GetByID(pago.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PagoAprobado, aprobado.Estado)
	assert.Equal(t, "mp-777", aprobado.PagoExternoID)
	assert.Equal(t, "approved", aprobado.EstadoExterno)
}

func TestConfirmarPrimerPago_EncolaNotarizacion(t *testing.T) {
	confirmacion := time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC)
	e := nuevoEscenario(t, entity.PolizaAprobada, func() time.Time { return confirmacion })

	_, pago, err := e.reconciler.IniciarPago(context.Background(), inputIniciar())
	require.NoError(t, err)
	_, err = e.reconciler.ConfirmarPrimerPago(context.Background(), "POL-001", pago.ID, "tipo-anual", "per-trim", "mp-777")
	require.NoError(t, err)

	eventos, err := e.almacen.Notarizaciones().ListPendientes(10)
	require.NoError(t, err)
	require.Len(t, eventos, 1)

	acta := eventos[0].Acta
	assert.Equal(t, "POL-001", eventos[0].PolizaNumero)
	assert.Equal(t, "García, Ana", acta.NombreAsegurado)
	assert.Equal(t, "30111222", acta.Documento)
	assert.Equal(t, "POL-001", acta.NumeroPoliza)
	assert.Equal(t, "AB123CD", acta.Matricula)
	assert.Equal(t, string(entity.PolizaVigente), acta.Estado)
	assert.Equal(t, "2025-02-01", acta.FechaVencimiento)
}

func TestConfirmarPrimerPago_NoEncontrados(t *testing.T) {
	e := nuevoEscenario(t, entity.PolizaAprobada, nil)
	_, pago, err := e.reconciler.IniciarPago(context.Background(), inputIniciar())
	require.NoError(t, err)

	casos := []struct {
		nombre                          string
		poliza, pago, tipo, periodo     string
	}{
		{"póliza inexistente", "NO-EXISTE", pago.ID, "tipo-anual", "per-trim"},
		{"pago inexistente", "POL-001", "no-existe", "tipo-anual", "per-trim"},
		{"tipo inexistente", "POL-001", pago.ID, "no-existe", "per-trim"},
		{"período inexistente", "POL-001", pago.ID, "tipo-anual", "no-existe"},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := e.reconciler.ConfirmarPrimerPago(context.Background(), c.poliza, c.pago, c.tipo, c.periodo, "mp-1")
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestConfirmarPrimerPago_PagoDeOtraPoliza(t *testing.T) {
	e := nuevoEscenario(t, entity.PolizaAprobada, nil)
	require.NoError(t, e.almacen.Polizas().Create(&entity.Poliza{
		NumeroPoliza:      "POL-002",
		LineaCotizacionID: "lin-1",
		DocumentacionID:   "doc-1",
		Estado:            entity.PolizaAprobada,
	}))

	in := inputIniciar()
	in.PolizaNumero = "POL-002"
	_, pagoAjeno, err := e.reconciler.IniciarPago(context.Background(), in)
	require.NoError(t, err)

	// Un retorno armado a mano no puede confirmar POL-001 con el pago de POL-002.
	_, err = e.reconciler.ConfirmarPrimerPago(context.Background(), "POL-001", pagoAjeno.ID, "tipo-anual", "per-trim", "mp-9")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p, err := e.almacen.Polizas().GetByNumero("POL-001")
	require.NoError(t, err)
	assert.Equal(t, entity.PolizaAprobada, p.Estado)
	assert.True(t, p.PrecioPolizaActual.IsZero())
}

func TestConfirmarRenovacion_PagoDeOtraPoliza(t *testing.T) {
	e := nuevoEscenario(t, entity.PolizaImpaga, nil)
	p, err := e.almacen.Polizas().GetByNumero("POL-001")
	require.NoError(t, err)
	periodo := "per-trim"
	p.PeriodoPagoID = &periodo
	require.NoError(t, e.almacen.Polizas().Update(p))

	require.NoError(t, e.almacen.Polizas().Create(&entity.Poliza{
		NumeroPoliza:      "POL-002",
		LineaCotizacionID: "lin-1",
		DocumentacionID:   "doc-1",
		Estado:            entity.PolizaAprobada,
	}))
	in := inputIniciar()
	in.PolizaNumero = "POL-002"
	_, pagoAjeno, err := e.reconciler.IniciarPago(context.Background(), in)
	require.NoError(t, err)

	_, err = e.reconciler.ConfirmarRenovacion(context.Background(), "POL-001", pagoAjeno.ID, "mp-9")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p, err = e.almacen.Polizas().GetByNumero("POL-001")
	require.NoError(t, err)
	assert.Equal(t, entity.PolizaImpaga, p.Estado)
}

func TestConfirmarPrimerPago_EstadoYaMovido(t *testing.T) {
	e := nuevoEscenario(t, entity.PolizaAprobada, nil)
	_, pago, err := e.reconciler.IniciarPago(context.Background(), inputIniciar())
	require.NoError(t, err)

	// Primera confirmación pasa; un reintento del retorno no debe duplicar
	// fechas ni eventos.
	_, err = e.reconciler.ConfirmarPrimerPago(context.Background(), "POL-001", pago.ID, "tipo-anual", "per-trim", "mp-1")
	require.NoError(t, err)
	_, err = e.reconciler.ConfirmarPrimerPago(context.Background(), "POL-001", pago.ID, "tipo-anual", "per-trim", "mp-1")
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida)

	eventos, err := e.almacen.Notarizaciones().ListPendientes(10)
	require.NoError(t, err)
	assert.Len(t, eventos, 1)
}

func TestConfirmarRenovacion(t *testing.T) {
	confirmacion := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	e := nuevoEscenario(t, entity.PolizaImpaga, func() time.Time { return confirmacion })

	// La renovación usa el período ya fijado en la póliza.
	p, err := e.almacen.Polizas().GetByNumero("POL-001")
	require.NoError(t, err)
	periodo := "per-trim"
	p.PeriodoPagoID = &periodo
	require.NoError(t, e.almacen.Polizas().Update(p))

	in := inputIniciar()
	in.Renovacion = true
	_, pago, err := e.reconciler.IniciarPago(context.Background(), in)
	require.NoError(t, err)

	renovada, err := e.reconciler.ConfirmarRenovacion(context.Background(), "POL-001", pago.ID, "mp-555")
	require.NoError(t, err)

	assert.Equal(t, entity.PolizaVigente, renovada.Estado)
	require.NotNil(t, renovada.FechaDePago)
	assert.Equal(t, time.Date(2024, 9, 15, 8, 0, 0, 0, time.UTC), *renovada.FechaDePago)

	// La renovación no vuelve a notarizar.
	eventos, err := e.almacen.Notarizaciones().ListPendientes(10)
	require.NoError(t, err)
	assert.Empty(t, eventos)
}

func TestConfirmarRenovacion_SinPeriodo(t *testing.T) {
	e := nuevoEscenario(t, entity.PolizaImpaga, nil)

	in := inputIniciar()
	in.Renovacion = true
	_, pago, err := e.reconciler.IniciarPago(context.Background(), in)
	require.NoError(t, err)

	_, err = e.reconciler.ConfirmarRenovacion(context.Background(), "POL-001", pago.ID, "mp-1")
	assert.ErrorIs(t, err, domain.ErrPolizaSinPeriodoPago)
}

func TestAnularPagoFallido(t *testing.T) {
	e := nuevoEscenario(t, entity.PolizaAprobada, nil)
	_, pago, err := e.reconciler.IniciarPago(context.Background(), inputIniciar())
	require.NoError(t, err)

	require.NoError(t, e.reconciler.AnularPagoFallido(context.Background(), pago.ID))
	assert.Zero(t, e.almacen.Conteos()["pagos"])

	// La póliza sigue APROBADA, lista para un nuevo intento.
	p, err := e.almacen.Polizas().GetByNumero("POL-001")
	require.NoError(t, err)
	assert.Equal(t, entity.PolizaAprobada, p.Estado)

	assert.ErrorIs(t, e.reconciler.AnularPagoFallido(context.Background(), pago.ID), domain.ErrNotFound)
}

func TestConfirmarRetorno_DistinguePrimerPagoDeRenovacion(t *testing.T) {
	t.Run("póliza aprobada va por primer pago", func(t *testing.T) {
		e := nuevoEscenario(t, entity.PolizaAprobada, nil)
		_, pago, err := e.reconciler.IniciarPago(context.Background(), inputIniciar())
		require.NoError(t, err)

		p, err := e.reconciler.ConfirmarRetorno(context.Background(), "POL-001", pago.ID, "tipo-anual", "per-trim", "mp-1")
		require.NoError(t, err)

		assert.Equal(t, entity.PolizaVigente, p.Estado)
		require.NotNil(t, p.TipoContratacionID)
		assert.Equal(t, "tipo-anual", *p.TipoContratacionID)
	})

	t.Run("póliza impaga va por renovación", func(t *testing.T) {
		e := nuevoEscenario(t, entity.PolizaImpaga, nil)
		p, err := e.almacen.Polizas().GetByNumero("POL-001")
		require.NoError(t, err)
		periodo := "per-trim"
		p.PeriodoPagoID = &periodo
		require.NoError(t, e.almacen.Polizas().Update(p))

		in := inputIniciar()
		in.Renovacion = true
		_, pago, err := e.reconciler.IniciarPago(context.Background(), in)
		require.NoError(t, err)

		renovada, err := e.reconciler.ConfirmarRetorno(context.Background(), "POL-001", pago.ID, "tipo-anual", "per-trim", "mp-2")
		require.NoError(t, err)

		assert.Equal(t, entity.PolizaVigente, renovada.Estado)
		// La renovación no vuelve a notarizar.
		eventos, err := e.almacen.Notarizaciones().ListPendientes(10)
		require.NoError(t, err)
		assert.Empty(t, eventos)
	})

	t.Run("póliza inexistente", func(t *testing.T) {
		e := nuevoEscenario(t, entity.PolizaAprobada, nil)
		_, err := e.reconciler.ConfirmarRetorno(context.Background(), "NO-EXISTE", "x", "tipo-anual", "per-trim", "mp-3")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
