package notary_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1gnale/car-chain-api/internal/application/notary"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/infrastructure/memoria"
	"github.com/1gnale/car-chain-api/pkg/logger"
)

type notarioFake struct {
	hash    string
	err     error
	llamadas int
}

func (f *notarioFake) Notarizar(_ context.Context, _ entity.ActaNotarial) (string, error) {
	f.llamadas++
	if f.err != nil {
		return "", f.err
	}
	return f.hash, nil
}

func nuevoContexto(t *testing.T) (*memoria.Almacen, *notarioFake, *notary.Dispatcher) {
	t.Helper()
	a := memoria.NewAlmacen()
	require.NoError(t, a.Polizas().Create(&entity.Poliza{
		NumeroPoliza: "POL-001",
		Estado:       entity.PolizaVigente,
	}))
	f := &notarioFake{hash: "0xabc123"}
	d := notary.NewDispatcher(
		a.Notarizaciones(), a.Polizas(), f,
		logger.New(logger.Config{Level: "error"}),
		time.Second, 3,
	)
	return a, f, d
}

func encolar(t *testing.T, a *memoria.Almacen, id string) {
	t.Helper()
	require.NoError(t, a.Notarizaciones().Create(&entity.EventoNotarizacion{
		ID:           id,
		PolizaNumero: "POL-001",
		Acta:         entity.ActaNotarial{NumeroPoliza: "POL-001", Documento: "30111222"},
		Estado:       entity.EventoPendiente,
		CreatedAt:    time.Now(),
	}))
}

func TestDespachar_SellaHashEnPoliza(t *testing.T) {
	a, _, d := nuevoContexto(t)
	encolar(t, a, "evt-1")

	require.NoError(t, d.Despachar(context.Background()))

	pendientes, err := a.Notarizaciones().ListPendientes(10)
	require.NoError(t, err)
	assert.Empty(t, pendientes)

	p, err := a.Polizas().GetByNumero("POL-001")
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", p.HashNotarizacion)
}

func TestDespachar_ReintentaHastaAgotar(t *testing.T) {
	a, f, d := nuevoContexto(t)
	encolar(t, a, "evt-1")
	f.err = errors.New("ledger caído")

	// Tres corridas fallidas agotan los reintentos.
	for i := 0; i < 3; i++ {
		require.NoError(t, d.Despachar(context.Background()))
	}
	assert.Equal(t, 3, f.llamadas)

	// El evento pasó a ERROR: las corridas siguientes ya no lo toman.
	require.NoError(t, d.Despachar(context.Background()))
	assert.Equal(t, 3, f.llamadas)

	p, err := a.Polizas().GetByNumero("POL-001")
	require.NoError(t, err)
	assert.Empty(t, p.HashNotarizacion)
}

func TestDespachar_RecuperaTrasFalloTransitorio(t *testing.T) {
	a, f, d := nuevoContexto(t)
	encolar(t, a, "evt-1")

	f.err = errors.New("timeout")
	require.NoError(t, d.Despachar(context.Background()))

	f.err = nil
	require.NoError(t, d.Despachar(context.Background()))

	p, err := a.Polizas().GetByNumero("POL-001")
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", p.HashNotarizacion)
}

func TestDespachar_SinPendientesNoLlama(t *testing.T) {
	_, f, d := nuevoContexto(t)
	require.NoError(t, d.Despachar(context.Background()))
	assert.Zero(t, f.llamadas)
}
