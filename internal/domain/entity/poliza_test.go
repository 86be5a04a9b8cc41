package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
)

func TestEstadoPoliza_TransicionesPermitidas(t *testing.T) {
	casos := []struct {
		desde, hacia entity.EstadoPoliza
		permitida    bool
	}{
		{entity.PolizaPendiente, entity.PolizaEnRevision, true},
		{entity.PolizaEnRevision, entity.PolizaAprobada, true},
		{entity.PolizaEnRevision, entity.PolizaRechazada, true},
		{entity.PolizaAprobada, entity.PolizaVigente, true},
		{entity.PolizaVigente, entity.PolizaImpaga, true},
		{entity.PolizaImpaga, entity.PolizaVigente, true},
		{entity.PolizaVigente, entity.PolizaVencida, true},
		{entity.PolizaVigente, entity.PolizaCancelada, true},
		{entity.PolizaImpaga, entity.PolizaCancelada, true},

		// Saltos que la tabla debe rechazar.
		{entity.PolizaPendiente, entity.PolizaVigente, false},
		{entity.PolizaPendiente, entity.PolizaAprobada, false},
		{entity.PolizaAprobada, entity.PolizaImpaga, false},
		{entity.PolizaImpaga, entity.PolizaVencida, false},
	}
	for _, c := range casos {
		assert.Equal(t, c.permitida, c.desde.PuedeTransicionarA(c.hacia),
			"transición %s -> %s", c.desde, c.hacia)
	}
}

func TestEstadoPoliza_TerminalesSinSalida(t *testing.T) {
	terminales := []entity.EstadoPoliza{
		entity.PolizaRechazada, entity.PolizaCancelada, entity.PolizaVencida,
	}
	todos := []entity.EstadoPoliza{
		entity.PolizaPendiente, entity.PolizaEnRevision, entity.PolizaRechazada,
		entity.PolizaAprobada, entity.PolizaVigente, entity.PolizaImpaga,
		entity.PolizaVencida, entity.PolizaCancelada,
	}
	for _, term := range terminales {
		assert.True(t, term.EsTerminal(), "%s debe ser terminal", term)
		for _, destino := range todos {
			assert.False(t, term.PuedeTransicionarA(destino),
				"%s no debe transicionar a %s", term, destino)
		}
	}
}

func TestPoliza_CambiarEstado(t *testing.T) {
	p := &entity.Poliza{Estado: entity.PolizaPendiente}

	require.NoError(t, p.CambiarEstado(entity.PolizaEnRevision))
	assert.Equal(t, entity.PolizaEnRevision, p.Estado)

	err := p.CambiarEstado(entity.PolizaVigente)
	require.ErrorIs(t, err, domain.ErrTransicionInvalida)
	assert.Equal(t, entity.PolizaEnRevision, p.Estado, "un rechazo no debe mutar el estado")
}

func TestParseEstadoPoliza(t *testing.T) {
	e, err := entity.ParseEstadoPoliza("VIGENTE")
	require.NoError(t, err)
	assert.Equal(t, entity.PolizaVigente, e)

	_, err = entity.ParseEstadoPoliza("ACTIVA")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
