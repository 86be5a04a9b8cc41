package claims_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1gnale/car-chain-api/internal/application/claims"
	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/infrastructure/memoria"
)

func nuevoUseCase(t *testing.T, estado entity.EstadoPoliza) (*memoria.Almacen, *claims.UseCase) {
	t.Helper()
	a := memoria.NewAlmacen()
	require.NoError(t, a.Polizas().Create(&entity.Poliza{
		NumeroPoliza: "POL-001",
		Estado:       estado,
	}))
	return a, claims.NewUseCase(a.Polizas(), a.Siniestros(), a.Revisiones())
}

func TestRegistrarSiniestro(t *testing.T) {
	_, uc := nuevoUseCase(t, entity.PolizaVigente)

	s, err := uc.RegistrarSiniestro(context.Background(), claims.RegistrarSiniestroInput{
		PolizaNumero: "POL-001",
		Descripcion:  "Choque en cadena sobre Av. Colón",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.TramitePendiente, s.Estado)
	assert.Equal(t, "POL-001", s.PolizaNumero)
	assert.NotEmpty(t, s.ID)
}

func TestRegistrarSiniestro_SobreImpaga(t *testing.T) {
	// Una cuota atrasada no suspende la cobertura.
	_, uc := nuevoUseCase(t, entity.PolizaImpaga)

	_, err := uc.RegistrarSiniestro(context.Background(), claims.RegistrarSiniestroInput{
		PolizaNumero: "POL-001",
		Descripcion:  "Granizo",
	})
	assert.NoError(t, err)
}

func TestRegistrarSiniestro_SinCobertura(t *testing.T) {
	for _, estado := range []entity.EstadoPoliza{
		entity.PolizaPendiente, entity.PolizaAprobada,
		entity.PolizaVencida, entity.PolizaCancelada,
	} {
		t.Run(string(estado), func(t *testing.T) {
			_, uc := nuevoUseCase(t, estado)
			_, err := uc.RegistrarSiniestro(context.Background(), claims.RegistrarSiniestroInput{
				PolizaNumero: "POL-001",
				Descripcion:  "Granizo",
			})
			assert.ErrorIs(t, err, domain.ErrConflict)
		})
	}
}

func TestRegistrarSiniestro_Validacion(t *testing.T) {
	_, uc := nuevoUseCase(t, entity.PolizaVigente)

	_, err := uc.RegistrarSiniestro(context.Background(), claims.RegistrarSiniestroInput{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = uc.RegistrarSiniestro(context.Background(), claims.RegistrarSiniestroInput{
		PolizaNumero: "NO-EXISTE",
		Descripcion:  "Granizo",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolverSiniestro(t *testing.T) {
	_, uc := nuevoUseCase(t, entity.PolizaVigente)
	s, err := uc.RegistrarSiniestro(context.Background(), claims.RegistrarSiniestroInput{
		PolizaNumero: "POL-001",
		Descripcion:  "Robo de ruedas",
	})
	require.NoError(t, err)

	resuelto, err := uc.ResolverSiniestro(context.Background(), s.ID, true)
	require.NoError(t, err)
	assert.Equal(t, entity.TramiteAprobado, resuelto.Estado)

	// Resuelto una vez, no se reabre.
	_, err = uc.ResolverSiniestro(context.Background(), s.ID, false)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestResolverRevision(t *testing.T) {
	casos := []struct {
		nombre   string
		aprobada bool
		poliza   entity.EstadoPoliza
		tramite  entity.EstadoTramite
	}{
		{"aprobada", true, entity.PolizaAprobada, entity.TramiteAprobado},
		{"rechazada", false, entity.PolizaRechazada, entity.TramiteRechazado},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			a, uc := nuevoUseCase(t, entity.PolizaEnRevision)
			require.NoError(t, a.Revisiones().Create(&entity.Revision{
				ID:           "rev-1",
				PolizaNumero: "POL-001",
				Fecha:        time.Now(),
				Estado:       entity.TramitePendiente,
			}))

			rev, err := uc.ResolverRevision(context.Background(), "rev-1", c.aprobada)
			require.NoError(t, err)
			assert.Equal(t, c.tramite, rev.Estado)

			p, err := a.Polizas().GetByNumero("POL-001")
			require.NoError(t, err)
			assert.Equal(t, c.poliza, p.Estado)
		})
	}
}

func TestResolverRevision_PolizaFueraDeRevision(t *testing.T) {
	a, uc := nuevoUseCase(t, entity.PolizaVigente)
	require.NoError(t, a.Revisiones().Create(&entity.Revision{
		ID:           "rev-1",
		PolizaNumero: "POL-001",
		Estado:       entity.TramitePendiente,
	}))

	_, err := uc.ResolverRevision(context.Background(), "rev-1", true)
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida)
}

func TestResolverRevision_YaResuelta(t *testing.T) {
	a, uc := nuevoUseCase(t, entity.PolizaEnRevision)
	require.NoError(t, a.Revisiones().Create(&entity.Revision{
		ID:           "rev-1",
		PolizaNumero: "POL-001",
		Estado:       entity.TramiteAprobado,
	}))

	_, err := uc.ResolverRevision(context.Background(), "rev-1", false)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
