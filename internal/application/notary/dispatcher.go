// Package notary despacha los eventos de notarización encolados al ledger
// externo. La cola se alimenta en la transacción de confirmación de pago; acá
// solo se consume, de modo que un ledger caído jamás frena un pago.
package notary

import (
	"context"
	"time"

	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
	"github.com/1gnale/car-chain-api/pkg/logger"
)

// Notario es el cliente del ledger: registra un acta y devuelve el hash de la
// transacción en la cadena.
type Notario interface {
	Notarizar(ctx context.Context, acta entity.ActaNotarial) (string, error)
}

// Dispatcher consume la cola de eventos pendientes.
type Dispatcher struct {
	notarizacionRepo repository.NotarizacionRepository
	polizaRepo       repository.PolizaRepository
	notario          Notario
	log              *logger.Logger

	lote        int
	timeout     time.Duration
	maxIntentos int
}

// NewDispatcher construye el despachador.
func NewDispatcher(
	notarizacionRepo repository.NotarizacionRepository,
	polizaRepo repository.PolizaRepository,
	notario Notario,
	log *logger.Logger,
	timeout time.Duration,
	maxIntentos int,
) *Dispatcher {
	return &Dispatcher{
		notarizacionRepo: notarizacionRepo,
		polizaRepo:       polizaRepo,
		notario:          notario,
		log:              log,
		lote:             20,
		timeout:          timeout,
		maxIntentos:      maxIntentos,
	}
}

// Despachar procesa un lote de eventos pendientes. Cada evento se intenta una
// vez por corrida; el que falla queda PENDIENTE con el contador incrementado
// hasta agotar los reintentos, en que pasa a ERROR.
func (d *Dispatcher) Despachar(ctx context.Context) error {
	eventos, err := d.notarizacionRepo.ListPendientes(d.lote)
	if err != nil {
		return err
	}

	for _, e := range eventos {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.despacharUno(ctx, e)
	}
	return nil
}

func (d *Dispatcher) despacharUno(ctx context.Context, e *entity.EventoNotarizacion) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	hash, err := d.notario.Notarizar(ctx, e.Acta)
	if err != nil {
		d.log.Warn().
			Err(err).
			Str("evento_id", e.ID).
			Str("poliza", e.PolizaNumero).
			Int("intentos", e.Intentos+1).
			Msg("Fallo al notarizar el acta")
		if err := d.notarizacionRepo.MarcarFallo(e.ID, err.Error(), d.maxIntentos); err != nil {
			d.log.Error().Err(err).Str("evento_id", e.ID).Msg("No se pudo registrar el fallo del evento")
		}
		return
	}

	if err := d.notarizacionRepo.MarcarEnviado(e.ID, hash); err != nil {
		d.log.Error().Err(err).Str("evento_id", e.ID).Msg("No se pudo marcar el evento como enviado")
		return
	}
	if err := d.polizaRepo.SetHashNotarizacion(e.PolizaNumero, hash); err != nil {
		// El acta ya está en la cadena; el sello en la póliza es informativo.
		d.log.Error().Err(err).Str("poliza", e.PolizaNumero).Msg("No se pudo sellar el hash en la póliza")
		return
	}

	d.log.Info().
		Str("poliza", e.PolizaNumero).
		Str("hash", hash).
		Msg("Acta notarizada en el ledger")
}
