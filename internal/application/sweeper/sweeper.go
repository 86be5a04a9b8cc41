// Package sweeper implementa el barrido diario de morosidad: toda póliza
// VIGENTE cuya fecha de pago ya pasó se marca IMPAGA en un solo UPDATE
// condicional, por lo que correrlo dos veces el mismo día no produce cambios.
package sweeper

import (
	"context"
	"time"

	"github.com/1gnale/car-chain-api/internal/domain/repository"
	"github.com/1gnale/car-chain-api/pkg/logger"
)

// Sweeper recorre las pólizas vencidas de pago.
type Sweeper struct {
	polizaRepo repository.PolizaRepository
	log        *logger.Logger
	ahora      func() time.Time
}

// New construye el barredor.
func New(polizaRepo repository.PolizaRepository, log *logger.Logger) *Sweeper {
	return &Sweeper{
		polizaRepo: polizaRepo,
		log:        log,
		ahora:      time.Now,
	}
}

// FijarReloj reemplaza la fuente de tiempo. Para tests.
func (s *Sweeper) FijarReloj(ahora func() time.Time) { s.ahora = ahora }

// Run ejecuta un barrido y devuelve cuántas pólizas pasaron a IMPAGA.
func (s *Sweeper) Run(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	ahora := s.ahora()
	n, err := s.polizaRepo.MarcarImpagas(ahora)
	if err != nil {
		s.log.Error().Err(err).Msg("Error en el barrido de morosidad")
		return 0, err
	}

	if n > 0 {
		s.log.Info().
			Int64("polizas_impagas", n).
			Time("corte", ahora).
			Msg("Barrido de morosidad completado")
	} else {
		s.log.Debug().Time("corte", ahora).Msg("Barrido de morosidad sin cambios")
	}
	return n, nil
}
