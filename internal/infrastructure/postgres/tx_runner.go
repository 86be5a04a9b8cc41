package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/1gnale/car-chain-api/internal/application/payment"
	"github.com/1gnale/car-chain-api/internal/application/policy"
	"github.com/1gnale/car-chain-api/internal/application/rates"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

var _ rates.TxRunner = (*TxRunner)(nil)
var _ policy.TxRunner = (*TxRunner)(nil)
var _ payment.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunConfig inicia una transacción con el repo de configuración tarifaria
// atado a la tx. El bloqueo consultivo por tipo vive dentro de esta tx.
func (r *TxRunner) RunConfig(ctx context.Context, fn func(repo repository.ConfigTarifaRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewConfigTarifaRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPoliza inicia una transacción con los repos del alta completa de póliza.
func (r *TxRunner) RunPoliza(ctx context.Context, fn func(
	vehiculos repository.VehiculoRepository,
	cotizaciones repository.CotizacionRepository,
	documentaciones repository.DocumentacionRepository,
	polizas repository.PolizaRepository,
	catalogos repository.CatalogoRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewVehiculoRepository(tx),
		NewCotizacionRepository(tx),
		NewDocumentacionRepository(tx),
		NewPolizaRepository(tx),
		NewCatalogoRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPago inicia una transacción para la confirmación de pago: póliza, pago y
// evento de notarización se escriben juntos o no se escribe ninguno.
func (r *TxRunner) RunPago(ctx context.Context, fn func(
	polizas repository.PolizaRepository,
	pagos repository.PagoRepository,
	notarizaciones repository.NotarizacionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewPolizaRepository(tx),
		NewPagoRepository(tx),
		NewNotarizacionRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
