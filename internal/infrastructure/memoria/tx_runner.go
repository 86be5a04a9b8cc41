package memoria

import (
	"context"

	"github.com/1gnale/car-chain-api/internal/application/payment"
	"github.com/1gnale/car-chain-api/internal/application/policy"
	"github.com/1gnale/car-chain-api/internal/application/rates"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

var (
	_ rates.TxRunner   = (*TxRunner)(nil)
	_ policy.TxRunner  = (*TxRunner)(nil)
	_ payment.TxRunner = (*TxRunner)(nil)
)

// TxRunner simula la transacción con copia y restauración del almacén: si el
// callback falla, el estado vuelve al punto de partida.
type TxRunner struct {
	a *Almacen
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(a *Almacen) *TxRunner { return &TxRunner{a: a} }

func (r *TxRunner) RunConfig(ctx context.Context, fn func(repo repository.ConfigTarifaRepository) error) error {
	s := r.a.snapshot()
	if err := fn(r.a.Configs()); err != nil {
		r.a.restaurar(s)
		return err
	}
	return nil
}

func (r *TxRunner) RunPoliza(ctx context.Context, fn func(
	vehiculos repository.VehiculoRepository,
	cotizaciones repository.CotizacionRepository,
	documentaciones repository.DocumentacionRepository,
	polizas repository.PolizaRepository,
	catalogos repository.CatalogoRepository,
) error) error {
	s := r.a.snapshot()
	if err := fn(r.a.Vehiculos(), r.a.Cotizaciones(), r.a.Documentaciones(), r.a.Polizas(), r.a.Catalogos()); err != nil {
		r.a.restaurar(s)
		return err
	}
	return nil
}

func (r *TxRunner) RunPago(ctx context.Context, fn func(
	polizas repository.PolizaRepository,
	pagos repository.PagoRepository,
	notarizaciones repository.NotarizacionRepository,
) error) error {
	s := r.a.snapshot()
	if err := fn(r.a.Polizas(), r.a.Pagos(), r.a.Notarizaciones()); err != nil {
		r.a.restaurar(s)
		return err
	}
	return nil
}
