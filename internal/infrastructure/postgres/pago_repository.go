package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

var _ repository.PagoRepository = (*PagoRepo)(nil)

// PagoRepo implementación del puerto PagoRepository sobre PostgreSQL (usable con pool o tx).
type PagoRepo struct {
	q Querier
}

// NewPagoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPagoRepository(q Querier) *PagoRepo {
	return &PagoRepo{q: q}
}

const columnasPago = `id, poliza_numero, total, fecha, hora,
	pago_externo_id, estado_externo, detalle_estado, referencia_externa,
	metodo_pago, tipo_pago, preferencia_id, estado, created_at, updated_at`

// Create persiste un intento de pago.
func (r *PagoRepo) Create(p *entity.Pago) error {
	query := `
		INSERT INTO pagos (` + columnasPago + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.PolizaNumero, p.Total, p.Fecha, p.Hora,
		p.PagoExternoID, p.EstadoExterno, p.DetalleEstado, p.ReferenciaExterna,
		p.MetodoPago, p.TipoPago, p.PreferenciaID, p.Estado, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pago: %w", err)
	}
	return nil
}

// GetByID obtiene un pago por id.
func (r *PagoRepo) GetByID(id string) (*entity.Pago, error) {
	query := `SELECT ` + columnasPago + ` FROM pagos WHERE id = $1`
	var p entity.Pago
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.PolizaNumero, &p.Total, &p.Fecha, &p.Hora,
		&p.PagoExternoID, &p.EstadoExterno, &p.DetalleEstado, &p.ReferenciaExterna,
		&p.MetodoPago, &p.TipoPago, &p.PreferenciaID, &p.Estado, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pago: %w", err)
	}
	return &p, nil
}

// Update actualiza un pago existente.
func (r *PagoRepo) Update(p *entity.Pago) error {
	query := `
		UPDATE pagos SET total = $2, fecha = $3, hora = $4, pago_externo_id = $5,
			estado_externo = $6, detalle_estado = $7, metodo_pago = $8, tipo_pago = $9,
			preferencia_id = $10, estado = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		p.ID, p.Total, p.Fecha, p.Hora, p.PagoExternoID,
		p.EstadoExterno, p.DetalleEstado, p.MetodoPago, p.TipoPago,
		p.PreferenciaID, p.Estado, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pago: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un pago (intento fallido).
func (r *PagoRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM pagos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pago: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
