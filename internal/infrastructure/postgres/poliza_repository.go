package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

var _ repository.PolizaRepository = (*PolizaRepo)(nil)

// PolizaRepo implementación del puerto PolizaRepository sobre PostgreSQL (usable con pool o tx).
type PolizaRepo struct {
	q Querier
}

// NewPolizaRepository construye el adaptador de persistencia para pólizas. Pasar pool o tx (Querier).
func NewPolizaRepository(q Querier) *PolizaRepo {
	return &PolizaRepo{q: q}
}

const columnasPoliza = `numero_poliza, usuario_legajo, documentacion_id, linea_cotizacion_id,
	tipo_contratacion_id, periodo_pago_id, precio_poliza_actual, monto_asegurado,
	fecha_contratacion, hora_contratacion, fecha_de_pago, fecha_vencimiento, fecha_cancelacion,
	renovacion_automatica, estado, hash_notarizacion, created_at, updated_at`

// Create persiste una póliza nueva (estado PENDIENTE).
func (r *PolizaRepo) Create(p *entity.Poliza) error {
	query := `
		INSERT INTO polizas (` + columnasPoliza + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		p.NumeroPoliza, p.UsuarioLegajo, p.DocumentacionID, p.LineaCotizacionID,
		p.TipoContratacionID, p.PeriodoPagoID, p.PrecioPolizaActual, p.MontoAsegurado,
		p.FechaContratacion, p.HoraContratacion, p.FechaDePago, p.FechaVencimiento, p.FechaCancelacion,
		p.RenovacionAutomatica, p.Estado, p.HashNotarizacion, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert poliza: %w", err)
	}
	return nil
}

// GetByNumero obtiene una póliza por número.
func (r *PolizaRepo) GetByNumero(numero string) (*entity.Poliza, error) {
	query := `SELECT ` + columnasPoliza + ` FROM polizas WHERE numero_poliza = $1`
	var p entity.Poliza
	err := r.q.QueryRow(context.Background(), query, numero).Scan(
		&p.NumeroPoliza, &p.UsuarioLegajo, &p.DocumentacionID, &p.LineaCotizacionID,
		&p.TipoContratacionID, &p.PeriodoPagoID, &p.PrecioPolizaActual, &p.MontoAsegurado,
		&p.FechaContratacion, &p.HoraContratacion, &p.FechaDePago, &p.FechaVencimiento, &p.FechaCancelacion,
		&p.RenovacionAutomatica, &p.Estado, &p.HashNotarizacion, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get poliza: %w", err)
	}
	return &p, nil
}

// Update actualiza los campos mutables de la póliza.
func (r *PolizaRepo) Update(p *entity.Poliza) error {
	query := `
		UPDATE polizas SET usuario_legajo = $2, tipo_contratacion_id = $3, periodo_pago_id = $4,
			precio_poliza_actual = $5, fecha_contratacion = $6, hora_contratacion = $7,
			fecha_de_pago = $8, fecha_vencimiento = $9, fecha_cancelacion = $10,
			renovacion_automatica = $11, estado = $12, hash_notarizacion = $13, updated_at = $14
		WHERE numero_poliza = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		p.NumeroPoliza, p.UsuarioLegajo, p.TipoContratacionID, p.PeriodoPagoID,
		p.PrecioPolizaActual, p.FechaContratacion, p.HoraContratacion,
		p.FechaDePago, p.FechaVencimiento, p.FechaCancelacion,
		p.RenovacionAutomatica, p.Estado, p.HashNotarizacion, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update poliza: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateEstadoCondicional cambia el estado solo si el actual figura entre los
// esperados. El UPDATE condicional toma el lock de fila, de modo que dos
// confirmaciones concurrentes (o confirmación y barrido) no se pisan.
func (r *PolizaRepo) UpdateEstadoCondicional(numero string, desde []entity.EstadoPoliza, hacia entity.EstadoPoliza) (bool, error) {
	estados := make([]string, 0, len(desde))
	for _, e := range desde {
		estados = append(estados, string(e))
	}
	query := `
		UPDATE polizas SET estado = $2, updated_at = now()
		WHERE numero_poliza = $1 AND estado = ANY($3)`
	cmd, err := r.q.Exec(context.Background(), query, numero, hacia, estados)
	if err != nil {
		return false, fmt.Errorf("update condicional poliza: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// MarcarImpagas degrada en bloque las pólizas VIGENTE con cuota vencida.
func (r *PolizaRepo) MarcarImpagas(ahora time.Time) (int64, error) {
	query := `
		UPDATE polizas SET estado = $1, updated_at = $2
		WHERE estado = $3 AND fecha_de_pago IS NOT NULL AND fecha_de_pago < $2`
	cmd, err := r.q.Exec(context.Background(), query, entity.PolizaImpaga, ahora, entity.PolizaVigente)
	if err != nil {
		return 0, fmt.Errorf("marcar impagas: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// SetHashNotarizacion sella el hash del ledger en la póliza.
func (r *PolizaRepo) SetHashNotarizacion(numero, hash string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE polizas SET hash_notarizacion = $2, updated_at = now() WHERE numero_poliza = $1`,
		numero, hash,
	)
	if err != nil {
		return fmt.Errorf("set hash notarizacion: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
