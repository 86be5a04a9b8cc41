package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

var _ repository.NotarizacionRepository = (*NotarizacionRepo)(nil)

// NotarizacionRepo implementación de la cola de notarización sobre PostgreSQL
// (usable con pool o tx). El acta se guarda como JSONB.
type NotarizacionRepo struct {
	q Querier
}

// NewNotarizacionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotarizacionRepository(q Querier) *NotarizacionRepo {
	return &NotarizacionRepo{q: q}
}

// Create encola un evento. Se invoca dentro de la transacción que confirma el
// pago: el evento existe si y solo si la confirmación se comprometió.
func (r *NotarizacionRepo) Create(e *entity.EventoNotarizacion) error {
	acta, err := json.Marshal(e.Acta)
	if err != nil {
		return fmt.Errorf("marshal acta: %w", err)
	}
	query := `
		INSERT INTO eventos_notarizacion (id, poliza_numero, acta, estado, intentos, ultimo_error, hash_transaccion, created_at, enviado_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(context.Background(), query,
		e.ID, e.PolizaNumero, acta, e.Estado, e.Intentos, e.UltimoError, e.HashTransaccion, e.CreatedAt, e.EnviadoAt,
	)
	if err != nil {
		return fmt.Errorf("insert evento notarizacion: %w", err)
	}
	return nil
}

// ListPendientes devuelve hasta limit eventos PENDIENTE, más antiguos primero.
func (r *NotarizacionRepo) ListPendientes(limit int) ([]*entity.EventoNotarizacion, error) {
	query := `
		SELECT id, poliza_numero, acta, estado, intentos, ultimo_error, hash_transaccion, created_at, enviado_at
		FROM eventos_notarizacion
		WHERE estado = $1
		ORDER BY created_at
		LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, entity.EventoPendiente, limit)
	if err != nil {
		return nil, fmt.Errorf("list eventos pendientes: %w", err)
	}
	defer rows.Close()

	var list []*entity.EventoNotarizacion
	for rows.Next() {
		var e entity.EventoNotarizacion
		var acta []byte
		if err := rows.Scan(&e.ID, &e.PolizaNumero, &acta, &e.Estado, &e.Intentos,
			&e.UltimoError, &e.HashTransaccion, &e.CreatedAt, &e.EnviadoAt); err != nil {
			return nil, fmt.Errorf("scan evento notarizacion: %w", err)
		}
		if err := json.Unmarshal(acta, &e.Acta); err != nil {
			return nil, fmt.Errorf("unmarshal acta: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// MarcarEnviado cierra el evento con el hash de la transacción en la cadena.
func (r *NotarizacionRepo) MarcarEnviado(id, hash string) error {
	query := `
		UPDATE eventos_notarizacion
		SET estado = $2, hash_transaccion = $3, enviado_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, id, entity.EventoEnviado, hash)
	if err != nil {
		return fmt.Errorf("marcar enviado: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarcarFallo incrementa intentos; al alcanzar maxIntentos el evento pasa a
// ERROR y las corridas siguientes dejan de tomarlo.
func (r *NotarizacionRepo) MarcarFallo(id, ultimoError string, maxIntentos int) error {
	query := `
		UPDATE eventos_notarizacion
		SET intentos = intentos + 1,
			ultimo_error = $2,
			estado = CASE WHEN intentos + 1 >= $3 THEN $4 ELSE estado END
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, id, ultimoError, maxIntentos, entity.EventoError)
	if err != nil {
		return fmt.Errorf("marcar fallo: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
