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

var _ repository.ConfigTarifaRepository = (*ConfigTarifaRepo)(nil)

// ConfigTarifaRepo implementación del puerto ConfigTarifaRepository sobre PostgreSQL (usable con pool o tx).
type ConfigTarifaRepo struct {
	q Querier
}

// NewConfigTarifaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConfigTarifaRepository(q Querier) *ConfigTarifaRepo {
	return &ConfigTarifaRepo{q: q}
}

const columnasConfig = `id, tipo, nombre, minimo, maximo, localidad_id, descuento, ganancia, recargo, activo, created_at, updated_at`

// Create persiste una franja tarifaria.
func (r *ConfigTarifaRepo) Create(c *entity.ConfigTarifa) error {
	query := `
		INSERT INTO configs_tarifa (` + columnasConfig + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Tipo, c.Nombre, c.Minimo, c.Maximo, c.LocalidadID,
		c.Descuento, c.Ganancia, c.Recargo, c.Activo, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert config tarifa: %w", err)
	}
	return nil
}

// GetByID obtiene una franja por id.
func (r *ConfigTarifaRepo) GetByID(id string) (*entity.ConfigTarifa, error) {
	query := `SELECT ` + columnasConfig + ` FROM configs_tarifa WHERE id = $1`
	return r.scanUna(r.q.QueryRow(context.Background(), query, id))
}

// Update actualiza una franja existente.
func (r *ConfigTarifaRepo) Update(c *entity.ConfigTarifa) error {
	query := `
		UPDATE configs_tarifa SET nombre = $2, minimo = $3, maximo = $4, localidad_id = $5,
			descuento = $6, ganancia = $7, recargo = $8, activo = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		c.ID, c.Nombre, c.Minimo, c.Maximo, c.LocalidadID,
		c.Descuento, c.Ganancia, c.Recargo, c.Activo, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update config tarifa: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActivas lista todas las franjas activas de un tipo.
func (r *ConfigTarifaRepo) ListActivas(tipo entity.TipoConfig) ([]*entity.ConfigTarifa, error) {
	query := `SELECT ` + columnasConfig + ` FROM configs_tarifa WHERE tipo = $1 AND activo ORDER BY minimo`
	rows, err := r.q.Query(context.Background(), query, tipo)
	if err != nil {
		return nil, fmt.Errorf("list configs tarifa: %w", err)
	}
	defer rows.Close()
	var list []*entity.ConfigTarifa
	for rows.Next() {
		var c entity.ConfigTarifa
		if err := rows.Scan(&c.ID, &c.Tipo, &c.Nombre, &c.Minimo, &c.Maximo, &c.LocalidadID,
			&c.Descuento, &c.Ganancia, &c.Recargo, &c.Activo, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan config tarifa: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// GetActivaPorValor devuelve la franja activa cuyo rango cerrado contiene valor.
func (r *ConfigTarifaRepo) GetActivaPorValor(tipo entity.TipoConfig, valor int) (*entity.ConfigTarifa, error) {
	query := `
		SELECT ` + columnasConfig + ` FROM configs_tarifa
		WHERE tipo = $1 AND activo AND minimo <= $2 AND maximo >= $2`
	return r.scanUna(r.q.QueryRow(context.Background(), query, tipo, valor))
}

// GetActivaPorLocalidad devuelve la configuración LOCALIDAD activa de una localidad.
func (r *ConfigTarifaRepo) GetActivaPorLocalidad(localidadID string) (*entity.ConfigTarifa, error) {
	query := `
		SELECT ` + columnasConfig + ` FROM configs_tarifa
		WHERE tipo = $1 AND activo AND localidad_id = $2`
	return r.scanUna(r.q.QueryRow(context.Background(), query, entity.ConfigLocalidad, localidadID))
}

// BloquearTipo toma un advisory lock transaccional por tipo: el chequeo
// read-then-write de solapamiento queda serializado entre transacciones
// concurrentes del mismo tipo. Se libera solo en el commit/rollback.
func (r *ConfigTarifaRepo) BloquearTipo(tipo entity.TipoConfig) error {
	_, err := r.q.Exec(context.Background(),
		`SELECT pg_advisory_xact_lock(hashtext('configs_tarifa:' || $1))`, string(tipo))
	if err != nil {
		return fmt.Errorf("advisory lock tipo %s: %w", tipo, err)
	}
	return nil
}

func (r *ConfigTarifaRepo) scanUna(row pgx.Row) (*entity.ConfigTarifa, error) {
	var c entity.ConfigTarifa
	err := row.Scan(&c.ID, &c.Tipo, &c.Nombre, &c.Minimo, &c.Maximo, &c.LocalidadID,
		&c.Descuento, &c.Ganancia, &c.Recargo, &c.Activo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get config tarifa: %w", err)
	}
	return &c, nil
}
