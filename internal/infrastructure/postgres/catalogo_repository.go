package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

var _ repository.CatalogoRepository = (*CatalogoRepo)(nil)

// CatalogoRepo lecturas de catálogos sobre PostgreSQL (usable con pool o tx).
// Los ABM de estos catálogos viven en otro servicio; acá solo se consulta.
type CatalogoRepo struct {
	q Querier
}

// NewCatalogoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogoRepository(q Querier) *CatalogoRepo {
	return &CatalogoRepo{q: q}
}

// GetVersion obtiene una versión de vehículo con su precio de mercado.
func (r *CatalogoRepo) GetVersion(id string) (*entity.Version, error) {
	query := `SELECT id, nombre, precio_mercado FROM versiones WHERE id = $1`
	var v entity.Version
	err := r.q.QueryRow(context.Background(), query, id).Scan(&v.ID, &v.Nombre, &v.PrecioMercado)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get version: %w", err)
	}
	return &v, nil
}

// GetPersona obtiene una persona.
func (r *CatalogoRepo) GetPersona(id string) (*entity.Persona, error) {
	query := `
		SELECT id, nombre, apellido, documento, fecha_nacimiento, localidad_id
		FROM personas WHERE id = $1`
	var p entity.Persona
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Nombre, &p.Apellido, &p.Documento, &p.FechaNacimiento, &p.LocalidadID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get persona: %w", err)
	}
	return &p, nil
}

// GetCobertura obtiene una cobertura.
func (r *CatalogoRepo) GetCobertura(id string) (*entity.Cobertura, error) {
	query := `SELECT id, nombre, descripcion, recargo, activo FROM coberturas WHERE id = $1`
	var c entity.Cobertura
	err := r.q.QueryRow(context.Background(), query, id).Scan(&c.ID, &c.Nombre, &c.Descripcion, &c.Recargo, &c.Activo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cobertura: %w", err)
	}
	return &c, nil
}

// ListCoberturasActivas lista las coberturas contratables.
func (r *CatalogoRepo) ListCoberturasActivas() ([]*entity.Cobertura, error) {
	query := `SELECT id, nombre, descripcion, recargo, activo FROM coberturas WHERE activo ORDER BY nombre`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list coberturas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Cobertura
	for rows.Next() {
		var c entity.Cobertura
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Descripcion, &c.Recargo, &c.Activo); err != nil {
			return nil, fmt.Errorf("scan cobertura: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// GetTipoContratacion obtiene un tipo de contratación.
func (r *CatalogoRepo) GetTipoContratacion(id string) (*entity.TipoContratacion, error) {
	query := `SELECT id, nombre, cantidad_meses, activo FROM tipos_contratacion WHERE id = $1`
	var t entity.TipoContratacion
	err := r.q.QueryRow(context.Background(), query, id).Scan(&t.ID, &t.Nombre, &t.CantidadMeses, &t.Activo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tipo contratacion: %w", err)
	}
	return &t, nil
}

// GetPeriodoPago obtiene un período de pago.
func (r *CatalogoRepo) GetPeriodoPago(id string) (*entity.PeriodoPago, error) {
	query := `SELECT id, nombre, cantidad_meses, descuento, activo FROM periodos_pago WHERE id = $1`
	var p entity.PeriodoPago
	err := r.q.QueryRow(context.Background(), query, id).Scan(&p.ID, &p.Nombre, &p.CantidadMeses, &p.Descuento, &p.Activo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get periodo pago: %w", err)
	}
	return &p, nil
}
