package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

var _ repository.CotizacionRepository = (*CotizacionRepo)(nil)

// CotizacionRepo implementación del puerto CotizacionRepository sobre PostgreSQL (usable con pool o tx).
type CotizacionRepo struct {
	q Querier
}

// NewCotizacionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCotizacionRepository(q Querier) *CotizacionRepo {
	return &CotizacionRepo{q: q}
}

const columnasCotizacion = `id, vehiculo_id, fecha_creacion, fecha_vencimiento,
	config_edad_id, config_antiguedad_id, config_localidad_id,
	descuento_edad, recargo_edad, descuento_antiguedad, recargo_antiguedad,
	descuento_localidad, recargo_localidad`

// Create persiste una cotización con su snapshot de factores.
func (r *CotizacionRepo) Create(c *entity.Cotizacion) error {
	query := `
		INSERT INTO cotizaciones (` + columnasCotizacion + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.VehiculoID, c.FechaCreacion, c.FechaVencimiento,
		c.ConfigEdadID, c.ConfigAntiguedadID, c.ConfigLocalidadID,
		c.DescuentoEdad, c.RecargoEdad, c.DescuentoAntiguedad, c.RecargoAntiguedad,
		c.DescuentoLocalidad, c.RecargoLocalidad,
	)
	if err != nil {
		return fmt.Errorf("insert cotizacion: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización por id.
func (r *CotizacionRepo) GetByID(id string) (*entity.Cotizacion, error) {
	query := `SELECT ` + columnasCotizacion + ` FROM cotizaciones WHERE id = $1`
	var c entity.Cotizacion
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.VehiculoID, &c.FechaCreacion, &c.FechaVencimiento,
		&c.ConfigEdadID, &c.ConfigAntiguedadID, &c.ConfigLocalidadID,
		&c.DescuentoEdad, &c.RecargoEdad, &c.DescuentoAntiguedad, &c.RecargoAntiguedad,
		&c.DescuentoLocalidad, &c.RecargoLocalidad,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cotizacion: %w", err)
	}
	return &c, nil
}

// CreateLinea persiste una línea de cotización.
func (r *CotizacionRepo) CreateLinea(l *entity.LineaCotizacion) error {
	query := `
		INSERT INTO lineas_cotizacion (id, cotizacion_id, cobertura_id, monto)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, l.ID, l.CotizacionID, l.CoberturaID, l.Monto)
	if err != nil {
		return fmt.Errorf("insert linea cotizacion: %w", err)
	}
	return nil
}

// GetLineaByID obtiene una línea por id.
func (r *CotizacionRepo) GetLineaByID(id string) (*entity.LineaCotizacion, error) {
	query := `SELECT id, cotizacion_id, cobertura_id, monto FROM lineas_cotizacion WHERE id = $1`
	var l entity.LineaCotizacion
	err := r.q.QueryRow(context.Background(), query, id).Scan(&l.ID, &l.CotizacionID, &l.CoberturaID, &l.Monto)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get linea cotizacion: %w", err)
	}
	return &l, nil
}

// GetLineasByCotizacion lista las líneas de una cotización.
func (r *CotizacionRepo) GetLineasByCotizacion(cotizacionID string) ([]*entity.LineaCotizacion, error) {
	query := `SELECT id, cotizacion_id, cobertura_id, monto FROM lineas_cotizacion WHERE cotizacion_id = $1`
	rows, err := r.q.Query(context.Background(), query, cotizacionID)
	if err != nil {
		return nil, fmt.Errorf("list lineas cotizacion: %w", err)
	}
	defer rows.Close()
	var list []*entity.LineaCotizacion
	for rows.Next() {
		var l entity.LineaCotizacion
		if err := rows.Scan(&l.ID, &l.CotizacionID, &l.CoberturaID, &l.Monto); err != nil {
			return nil, fmt.Errorf("scan linea cotizacion: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
