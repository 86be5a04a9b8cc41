package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

var _ repository.DocumentacionRepository = (*DocumentacionRepo)(nil)

// DocumentacionRepo implementación del puerto DocumentacionRepository sobre PostgreSQL (usable con pool o tx).
type DocumentacionRepo struct {
	q Querier
}

// NewDocumentacionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentacionRepository(q Querier) *DocumentacionRepo {
	return &DocumentacionRepo{q: q}
}

// Create persiste la documentación fotográfica (base64 sin encabezado data-URI).
func (r *DocumentacionRepo) Create(d *entity.Documentacion) error {
	query := `
		INSERT INTO documentaciones (id, foto_frontal, foto_trasera, foto_lateral_izquierda,
			foto_lateral_derecha, foto_techo, cedula_verde, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.FotoFrontal, d.FotoTrasera, d.FotoLateralIzquierda,
		d.FotoLateralDerecha, d.FotoTecho, d.CedulaVerde, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert documentacion: %w", err)
	}
	return nil
}

// GetByID obtiene una documentación por id.
func (r *DocumentacionRepo) GetByID(id string) (*entity.Documentacion, error) {
	query := `
		SELECT id, foto_frontal, foto_trasera, foto_lateral_izquierda,
			foto_lateral_derecha, foto_techo, cedula_verde, created_at
		FROM documentaciones WHERE id = $1`
	var d entity.Documentacion
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.FotoFrontal, &d.FotoTrasera, &d.FotoLateralIzquierda,
		&d.FotoLateralDerecha, &d.FotoTecho, &d.CedulaVerde, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get documentacion: %w", err)
	}
	return &d, nil
}
