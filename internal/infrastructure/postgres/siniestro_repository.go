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

var _ repository.SiniestroRepository = (*SiniestroRepo)(nil)
var _ repository.RevisionRepository = (*RevisionRepo)(nil)

// SiniestroRepo implementación del puerto SiniestroRepository sobre PostgreSQL (usable con pool o tx).
type SiniestroRepo struct {
	q Querier
}

// NewSiniestroRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSiniestroRepository(q Querier) *SiniestroRepo {
	return &SiniestroRepo{q: q}
}

// Create persiste un siniestro.
func (r *SiniestroRepo) Create(s *entity.Siniestro) error {
	query := `
		INSERT INTO siniestros (id, poliza_numero, fecha, hora, descripcion, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.PolizaNumero, s.Fecha, s.Hora, s.Descripcion, s.Estado, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert siniestro: %w", err)
	}
	return nil
}

// GetByID obtiene un siniestro por id.
func (r *SiniestroRepo) GetByID(id string) (*entity.Siniestro, error) {
	query := `
		SELECT id, poliza_numero, fecha, hora, descripcion, estado, created_at, updated_at
		FROM siniestros WHERE id = $1`
	var s entity.Siniestro
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.PolizaNumero, &s.Fecha, &s.Hora, &s.Descripcion, &s.Estado, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get siniestro: %w", err)
	}
	return &s, nil
}

// Update actualiza el estado de un siniestro.
func (r *SiniestroRepo) Update(s *entity.Siniestro) error {
	query := `UPDATE siniestros SET descripcion = $2, estado = $3, updated_at = $4 WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, s.ID, s.Descripcion, s.Estado, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update siniestro: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RevisionRepo implementación del puerto RevisionRepository sobre PostgreSQL (usable con pool o tx).
type RevisionRepo struct {
	q Querier
}

// NewRevisionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRevisionRepository(q Querier) *RevisionRepo {
	return &RevisionRepo{q: q}
}

// Create persiste una revisión.
func (r *RevisionRepo) Create(rev *entity.Revision) error {
	query := `
		INSERT INTO revisiones (id, poliza_numero, fecha, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		rev.ID, rev.PolizaNumero, rev.Fecha, rev.Estado, rev.CreatedAt, rev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}
	return nil
}

// GetByID obtiene una revisión por id.
func (r *RevisionRepo) GetByID(id string) (*entity.Revision, error) {
	query := `
		SELECT id, poliza_numero, fecha, estado, created_at, updated_at
		FROM revisiones WHERE id = $1`
	var rev entity.Revision
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rev.ID, &rev.PolizaNumero, &rev.Fecha, &rev.Estado, &rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get revision: %w", err)
	}
	return &rev, nil
}

// Update actualiza el estado de una revisión.
func (r *RevisionRepo) Update(rev *entity.Revision) error {
	query := `UPDATE revisiones SET estado = $2, updated_at = $3 WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, rev.ID, rev.Estado, rev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update revision: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
