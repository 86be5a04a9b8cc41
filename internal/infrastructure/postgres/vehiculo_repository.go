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

var _ repository.VehiculoRepository = (*VehiculoRepo)(nil)

// VehiculoRepo implementación del puerto VehiculoRepository sobre PostgreSQL (usable con pool o tx).
type VehiculoRepo struct {
	q Querier
}

// NewVehiculoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVehiculoRepository(q Querier) *VehiculoRepo {
	return &VehiculoRepo{q: q}
}

// Create persiste un vehículo.
func (r *VehiculoRepo) Create(v *entity.Vehiculo) error {
	query := `
		INSERT INTO vehiculos (id, matricula, chasis, numero_motor, anio, gnc, version_id, persona_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.Matricula, v.Chasis, v.NumeroMotor, v.Anio, v.GNC, v.VersionID, v.PersonaID, v.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vehiculo: %w", err)
	}
	return nil
}

// GetByID obtiene un vehículo por id.
func (r *VehiculoRepo) GetByID(id string) (*entity.Vehiculo, error) {
	query := `
		SELECT id, matricula, chasis, numero_motor, anio, gnc, version_id, persona_id, created_at
		FROM vehiculos WHERE id = $1`
	var v entity.Vehiculo
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&v.ID, &v.Matricula, &v.Chasis, &v.NumeroMotor, &v.Anio, &v.GNC, &v.VersionID, &v.PersonaID, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehiculo: %w", err)
	}
	return &v, nil
}
