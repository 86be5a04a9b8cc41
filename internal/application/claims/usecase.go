// Package claims gestiona siniestros y la resolución de revisiones de
// suscripción. Ambos trámites comparten el mismo patrón: nacen PENDIENTE y se
// resuelven una sola vez a APROBADA o RECHAZADA.
package claims

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

// UseCase gestiona siniestros y revisiones.
type UseCase struct {
	polizaRepo    repository.PolizaRepository
	siniestroRepo repository.SiniestroRepository
	revisionRepo  repository.RevisionRepository
	ahora         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	polizaRepo repository.PolizaRepository,
	siniestroRepo repository.SiniestroRepository,
	revisionRepo repository.RevisionRepository,
) *UseCase {
	return &UseCase{
		polizaRepo:    polizaRepo,
		siniestroRepo: siniestroRepo,
		revisionRepo:  revisionRepo,
		ahora:         time.Now,
	}
}

// FijarReloj reemplaza la fuente de tiempo. Para tests.
func (uc *UseCase) FijarReloj(ahora func() time.Time) { uc.ahora = ahora }

// RegistrarSiniestroInput datos del reclamo.
type RegistrarSiniestroInput struct {
	PolizaNumero string `json:"polizaNumero"`
	Descripcion  string `json:"descripcion"`
}

// RegistrarSiniestro da de alta un reclamo PENDIENTE sobre una póliza con
// cobertura activa (VIGENTE o IMPAGA).
func (uc *UseCase) RegistrarSiniestro(ctx context.Context, in RegistrarSiniestroInput) (*entity.Siniestro, error) {
	verr := &domain.ValidationError{}
	if in.PolizaNumero == "" {
		verr.Agregar("polizaNumero", "es requerido")
	}
	if in.Descripcion == "" {
		verr.Agregar("descripcion", "es requerida")
	}
	if verr.TieneCampos() {
		return nil, verr
	}

	p, err := uc.polizaRepo.GetByNumero(in.PolizaNumero)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.Estado != entity.PolizaVigente && p.Estado != entity.PolizaImpaga {
		return nil, domain.ErrConflict
	}

	ahora := uc.ahora()
	s := &entity.Siniestro{
		ID:           uuid.New().String(),
		PolizaNumero: in.PolizaNumero,
		Fecha:        ahora,
		Hora:         ahora.Format("15:04:05"),
		Descripcion:  in.Descripcion,
		Estado:       entity.TramitePendiente,
		CreatedAt:    ahora,
		UpdatedAt:    ahora,
	}
	if err := uc.siniestroRepo.Create(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ResolverSiniestro cierra un reclamo pendiente. Un trámite resuelto no se
// reabre.
func (uc *UseCase) ResolverSiniestro(ctx context.Context, id string, aprobado bool) (*entity.Siniestro, error) {
	s, err := uc.siniestroRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.Estado.EsTerminal() {
		return nil, domain.ErrConflict
	}

	s.Estado = entity.TramiteRechazado
	if aprobado {
		s.Estado = entity.TramiteAprobado
	}
	s.UpdatedAt = uc.ahora()
	if err := uc.siniestroRepo.Update(s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetSiniestro devuelve un reclamo por id.
func (uc *UseCase) GetSiniestro(ctx context.Context, id string) (*entity.Siniestro, error) {
	s, err := uc.siniestroRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// ResolverRevision cierra la evaluación de suscripción y mueve la póliza de
// EN_REVISIÓN a APROBADA o RECHAZADA según el veredicto.
func (uc *UseCase) ResolverRevision(ctx context.Context, id string, aprobada bool) (*entity.Revision, error) {
	rev, err := uc.revisionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, domain.ErrNotFound
	}
	if rev.Estado.EsTerminal() {
		return nil, domain.ErrConflict
	}

	p, err := uc.polizaRepo.GetByNumero(rev.PolizaNumero)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	destino := entity.PolizaRechazada
	veredicto := entity.TramiteRechazado
	if aprobada {
		destino = entity.PolizaAprobada
		veredicto = entity.TramiteAprobado
	}
	if err := p.CambiarEstado(destino); err != nil {
		return nil, err
	}

	ahora := uc.ahora()
	p.UpdatedAt = ahora
	if err := uc.polizaRepo.Update(p); err != nil {
		return nil, err
	}

	rev.Estado = veredicto
	rev.UpdatedAt = ahora
	if err := uc.revisionRepo.Update(rev); err != nil {
		return nil, err
	}
	return rev, nil
}
