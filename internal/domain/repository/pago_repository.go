package repository

import "github.com/1gnale/car-chain-api/internal/domain/entity"

// PagoRepository define el puerto de persistencia para pagos.
type PagoRepository interface {
	Create(p *entity.Pago) error
	GetByID(id string) (*entity.Pago, error)
	Update(p *entity.Pago) error
	// Delete elimina el registro (flujo de pago fallido; no se conserva
	// constancia, comportamiento heredado del sistema).
	Delete(id string) error
}

// SiniestroRepository define el puerto de persistencia para siniestros.
type SiniestroRepository interface {
	Create(s *entity.Siniestro) error
	GetByID(id string) (*entity.Siniestro, error)
	Update(s *entity.Siniestro) error
}

// RevisionRepository define el puerto de persistencia para revisiones.
type RevisionRepository interface {
	Create(r *entity.Revision) error
	GetByID(id string) (*entity.Revision, error)
	Update(r *entity.Revision) error
}

// NotarizacionRepository es la cola (outbox) de eventos de notarización.
type NotarizacionRepository interface {
	Create(e *entity.EventoNotarizacion) error
	// ListPendientes devuelve hasta limit eventos PENDIENTE, más antiguos primero.
	ListPendientes(limit int) ([]*entity.EventoNotarizacion, error)
	MarcarEnviado(id, hash string) error
	// MarcarFallo incrementa intentos y guarda el último error; si intentos
	// alcanzó maxIntentos el evento pasa a ERROR y deja de reintentarse.
	MarcarFallo(id, ultimoError string, maxIntentos int) error
}
