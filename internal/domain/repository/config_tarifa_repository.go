package repository

import "github.com/1gnale/car-chain-api/internal/domain/entity"

// ConfigTarifaRepository define el puerto de persistencia para la
// configuración tarifaria por franjas.
type ConfigTarifaRepository interface {
	Create(c *entity.ConfigTarifa) error
	GetByID(id string) (*entity.ConfigTarifa, error)
	Update(c *entity.ConfigTarifa) error
	// ListActivas devuelve todas las franjas activas de un tipo.
	ListActivas(tipo entity.TipoConfig) ([]*entity.ConfigTarifa, error)
	// GetActivaPorValor devuelve la franja activa cuyo rango contiene valor
	// (nil si ninguna).
	GetActivaPorValor(tipo entity.TipoConfig, valor int) (*entity.ConfigTarifa, error)
	// GetActivaPorLocalidad devuelve la configuración LOCALIDAD activa de la
	// localidad (nil si ninguna).
	GetActivaPorLocalidad(localidadID string) (*entity.ConfigTarifa, error)
	// BloquearTipo serializa el chequeo de solapamiento por tipo dentro de la
	// transacción en curso (advisory lock). Dos creaciones concurrentes del
	// mismo tipo no pueden pasar ambas el pre-chequeo.
	BloquearTipo(tipo entity.TipoConfig) error
}
