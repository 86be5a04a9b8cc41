package repository

import "github.com/1gnale/car-chain-api/internal/domain/entity"

// CotizacionRepository define el puerto de persistencia para cotizaciones y
// sus líneas.
type CotizacionRepository interface {
	Create(c *entity.Cotizacion) error
	GetByID(id string) (*entity.Cotizacion, error)
	CreateLinea(l *entity.LineaCotizacion) error
	GetLineaByID(id string) (*entity.LineaCotizacion, error)
	GetLineasByCotizacion(cotizacionID string) ([]*entity.LineaCotizacion, error)
}

// VehiculoRepository define el puerto de persistencia para vehículos.
type VehiculoRepository interface {
	Create(v *entity.Vehiculo) error
	GetByID(id string) (*entity.Vehiculo, error)
}

// DocumentacionRepository define el puerto de persistencia para la
// documentación fotográfica.
type DocumentacionRepository interface {
	Create(d *entity.Documentacion) error
	GetByID(id string) (*entity.Documentacion, error)
}
