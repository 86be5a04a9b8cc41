package repository

import "github.com/1gnale/car-chain-api/internal/domain/entity"

// CatalogoRepository agrupa las lecturas de catálogos (colaborador fuera del
// núcleo: los ABM de marcas, modelos, coberturas y períodos viven en otro
// servicio; aquí solo se consultan).
type CatalogoRepository interface {
	GetVersion(id string) (*entity.Version, error)
	GetPersona(id string) (*entity.Persona, error)
	GetCobertura(id string) (*entity.Cobertura, error)
	ListCoberturasActivas() ([]*entity.Cobertura, error)
	GetTipoContratacion(id string) (*entity.TipoContratacion, error)
	GetPeriodoPago(id string) (*entity.PeriodoPago, error)
}
