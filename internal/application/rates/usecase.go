package rates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

// UseCase administra la configuración tarifaria: franjas de edad y antigüedad
// sin solapamiento entre activas, y configuración por localidad con a lo sumo
// una entrada activa por localidad.
type UseCase struct {
	txRunner   TxRunner
	configRepo repository.ConfigTarifaRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, configRepo repository.ConfigTarifaRepository) *UseCase {
	return &UseCase{txRunner: txRunner, configRepo: configRepo}
}

// CrearConfigInput entrada para crear una franja. Los campos numéricos son
// punteros: la ausencia es error de validación, el cero es un valor legítimo
// (una franja de edad puede arrancar en 0).
type CrearConfigInput struct {
	Nombre      string
	Minimo      *int
	Maximo      *int
	LocalidadID *string // solo LOCALIDAD
	Descuento   *decimal.Decimal
	Ganancia    *decimal.Decimal
	Recargo     *decimal.Decimal
}

// Crear valida la entrada, chequea solapamiento contra las franjas activas
// del mismo tipo dentro de una transacción serializada por tipo, y persiste
// la franja con Activo=true. Ante cualquier rechazo no se inserta nada.
func (uc *UseCase) Crear(ctx context.Context, tipo entity.TipoConfig, in CrearConfigInput) (*entity.ConfigTarifa, error) {
	if err := validarTipo(tipo); err != nil {
		return nil, err
	}

	verr := &domain.ValidationError{}
	if in.Nombre == "" {
		verr.Agregar("nombre", "es requerido")
	}
	if in.Descuento == nil {
		verr.Agregar("descuento", "es requerido")
	}
	if in.Ganancia == nil {
		verr.Agregar("ganancia", "es requerida")
	}
	if in.Recargo == nil {
		verr.Agregar("recargo", "es requerido")
	}
	if tipo == entity.ConfigLocalidad {
		if in.LocalidadID == nil || *in.LocalidadID == "" {
			verr.Agregar("localidadId", "es requerida")
		}
	} else {
		if in.Minimo == nil {
			verr.Agregar("minimo", "es requerido")
		}
		if in.Maximo == nil {
			verr.Agregar("maximo", "es requerido")
		}
		if in.Minimo != nil && in.Maximo != nil && *in.Maximo < *in.Minimo {
			verr.Agregar("maximo", "debe ser mayor o igual al mínimo")
		}
	}
	if verr.TieneCampos() {
		return nil, verr
	}

	ahora := time.Now()
	cfg := &entity.ConfigTarifa{
		ID:          uuid.New().String(),
		Tipo:        tipo,
		Nombre:      in.Nombre,
		LocalidadID: in.LocalidadID,
		Descuento:   *in.Descuento,
		Ganancia:    *in.Ganancia,
		Recargo:     *in.Recargo,
		Activo:      true,
		CreatedAt:   ahora,
		UpdatedAt:   ahora,
	}
	if tipo != entity.ConfigLocalidad {
		cfg.Minimo = *in.Minimo
		cfg.Maximo = *in.Maximo
	}

	err := uc.txRunner.RunConfig(ctx, func(repo repository.ConfigTarifaRepository) error {
		if err := repo.BloquearTipo(tipo); err != nil {
			return err
		}
		if err := uc.verificarConflicto(repo, cfg, ""); err != nil {
			return err
		}
		return repo.Create(cfg)
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuscarPorValor devuelve la única franja activa cuyo rango contiene valor.
// Se usa al cotizar por edad del solicitante o antigüedad del vehículo.
func (uc *UseCase) BuscarPorValor(ctx context.Context, tipo entity.TipoConfig, valor int) (*entity.ConfigTarifa, error) {
	if err := validarTipo(tipo); err != nil {
		return nil, err
	}
	if tipo == entity.ConfigLocalidad {
		return nil, domain.ErrInvalidInput
	}
	cfg, err := uc.configRepo.GetActivaPorValor(tipo, valor)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return cfg, nil
}

// BuscarPorLocalidad devuelve la configuración activa de la localidad.
func (uc *UseCase) BuscarPorLocalidad(ctx context.Context, localidadID string) (*entity.ConfigTarifa, error) {
	cfg, err := uc.configRepo.GetActivaPorLocalidad(localidadID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return cfg, nil
}

// Get devuelve una franja por id.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.ConfigTarifa, error) {
	cfg, err := uc.configRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return cfg, nil
}

// ListActivas lista las franjas activas de un tipo.
func (uc *UseCase) ListActivas(ctx context.Context, tipo entity.TipoConfig) ([]*entity.ConfigTarifa, error) {
	if err := validarTipo(tipo); err != nil {
		return nil, err
	}
	return uc.configRepo.ListActivas(tipo)
}

// ActualizarConfigInput campos modificables de una franja; nil = sin cambio.
type ActualizarConfigInput struct {
	Nombre    *string
	Minimo    *int
	Maximo    *int
	Descuento *decimal.Decimal
	Ganancia  *decimal.Decimal
	Recargo   *decimal.Decimal
	Activo    *bool
}

// Actualizar aplica los cambios; si la franja queda activa se repite el
// chequeo de solapamiento excluyendo su propio id.
func (uc *UseCase) Actualizar(ctx context.Context, id string, in ActualizarConfigInput) (*entity.ConfigTarifa, error) {
	var actualizada *entity.ConfigTarifa
	err := uc.txRunner.RunConfig(ctx, func(repo repository.ConfigTarifaRepository) error {
		cfg, err := repo.GetByID(id)
		if err != nil {
			return err
		}
		if cfg == nil {
			return domain.ErrNotFound
		}

		if err := repo.BloquearTipo(cfg.Tipo); err != nil {
			return err
		}

		if in.Nombre != nil {
			cfg.Nombre = *in.Nombre
		}
		if in.Minimo != nil {
			cfg.Minimo = *in.Minimo
		}
		if in.Maximo != nil {
			cfg.Maximo = *in.Maximo
		}
		if in.Descuento != nil {
			cfg.Descuento = *in.Descuento
		}
		if in.Ganancia != nil {
			cfg.Ganancia = *in.Ganancia
		}
		if in.Recargo != nil {
			cfg.Recargo = *in.Recargo
		}
		if in.Activo != nil {
			cfg.Activo = *in.Activo
		}

		if cfg.Tipo != entity.ConfigLocalidad && cfg.Maximo < cfg.Minimo {
			verr := &domain.ValidationError{}
			verr.Agregar("maximo", "debe ser mayor o igual al mínimo")
			return verr
		}

		if cfg.Activo {
			if err := uc.verificarConflicto(repo, cfg, cfg.ID); err != nil {
				return err
			}
		}

		cfg.UpdatedAt = time.Now()
		if err := repo.Update(cfg); err != nil {
			return err
		}
		actualizada = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return actualizada, nil
}

// Desactivar es la baja lógica: Activo=false. Idempotente.
func (uc *UseCase) Desactivar(ctx context.Context, id string) error {
	cfg, err := uc.configRepo.GetByID(id)
	if err != nil {
		return err
	}
	if cfg == nil {
		return domain.ErrNotFound
	}
	if !cfg.Activo {
		return nil
	}
	cfg.Activo = false
	cfg.UpdatedAt = time.Now()
	return uc.configRepo.Update(cfg)
}

// verificarConflicto aplica la invariante del tipo: no-solapamiento de rangos
// entre activas (EDAD/ANTIGUEDAD) o unicidad por localidad (LOCALIDAD).
// excluirID omite el propio registro en una actualización.
func (uc *UseCase) verificarConflicto(repo repository.ConfigTarifaRepository, cfg *entity.ConfigTarifa, excluirID string) error {
	if cfg.Tipo == entity.ConfigLocalidad {
		if cfg.LocalidadID == nil {
			return domain.ErrInvalidInput
		}
		existente, err := repo.GetActivaPorLocalidad(*cfg.LocalidadID)
		if err != nil {
			return err
		}
		if existente != nil && existente.ID != excluirID {
			verr := &domain.ValidationError{}
			verr.Agregar("localidadId", "ya existe una configuración activa para la localidad")
			return verr
		}
		return nil
	}

	activas, err := repo.ListActivas(cfg.Tipo)
	if err != nil {
		return err
	}
	for _, otra := range activas {
		if otra.ID == excluirID {
			continue
		}
		if cfg.SeSolapaCon(*otra) {
			verr := &domain.ValidationError{}
			verr.Agregar("rango", domain.ErrSolapamiento.Error()+": "+otra.Nombre)
			return verr
		}
	}
	return nil
}

func validarTipo(tipo entity.TipoConfig) error {
	switch tipo {
	case entity.ConfigEdad, entity.ConfigAntiguedad, entity.ConfigLocalidad:
		return nil
	}
	return domain.ErrInvalidInput
}
