// Package quotes calcula cotizaciones: para un vehículo dado resuelve las
// franjas tarifarias activas por edad, antigüedad y localidad, copia los
// factores como snapshot y emite una línea de prima por cada cobertura activa.
package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

// vigenciaCotizacion es cuánto tiempo la propuesta mantiene el precio.
const vigenciaCotizacion = 30 * 24 * time.Hour

var cien = decimal.NewFromInt(100)

// UseCase calcula y persiste cotizaciones.
type UseCase struct {
	cotizacionRepo repository.CotizacionRepository
	vehiculoRepo   repository.VehiculoRepository
	configRepo     repository.ConfigTarifaRepository
	catalogoRepo   repository.CatalogoRepository
	ahora          func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	cotizacionRepo repository.CotizacionRepository,
	vehiculoRepo repository.VehiculoRepository,
	configRepo repository.ConfigTarifaRepository,
	catalogoRepo repository.CatalogoRepository,
) *UseCase {
	return &UseCase{
		cotizacionRepo: cotizacionRepo,
		vehiculoRepo:   vehiculoRepo,
		configRepo:     configRepo,
		catalogoRepo:   catalogoRepo,
		ahora:          time.Now,
	}
}

// FijarReloj reemplaza la fuente de tiempo. Para tests.
func (uc *UseCase) FijarReloj(ahora func() time.Time) { uc.ahora = ahora }

// Resultado es la cotización emitida junto con sus líneas.
type Resultado struct {
	Cotizacion *entity.Cotizacion
	Lineas     []*entity.LineaCotizacion
}

// Cotizar emite una cotización para un vehículo ya registrado. Si ninguna
// franja activa cubre un valor, ese factor queda en cero: la falta de una
// banda nunca bloquea la cotización.
func (uc *UseCase) Cotizar(ctx context.Context, vehiculoID string) (*Resultado, error) {
	v, err := uc.vehiculoRepo.GetByID(vehiculoID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	persona, err := uc.catalogoRepo.GetPersona(v.PersonaID)
	if err != nil {
		return nil, err
	}
	if persona == nil {
		return nil, domain.ErrNotFound
	}
	version, err := uc.catalogoRepo.GetVersion(v.VersionID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, domain.ErrNotFound
	}

	ahora := uc.ahora()
	cot := &entity.Cotizacion{
		ID:               uuid.New().String(),
		VehiculoID:       v.ID,
		FechaCreacion:    ahora,
		FechaVencimiento: ahora.Add(vigenciaCotizacion),
	}

	edad := persona.Edad(ahora)
	if cfg, err := uc.configRepo.GetActivaPorValor(entity.ConfigEdad, edad); err != nil {
		return nil, err
	} else if cfg != nil {
		cot.ConfigEdadID = &cfg.ID
		cot.DescuentoEdad = cfg.Descuento
		cot.RecargoEdad = cfg.Recargo
	}

	antiguedad := ahora.Year() - v.Anio
	if cfg, err := uc.configRepo.GetActivaPorValor(entity.ConfigAntiguedad, antiguedad); err != nil {
		return nil, err
	} else if cfg != nil {
		cot.ConfigAntiguedadID = &cfg.ID
		cot.DescuentoAntiguedad = cfg.Descuento
		cot.RecargoAntiguedad = cfg.Recargo
	}

	if cfg, err := uc.configRepo.GetActivaPorLocalidad(persona.LocalidadID); err != nil {
		return nil, err
	} else if cfg != nil {
		cot.ConfigLocalidadID = &cfg.ID
		cot.DescuentoLocalidad = cfg.Descuento
		cot.RecargoLocalidad = cfg.Recargo
	}

	coberturas, err := uc.catalogoRepo.ListCoberturasActivas()
	if err != nil {
		return nil, err
	}
	if len(coberturas) == 0 {
		return nil, domain.ErrConflict
	}

	if err := uc.cotizacionRepo.Create(cot); err != nil {
		return nil, err
	}

	lineas := make([]*entity.LineaCotizacion, 0, len(coberturas))
	for _, cob := range coberturas {
		linea := &entity.LineaCotizacion{
			ID:           uuid.New().String(),
			CotizacionID: cot.ID,
			CoberturaID:  cob.ID,
			Monto:        calcularPrima(version.PrecioMercado, cob.Recargo, cot),
		}
		if err := uc.cotizacionRepo.CreateLinea(linea); err != nil {
			return nil, err
		}
		lineas = append(lineas, linea)
	}

	return &Resultado{Cotizacion: cot, Lineas: lineas}, nil
}

// calcularPrima aplica sobre la prima base (monto asegurado por el recargo de
// la cobertura) el ajuste neto de las franjas: recargos menos descuentos, en
// puntos porcentuales.
func calcularPrima(montoAsegurado, recargoCobertura decimal.Decimal, cot *entity.Cotizacion) decimal.Decimal {
	base := montoAsegurado.Mul(recargoCobertura).Div(cien)

	ajuste := cot.RecargoEdad.
		Add(cot.RecargoAntiguedad).
		Add(cot.RecargoLocalidad).
		Sub(cot.DescuentoEdad).
		Sub(cot.DescuentoAntiguedad).
		Sub(cot.DescuentoLocalidad)

	factor := decimal.NewFromInt(1).Add(ajuste.Div(cien))
	return base.Mul(factor).Round(2)
}

// Get devuelve una cotización con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*Resultado, error) {
	cot, err := uc.cotizacionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cot == nil {
		return nil, domain.ErrNotFound
	}
	lineas, err := uc.cotizacionRepo.GetLineasByCotizacion(id)
	if err != nil {
		return nil, err
	}
	return &Resultado{Cotizacion: cot, Lineas: lineas}, nil
}
