package memoria

import "github.com/1gnale/car-chain-api/internal/domain/repository"

// Verificación de que cada repo en memoria implementa su puerto.
var (
	_ repository.PolizaRepository        = (*PolizaRepo)(nil)
	_ repository.PagoRepository          = (*PagoRepo)(nil)
	_ repository.ConfigTarifaRepository  = (*ConfigTarifaRepo)(nil)
	_ repository.CotizacionRepository    = (*CotizacionRepo)(nil)
	_ repository.VehiculoRepository      = (*VehiculoRepo)(nil)
	_ repository.DocumentacionRepository = (*DocumentacionRepo)(nil)
	_ repository.SiniestroRepository     = (*SiniestroRepo)(nil)
	_ repository.RevisionRepository      = (*RevisionRepo)(nil)
	_ repository.NotarizacionRepository  = (*NotarizacionRepo)(nil)
	_ repository.CatalogoRepository      = (*CatalogoRepo)(nil)
)
