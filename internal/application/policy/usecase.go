package policy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

// UseCase gobierna el ciclo de vida de la póliza: alta (simple y
// transaccional completa), transiciones de estado, asignación de responsable
// y registro de revisión.
type UseCase struct {
	txRunner          TxRunner
	polizaRepo        repository.PolizaRepository
	cotizacionRepo    repository.CotizacionRepository
	vehiculoRepo      repository.VehiculoRepository
	documentacionRepo repository.DocumentacionRepository
	revisionRepo      repository.RevisionRepository
	catalogoRepo      repository.CatalogoRepository
	certificados      CertificadoGenerator
	ahora             func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	polizaRepo repository.PolizaRepository,
	cotizacionRepo repository.CotizacionRepository,
	vehiculoRepo repository.VehiculoRepository,
	documentacionRepo repository.DocumentacionRepository,
	revisionRepo repository.RevisionRepository,
	catalogoRepo repository.CatalogoRepository,
	certificados CertificadoGenerator,
) *UseCase {
	return &UseCase{
		txRunner:          txRunner,
		polizaRepo:        polizaRepo,
		cotizacionRepo:    cotizacionRepo,
		vehiculoRepo:      vehiculoRepo,
		documentacionRepo: documentacionRepo,
		revisionRepo:      revisionRepo,
		catalogoRepo:      catalogoRepo,
		certificados:      certificados,
		ahora:             time.Now,
	}
}

// FijarReloj reemplaza la fuente de tiempo. Para tests.
func (uc *UseCase) FijarReloj(ahora func() time.Time) { uc.ahora = ahora }

// Crear emite una póliza PENDIENTE sobre una línea de cotización y una
// documentación ya persistidas. Resuelve la cadena línea → cotización →
// vehículo → versión para copiar el monto asegurado del precio de mercado.
func (uc *UseCase) Crear(ctx context.Context, documentacionID, lineaCotizacionID string) (*entity.Poliza, error) {
	doc, err := uc.documentacionRepo.GetByID(documentacionID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}

	linea, err := uc.cotizacionRepo.GetLineaByID(lineaCotizacionID)
	if err != nil {
		return nil, err
	}
	if linea == nil {
		return nil, domain.ErrNotFound
	}

	cot, err := uc.cotizacionRepo.GetByID(linea.CotizacionID)
	if err != nil {
		return nil, err
	}
	if cot == nil {
		return nil, domain.ErrNotFound
	}

	vehiculo, err := uc.vehiculoRepo.GetByID(cot.VehiculoID)
	if err != nil {
		return nil, err
	}
	if vehiculo == nil {
		return nil, domain.ErrNotFound
	}

	version, err := uc.catalogoRepo.GetVersion(vehiculo.VersionID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, domain.ErrNotFound
	}

	p := uc.nuevaPoliza(documentacionID, lineaCotizacionID, version.PrecioMercado)
	if err := uc.polizaRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// VehiculoInput datos del vehículo a asegurar.
type VehiculoInput struct {
	Matricula   string
	Chasis      string
	NumeroMotor string
	Anio        int
	GNC         bool
	VersionID   string
	PersonaID   string
}

// CotizacionSnapshot factores tarifarios congelados al momento de cotizar.
type CotizacionSnapshot struct {
	FechaVencimiento    time.Time
	ConfigEdadID        *string
	ConfigAntiguedadID  *string
	ConfigLocalidadID   *string
	DescuentoEdad       decimal.Decimal
	RecargoEdad         decimal.Decimal
	DescuentoAntiguedad decimal.Decimal
	RecargoAntiguedad   decimal.Decimal
	DescuentoLocalidad  decimal.Decimal
	RecargoLocalidad    decimal.Decimal
}

// LineaInput prima calculada para una cobertura.
type LineaInput struct {
	CoberturaID string
	Monto       decimal.Decimal
}

// CrearCompletaInput alta de póliza de punta a punta.
type CrearCompletaInput struct {
	Vehiculo              VehiculoInput
	Cotizacion            CotizacionSnapshot
	Lineas                []LineaInput
	CoberturaContratadaID string
	Documentacion         DocumentacionInput
}

// CrearCompleta crea vehículo, cotización, líneas, documentación y póliza en
// una única transacción: cualquier fallo en el camino deshace todo lo
// anterior. Es la única operación del núcleo con semántica transaccional
// multi-entidad.
func (uc *UseCase) CrearCompleta(ctx context.Context, in CrearCompletaInput) (*entity.Poliza, error) {
	verr := &domain.ValidationError{}
	if in.Vehiculo.Matricula == "" {
		verr.Agregar("matricula", "es requerida")
	}
	if in.Vehiculo.VersionID == "" {
		verr.Agregar("versionId", "es requerida")
	}
	if in.Vehiculo.PersonaID == "" {
		verr.Agregar("personaId", "es requerida")
	}
	if len(in.Lineas) == 0 {
		verr.Agregar("lineas", "debe haber al menos una cobertura cotizada")
	}
	if in.CoberturaContratadaID == "" {
		verr.Agregar("coberturaContratadaId", "es requerida")
	}
	if verr.TieneCampos() {
		return nil, verr
	}
	if err := ValidarDocumentacion(in.Documentacion); err != nil {
		return nil, err
	}

	ahora := uc.ahora()
	var creada *entity.Poliza

	err := uc.txRunner.RunPoliza(ctx, func(
		vehiculos repository.VehiculoRepository,
		cotizaciones repository.CotizacionRepository,
		documentaciones repository.DocumentacionRepository,
		polizas repository.PolizaRepository,
		catalogos repository.CatalogoRepository,
	) error {
		// El precio de mercado se resuelve dentro de la transacción.
		version, err := catalogos.GetVersion(in.Vehiculo.VersionID)
		if err != nil {
			return err
		}
		if version == nil {
			return domain.ErrNotFound
		}

		vehiculo := &entity.Vehiculo{
			ID:          uuid.New().String(),
			Matricula:   in.Vehiculo.Matricula,
			Chasis:      in.Vehiculo.Chasis,
			NumeroMotor: in.Vehiculo.NumeroMotor,
			Anio:        in.Vehiculo.Anio,
			GNC:         in.Vehiculo.GNC,
			VersionID:   in.Vehiculo.VersionID,
			PersonaID:   in.Vehiculo.PersonaID,
			CreatedAt:   ahora,
		}
		if err := vehiculos.Create(vehiculo); err != nil {
			return err
		}

		cot := &entity.Cotizacion{
			ID:                  uuid.New().String(),
			VehiculoID:          vehiculo.ID,
			FechaCreacion:       ahora,
			FechaVencimiento:    in.Cotizacion.FechaVencimiento,
			ConfigEdadID:        in.Cotizacion.ConfigEdadID,
			ConfigAntiguedadID:  in.Cotizacion.ConfigAntiguedadID,
			ConfigLocalidadID:   in.Cotizacion.ConfigLocalidadID,
			DescuentoEdad:       in.Cotizacion.DescuentoEdad,
			RecargoEdad:         in.Cotizacion.RecargoEdad,
			DescuentoAntiguedad: in.Cotizacion.DescuentoAntiguedad,
			RecargoAntiguedad:   in.Cotizacion.RecargoAntiguedad,
			DescuentoLocalidad:  in.Cotizacion.DescuentoLocalidad,
			RecargoLocalidad:    in.Cotizacion.RecargoLocalidad,
		}
		if err := cotizaciones.Create(cot); err != nil {
			return err
		}

		var lineaContratada *entity.LineaCotizacion
		for _, l := range in.Lineas {
			cobertura, err := catalogos.GetCobertura(l.CoberturaID)
			if err != nil {
				return err
			}
			if cobertura == nil {
				return domain.ErrNotFound
			}
			if !l.Monto.GreaterThan(decimal.Zero) {
				lverr := &domain.ValidationError{}
				lverr.Agregar("monto", "la prima de "+cobertura.Nombre+" debe ser positiva")
				return lverr
			}
			linea := &entity.LineaCotizacion{
				ID:           uuid.New().String(),
				CotizacionID: cot.ID,
				CoberturaID:  l.CoberturaID,
				Monto:        l.Monto,
			}
			if err := cotizaciones.CreateLinea(linea); err != nil {
				return err
			}
			if l.CoberturaID == in.CoberturaContratadaID {
				lineaContratada = linea
			}
		}
		if lineaContratada == nil {
			lverr := &domain.ValidationError{}
			lverr.Agregar("coberturaContratadaId", "no figura entre las líneas cotizadas")
			return lverr
		}

		doc := &entity.Documentacion{
			ID:                   uuid.New().String(),
			FotoFrontal:          SinPrefijo(in.Documentacion.FotoFrontal),
			FotoTrasera:          SinPrefijo(in.Documentacion.FotoTrasera),
			FotoLateralIzquierda: SinPrefijo(in.Documentacion.FotoLateralIzquierda),
			FotoLateralDerecha:   SinPrefijo(in.Documentacion.FotoLateralDerecha),
			FotoTecho:            SinPrefijo(in.Documentacion.FotoTecho),
			CedulaVerde:          SinPrefijo(in.Documentacion.CedulaVerde),
			CreatedAt:            ahora,
		}
		if err := documentaciones.Create(doc); err != nil {
			return err
		}

		p := uc.nuevaPoliza(doc.ID, lineaContratada.ID, version.PrecioMercado)
		if err := polizas.Create(p); err != nil {
			return err
		}
		creada = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return creada, nil
}

func (uc *UseCase) nuevaPoliza(documentacionID, lineaCotizacionID string, montoAsegurado decimal.Decimal) *entity.Poliza {
	ahora := uc.ahora()
	return &entity.Poliza{
		NumeroPoliza:         uuid.New().String(),
		DocumentacionID:      documentacionID,
		LineaCotizacionID:    lineaCotizacionID,
		MontoAsegurado:       montoAsegurado,
		RenovacionAutomatica: false,
		Estado:               entity.PolizaPendiente,
		CreatedAt:            ahora,
		UpdatedAt:            ahora,
	}
}

// CambiarEstado aplica una transición administrativa validada contra la tabla
// de estados. CANCELADA registra además la fecha de cancelación.
func (uc *UseCase) CambiarEstado(ctx context.Context, numero, estado string) (*entity.Poliza, error) {
	destino, err := entity.ParseEstadoPoliza(estado)
	if err != nil {
		return nil, err
	}

	p, err := uc.polizaRepo.GetByNumero(numero)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	if err := p.CambiarEstado(destino); err != nil {
		return nil, err
	}
	if destino == entity.PolizaCancelada {
		fc := uc.ahora()
		p.FechaCancelacion = &fc
	}
	p.UpdatedAt = uc.ahora()
	if err := uc.polizaRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// AsignarResponsable fija el legajo del empleado a cargo; no implica
// transición de estado.
func (uc *UseCase) AsignarResponsable(ctx context.Context, numero, legajo string) (*entity.Poliza, error) {
	if legajo == "" {
		verr := &domain.ValidationError{}
		verr.Agregar("legajo", "es requerido")
		return nil, verr
	}
	p, err := uc.polizaRepo.GetByNumero(numero)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.UsuarioLegajo = &legajo
	p.UpdatedAt = uc.ahora()
	if err := uc.polizaRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// RegistrarRevision abre una revisión PENDIENTE y mueve la póliza a
// EN_REVISIÓN (solo válido desde PENDIENTE).
func (uc *UseCase) RegistrarRevision(ctx context.Context, numero string) (*entity.Revision, error) {
	p, err := uc.polizaRepo.GetByNumero(numero)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if err := p.CambiarEstado(entity.PolizaEnRevision); err != nil {
		return nil, err
	}

	ahora := uc.ahora()
	rev := &entity.Revision{
		ID:           uuid.New().String(),
		PolizaNumero: numero,
		Fecha:        ahora,
		Estado:       entity.TramitePendiente,
		CreatedAt:    ahora,
		UpdatedAt:    ahora,
	}
	if err := uc.revisionRepo.Create(rev); err != nil {
		return nil, err
	}

	p.UpdatedAt = ahora
	if err := uc.polizaRepo.Update(p); err != nil {
		return nil, err
	}
	return rev, nil
}

// Get devuelve la póliza por número.
func (uc *UseCase) Get(ctx context.Context, numero string) (*entity.Poliza, error) {
	p, err := uc.polizaRepo.GetByNumero(numero)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Certificado arma y devuelve el PDF del certificado de cobertura.
func (uc *UseCase) Certificado(ctx context.Context, numero string) ([]byte, error) {
	p, err := uc.Get(ctx, numero)
	if err != nil {
		return nil, err
	}

	linea, err := uc.cotizacionRepo.GetLineaByID(p.LineaCotizacionID)
	if err != nil {
		return nil, err
	}
	if linea == nil {
		return nil, domain.ErrNotFound
	}
	cot, err := uc.cotizacionRepo.GetByID(linea.CotizacionID)
	if err != nil {
		return nil, err
	}
	if cot == nil {
		return nil, domain.ErrNotFound
	}
	vehiculo, err := uc.vehiculoRepo.GetByID(cot.VehiculoID)
	if err != nil {
		return nil, err
	}
	if vehiculo == nil {
		return nil, domain.ErrNotFound
	}
	persona, err := uc.catalogoRepo.GetPersona(vehiculo.PersonaID)
	if err != nil {
		return nil, err
	}
	if persona == nil {
		return nil, domain.ErrNotFound
	}
	cobertura, err := uc.catalogoRepo.GetCobertura(linea.CoberturaID)
	if err != nil {
		return nil, err
	}
	if cobertura == nil {
		return nil, domain.ErrNotFound
	}

	return uc.certificados.GenerarCertificado(ctx, DatosCertificado{
		Poliza:    p,
		Persona:   persona,
		Vehiculo:  vehiculo,
		Cobertura: cobertura,
		Prima:     linea.Monto,
	})
}
