package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
	"github.com/1gnale/car-chain-api/pkg/fechas"
)

// Reconciler concilia los retornos de la pasarela externa con el estado de
// pólizas y pagos. La confirmación actualiza póliza y pago y encola el evento
// de notarización en una misma transacción; la entrega al ledger corre por
// fuera (despachador de la cola), de modo que la respuesta al retorno de pago
// nunca espera a la blockchain.
type Reconciler struct {
	txRunner       TxRunner
	polizaRepo     repository.PolizaRepository
	pagoRepo       repository.PagoRepository
	cotizacionRepo repository.CotizacionRepository
	vehiculoRepo   repository.VehiculoRepository
	catalogoRepo   repository.CatalogoRepository
	pasarela       PasarelaPagos
	baseURL        string
	vigencia       time.Duration // vigencia del link de pago
	ahora          func() time.Time
}

// NewReconciler construye el conciliador.
func NewReconciler(
	txRunner TxRunner,
	polizaRepo repository.PolizaRepository,
	pagoRepo repository.PagoRepository,
	cotizacionRepo repository.CotizacionRepository,
	vehiculoRepo repository.VehiculoRepository,
	catalogoRepo repository.CatalogoRepository,
	pasarela PasarelaPagos,
	baseURL string,
	vigencia time.Duration,
) *Reconciler {
	return &Reconciler{
		txRunner:       txRunner,
		polizaRepo:     polizaRepo,
		pagoRepo:       pagoRepo,
		cotizacionRepo: cotizacionRepo,
		vehiculoRepo:   vehiculoRepo,
		catalogoRepo:   catalogoRepo,
		pasarela:       pasarela,
		baseURL:        baseURL,
		vigencia:       vigencia,
		ahora:          time.Now,
	}
}

// FijarReloj reemplaza la fuente de tiempo. Para tests.
func (r *Reconciler) FijarReloj(ahora func() time.Time) { r.ahora = ahora }

// IniciarPagoInput intención de pago de una cuota.
type IniciarPagoInput struct {
	PolizaNumero       string
	TipoContratacionID string
	PeriodoPagoID      string
	Monto              decimal.Decimal
	// Renovacion distingue el primer pago (póliza APROBADA) del pago de una
	// cuota atrasada (póliza IMPAGA).
	Renovacion bool
}

// IniciarPago verifica la precondición de estado, crea el Pago PENDIENTE y
// registra la preferencia en la pasarela. Devuelve la URL de redirección al
// checkout. Si la precondición falla no queda ningún Pago creado.
func (r *Reconciler) IniciarPago(ctx context.Context, in IniciarPagoInput) (string, *entity.Pago, error) {
	verr := &domain.ValidationError{}
	if in.PolizaNumero == "" {
		verr.Agregar("polizaNumero", "es requerido")
	}
	if in.TipoContratacionID == "" {
		verr.Agregar("tipoContratacionId", "es requerido")
	}
	if in.PeriodoPagoID == "" {
		verr.Agregar("periodoPagoId", "es requerido")
	}
	if !in.Monto.GreaterThan(decimal.Zero) {
		verr.Agregar("monto", "debe ser positivo")
	}
	if verr.TieneCampos() {
		return "", nil, verr
	}

	p, err := r.polizaRepo.GetByNumero(in.PolizaNumero)
	if err != nil {
		return "", nil, err
	}
	if p == nil {
		return "", nil, domain.ErrNotFound
	}

	if in.Renovacion {
		if p.Estado != entity.PolizaImpaga {
			return "", nil, domain.ErrRenovacionNoImpaga
		}
	} else if p.Estado != entity.PolizaAprobada {
		return "", nil, domain.ErrPrimerPagoNoAprobada
	}

	tipo, err := r.catalogoRepo.GetTipoContratacion(in.TipoContratacionID)
	if err != nil {
		return "", nil, err
	}
	if tipo == nil {
		return "", nil, domain.ErrNotFound
	}
	periodo, err := r.catalogoRepo.GetPeriodoPago(in.PeriodoPagoID)
	if err != nil {
		return "", nil, err
	}
	if periodo == nil {
		return "", nil, domain.ErrNotFound
	}

	ahora := r.ahora()
	pago := &entity.Pago{
		ID:                uuid.New().String(),
		PolizaNumero:      in.PolizaNumero,
		Total:             in.Monto,
		Fecha:             ahora,
		Hora:              ahora.Format("15:04:05"),
		ReferenciaExterna: in.PolizaNumero,
		PreferenciaID:     "pendiente",
		Estado:            entity.PagoPendiente,
		CreatedAt:         ahora,
		UpdatedAt:         ahora,
	}
	if err := r.pagoRepo.Create(pago); err != nil {
		return "", nil, err
	}

	pref, err := r.pasarela.CrearPreferencia(ctx, PreferenciaInput{
		Titulo:            "Póliza " + in.PolizaNumero,
		Descripcion:       fmt.Sprintf("Cuota %s - contrato %s", periodo.Nombre, tipo.Nombre),
		Monto:             in.Monto,
		ReferenciaExterna: in.PolizaNumero,
		URLs:              r.urlsRetorno(in.PolizaNumero, pago.ID, in.TipoContratacionID, in.PeriodoPagoID),
		VenceEn:           ahora.Add(r.vigencia),
	})
	if err != nil {
		// La pasarela falló: el pago a medio iniciar no sirve para conciliar.
		_ = r.pagoRepo.Delete(pago.ID)
		return "", nil, fmt.Errorf("%w: %v", domain.ErrServicioExterno, err)
	}

	pago.PreferenciaID = pref.ID
	pago.UpdatedAt = r.ahora()
	if err := r.pagoRepo.Update(pago); err != nil {
		return "", nil, err
	}
	return pref.InitURL, pago, nil
}

// urlsRetorno arma las tres URLs de retorno con los ids en el path: alcanzan
// para retomar la conciliación sin estado de sesión en el servidor.
func (r *Reconciler) urlsRetorno(polizaNumero, pagoID, tipoID, periodoID string) RetornoURLs {
	base := fmt.Sprintf("%s/api/pagos/retorno", r.baseURL)
	sufijo := fmt.Sprintf("%s/%s/%s/%s", polizaNumero, pagoID, tipoID, periodoID)
	return RetornoURLs{
		Exito:     fmt.Sprintf("%s/exito/%s", base, sufijo),
		Pendiente: fmt.Sprintf("%s/pendiente/%s", base, sufijo),
		Fracaso:   fmt.Sprintf("%s/fracaso/%s", base, sufijo),
	}
}

// ConfirmarRetorno resuelve si el retorno exitoso corresponde al primer pago o
// a la renovación de una cuota mirando el estado actual de la póliza, y delega
// en la confirmación que corresponda.
func (r *Reconciler) ConfirmarRetorno(ctx context.Context, polizaNumero, pagoID, tipoID, periodoID, pagoExternoID string) (*entity.Poliza, error) {
	p, err := r.polizaRepo.GetByNumero(polizaNumero)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.Estado == entity.PolizaImpaga {
		return r.ConfirmarRenovacion(ctx, polizaNumero, pagoID, pagoExternoID)
	}
	return r.ConfirmarPrimerPago(ctx, polizaNumero, pagoID, tipoID, periodoID, pagoExternoID)
}

// ConfirmarPrimerPago procesa el retorno exitoso del primer pago: fija tipo de
// contratación, período, precio y fechas contractuales, pasa la póliza de
// APROBADA a VIGENTE, aprueba el pago y encola la notarización, todo en una
// transacción.
func (r *Reconciler) ConfirmarPrimerPago(ctx context.Context, polizaNumero, pagoID, tipoID, periodoID, pagoExternoID string) (*entity.Poliza, error) {
	p, err := r.polizaRepo.GetByNumero(polizaNumero)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	pago, err := r.pagoRepo.GetByID(pagoID)
	if err != nil {
		return nil, err
	}
	if pago == nil || pago.PolizaNumero != polizaNumero {
		return nil, domain.ErrNotFound
	}
	tipo, err := r.catalogoRepo.GetTipoContratacion(tipoID)
	if err != nil {
		return nil, err
	}
	if tipo == nil {
		return nil, domain.ErrNotFound
	}
	periodo, err := r.catalogoRepo.GetPeriodoPago(periodoID)
	if err != nil {
		return nil, err
	}
	if periodo == nil {
		return nil, domain.ErrNotFound
	}

	acta, err := r.armarActa(p)
	if err != nil {
		return nil, err
	}

	ahora := r.ahora()
	fechaDePago := fechas.SumarMeses(ahora, periodo.CantidadMeses)
	fechaVencimiento := fechas.SumarMeses(ahora, tipo.CantidadMeses)

	var confirmada *entity.Poliza
	err = r.txRunner.RunPago(ctx, func(
		polizas repository.PolizaRepository,
		pagos repository.PagoRepository,
		notarizaciones repository.NotarizacionRepository,
	) error {
		// Cambio de estado condicional: si otro actor movió la póliza entre
		// la lectura y acá, la transición no aplica y se aborta.
		ok, err := polizas.UpdateEstadoCondicional(polizaNumero, []entity.EstadoPoliza{entity.PolizaAprobada}, entity.PolizaVigente)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrTransicionInvalida
		}

		actual, err := polizas.GetByNumero(polizaNumero)
		if err != nil {
			return err
		}
		actual.TipoContratacionID = &tipo.ID
		actual.PeriodoPagoID = &periodo.ID
		actual.PrecioPolizaActual = pago.Total
		actual.FechaContratacion = &ahora
		actual.HoraContratacion = ahora.Format("15:04:05")
		actual.FechaDePago = &fechaDePago
		actual.FechaVencimiento = &fechaVencimiento
		actual.UpdatedAt = ahora
		if err := polizas.Update(actual); err != nil {
			return err
		}

		if err := r.aprobarPago(pagos, pago, pagoExternoID, ahora); err != nil {
			return err
		}

		acta.Estado = string(entity.PolizaVigente)
		acta.FechaVencimiento = fechaVencimiento.Format("2006-01-02")
		evento := &entity.EventoNotarizacion{
			ID:           uuid.New().String(),
			PolizaNumero: polizaNumero,
			Acta:         acta,
			Estado:       entity.EventoPendiente,
			CreatedAt:    ahora,
		}
		if err := notarizaciones.Create(evento); err != nil {
			return err
		}

		confirmada = actual
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmada, nil
}

// ConfirmarRenovacion procesa el pago de una cuota atrasada: recalcula solo la
// próxima fecha de pago con el período ya fijado en la póliza y la devuelve a
// VIGENTE.
func (r *Reconciler) ConfirmarRenovacion(ctx context.Context, polizaNumero, pagoID, pagoExternoID string) (*entity.Poliza, error) {
	p, err := r.polizaRepo.GetByNumero(polizaNumero)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	pago, err := r.pagoRepo.GetByID(pagoID)
	if err != nil {
		return nil, err
	}
	if pago == nil || pago.PolizaNumero != polizaNumero {
		return nil, domain.ErrNotFound
	}
	if p.PeriodoPagoID == nil {
		return nil, domain.ErrPolizaSinPeriodoPago
	}
	periodo, err := r.catalogoRepo.GetPeriodoPago(*p.PeriodoPagoID)
	if err != nil {
		return nil, err
	}
	if periodo == nil {
		return nil, domain.ErrNotFound
	}

	ahora := r.ahora()
	fechaDePago := fechas.SumarMeses(ahora, periodo.CantidadMeses)

	var confirmada *entity.Poliza
	err = r.txRunner.RunPago(ctx, func(
		polizas repository.PolizaRepository,
		pagos repository.PagoRepository,
		_ repository.NotarizacionRepository,
	) error {
		ok, err := polizas.UpdateEstadoCondicional(polizaNumero, []entity.EstadoPoliza{entity.PolizaImpaga}, entity.PolizaVigente)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrTransicionInvalida
		}

		actual, err := polizas.GetByNumero(polizaNumero)
		if err != nil {
			return err
		}
		actual.FechaDePago = &fechaDePago
		actual.UpdatedAt = ahora
		if err := polizas.Update(actual); err != nil {
			return err
		}

		if err := r.aprobarPago(pagos, pago, pagoExternoID, ahora); err != nil {
			return err
		}
		confirmada = actual
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmada, nil
}

// AnularPagoFallido elimina el registro del pago tras el retorno de fracaso.
// No queda constancia del intento.
func (r *Reconciler) AnularPagoFallido(ctx context.Context, pagoID string) error {
	pago, err := r.pagoRepo.GetByID(pagoID)
	if err != nil {
		return err
	}
	if pago == nil {
		return domain.ErrNotFound
	}
	return r.pagoRepo.Delete(pagoID)
}

func (r *Reconciler) aprobarPago(pagos repository.PagoRepository, pago *entity.Pago, pagoExternoID string, ahora time.Time) error {
	pago.Estado = entity.PagoAprobado
	pago.PagoExternoID = pagoExternoID
	pago.EstadoExterno = "approved"
	pago.Fecha = ahora
	pago.Hora = ahora.Format("15:04:05")
	pago.UpdatedAt = ahora
	return pagos.Update(pago)
}

// armarActa resuelve la cadena línea → cotización → vehículo → persona para
// el acta notarial.
func (r *Reconciler) armarActa(p *entity.Poliza) (entity.ActaNotarial, error) {
	var acta entity.ActaNotarial

	linea, err := r.cotizacionRepo.GetLineaByID(p.LineaCotizacionID)
	if err != nil {
		return acta, err
	}
	if linea == nil {
		return acta, domain.ErrNotFound
	}
	cot, err := r.cotizacionRepo.GetByID(linea.CotizacionID)
	if err != nil {
		return acta, err
	}
	if cot == nil {
		return acta, domain.ErrNotFound
	}
	vehiculo, err := r.vehiculoRepo.GetByID(cot.VehiculoID)
	if err != nil {
		return acta, err
	}
	if vehiculo == nil {
		return acta, domain.ErrNotFound
	}
	persona, err := r.catalogoRepo.GetPersona(vehiculo.PersonaID)
	if err != nil {
		return acta, err
	}
	if persona == nil {
		return acta, domain.ErrNotFound
	}

	return entity.ActaNotarial{
		NombreAsegurado: persona.Apellido + ", " + persona.Nombre,
		Documento:       persona.Documento,
		NumeroPoliza:    p.NumeroPoliza,
		Matricula:       vehiculo.Matricula,
	}, nil
}
