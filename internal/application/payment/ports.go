package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

// TxRunner agrupa en una transacción la confirmación de pago: actualización
// de póliza, aprobación del pago y alta del evento de notarización.
type TxRunner interface {
	RunPago(ctx context.Context, fn func(
		polizas repository.PolizaRepository,
		pagos repository.PagoRepository,
		notarizaciones repository.NotarizacionRepository,
	) error) error
}

// RetornoURLs URLs de retorno del checkout externo. Cada una lleva en el path
// los identificadores necesarios para retomar la conciliación sin sesión.
type RetornoURLs struct {
	Exito     string
	Pendiente string
	Fracaso   string
}

// PreferenciaInput solicitud de intención de pago a la pasarela.
type PreferenciaInput struct {
	Titulo            string
	Descripcion       string
	Monto             decimal.Decimal
	ReferenciaExterna string
	URLs              RetornoURLs
	VenceEn           time.Time
}

// Preferencia resultado de la pasarela: id de preferencia y URL de redirección.
type Preferencia struct {
	ID      string
	InitURL string
}

// PasarelaPagos abstrae la pasarela externa (Mercado Pago).
type PasarelaPagos interface {
	CrearPreferencia(ctx context.Context, in PreferenciaInput) (*Preferencia, error)
}
