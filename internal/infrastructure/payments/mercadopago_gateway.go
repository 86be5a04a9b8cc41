// Package payments implementa la pasarela de pagos sobre el SDK de Mercado
// Pago (Checkout Pro): cada intento de pago se registra como preferencia y el
// comprador se redirige al init point.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/1gnale/car-chain-api/internal/application/payment"
	"github.com/1gnale/car-chain-api/pkg/logger"
)

var ErrAccessTokenFaltante = errors.New("falta MP_ACCESS_TOKEN")

var _ payment.PasarelaPagos = (*MercadoPagoGateway)(nil)

// MercadoPagoGateway adaptador del puerto PasarelaPagos. Con accessToken
// "mock" opera en modo simulado: no llama a la API y devuelve preferencias
// sintéticas, útil en desarrollo y staging.
type MercadoPagoGateway struct {
	client   preference.Client
	log      *logger.Logger
	mockMode bool
}

// NewMercadoPagoGateway construye la pasarela.
func NewMercadoPagoGateway(accessToken string, log *logger.Logger) (*MercadoPagoGateway, error) {
	if strings.EqualFold(strings.TrimSpace(accessToken), "mock") {
		log.Warn().Msg("Pasarela de pagos en modo simulado")
		return &MercadoPagoGateway{log: log, mockMode: true}, nil
	}
	if accessToken == "" {
		return nil, ErrAccessTokenFaltante
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("configurar SDK de Mercado Pago: %w", err)
	}
	log.Info().Msg("Cliente de Mercado Pago inicializado")
	return &MercadoPagoGateway{client: preference.NewClient(cfg), log: log}, nil
}

// CrearPreferencia registra la intención de pago y devuelve la URL de checkout.
func (g *MercadoPagoGateway) CrearPreferencia(ctx context.Context, in payment.PreferenciaInput) (*payment.Preferencia, error) {
	if g.mockMode {
		id := "mock-" + in.ReferenciaExterna
		g.log.Debug().Str("preferencia_id", id).Msg("Preferencia simulada creada")
		return &payment.Preferencia{
			ID:      id,
			InitURL: "https://sandbox.mercadopago.test/checkout/" + id,
		}, nil
	}

	venceEn := in.VenceEn
	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:       in.Titulo,
				Description: in.Descripcion,
				Quantity:    1,
				UnitPrice:   in.Monto.InexactFloat64(),
				CurrencyID:  "ARS",
			},
		},
		BackURLs: &preference.BackURLsRequest{
			Success: in.URLs.Exito,
			Pending: in.URLs.Pendiente,
			Failure: in.URLs.Fracaso,
		},
		AutoReturn:        "approved",
		ExternalReference: in.ReferenciaExterna,
		Expires:           true,
		ExpirationDateTo:  &venceEn,
	}

	resp, err := g.client.Create(ctx, req)
	if err != nil {
		g.log.Error().Err(err).Str("referencia", in.ReferenciaExterna).Msg("Fallo al crear la preferencia de pago")
		return nil, fmt.Errorf("crear preferencia: %w", err)
	}

	g.log.Info().
		Str("preferencia_id", resp.ID).
		Str("referencia", in.ReferenciaExterna).
		Msg("Preferencia de pago creada")
	return &payment.Preferencia{ID: resp.ID, InitURL: resp.InitPoint}, nil
}
