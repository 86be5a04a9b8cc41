package policy

import (
	"context"

	"github.com/1gnale/car-chain-api/internal/domain/entity"
	"github.com/1gnale/car-chain-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TxRunner ejecuta el alta completa de póliza dentro de una transacción:
// vehículo, cotización, líneas, documentación y póliza se persisten todos o
// ninguno.
type TxRunner interface {
	RunPoliza(ctx context.Context, fn func(
		vehiculos repository.VehiculoRepository,
		cotizaciones repository.CotizacionRepository,
		documentaciones repository.DocumentacionRepository,
		polizas repository.PolizaRepository,
		catalogos repository.CatalogoRepository,
	) error) error
}

// DatosCertificado reúne lo necesario para la representación gráfica de la
// póliza.
type DatosCertificado struct {
	Poliza    *entity.Poliza
	Persona   *entity.Persona
	Vehiculo  *entity.Vehiculo
	Cobertura *entity.Cobertura
	Prima     decimal.Decimal
}

// CertificadoGenerator genera el PDF del certificado de cobertura.
type CertificadoGenerator interface {
	GenerarCertificado(ctx context.Context, datos DatosCertificado) ([]byte, error)
}
