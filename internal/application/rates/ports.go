package rates

import (
	"context"

	"github.com/1gnale/car-chain-api/internal/domain/repository"
)

// TxRunner ejecuta el callback con un repositorio atado a una transacción.
// El chequeo de solapamiento es read-then-write: sin transacción más bloqueo
// por tipo, dos creaciones concurrentes podrían pasar ambas el pre-chequeo.
type TxRunner interface {
	RunConfig(ctx context.Context, fn func(repo repository.ConfigTarifaRepository) error) error
}
