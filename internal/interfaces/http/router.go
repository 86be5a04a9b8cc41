package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/1gnale/car-chain-api/internal/application/claims"
	"github.com/1gnale/car-chain-api/internal/application/payment"
	"github.com/1gnale/car-chain-api/internal/application/policy"
	"github.com/1gnale/car-chain-api/internal/application/quotes"
	"github.com/1gnale/car-chain-api/internal/application/rates"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ConfigUC   *rates.UseCase
	PolizaUC   *policy.UseCase
	QuotesUC   *quotes.UseCase
	ClaimsUC   *claims.UseCase
	Reconciler *payment.Reconciler
	// Env habilita el detalle crudo de los errores internos en development.
	Env string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	modoDesarrollo = deps.Env == "development"

	api := app.Group("/api")

	// Configuración tarifaria
	configs := api.Group("/configs")
	configHandler := NewConfigHandler(deps.ConfigUC)
	configs.Get("/id/:id", configHandler.Get)
	configs.Put("/id/:id", configHandler.Actualizar)
	configs.Delete("/id/:id", configHandler.Desactivar)
	configs.Get("/localidad/:localidadId", configHandler.BuscarPorLocalidad)
	configs.Post("/:tipo", configHandler.Crear)
	configs.Get("/:tipo/buscar", configHandler.BuscarPorValor)
	configs.Get("/:tipo", configHandler.ListActivas)

	// Cotizaciones
	cotizaciones := api.Group("/cotizaciones")
	cotizacionHandler := NewCotizacionHandler(deps.QuotesUC)
	cotizaciones.Post("/", cotizacionHandler.Cotizar)
	cotizaciones.Get("/:id", cotizacionHandler.Get)

	// Pólizas
	polizas := api.Group("/polizas")
	polizaHandler := NewPolizaHandler(deps.PolizaUC)
	polizas.Post("/", polizaHandler.Crear)
	polizas.Post("/desde-linea", polizaHandler.CrearDesdeLinea)
	polizas.Get("/:numero", polizaHandler.Get)
	polizas.Put("/:numero/estado", polizaHandler.CambiarEstado)
	polizas.Put("/:numero/responsable", polizaHandler.AsignarResponsable)
	polizas.Post("/:numero/revisiones", polizaHandler.RegistrarRevision)
	polizas.Get("/:numero/certificado", polizaHandler.Certificado)

	// Pagos y retornos de la pasarela
	pagos := api.Group("/pagos")
	pagoHandler := NewPagoHandler(deps.Reconciler)
	pagos.Post("/", pagoHandler.Iniciar)
	pagos.Get("/retorno/exito/:poliza/:pago/:tipo/:periodo", pagoHandler.RetornoExito)
	pagos.Get("/retorno/pendiente/:poliza/:pago/:tipo/:periodo", pagoHandler.RetornoPendiente)
	pagos.Get("/retorno/fracaso/:poliza/:pago/:tipo/:periodo", pagoHandler.RetornoFracaso)

	// Siniestros y revisiones
	siniestros := api.Group("/siniestros")
	siniestroHandler := NewSiniestroHandler(deps.ClaimsUC)
	siniestros.Post("/", siniestroHandler.Registrar)
	siniestros.Get("/:id", siniestroHandler.Get)
	siniestros.Put("/:id/resolucion", siniestroHandler.Resolver)

	revisiones := api.Group("/revisiones")
	revisiones.Put("/:id/resolucion", siniestroHandler.ResolverRevision)
}
