package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// entity-specific route registrations.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1")

	registerMoneyNodeRoutes(v1, services.Ledger)
	registerCardTypeRoutes(v1, services.Ledger)
	registerMassageServiceRoutes(v1, services.Ledger)
	registerBillRoutes(v1, services.Ledger)
	registerSearchRoutes(v1, services)
	registerConsumptionRoutes(v1, services)
}
