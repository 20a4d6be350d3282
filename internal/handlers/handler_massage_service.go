package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
	"github.com/spread/footspa_backend/internal/dto"
	"github.com/spread/footspa_backend/internal/middleware"
)

type massageServiceHandler struct {
	ledger portssvc.LedgerSvcFacade
}

func registerMassageServiceRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvcFacade) {
	h := &massageServiceHandler{ledger: ledger}

	massageServices := rg.Group("/massage-services")
	{
		massageServices.GET("", h.listMassageServices)
		massageServices.POST("", h.createMassageService)
	}
}

func (h *massageServiceHandler) listMassageServices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	services, err := h.ledger.GetAllMassageServices(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "list massage services")
		return
	}
	c.JSON(http.StatusOK, dto.ToMassageServiceResponses(services))
}

func (h *massageServiceHandler) createMassageService(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateMassageServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	ids, err := h.ledger.InsertMassageServices(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondError(c, logger, err, "create massage service")
		return
	}

	logger.Info("Created massage service", slog.Int64("id", ids[0]), slog.String("name", req.Name))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: ids[0]})
}
