package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
	"github.com/spread/footspa_backend/internal/dto"
	"github.com/spread/footspa_backend/internal/middleware"
)

type cardTypeHandler struct {
	ledger portssvc.LedgerSvcFacade
}

func registerCardTypeRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvcFacade) {
	h := &cardTypeHandler{ledger: ledger}

	cardTypes := rg.Group("/card-types")
	{
		cardTypes.GET("", h.listCardTypes)
		cardTypes.POST("", h.createCardType)
	}
}

func (h *cardTypeHandler) listCardTypes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cardTypes, err := h.ledger.GetAllCardTypes(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "list card types")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardTypeResponses(cardTypes))
}

func (h *cardTypeHandler) createCardType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCardTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	ids, err := h.ledger.InsertCardTypes(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondError(c, logger, err, "create card type")
		return
	}

	logger.Info("Created card type", slog.Int64("id", ids[0]), slog.String("name", req.Name))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: ids[0]})
}
