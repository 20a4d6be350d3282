package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
	"github.com/spread/footspa_backend/internal/dto"
	"github.com/spread/footspa_backend/internal/middleware"
)

type billHandler struct {
	ledger portssvc.LedgerSvcFacade
}

func registerBillRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvcFacade) {
	h := &billHandler{ledger: ledger}

	bills := rg.Group("/bills")
	{
		bills.GET("", h.listBills)
		bills.POST("", h.createBill)
	}
}

func (h *billHandler) listBills(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	bills, err := h.ledger.GetAllBills(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "list bills")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillResponses(bills))
}

func (h *billHandler) createBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	bill, err := req.ToDomain()
	if err != nil {
		respondError(c, logger, err, "create bill")
		return
	}

	ids, err := h.ledger.InsertBills(c.Request.Context(), bill)
	if err != nil {
		respondError(c, logger, err, "create bill")
		return
	}

	logger.Info("Created bill", slog.Int64("id", ids[0]),
		slog.Int64("from", bill.FromID), slog.Int64("to", bill.ToID))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: ids[0]})
}
