package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
	"github.com/spread/footspa_backend/internal/dto"
	"github.com/spread/footspa_backend/internal/middleware"
)

// moneyNodeHandler handles HTTP requests for ledger accounts.
type moneyNodeHandler struct {
	ledger portssvc.LedgerSvcFacade
}

func newMoneyNodeHandler(ledger portssvc.LedgerSvcFacade) *moneyNodeHandler {
	return &moneyNodeHandler{ledger: ledger}
}

// registerMoneyNodeRoutes registers routes related to money nodes.
func registerMoneyNodeRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvcFacade) {
	h := newMoneyNodeHandler(ledger)

	nodes := rg.Group("/nodes")
	{
		nodes.GET("", h.listNodes)
		nodes.GET("/public", h.getPublic)
		nodes.GET("/outside", h.getOutside)
		nodes.GET("/:id", h.getNode)
	}
	rg.POST("/customers", h.createCustomer)
	rg.POST("/employees", h.createEmployee)
	rg.POST("/employers", h.createEmployer)
	rg.POST("/third-parties", h.createThirdParty)
	rg.POST("/cards", h.createCard)
	rg.PUT("/cards/:id/valid", h.setCardValid)
}

func (h *moneyNodeHandler) listNodes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	nodes, err := h.ledger.GetAllMoneyNodes(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "list money nodes")
		return
	}
	c.JSON(http.StatusOK, dto.ToMoneyNodeResponses(nodes))
}

func (h *moneyNodeHandler) getNode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	node, err := h.ledger.GetMoneyNode(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "get money node")
		return
	}
	c.JSON(http.StatusOK, dto.ToMoneyNodeResponse(*node))
}

func (h *moneyNodeHandler) getPublic(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	node, err := h.ledger.GetPublic(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "get public node")
		return
	}
	c.JSON(http.StatusOK, dto.ToMoneyNodeResponse(*node))
}

func (h *moneyNodeHandler) getOutside(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	node, err := h.ledger.GetOutside(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "get outside node")
		return
	}
	c.JSON(http.StatusOK, dto.ToMoneyNodeResponse(*node))
}

func (h *moneyNodeHandler) createPerson(c *gin.Context, insert func(name string, phoneNumbers []string) (int64, error), what string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	id, err := insert(req.Name, req.PhoneNumbers)
	if err != nil {
		respondError(c, logger, err, "create "+what)
		return
	}

	logger.Info("Created "+what, slog.Int64("id", id), slog.String("name", req.Name))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

func (h *moneyNodeHandler) createCustomer(c *gin.Context) {
	h.createPerson(c, func(name string, keys []string) (int64, error) {
		return h.ledger.InsertCustomer(c.Request.Context(), name, keys)
	}, "customer")
}

func (h *moneyNodeHandler) createEmployee(c *gin.Context) {
	h.createPerson(c, func(name string, keys []string) (int64, error) {
		return h.ledger.InsertEmployee(c.Request.Context(), name, keys)
	}, "employee")
}

func (h *moneyNodeHandler) createEmployer(c *gin.Context) {
	h.createPerson(c, func(name string, keys []string) (int64, error) {
		return h.ledger.InsertEmployer(c.Request.Context(), name, keys)
	}, "employer")
}

func (h *moneyNodeHandler) createThirdParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateThirdPartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	id, err := h.ledger.InsertThirdParty(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, logger, err, "create third party")
		return
	}

	logger.Info("Created third party", slog.Int64("id", id), slog.String("name", req.Name))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

func (h *moneyNodeHandler) createCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	id, err := h.ledger.InsertCard(c.Request.Context(), req.Name, req.PhoneNumbers, req.CardTypeID)
	if err != nil {
		respondError(c, logger, err, "create card")
		return
	}

	logger.Info("Created card", slog.Int64("id", id), slog.String("name", req.Name))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

func (h *moneyNodeHandler) setCardValid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, logger, err)
		return
	}
	var req dto.SetCardValidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	if err := h.ledger.SetCardValid(c.Request.Context(), id, *req.Valid); err != nil {
		respondError(c, logger, err, "update card validity")
		return
	}

	logger.Info("Updated card validity", slog.Int64("id", id), slog.Bool("valid", *req.Valid))
	c.Status(http.StatusNoContent)
}
