package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
	"github.com/spread/footspa_backend/internal/dto"
	"github.com/spread/footspa_backend/internal/middleware"
)

type searchHandler struct {
	ledger  portssvc.LedgerSvcFacade
	balance portssvc.BalanceSvcFacade
	search  portssvc.SearchSvcFacade
}

func registerSearchRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &searchHandler{
		ledger:  services.Ledger,
		balance: services.Balance,
		search:  services.Search,
	}

	search := rg.Group("/search")
	{
		search.GET("/nodes", h.searchNodes)
		search.GET("/cards", h.searchCards)
		search.GET("/cards-with-balance", h.searchCardsWithBalance)
		search.GET("/massage-services", h.searchMassageServices)
	}
	rg.GET("/cards/:id/balance", h.getCardBalance)
	rg.GET("/cards/:id/owner", h.getCardOwner)
}

func (h *searchHandler) searchNodes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.SearchMoneyNodesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	results, err := h.search.QueryMoneyNodes(c.Request.Context(), params.Query, portssvc.MoneyNodeQuery{
		MinScore: params.MinScore,
		Top:      params.Top,
		Types:    params.NodeTypes(),
	})
	if err != nil {
		respondError(c, logger, err, "search money nodes")
		return
	}
	c.JSON(http.StatusOK, dto.ToMoneyNodeResponses(results))
}

func (h *searchHandler) searchCards(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.SearchCardsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	customer, err := h.ledger.GetMoneyNode(c.Request.Context(), params.CustomerID)
	if err != nil {
		respondError(c, logger, err, "search cards")
		return
	}

	results, err := h.search.QueryCards(c.Request.Context(), params.Query, *customer, params.MinScore, params.Top)
	if err != nil {
		respondError(c, logger, err, "search cards")
		return
	}
	c.JSON(http.StatusOK, dto.ToMoneyNodeResponses(results))
}

func (h *searchHandler) searchCardsWithBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.SearchCardsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	customer, err := h.ledger.GetMoneyNode(c.Request.Context(), params.CustomerID)
	if err != nil {
		respondError(c, logger, err, "search cards with balance")
		return
	}

	results, err := h.search.QueryCardsWithBalance(c.Request.Context(), params.Query, *customer, params.MinScore, params.Top)
	if err != nil {
		respondError(c, logger, err, "search cards with balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardBalanceResponses(results))
}

func (h *searchHandler) searchMassageServices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	services, err := h.ledger.GetAllMassageServices(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "search massage services")
		return
	}

	results, err := h.search.QueryMassageServices(c.Request.Context(), params.Query, services, params.MinScore, params.Top)
	if err != nil {
		respondError(c, logger, err, "search massage services")
		return
	}
	c.JSON(http.StatusOK, dto.ToMassageServiceResponses(results))
}

func (h *searchHandler) cardFromPath(c *gin.Context) (int64, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, logger, err)
		return 0, false
	}
	return id, true
}

func (h *searchHandler) getCardBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, ok := h.cardFromPath(c)
	if !ok {
		return
	}
	card, err := h.ledger.GetMoneyNode(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "get card balance")
		return
	}

	balance, err := h.balance.ResolveBalance(c.Request.Context(), *card)
	if err != nil {
		respondError(c, logger, err, "get card balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{CardID: id, Balance: balance})
}

func (h *searchHandler) getCardOwner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, ok := h.cardFromPath(c)
	if !ok {
		return
	}
	card, err := h.ledger.GetMoneyNode(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "get card owner")
		return
	}

	owner, err := h.balance.ResolveOwner(c.Request.Context(), *card)
	if err != nil {
		respondError(c, logger, err, "get card owner")
		return
	}
	c.JSON(http.StatusOK, dto.OwnerResponse{CardID: id, Owner: dto.ToMoneyNodeResponse(*owner)})
}
