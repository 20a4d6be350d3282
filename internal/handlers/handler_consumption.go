package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spread/footspa_backend/internal/apperrors"
	"github.com/spread/footspa_backend/internal/core/domain"
	portssvc "github.com/spread/footspa_backend/internal/core/ports/services"
	"github.com/spread/footspa_backend/internal/dto"
	"github.com/spread/footspa_backend/internal/middleware"
)

// consumptionHandler turns batch requests into consumption entries, staging
// brand-new accounts along the way, and drives preview and submit.
type consumptionHandler struct {
	ledger      portssvc.LedgerSvcFacade
	consumption portssvc.ConsumptionSvcFacade
}

func registerConsumptionRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &consumptionHandler{
		ledger:      services.Ledger,
		consumption: services.Consumption,
	}

	consumptions := rg.Group("/consumptions")
	{
		consumptions.POST("/preview", h.preview)
		consumptions.POST("/submit", h.submit)
		consumptions.DELETE("/staged", h.clearStaged)
	}
}

// resolveAccount returns the referenced account, either by id or by staging
// the described new account with the entry.
func (h *consumptionHandler) resolveAccount(ctx context.Context, c *domain.Consumption, id int64, newAccount *dto.NewAccountRequest, nodeType domain.MoneyNodeType) (*domain.MoneyNode, error) {
	if id != 0 {
		return h.ledger.GetMoneyNode(ctx, id)
	}
	if newAccount == nil {
		return nil, fmt.Errorf("%w: entry references no %s", apperrors.ErrValidation, nodeType)
	}

	var node domain.MoneyNode
	var err error
	if nodeType == domain.Card {
		exists, cerr := h.ledger.CardTypeExists(ctx, newAccount.CardTypeID)
		if cerr != nil {
			return nil, cerr
		}
		if !exists {
			return nil, fmt.Errorf("%w: card type %d does not exist", apperrors.ErrValidation, newAccount.CardTypeID)
		}
		valid := true
		node, err = domain.NewMoneyNode(newAccount.Name, domain.Card, newAccount.PhoneNumbers, &newAccount.CardTypeID, &valid)
	} else {
		node, err = domain.NewMoneyNode(newAccount.Name, nodeType, newAccount.PhoneNumbers, nil, nil)
	}
	if err != nil {
		return nil, err
	}
	if err := h.consumption.Stage(ctx, c, node); err != nil {
		return nil, err
	}
	return &node, nil
}

func (h *consumptionHandler) findMassageService(ctx context.Context, id int64) (*domain.MassageService, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: entry references no massage service", apperrors.ErrValidation)
	}
	services, err := h.ledger.GetAllMassageServices(ctx)
	if err != nil {
		return nil, err
	}
	for _, svc := range services {
		if svc.ID == id {
			return &svc, nil
		}
	}
	return nil, fmt.Errorf("%w: massage service %d", apperrors.ErrNotFound, id)
}

func (h *consumptionHandler) requireNode(ctx context.Context, id int64, what string) (*domain.MoneyNode, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: entry references no %s", apperrors.ErrValidation, what)
	}
	return h.ledger.GetMoneyNode(ctx, id)
}

// buildEntry walks the type's step order and fills each step from the
// request, so the state machine enforces completeness.
func (h *consumptionHandler) buildEntry(ctx context.Context, req dto.ConsumptionEntryRequest) (*domain.Consumption, error) {
	c := domain.NewConsumption()
	if err := c.SelectType(domain.ConsumptionTypeOf(req.Type)); err != nil {
		return nil, err
	}

	for {
		step, ok := c.NextStep()
		if !ok {
			return c, nil
		}
		switch step {
		case domain.StepCustomer:
			node, err := h.resolveAccount(ctx, c, req.CustomerID, req.NewCustomer, domain.Customer)
			if err != nil {
				return nil, err
			}
			if err := c.SetCustomer(*node); err != nil {
				return nil, err
			}
		case domain.StepService:
			svc, err := h.findMassageService(ctx, req.ServiceID)
			if err != nil {
				return nil, err
			}
			if err := c.SetService(*svc); err != nil {
				return nil, err
			}
		case domain.StepServant:
			node, err := h.requireNode(ctx, req.ServantID, "servant")
			if err != nil {
				return nil, err
			}
			if err := c.SetServant(*node); err != nil {
				return nil, err
			}
		case domain.StepCard:
			node, err := h.resolveAccount(ctx, c, req.CardID, req.NewCard, domain.Card)
			if err != nil {
				return nil, err
			}
			if err := c.SetCard(*node); err != nil {
				return nil, err
			}
		case domain.StepThird:
			node, err := h.requireNode(ctx, req.ThirdID, "third party")
			if err != nil {
				return nil, err
			}
			if err := c.SetThird(*node); err != nil {
				return nil, err
			}
		case domain.StepMoneyThird:
			if req.MoneyThird == nil {
				return nil, fmt.Errorf("%w: entry carries no third party amount", apperrors.ErrValidation)
			}
			if err := c.SetMoneyThird(*req.MoneyThird); err != nil {
				return nil, err
			}
		case domain.StepMoney:
			if req.Money == nil {
				return nil, fmt.Errorf("%w: entry carries no amount", apperrors.ErrValidation)
			}
			if err := c.SetMoney(*req.Money); err != nil {
				return nil, err
			}
		case domain.StepRemark:
			if err := c.SetRemark(req.Remark); err != nil {
				return nil, err
			}
		}
	}
}

func (h *consumptionHandler) buildBatch(ctx context.Context, req dto.ConsumptionBatchRequest) ([]*domain.Consumption, error) {
	batch := make([]*domain.Consumption, 0, len(req.Entries))
	for i, entry := range req.Entries {
		c, err := h.buildEntry(ctx, entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		batch = append(batch, c)
	}
	return batch, nil
}

func (h *consumptionHandler) preview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConsumptionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	batch, err := h.buildBatch(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "preview consumption batch")
		return
	}

	traces, err := h.consumption.GetPreviewInfo(c.Request.Context(), batch)
	if err != nil {
		respondError(c, logger, err, "preview consumption batch")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerTraceResponses(traces))
}

func (h *consumptionHandler) submit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConsumptionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, err)
		return
	}

	batch, err := h.buildBatch(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "submit consumption batch")
		return
	}

	if err := h.consumption.Submit(c.Request.Context(), batch); err != nil {
		respondError(c, logger, err, "submit consumption batch")
		return
	}

	logger.Info("Consumption batch submitted", slog.Int("entries", len(batch)))
	c.Status(http.StatusNoContent)
}

func (h *consumptionHandler) clearStaged(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.consumption.Clear(c.Request.Context()); err != nil {
		respondError(c, logger, err, "clear staged accounts")
		return
	}
	logger.Info("Cleared staged accounts")
	c.Status(http.StatusNoContent)
}
