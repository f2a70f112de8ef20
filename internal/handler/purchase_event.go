package handler

import (
	"digital-goods-fulfillment/internal/repository"
	"net/http"

	"github.com/labstack/echo/v4"
)

type PurchaseEventHandler struct {
	eventRepo repository.PurchaseEventRepository
}

func NewPurchaseEventHandler(eventRepo repository.PurchaseEventRepository) *PurchaseEventHandler {
	return &PurchaseEventHandler{
		eventRepo: eventRepo,
	}
}

func (h *PurchaseEventHandler) ListByConversation(c echo.Context) error {
	ctx := c.Request().Context()

	conversationID := c.Param("id")
	if conversationID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing conversation id")
	}

	events, err := h.eventRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}
