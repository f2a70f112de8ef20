package handler

import (
	"digital-goods-fulfillment/internal/dto"
	"digital-goods-fulfillment/internal/model"
	"digital-goods-fulfillment/internal/repository"
	"digital-goods-fulfillment/internal/service"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

const msgSessionUnavailable = "Oops, looks like there was an internal error. Please try again later."

type FulfillmentHandler struct {
	purchaseService service.PurchaseService
	sessionRepo     repository.SessionRepository
	contextLifespan int
	logger          *slog.Logger
}

func NewFulfillmentHandler(
	purchaseService service.PurchaseService,
	sessionRepo repository.SessionRepository,
	contextLifespan int,
	logger *slog.Logger,
) *FulfillmentHandler {
	return &FulfillmentHandler{
		purchaseService: purchaseService,
		sessionRepo:     sessionRepo,
		contextLifespan: contextLifespan,
		logger:          logger,
	}
}

// Fulfill handles one Dialogflow webhook call: load the conversation's
// session, run the intent, persist the session and answer the platform.
func (h *FulfillmentHandler) Fulfill(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.WebhookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	turn, err := req.Turn()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.sessionRepo.Get(ctx, turn.ConversationID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		session = model.NewSession(turn.ConversationID)
	} else if err != nil {
		h.logger.ErrorContext(ctx, "load session",
			"conversation_id", turn.ConversationID,
			"error", err,
		)
		return c.JSON(http.StatusOK, dto.NewWebhookResponse(model.Close(msgSessionUnavailable), req.Session, h.contextLifespan))
	}

	reply := h.purchaseService.Fulfill(ctx, turn, session)

	if reply.Close {
		err = h.sessionRepo.Delete(ctx, turn.ConversationID)
	} else {
		err = h.sessionRepo.Save(ctx, session)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "store session",
			"conversation_id", turn.ConversationID,
			"error", err,
		)
	}

	return c.JSON(http.StatusOK, dto.NewWebhookResponse(reply, req.Session, h.contextLifespan))
}
