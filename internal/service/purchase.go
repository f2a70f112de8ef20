package service

import (
	"context"
	"digital-goods-fulfillment/internal/client"
	"digital-goods-fulfillment/internal/config"
	"digital-goods-fulfillment/internal/model"
	"digital-goods-fulfillment/internal/repository"
	"fmt"
	"log/slog"
	"strings"
)

const (
	msgNothingAvailable = "Oops, looks like there is nothing available. Please try again later."
	msgInternalError    = "Oops, looks like there was an internal error. Please try again later."
	msgWhichOne         = "Which one do you want?"
	msgHereYouGo        = "Great! Here you go."
	msgPurchased        = "You've successfully purchased the item! Would you like to do anything else?"
	msgRetryPurchase    = "Oops, looks like there was an error. Would you like to retry the purchase?"
	msgAlreadyOwned     = "Purchase failed. You already own the item."
	msgUnavailable      = "Purchase failed. Item is not available."
	msgChangedMind      = "Looks like you've changed your mind."
	msgCancelled        = "Looks like you've cancelled the purchase. Do you still want to try to do a purchase?"
	msgTryAgain         = "Do you want to try again?"
	msgCheckLogs        = "Purchase failed. Please check logs."
	msgFallback         = "Sorry, I didn't get that. Say \"buy something\" to hear what's available."
)

// LookupError reports a selected item id that is not part of the catalog
// presented in this conversation.
type LookupError struct {
	ID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("sku %q not found in selection", e.ID)
}

type PurchaseService interface {
	// Fulfill dispatches a turn to the handler of its intent.
	Fulfill(ctx context.Context, turn *model.Turn, session *model.Session) *model.Reply
	BuildOrder(ctx context.Context, turn *model.Turn, session *model.Session) *model.Reply
	InitiatePurchase(ctx context.Context, turn *model.Turn, session *model.Session) *model.Reply
	DescribePurchaseStatus(ctx context.Context, turn *model.Turn, session *model.Session) *model.Reply
}

type purchaseServiceImpl struct {
	catalogClient     client.CatalogClient
	entitlementClient client.EntitlementClient
	eventRepo         repository.PurchaseEventRepository
	consumables       map[string]struct{}
	eagerReconsume    bool
	logger            *slog.Logger
}

func NewPurchaseService(
	catalogClient client.CatalogClient,
	entitlementClient client.EntitlementClient,
	eventRepo repository.PurchaseEventRepository,
	catalogCfg *config.Catalog,
	purchaseCfg *config.Purchase,
	logger *slog.Logger,
) PurchaseService {
	consumables := make(map[string]struct{}, len(catalogCfg.ConsumableIDs))
	for _, id := range catalogCfg.ConsumableIDs {
		consumables[strings.TrimSpace(id)] = struct{}{}
	}

	return &purchaseServiceImpl{
		catalogClient:     catalogClient,
		entitlementClient: entitlementClient,
		eventRepo:         eventRepo,
		consumables:       consumables,
		eagerReconsume:    purchaseCfg.EagerReconsume,
		logger:            logger,
	}
}

func (s *purchaseServiceImpl) Fulfill(ctx context.Context, turn *model.Turn, session *model.Session) *model.Reply {
	switch turn.Intent {
	case model.IntentBuildOrder:
		return s.BuildOrder(ctx, turn, session)
	case model.IntentInitiatePurchase:
		return s.InitiatePurchase(ctx, turn, session)
	case model.IntentDescribePurchaseStatus:
		return s.DescribePurchaseStatus(ctx, turn, session)
	default:
		s.logger.WarnContext(ctx, "unhandled intent",
			"conversation_id", turn.ConversationID,
			"intent", string(turn.Intent),
		)
		return model.Ask(msgFallback)
	}
}

func (s *purchaseServiceImpl) BuildOrder(ctx context.Context, turn *model.Turn, session *model.Session) *model.Reply {
	return s.presentCatalog(ctx, turn, session, "Great! I found the following items:")
}

// presentCatalog fetches the catalog, rebuilds the selection index and lists
// the items. Fetch failures and empty catalogs close the conversation.
func (s *purchaseServiceImpl) presentCatalog(ctx context.Context, turn *model.Turn, session *model.Session, prefix string) *model.Reply {
	skus, err := s.catalogClient.GetSkus(ctx, turn.ConversationID)
	if err != nil {
		s.logger.ErrorContext(ctx, "fetch skus",
			"conversation_id", turn.ConversationID,
			"error", err,
		)
		s.moveTo(ctx, session, model.FlowStateResolved)
		return model.Close(msgInternalError)
	}
	if len(skus) == 0 {
		s.moveTo(ctx, session, model.FlowStateResolved)
		return model.Close(msgNothingAvailable)
	}

	session.Skus = model.NewSelectionIndex(skus)
	session.PurchasedSku = nil
	s.moveTo(ctx, session, model.FlowStateAwaitingSelection)

	titles := make([]string, len(skus))
	for i, sku := range skus {
		titles[i] = sku.Title
	}

	reply := model.Ask(fmt.Sprintf("%s %s. %s", prefix, strings.Join(titles, ", "), msgWhichOne))
	reply.ResetContext = true
	if turn.HasScreen {
		reply.Options = buildOptions(skus)
	}
	return reply
}

func buildOptions(skus []*model.Sku) []model.Option {
	options := make([]model.Option, 0, len(skus))
	for _, sku := range skus {
		description := sku.Description
		if price := sku.DisplayPrice(); price != "" {
			description = strings.TrimSpace(description + " " + price)
		}
		options = append(options, model.Option{
			Key:         sku.SkuID.ID,
			Title:       sku.Title,
			Description: description,
		})
	}
	return options
}

func (s *purchaseServiceImpl) InitiatePurchase(ctx context.Context, turn *model.Turn, session *model.Session) *model.Reply {
	selectedID := turn.SelectedSkuID()
	selected, ok := session.Skus[selectedID]
	if !ok || selected == nil {
		s.logger.WarnContext(ctx, "selected sku not in catalog",
			"conversation_id", turn.ConversationID,
			"error", &LookupError{ID: selectedID},
		)
		return model.Ask(fmt.Sprintf("Hm, I can not find details for %s. %s", selectedID, msgWhichOne))
	}

	session.PurchasedSku = selected
	s.moveTo(ctx, session, model.FlowStatePurchasePending)

	if s.eagerReconsume {
		if entitlement := s.consumableEntitlement(turn, selected); entitlement != nil {
			err := s.consume(ctx, turn, selected, entitlement)
			session.PurchasedSku = nil
			s.moveTo(ctx, session, model.FlowStateAwaitingSelection)

			var reply *model.Reply
			if err != nil {
				reply = model.Ask(msgRetryPurchase)
			} else {
				reply = model.Ask(fmt.Sprintf("Great! Your %s is ready to use again. Would you like to do anything else?", selected.Title))
			}
			reply.ResetContext = true
			return reply
		}
	}

	reply := model.Ask(msgHereYouGo)
	reply.CompletePurchase = &model.SkuID{
		SkuType:     selected.SkuID.SkuType,
		ID:          selected.SkuID.ID,
		PackageName: selected.SkuID.PackageName,
	}
	return reply
}

func (s *purchaseServiceImpl) DescribePurchaseStatus(ctx context.Context, turn *model.Turn, session *model.Session) *model.Reply {
	if turn.CompletePurchase == nil || turn.CompletePurchase.PurchaseStatus == "" {
		s.logger.WarnContext(ctx, "purchase status missing", "conversation_id", turn.ConversationID)
		s.resolve(ctx, session, model.FlowStateResolved)
		return model.Close(msgCheckLogs)
	}

	status := turn.CompletePurchase.PurchaseStatus
	selected := session.PurchasedSku
	s.recordStatus(ctx, turn, selected, status)

	s.logger.InfoContext(ctx, "purchase status",
		"conversation_id", turn.ConversationID,
		"status", string(status),
		"sku", skuIDOf(selected),
	)

	switch status {
	case model.PurchaseStatusOK:
		if entitlement := s.consumableEntitlement(turn, selected); entitlement != nil {
			// the purchase already succeeded, a failed consume only gets logged
			_ = s.consume(ctx, turn, selected, entitlement)
		}
		s.resolve(ctx, session, model.FlowStateAwaitingSelection)
		return resetting(model.Ask(msgPurchased))

	case model.PurchaseStatusAlreadyOwned:
		if entitlement := s.consumableEntitlement(turn, selected); entitlement != nil {
			_ = s.consume(ctx, turn, selected, entitlement)
			s.resolve(ctx, session, model.FlowStateAwaitingSelection)
			return resetting(model.Ask(msgRetryPurchase))
		}
		s.resolve(ctx, session, model.FlowStateResolved)
		return model.Close(msgAlreadyOwned)

	case model.PurchaseStatusItemUnavailable:
		s.resolve(ctx, session, model.FlowStateResolved)
		return model.Close(msgUnavailable)

	case model.PurchaseStatusItemChangeRequested:
		s.resolve(ctx, session, model.FlowStateAwaitingSelection)
		return s.presentCatalog(ctx, turn, session, msgChangedMind+" I found the following items:")

	case model.PurchaseStatusUserCancelled:
		s.resolve(ctx, session, model.FlowStateAwaitingSelection)
		return resetting(model.Ask(msgCancelled))

	default:
		// PURCHASE_STATUS_ERROR, PURCHASE_STATUS_UNSPECIFIED and anything
		// the platform adds later.
		s.resolve(ctx, session, model.FlowStateAwaitingSelection)
		return resetting(model.Ask("Purchase Failed: "+string(status), msgTryAgain))
	}
}

// consumableEntitlement is the shared "consumable and already owned" check.
// It returns the entitlement to consume, or nil when the sku must go
// through the platform purchase flow.
func (s *purchaseServiceImpl) consumableEntitlement(turn *model.Turn, sku *model.Sku) *model.Entitlement {
	if sku == nil {
		return nil
	}
	if _, ok := s.consumables[sku.SkuID.ID]; !ok {
		return nil
	}
	return FindEntitlement(turn.Entitlements, sku)
}

func (s *purchaseServiceImpl) consume(ctx context.Context, turn *model.Turn, sku *model.Sku, entitlement *model.Entitlement) error {
	err := s.entitlementClient.Consume(ctx, turn.ConversationID, entitlement.PurchaseToken())

	event := &model.PurchaseEvent{
		ConversationID: turn.ConversationID,
		SkuID:          sku.SkuID.ID,
		Kind:           model.PurchaseEventConsume,
		Status:         "ok",
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "consume entitlement",
			"conversation_id", turn.ConversationID,
			"sku", sku.SkuID.ID,
			"error", err,
		)
		event.Status = "failed"
		event.Detail = truncate(err.Error(), 512)
	}
	s.record(ctx, event)

	return err
}

func (s *purchaseServiceImpl) recordStatus(ctx context.Context, turn *model.Turn, sku *model.Sku, status model.PurchaseStatus) {
	s.record(ctx, &model.PurchaseEvent{
		ConversationID: turn.ConversationID,
		SkuID:          skuIDOf(sku),
		Kind:           model.PurchaseEventStatus,
		Status:         string(status),
	})
}

func (s *purchaseServiceImpl) record(ctx context.Context, event *model.PurchaseEvent) {
	if s.eventRepo == nil {
		return
	}
	if err := s.eventRepo.Record(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record purchase event",
			"conversation_id", event.ConversationID,
			"kind", string(event.Kind),
			"error", err,
		)
	}
}

// resolve clears the pending selection once a purchase status settles it.
func (s *purchaseServiceImpl) resolve(ctx context.Context, session *model.Session, to model.FlowState) {
	session.PurchasedSku = nil
	s.moveTo(ctx, session, to)
}

func (s *purchaseServiceImpl) moveTo(ctx context.Context, session *model.Session, to model.FlowState) {
	if !model.CanTransition(session.State, to) {
		s.logger.WarnContext(ctx, "unexpected flow transition",
			"conversation_id", session.ConversationID,
			"from", string(session.State),
			"to", string(to),
		)
	}
	session.State = to
}

func resetting(reply *model.Reply) *model.Reply {
	reply.ResetContext = true
	return reply
}

func skuIDOf(sku *model.Sku) string {
	if sku == nil {
		return ""
	}
	return sku.SkuID.ID
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
