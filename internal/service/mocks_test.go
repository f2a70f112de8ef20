package service

import (
	"context"
	"digital-goods-fulfillment/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockCatalogClient struct {
	mock.Mock
}

func (m *mockCatalogClient) GetSkus(ctx context.Context, conversationID string) ([]*model.Sku, error) {
	args := m.Called(ctx, conversationID)
	skus, _ := args.Get(0).([]*model.Sku)
	return skus, args.Error(1)
}

type mockEntitlementClient struct {
	mock.Mock
}

func (m *mockEntitlementClient) Consume(ctx context.Context, conversationID, purchaseToken string) error {
	args := m.Called(ctx, conversationID, purchaseToken)
	return args.Error(0)
}

type memoryEventRepo struct {
	events []*model.PurchaseEvent
}

func (r *memoryEventRepo) Record(ctx context.Context, event *model.PurchaseEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *memoryEventRepo) ListByConversation(ctx context.Context, conversationID string) ([]*model.PurchaseEvent, error) {
	var out []*model.PurchaseEvent
	for _, e := range r.events {
		if e.ConversationID == conversationID {
			out = append(out, e)
		}
	}
	return out, nil
}
