package repository

import (
	"context"
	"digital-goods-fulfillment/internal/model"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseEventRepository interface {
	Record(ctx context.Context, event *model.PurchaseEvent) error
	ListByConversation(ctx context.Context, conversationID string) ([]*model.PurchaseEvent, error)
}

type purchaseEventRepoImpl struct {
	db *gorm.DB
}

func NewPurchaseEventRepository(db *gorm.DB) PurchaseEventRepository {
	return &purchaseEventRepoImpl{db: db}
}

func (r *purchaseEventRepoImpl) Record(ctx context.Context, event *model.PurchaseEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *purchaseEventRepoImpl) ListByConversation(ctx context.Context, conversationID string) ([]*model.PurchaseEvent, error) {
	var events []*model.PurchaseEvent
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}
