package repository

import (
	"context"
	"digital-goods-fulfillment/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive for the test
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.SessionRecord{}, &model.PurchaseEvent{}))
	return db
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestDB(t))

	_, err := repo.Get(ctx, "conv1")
	require.ErrorIs(t, err, ErrSessionNotFound)

	gas := &model.Sku{Title: "Gas", SkuID: model.SkuID{SkuType: model.SkuTypeInApp, ID: "gas", PackageName: "pkg"}}
	session := model.NewSession("conv1")
	session.State = model.FlowStateAwaitingSelection
	session.Skus = model.NewSelectionIndex([]*model.Sku{gas})
	require.NoError(t, repo.Save(ctx, session))

	session.State = model.FlowStatePurchasePending
	session.PurchasedSku = gas
	require.NoError(t, repo.Save(ctx, session))

	got, err := repo.Get(ctx, "conv1")
	require.NoError(t, err)
	assert.Equal(t, model.FlowStatePurchasePending, got.State)
	require.NotNil(t, got.PurchasedSku)
	assert.Equal(t, "gas", got.PurchasedSku.SkuID.ID)
	assert.Equal(t, "Gas", got.Skus["gas"].Title)

	require.NoError(t, repo.Delete(ctx, "conv1"))
	_, err = repo.Get(ctx, "conv1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPurchaseEventRepository_RecordAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewPurchaseEventRepository(newTestDB(t))

	now := time.Now()
	require.NoError(t, repo.Record(ctx, &model.PurchaseEvent{
		ConversationID: "conv1",
		SkuID:          "gas",
		Kind:           model.PurchaseEventStatus,
		Status:         string(model.PurchaseStatusOK),
		CreatedAt:      now,
	}))
	require.NoError(t, repo.Record(ctx, &model.PurchaseEvent{
		ConversationID: "conv1",
		SkuID:          "gas",
		Kind:           model.PurchaseEventConsume,
		Status:         "ok",
		CreatedAt:      now.Add(time.Second),
	}))
	require.NoError(t, repo.Record(ctx, &model.PurchaseEvent{
		ConversationID: "conv2",
		Kind:           model.PurchaseEventStatus,
	}))

	events, err := repo.ListByConversation(ctx, "conv1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.NotEmpty(t, events[0].ID)
	assert.Equal(t, model.PurchaseEventStatus, events[0].Kind)
	assert.Equal(t, model.PurchaseEventConsume, events[1].Kind)
}
