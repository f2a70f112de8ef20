package server

import (
	"context"
	"digital-goods-fulfillment/internal/handler"
	"digital-goods-fulfillment/internal/model"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEvents struct {
	events []*model.PurchaseEvent
}

func (s *staticEvents) Record(ctx context.Context, event *model.PurchaseEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *staticEvents) ListByConversation(ctx context.Context, conversationID string) ([]*model.PurchaseEvent, error) {
	var out []*model.PurchaseEvent
	for _, e := range s.events {
		if e.ConversationID == conversationID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestServer(secret string) *Server {
	events := &staticEvents{events: []*model.PurchaseEvent{
		{ID: "e1", ConversationID: "conv1", SkuID: "gas", Kind: model.PurchaseEventStatus, Status: "PURCHASE_STATUS_OK"},
		{ID: "e2", ConversationID: "conv2", Kind: model.PurchaseEventStatus},
	}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(
		handler.NewFulfillmentHandler(nil, nil, 5, log),
		handler.NewPurchaseEventHandler(events),
		secret, "",
		log,
	)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestConversationEvents(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conversations/conv1/events", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var events []model.PurchaseEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)
}

func TestFulfillmentRequiresTokenWhenSecretSet(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer("s3cret").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/fulfillment", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
