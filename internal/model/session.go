package model

import "time"

type FlowState string

// Purchase flow states of a conversation.
const (
	FlowStateNew               FlowState = ""
	FlowStateAwaitingSelection FlowState = "AWAITING_SELECTION"
	FlowStatePurchasePending   FlowState = "PURCHASE_PENDING"
	FlowStateResolved          FlowState = "RESOLVED"
)

var flowTransitions = map[FlowState]map[FlowState]struct{}{
	FlowStateNew: {
		FlowStateAwaitingSelection: {},
		FlowStateResolved:          {},
	},
	FlowStateAwaitingSelection: {
		FlowStatePurchasePending: {},
		FlowStateResolved:        {},
	},
	FlowStatePurchasePending: {
		FlowStateAwaitingSelection: {},
		FlowStateResolved:          {},
	},
	FlowStateResolved: {
		FlowStateAwaitingSelection: {},
	},
}

// CanTransition reports whether the flow may move from one state to another.
func CanTransition(from, to FlowState) bool {
	if from == to {
		return true
	}
	allowed, ok := flowTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Session is the state a conversation carries between turns.
type Session struct {
	ConversationID string         `json:"conversationId"`
	State          FlowState      `json:"state"`
	Skus           SelectionIndex `json:"skus,omitempty"`
	PurchasedSku   *Sku           `json:"purchasedSku,omitempty"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func NewSession(conversationID string) *Session {
	return &Session{
		ConversationID: conversationID,
		State:          FlowStateNew,
	}
}
