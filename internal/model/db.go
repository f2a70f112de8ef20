package model

import "time"

// SessionRecord persists a Session as JSON keyed by conversation id.
type SessionRecord struct {
	ConversationID string `gorm:"primaryKey;size:128;not null"`
	State          string `gorm:"size:32;index;not null"`
	Data           []byte `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (SessionRecord) TableName() string {
	return "sessions"
}

type PurchaseEventKind string

const (
	PurchaseEventStatus  PurchaseEventKind = "status"
	PurchaseEventConsume PurchaseEventKind = "consume"
)

// PurchaseEvent is an audit row for every purchase status received and
// every consume call made.
type PurchaseEvent struct {
	ID             string            `gorm:"primaryKey;size:36;not null"`
	ConversationID string            `gorm:"size:128;index;not null"`
	SkuID          string            `gorm:"size:64;index"`
	Kind           PurchaseEventKind `gorm:"size:16;not null"`
	Status         string            `gorm:"size:64"`
	Detail         string            `gorm:"size:512"`
	CreatedAt      time.Time
}
