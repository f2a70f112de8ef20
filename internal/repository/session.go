package repository

import (
	"context"
	"digital-goods-fulfillment/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Get(ctx context.Context, conversationID string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, conversationID string) error
}

type sessionRepoImpl struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepoImpl{
		db: db,
	}
}

func (r *sessionRepoImpl) Get(ctx context.Context, conversationID string) (*model.Session, error) {
	var record model.SessionRecord
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(record.Data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", conversationID, err)
	}
	return &session, nil
}

func (r *sessionRepoImpl) Save(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "conversation_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"state":      string(session.State),
			"data":       data,
			"updated_at": session.UpdatedAt,
		}),
	}).Create(&model.SessionRecord{
		ConversationID: session.ConversationID,
		State:          string(session.State),
		Data:           data,
	}).Error
}

func (r *sessionRepoImpl) Delete(ctx context.Context, conversationID string) error {
	return r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&model.SessionRecord{}).Error
}
