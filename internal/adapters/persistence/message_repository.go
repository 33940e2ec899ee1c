package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a gorm-backed domain.ChatMessageStore.
func NewMessageRepository(db *gorm.DB) domain.ChatMessageStore {
	return &gormMessageRepository{db: db}
}

// SaveChatMessage inserts one row; id and created_at come back from the insert.
func (r *gormMessageRepository) SaveChatMessage(ctx context.Context, senderID, receiverID int64, body string) (*domain.ChatMessage, error) {
	rec := chatMessageRecord{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    body,
		IsRead:     false,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}
	msg := rec.toDomain()
	return &msg, nil
}

func (r *gormMessageRepository) ListConversation(ctx context.Context, userID, peerID int64, skip, limit int) ([]domain.ChatMessage, error) {
	var recs []chatMessageRecord
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID, peerID, peerID, userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(skip).
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("query conversation: %w", err)
	}

	msgs := make([]domain.ChatMessage, 0, len(recs))
	for _, rec := range recs {
		msgs = append(msgs, rec.toDomain())
	}
	return msgs, nil
}

func (r *gormMessageRepository) ListConversationPartners(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT partner_id FROM (
			SELECT receiver_id AS partner_id FROM chat_messages WHERE sender_id = ?
			UNION
			SELECT sender_id AS partner_id FROM chat_messages WHERE receiver_id = ?
		) AS partners
		ORDER BY partner_id`, userID, userID).
		Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("query conversation partners: %w", err)
	}
	return ids, nil
}

func (r *gormMessageRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
