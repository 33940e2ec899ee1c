package persistence

import (
	"time"

	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// userRecord maps the users table owned by the wider alumni network.
type userRecord struct {
	ID             int64   `gorm:"primaryKey"`
	Email          string  `gorm:"uniqueIndex;not null"`
	Username       string  `gorm:"uniqueIndex;not null"`
	FullName       string  `gorm:"not null"`
	HashedPassword string  `gorm:"not null"`
	IsAlumni       bool    `gorm:"not null"`
	Bio            *string `gorm:"type:text"`
	ProfilePic     *string
	CreatedAt      time.Time
}

func (userRecord) TableName() string { return "users" }

func (r userRecord) toDomain() domain.User {
	return domain.User{
		ID:             r.ID,
		Email:          r.Email,
		Username:       r.Username,
		FullName:       r.FullName,
		HashedPassword: r.HashedPassword,
		IsAlumni:       r.IsAlumni,
		Bio:            r.Bio,
		ProfilePic:     r.ProfilePic,
		CreatedAt:      r.CreatedAt,
	}
}

// chatMessageRecord maps chat_messages.
type chatMessageRecord struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	SenderID   int64     `gorm:"not null;index"`
	ReceiverID int64     `gorm:"not null;index"`
	Message    string    `gorm:"type:text;not null"`
	IsRead     bool      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

func (chatMessageRecord) TableName() string { return "chat_messages" }

func (r chatMessageRecord) toDomain() domain.ChatMessage {
	return domain.ChatMessage{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Message:    r.Message,
		IsRead:     r.IsRead,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}
