package models

import "time"

// ProtectedMessage marks a message that must survive chat cleanup.
// Uniqueness is per (chat, message) pair.
type ProtectedMessage struct {
	ChatID    int64     `gorm:"primaryKey;autoIncrement:false"`
	MessageID int       `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (ProtectedMessage) TableName() string { return "protected_messages" }
