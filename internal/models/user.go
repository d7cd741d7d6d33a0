package models

import (
	"database/sql"
	"strings"
	"time"
)

// User represents a bot user in the system.
type User struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TelegramID int64          `gorm:"uniqueIndex;not null" json:"telegram_id"`
	Fullname   string         `json:"fullname"`
	Username   sql.NullString `gorm:"index" json:"-"`
	JoinDate   time.Time      `gorm:"autoCreateTime" json:"join_date"`
	Phone      sql.NullString `gorm:"size:32" json:"-"`
	Role       string         `gorm:"not null;default:user" json:"role"`
}

// TableName keeps the schema name independent of gorm's pluralizer.
func (User) TableName() string { return "users" }

// DisplayName возвращает имя для показа персоналу.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Fullname); name != "" {
		return name
	}
	if u.Username.Valid && u.Username.String != "" {
		return "@" + u.Username.String
	}
	return "Без имени"
}

// Handle возвращает "@username" или пустую строку.
func (u User) Handle() string {
	if u.Username.Valid && u.Username.String != "" {
		return "@" + u.Username.String
	}
	return ""
}
