package models

import "time"

// Request is a captured lead. Rows are never updated or deleted.
type Request struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	FIO       string    `gorm:"column:fio;not null" json:"fio"`
	CarInfo   string    `gorm:"not null" json:"car_info"`
	Phone     string    `gorm:"not null" json:"phone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Request) TableName() string { return "requests" }

// LeadView - заявка вместе с данными владельца, для выгрузок и API.
type LeadView struct {
	ID         int64     `json:"id"`
	FIO        string    `json:"fio"`
	CarInfo    string    `json:"car_info"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username,omitempty"`
	Fullname   string    `json:"fullname"`
}
