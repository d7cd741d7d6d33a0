package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tanukibot/internal/models"
)

// SaveLead сохраняет заявку и обновляет телефон пользователя в одной транзакции.
// SaveLead persists the request and the user's latest phone atomically.
func (s *Store) SaveLead(ctx context.Context, telegramID int64, fio, carInfo, phone string) (models.Request, error) {
	db, err := s.conn()
	if err != nil {
		return models.Request{}, err
	}

	var req models.Request
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Where("telegram_id = ?", telegramID).First(&u).Error; err != nil {
			return wrapNotFound(err)
		}
		req = models.Request{UserID: u.ID, FIO: fio, CarInfo: carInfo, Phone: phone}
		if err := tx.Create(&req).Error; err != nil {
			return err
		}
		return updatePhone(tx, u.ID, phone)
	})
	if err != nil {
		return models.Request{}, fmt.Errorf("save lead for %d: %w", telegramID, err)
	}
	return req, nil
}

// ListLeads возвращает последние заявки вместе с данными пользователя.
func (s *Store) ListLeads(ctx context.Context, limit int) ([]models.LeadView, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var reqs []models.Request
	q := db.WithContext(ctx).Preload("User").Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	leads := make([]models.LeadView, 0, len(reqs))
	for _, r := range reqs {
		leads = append(leads, models.LeadView{
			ID:         r.ID,
			FIO:        r.FIO,
			CarInfo:    r.CarInfo,
			Phone:      r.Phone,
			CreatedAt:  r.CreatedAt,
			TelegramID: r.User.TelegramID,
			Username:   r.User.Username.String,
			Fullname:   r.User.Fullname,
		})
	}
	return leads, nil
}

// CountLeads - количество заявок пользователя.
func (s *Store) CountLeads(ctx context.Context, telegramID int64) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.WithContext(ctx).Model(&models.Request{}).
		Joins("JOIN users ON users.id = requests.user_id").
		Where("users.telegram_id = ?", telegramID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}
