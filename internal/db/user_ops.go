package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tanukibot/internal/constants"
	"tanukibot/internal/models"
)

// UpsertUser регистрирует пользователя или обновляет имя и username.
// join_date и phone существующей записи не меняются. Для администраторов
// из списка ADMIN_IDS роль принудительно выставляется в admin.
// UpsertUser registers a user or refreshes the name and handle.
func (s *Store) UpsertUser(ctx context.Context, telegramID int64, fullname, username string, allowListed bool) (models.User, error) {
	db, err := s.conn()
	if err != nil {
		return models.User{}, err
	}

	role := constants.ROLE_USER
	updateCols := []string{"fullname", "username"}
	if allowListed {
		role = constants.ROLE_ADMIN
		updateCols = append(updateCols, "role")
	}

	u := models.User{
		TelegramID: telegramID,
		Fullname:   fullname,
		Username:   nullString(username),
		Role:       role,
	}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns(updateCols),
	}).Create(&u).Error
	if err != nil {
		logrus.WithError(err).WithField("user_id", telegramID).Error("UpsertUser: ошибка сохранения пользователя")
		return models.User{}, fmt.Errorf("upsert user %d: %w", telegramID, err)
	}
	return s.GetUserByTelegramID(ctx, telegramID)
}

// GetUserByTelegramID возвращает ErrNotFound, если пользователя нет.
func (s *Store) GetUserByTelegramID(ctx context.Context, telegramID int64) (models.User, error) {
	db, err := s.conn()
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	if err := db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&u).Error; err != nil {
		return models.User{}, wrapNotFound(err)
	}
	return u, nil
}

// GetUserByUsername ищет по username без "@", точное совпадение.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	db, err := s.conn()
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return models.User{}, wrapNotFound(err)
	}
	return u, nil
}

// ListUsers возвращает последних зарегистрированных пользователей.
func (s *Store) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var users []models.User
	q := db.WithContext(ctx).Order("join_date DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListUsersByRoles возвращает пользователей с одной из ролей.
func (s *Store) ListUsersByRoles(ctx context.Context, roles ...string) ([]models.User, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := db.WithContext(ctx).Where("role IN ?", roles).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users by roles %v: %w", roles, err)
	}
	return users, nil
}

// SetRole меняет роль пользователя. Если задан onlyIfRole, запись
// обновляется только при совпадении текущей роли. Возвращает false,
// если ни одна строка не изменилась.
func (s *Store) SetRole(ctx context.Context, telegramID int64, role, onlyIfRole string) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}
	q := db.WithContext(ctx).Model(&models.User{}).Where("telegram_id = ?", telegramID)
	if onlyIfRole != "" {
		q = q.Where("role = ?", onlyIfRole)
	}
	res := q.Update("role", role)
	if res.Error != nil {
		return false, fmt.Errorf("set role %d: %w", telegramID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// updatePhone используется внутри транзакции SaveLead.
func updatePhone(tx *gorm.DB, userID int64, phone string) error {
	return tx.Model(&models.User{}).Where("id = ?", userID).Update("phone", phone).Error
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
