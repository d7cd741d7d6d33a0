package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"tanukibot/internal/models"
)

// MarkProtected помечает сообщение как неудаляемое при очистке чата.
// Повторная пометка ничего не меняет.
func (s *Store) MarkProtected(ctx context.Context, chatID int64, messageID int) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	pm := models.ProtectedMessage{ChatID: chatID, MessageID: messageID}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&pm).Error; err != nil {
		return fmt.Errorf("mark protected %d/%d: %w", chatID, messageID, err)
	}
	return nil
}

// ProtectedMessageIDs возвращает защищенные id сообщений чата в диапазоне [from, to].
func (s *Store) ProtectedMessageIDs(ctx context.Context, chatID int64, from, to int) ([]int, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var ids []int
	err = db.WithContext(ctx).Model(&models.ProtectedMessage{}).
		Where("chat_id = ? AND message_id BETWEEN ? AND ?", chatID, from, to).
		Pluck("message_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("protected ids %d: %w", chatID, err)
	}
	return ids, nil
}

// PruneProtected удаляет пометки старше before и возвращает их количество.
func (s *Store) PruneProtected(ctx context.Context, before time.Time) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	res := db.WithContext(ctx).Where("created_at < ?", before).Delete(&models.ProtectedMessage{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune protected: %w", res.Error)
	}
	return res.RowsAffected, nil
}
