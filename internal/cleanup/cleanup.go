// Package cleanup удаляет последние сообщения чата при сбросе сессии,
// пропуская защищенные (уведомления персоналу).
package cleanup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"tanukibot/internal/constants"
)

// Deleter - удаление сообщений транспортом.
type Deleter interface {
	DeleteMessages(chatID int64, messageIDs []int) error
	DeleteMessage(chatID int64, messageID int) error
}

// ProtectedLookup возвращает защищенные id чата в диапазоне [from, to].
type ProtectedLookup interface {
	ProtectedMessageIDs(ctx context.Context, chatID int64, from, to int) ([]int, error)
}

type Cleaner struct {
	deleter   Deleter
	protected ProtectedLookup
	window    int
	timeout   time.Duration
}

func NewCleaner(deleter Deleter, protected ProtectedLookup) *Cleaner {
	return &Cleaner{
		deleter:   deleter,
		protected: protected,
		window:    constants.CLEANUP_WINDOW,
		timeout:   30 * time.Second,
	}
}

// Candidates - id от max(0, anchor-window) до anchor включительно.
func Candidates(anchor, window int) []int {
	if anchor < 0 {
		return nil
	}
	start := max(0, anchor-window)
	return lo.RangeFrom(start, anchor-start+1)
}

// Run удаляет сообщения чата, начиная с anchor и на window назад, кроме защищенных.
// Сначала одна попытка массового удаления; при любой ошибке - по одному
// запросу на каждый id параллельно, ошибки только логируются.
// Если список защищенных не получен, ничего не удаляется.
func (c *Cleaner) Run(ctx context.Context, chatID int64, anchor int) error {
	candidates := Candidates(anchor, c.window)
	if len(candidates) == 0 {
		return nil
	}

	protected, err := c.protected.ProtectedMessageIDs(ctx, chatID, candidates[0], anchor)
	if err != nil {
		return fmt.Errorf("cleanup %d: protected lookup: %w", chatID, err)
	}
	toDelete := lo.Without(candidates, protected...)
	if len(toDelete) == 0 {
		return nil
	}

	log := logrus.WithFields(logrus.Fields{"chat_id": chatID, "anchor": anchor, "count": len(toDelete)})
	err = c.deleter.DeleteMessages(chatID, toDelete)
	if err == nil {
		log.Debug("Очистка чата: массовое удаление выполнено")
		return nil
	}
	log.WithError(err).Debug("Очистка чата: массовое удаление отклонено, удаляем по одному")

	var wg sync.WaitGroup
	for _, id := range toDelete {
		wg.Add(1)
		go func(messageID int) {
			defer wg.Done()
			if err := c.deleter.DeleteMessage(chatID, messageID); err != nil {
				log.WithField("message_id", messageID).WithError(err).Debug("Очистка чата: сообщение не удалено")
			}
		}(id)
	}
	wg.Wait()
	return nil
}

// Schedule запускает Run в фоне. Результат и ошибки видны только в логах.
func (c *Cleaner) Schedule(chatID int64, anchor int) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("chat_id", chatID).Errorf("Очистка чата: паника: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		if err := c.Run(ctx, chatID, anchor); err != nil {
			logrus.WithError(err).WithField("chat_id", chatID).Warn("Очистка чата не выполнена")
		}
	}()
}
