// Package notify рассылает уведомления о новых заявках персоналу.
package notify

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"tanukibot/internal/constants"
	"tanukibot/internal/db"
	"tanukibot/internal/formatters"
	"tanukibot/internal/models"
)

// Sender - отправка текстовых сообщений.
type Sender interface {
	SendText(chatID int64, text string, markup interface{}) (int, error)
}

// Store - операции хранилища, нужные рассылке.
type Store interface {
	ListUsersByRoles(ctx context.Context, roles ...string) ([]models.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (models.User, error)
	MarkProtected(ctx context.Context, chatID int64, messageID int) error
}

// Result - итог рассылки, только для логов.
type Result struct {
	Recipients int
	Delivered  int
	Failed     int
}

type Notifier struct {
	sender   Sender
	store    Store
	adminIDs []int64 // статический список администраторов
}

// NewNotifier создает рассылку. adminIDs - администраторы из ADMIN_IDS:
// они получают уведомления независимо от сохраненной роли.
func NewNotifier(sender Sender, store Store, adminIDs ...int64) *Notifier {
	return &Notifier{sender: sender, store: store, adminIDs: adminIDs}
}

// NotifyLead отправляет уведомление каждому менеджеру и администратору по очереди.
// Ошибка отправки одному получателю логируется и не прерывает рассылку.
// Каждое доставленное уведомление помечается как защищенное от очистки.
// Ошибка возвращается только если не удалось получить список получателей.
func (n *Notifier) NotifyLead(ctx context.Context, req models.Request, owner models.User, similar bool) (Result, error) {
	staff, err := n.recipients(ctx)
	if err != nil {
		return Result{}, err
	}

	text := formatters.FormatLeadNotification(req, owner, similar)
	res := Result{Recipients: len(staff)}
	for _, member := range staff {
		log := logrus.WithFields(logrus.Fields{"chat_id": member.TelegramID, "request_id": req.ID})

		msgID, err := n.sender.SendText(member.TelegramID, text, nil)
		if err != nil {
			res.Failed++
			log.WithError(err).Warn("NotifyLead: не удалось доставить уведомление")
			continue
		}
		res.Delivered++
		if err := n.store.MarkProtected(ctx, member.TelegramID, msgID); err != nil {
			log.WithError(err).Warn("NotifyLead: не удалось пометить уведомление защищенным")
		}
	}

	logrus.WithFields(logrus.Fields{
		"request_id": req.ID,
		"recipients": res.Recipients,
		"delivered":  res.Delivered,
		"failed":     res.Failed,
	}).Info("Уведомления о заявке разосланы")
	return res, nil
}

// recipients - менеджеры и администраторы по сохраненной роли плюс
// администраторы из списка, у которых есть запись. Каждый получатель один раз.
func (n *Notifier) recipients(ctx context.Context) ([]models.User, error) {
	staff, err := n.store.ListUsersByRoles(ctx, constants.ROLE_MANAGER, constants.ROLE_ADMIN)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]bool, len(staff))
	for _, u := range staff {
		seen[u.TelegramID] = true
	}
	for _, id := range n.adminIDs {
		if seen[id] {
			continue
		}
		u, err := n.store.GetUserByTelegramID(ctx, id)
		if errors.Is(err, db.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		seen[id] = true
		staff = append(staff, u)
	}
	return staff, nil
}
