package handlers

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/sirupsen/logrus"

	"tanukibot/internal/constants"
	"tanukibot/internal/dialog"
)

// HandleCallback обрабатывает входящие callback query от Telegram.
func (bh *BotHandler) HandleCallback(update tgbotapi.Update) {
	query := update.CallbackQuery
	if query == nil || query.From == nil {
		logrus.Debug("[CALLBACK_HANDLER] Получен пустой CallbackQuery.")
		return
	}

	q := callbackQuery{
		ID:   query.ID,
		From: senderFromTG(query.From),
		Data: query.Data,
	}
	if query.Message != nil {
		q.ChatID = query.Message.Chat.ID
		q.MessageID = query.Message.MessageID
	} else {
		q.ChatID = query.From.ID
	}

	ctx, cancel := newHandlerContext()
	defer cancel()
	bh.handleCallbackData(ctx, q)
}

// handleCallbackData - маршрутизация нажатий inline-кнопок. На каждый
// callback отвечаем ровно один раз.
func (bh *BotHandler) handleCallbackData(ctx context.Context, q callbackQuery) {
	log := logrus.WithFields(logrus.Fields{"chat_id": q.ChatID, "user_id": q.From.ID, "data": q.Data})
	log.Debug("[CALLBACK_HANDLER] START")

	a, found, err := bh.loadActor(ctx, q.ChatID, q.From.ID)
	if err != nil {
		log.WithError(err).Error("[CALLBACK_HANDLER] ошибка загрузки пользователя")
		bh.answerCallback(q, textGenericError, true)
		return
	}
	if !found {
		bh.answerCallback(q, textAskStart, true)
		return
	}

	data := q.Data
	switch {
	case data == constants.CALLBACK_CALC_COST:
		bh.answerCallback(q, "", false)
		bh.beginFlow(ctx, a, dialog.StartLead)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_FAQ):
		bh.handleFAQCallback(q, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_FAQ))

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_CARS):
		bh.answerCallback(q, "", false)
		bh.sendCatalog(ctx, a, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_CARS))

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_ORDER_SIMILAR):
		id, ok := parseID(data, constants.CALLBACK_PREFIX_ORDER_SIMILAR)
		if !ok {
			bh.answerCallback(q, textCarNotFound, true)
			return
		}
		bh.startOrderSimilar(ctx, a, id, &q)

	case data == constants.CALLBACK_ADMIN_USERS:
		bh.handleUsersList(ctx, a, q)

	case data == constants.CALLBACK_ADMIN_ADD_CAR:
		bh.handleStartCarIntake(ctx, a, q)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_ADD_CAR):
		bh.handleCountryChoice(ctx, a, q, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_ADD_CAR))

	case data == constants.CALLBACK_ADMIN_ASSIGN_MANAGER:
		bh.handleStartAssign(ctx, a, q)

	case data == constants.CALLBACK_ADMIN_REMOVE_MANAGER:
		bh.handleStartRemove(ctx, a, q)

	case data == constants.CALLBACK_ADMIN_EXPORT_LEADS:
		bh.handleExportLeads(ctx, a, q)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_DELETE_CAR):
		id, ok := parseID(data, constants.CALLBACK_PREFIX_DELETE_CAR)
		if !ok {
			bh.answerCallback(q, textCarNotFound, true)
			return
		}
		bh.handleDeleteCar(ctx, a, q, id)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_QR_CAR):
		id, ok := parseID(data, constants.CALLBACK_PREFIX_QR_CAR)
		if !ok {
			bh.answerCallback(q, textCarNotFound, true)
			return
		}
		bh.handleCarQR(ctx, a, q, id)

	default:
		log.Warn("[CALLBACK_HANDLER] неизвестный callback")
		bh.answerCallback(q, "", false)
	}
}

// handleCountryChoice передает выбор страны в диалог добавления авто.
// Вне шага выбора страны нажатие игнорируется.
func (bh *BotHandler) handleCountryChoice(ctx context.Context, a actor, q callbackQuery, country string) {
	allowed := bh.Deps.Authorizer.CanManageCatalog(a.Role)
	stepped, denied := false, false
	effects := bh.Deps.SessionManager.Update(a.User.TelegramID, func(conv dialog.Conversation) (dialog.Conversation, []dialog.Effect) {
		if conv.Flow != dialog.FlowCarIntake || conv.State != dialog.StateCollectingCountry {
			return conv, nil
		}
		if !allowed {
			denied = true
			return dialog.Conversation{}, nil
		}
		stepped = true
		return dialog.Step(conv, dialog.CountryEvent(country))
	})
	switch {
	case denied:
		bh.answerCallback(q, textNoRights, true)
	case stepped:
		bh.answerCallback(q, "", false)
		bh.applyEffects(ctx, a, effects)
	default:
		bh.answerCallback(q, "", false)
	}
}

func parseID(data, prefix string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
