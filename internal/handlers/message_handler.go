// Файл: internal/handlers/message_handler.go

package handlers

import (
	"context"
	"errors"
	"os"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"tanukibot/internal/auth"
	"tanukibot/internal/constants"
	"tanukibot/internal/db"
	"tanukibot/internal/dialog"
	"tanukibot/internal/formatters"
	"tanukibot/internal/utils"
)

// HandleMessage обрабатывает входящие сообщения от Telegram.
func (bh *BotHandler) HandleMessage(update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	in := inbound{
		ChatID:    message.Chat.ID,
		MessageID: message.MessageID,
		From:      senderFromTG(message.From),
		Text:      message.Text,
		PhotoID:   utils.LargestPhotoID(message.Photo),
	}
	if message.Contact != nil {
		in.HasContact = true
		in.ContactPhone = message.Contact.PhoneNumber
	}

	ctx, cancel := newHandlerContext()
	defer cancel()
	bh.handleInbound(ctx, in)
}

// handleInbound - маршрутизация одного сообщения: команды сброса, активный
// диалог, кнопки главного меню.
func (bh *BotHandler) handleInbound(ctx context.Context, in inbound) {
	log := logrus.WithFields(logrus.Fields{"chat_id": in.ChatID, "user_id": in.From.ID, "message_id": in.MessageID})
	text := strings.TrimSpace(in.Text)

	if cmd, payload, ok := parseResetCommand(text); ok {
		log.WithField("command", cmd).Info("HandleMessage: сброс сессии")
		bh.handleStart(ctx, in, payload)
		return
	}

	a, found, err := bh.loadActor(ctx, in.ChatID, in.From.ID)
	if err != nil {
		log.WithError(err).Error("HandleMessage: ошибка загрузки пользователя")
		bh.sendMessage(in.ChatID, textGenericError, nil)
		return
	}
	if !found {
		log.Info("HandleMessage: пользователь не найден, предлагаем /start")
		bh.sendMessage(in.ChatID, textAskStart, nil)
		return
	}

	if !dialog.Interrupts(text) {
		stepped := false
		effects := bh.Deps.SessionManager.Update(in.From.ID, func(conv dialog.Conversation) (dialog.Conversation, []dialog.Effect) {
			if !conv.Active() {
				return conv, nil
			}
			stepped = true
			log.WithFields(logrus.Fields{"flow": conv.Flow, "state": conv.State}).Debug("HandleMessage: ввод для активного диалога")
			return dialog.Step(conv, eventFromInbound(in))
		})
		if stepped {
			bh.applyEffects(ctx, a, effects)
			return
		}
	}

	switch {
	case text == constants.BTN_CALC_COST:
		bh.beginFlow(ctx, a, dialog.StartLead)
	case lo.Contains(constants.InfoPageButtons, text):
		bh.sendInfoPage(a, text)
	case text == constants.BTN_CAR_PICKS:
		bh.sendCatalogCountries(a)
	case text == constants.BTN_FAQ:
		bh.sendFAQ(a)
	case text == constants.BTN_ADMIN_PANEL:
		bh.sendAdminPanel(a)
	case text == constants.BTN_CANCEL:
		// Вне диалога "Отменить" повторяет приветствие с очисткой чата.
		bh.handleStart(ctx, in, "")
	default:
		bh.sendMainMenu(a, "")
	}
}

// parseResetCommand распознает /start и /clear (в том числе /start@bot и
// /start car_12). Возвращает команду и аргумент.
func parseResetCommand(text string) (string, string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	cmd, payload, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	if cmd != "/start" && cmd != "/clear" {
		return "", "", false
	}
	return cmd, strings.TrimSpace(payload), true
}

func eventFromInbound(in inbound) dialog.Event {
	switch {
	case in.HasContact:
		return dialog.ContactEvent(in.ContactPhone)
	case in.PhotoID != "":
		return dialog.PhotoEvent(in.PhotoID)
	default:
		return dialog.TextEvent(in.Text)
	}
}

// handleStart регистрирует пользователя, сбрасывает диалог, отправляет
// приветствие и главное меню и запускает очистку чата от якорного сообщения.
// Полезная нагрузка car_<id> сразу начинает заказ подобного авто.
func (bh *BotHandler) handleStart(ctx context.Context, in inbound, payload string) {
	log := logrus.WithFields(logrus.Fields{"chat_id": in.ChatID, "user_id": in.From.ID})

	user, err := bh.Deps.Store.UpsertUser(ctx, in.From.ID, in.From.FullName(), in.From.UserName, bh.Deps.Config.IsAdmin(in.From.ID))
	if err != nil {
		log.WithError(err).Error("handleStart: ошибка регистрации пользователя")
		bh.sendMessage(in.ChatID, textGenericError, nil)
		return
	}
	role, err := bh.Deps.Authorizer.Classify(ctx, in.From.ID)
	if err != nil {
		log.WithError(err).Warn("handleStart: не удалось определить роль")
		role = auth.RoleUser
	}
	a := actor{ChatID: in.ChatID, User: user, Role: role}

	bh.Deps.SessionManager.End(in.From.ID)

	name := in.From.FullName()
	if name == "" {
		name = in.From.UserName
	}
	bh.sendGreeting(a, formatters.FormatGreeting(bh.Deps.Content.Greeting, name))
	bh.sendMainMenu(a, "")

	bh.Deps.Cleaner.Schedule(in.ChatID, in.MessageID)

	if carID, ok := utils.ParseCarPayload(payload); ok {
		bh.startOrderSimilar(ctx, a, carID, nil)
	}
}

// sendGreeting отправляет приветствие с фото, если файл доступен, иначе текстом.
func (bh *BotHandler) sendGreeting(a actor, greeting string) {
	path := bh.Deps.Config.WelcomePhoto
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			_, err := bh.Deps.Messenger.SendPhoto(a.ChatID, tgbotapi.FilePath(path), greeting, startInlineKeyboard())
			if err == nil {
				return
			}
			a.log().WithError(err).Warn("sendGreeting: не удалось отправить фото, отправляем текст")
		}
	}
	bh.sendMessage(a.ChatID, greeting, startInlineKeyboard())
}

// beginFlow начинает диалог, заменяя предыдущий, и выполняет первый шаг.
func (bh *BotHandler) beginFlow(ctx context.Context, a actor, start func() (dialog.Conversation, []dialog.Effect)) {
	conv, effects := start()
	bh.Deps.SessionManager.Begin(a.User.TelegramID, conv)
	a.log().WithField("flow", conv.Flow).Info("Начат диалог")
	bh.applyEffects(ctx, a, effects)
}

// startOrderSimilar начинает заказ подобного авто. Если автомобиль не найден,
// диалог не начинается; при нажатии кнопки пользователь видит alert.
func (bh *BotHandler) startOrderSimilar(ctx context.Context, a actor, carID int64, q *callbackQuery) {
	car, err := bh.Deps.Store.GetCar(ctx, carID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			a.log().WithError(err).WithField("car_id", carID).Error("startOrderSimilar: ошибка чтения автомобиля")
		}
		if q != nil {
			bh.answerCallback(*q, textCarNotFound, true)
		} else {
			bh.sendMessage(a.ChatID, textCarNotFound, notFoundCarKeyboard())
		}
		return
	}
	if q != nil {
		bh.answerCallback(*q, "", false)
	}
	desc := car.Description
	bh.beginFlow(ctx, a, func() (dialog.Conversation, []dialog.Effect) {
		return dialog.StartOrderSimilar(desc)
	})
}
