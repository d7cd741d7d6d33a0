package handlers

import (
	"context"
	"time"

	"tanukibot/internal/constants"
	"tanukibot/internal/dialog"
	"tanukibot/internal/formatters"
	"tanukibot/internal/reports"
)

// sendAdminPanel - панель администратора для менеджеров и администраторов.
func (bh *BotHandler) sendAdminPanel(a actor) {
	if !bh.Deps.Authorizer.CanViewPanel(a.Role) {
		bh.sendMessage(a.ChatID, textNoAccess, nil)
		return
	}
	bh.sendMessage(a.ChatID, "Панель администратора. Выберите действие:", adminPanelKeyboard(a.Role))
}

// handleUsersList отправляет последних зарегистрированных пользователей.
func (bh *BotHandler) handleUsersList(ctx context.Context, a actor, q callbackQuery) {
	if !bh.Deps.Authorizer.CanViewPanel(a.Role) {
		bh.answerCallback(q, textNoAccess, true)
		return
	}
	bh.answerCallback(q, "", false)
	users, err := bh.Deps.Store.ListUsers(ctx, constants.USERS_LIST_LIMIT)
	if err != nil {
		a.log().WithError(err).Error("handleUsersList: ошибка чтения пользователей")
		bh.sendMessage(a.ChatID, textGenericError, nil)
		return
	}
	bh.sendMessage(a.ChatID, formatters.FormatUsersList(users), nil)
}

func (bh *BotHandler) handleStartAssign(ctx context.Context, a actor, q callbackQuery) {
	if !bh.Deps.Authorizer.CanAssignManagers(a.Role) {
		bh.answerCallback(q, textNoAccess, true)
		return
	}
	bh.answerCallback(q, "", false)
	bh.beginFlow(ctx, a, dialog.StartAssign)
}

// handleStartRemove показывает текущих менеджеров и просит идентификатор в том же сообщении.
// Пустой список не начинает диалог.
func (bh *BotHandler) handleStartRemove(ctx context.Context, a actor, q callbackQuery) {
	if !bh.Deps.Authorizer.CanRemoveManagers(a.Role) {
		bh.answerCallback(q, textNoAccess, true)
		return
	}
	bh.answerCallback(q, "", false)

	managers, err := bh.Deps.Store.ListUsersByRoles(ctx, constants.ROLE_MANAGER)
	if err != nil {
		a.log().WithError(err).Error("handleStartRemove: ошибка чтения менеджеров")
		bh.sendMessage(a.ChatID, textGenericError, nil)
		return
	}
	if len(managers) == 0 {
		bh.sendMessage(a.ChatID, formatters.FormatManagersList(nil), nil)
		return
	}

	conv, effects := dialog.StartRemove()
	bh.Deps.SessionManager.Begin(a.User.TelegramID, conv)
	text := formatters.FormatManagersList(managers)
	for _, eff := range effects {
		if eff.Kind == dialog.EffectAsk {
			text += "\n" + eff.Prompt.Text()
		}
	}
	bh.sendMessage(a.ChatID, text, cancelKeyboard())
}

func (bh *BotHandler) handleStartCarIntake(ctx context.Context, a actor, q callbackQuery) {
	if !bh.Deps.Authorizer.CanManageCatalog(a.Role) {
		bh.answerCallback(q, textNoAccess, true)
		return
	}
	bh.answerCallback(q, "", false)
	bh.beginFlow(ctx, a, dialog.StartCarIntake)
}

// handleExportLeads отправляет заявки файлом Excel.
func (bh *BotHandler) handleExportLeads(ctx context.Context, a actor, q callbackQuery) {
	if !bh.Deps.Authorizer.CanExportLeads(a.Role) {
		bh.answerCallback(q, textNoAccess, true)
		return
	}
	bh.answerCallback(q, "Формируем файл...", false)

	leads, err := bh.Deps.Store.ListLeads(ctx, 0)
	if err != nil {
		a.log().WithError(err).Error("handleExportLeads: ошибка чтения заявок")
		bh.sendMessage(a.ChatID, textGenericError, nil)
		return
	}
	data, err := reports.BuildLeadsWorkbook(leads)
	if err != nil {
		a.log().WithError(err).Error("handleExportLeads: ошибка формирования файла")
		bh.sendMessage(a.ChatID, textGenericError, nil)
		return
	}
	caption := "Заявок: " + itoa(int64(len(leads)))
	if _, err := bh.Deps.Messenger.SendDocument(a.ChatID, reports.LeadsFileName(time.Now()), data, caption); err != nil {
		a.log().WithError(err).Warn("handleExportLeads: не удалось отправить файл")
	}
}
