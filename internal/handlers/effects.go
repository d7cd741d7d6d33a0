package handlers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"tanukibot/internal/auth"
	"tanukibot/internal/dialog"
	"tanukibot/internal/models"
	"tanukibot/internal/utils"
)

// applyEffects выполняет эффекты шага диалога по порядку.
func (bh *BotHandler) applyEffects(ctx context.Context, a actor, effects []dialog.Effect) {
	for _, eff := range effects {
		switch eff.Kind {
		case dialog.EffectAsk:
			bh.sendMessage(a.ChatID, eff.Prompt.Text(), promptKeyboard(eff.Prompt))
		case dialog.EffectSubmitLead:
			bh.submitLead(ctx, a, eff.Lead)
		case dialog.EffectAssignManager:
			bh.assignManager(ctx, a, eff.Identifier)
		case dialog.EffectRemoveManager:
			bh.removeManager(ctx, a, eff.Identifier)
		case dialog.EffectSaveCar:
			bh.saveCar(ctx, a, eff.Car)
		case dialog.EffectCancel:
			a.log().Info("Диалог отменен пользователем")
			bh.sendMainMenu(a, textCancelled)
		default:
			a.log().WithField("effect", eff.Kind).Warn("applyEffects: неизвестный эффект")
		}
	}
}

// submitLead сохраняет заявку, благодарит пользователя и рассылает уведомление персоналу.
func (bh *BotHandler) submitLead(ctx context.Context, a actor, lead dialog.Lead) {
	req, err := bh.Deps.Store.SaveLead(ctx, a.User.TelegramID, lead.FIO, lead.CarInfo, lead.Phone)
	if err != nil {
		a.log().WithError(err).Error("submitLead: заявка не сохранена")
		bh.sendMainMenu(a, textNotSaved)
		return
	}
	a.log().WithField("request_id", req.ID).Info("Заявка сохранена")
	bh.sendMainMenu(a, textLeadThanks)

	owner := a.User
	owner.Phone.String, owner.Phone.Valid = lead.Phone, true
	if _, err := bh.Deps.Notifier.NotifyLead(ctx, req, owner, lead.Similar); err != nil {
		a.log().WithError(err).WithField("request_id", req.ID).Error("submitLead: ошибка рассылки уведомлений")
	}
}

func (bh *BotHandler) assignManager(ctx context.Context, a actor, identifier string) {
	if !bh.Deps.Authorizer.CanAssignManagers(a.Role) {
		bh.sendMainMenu(a, textNoAccess)
		return
	}
	outcome, target, err := bh.Deps.Authorizer.AssignManager(ctx, identifier)
	if err != nil {
		a.log().WithError(err).Error("assignManager: ошибка назначения менеджера")
		bh.sendMainMenu(a, textNotSaved)
		return
	}
	switch outcome {
	case auth.OutcomeUpdated:
		bh.sendMainMenu(a, fmt.Sprintf("Пользователь %s успешно назначен менеджером!", identifier))
	case auth.OutcomeProtected:
		bh.sendMainMenu(a, protectedText(identifier, target))
	default:
		bh.sendMainMenu(a, fmt.Sprintf("Не удалось найти пользователя с идентификатором %s.", identifier))
	}
}

func (bh *BotHandler) removeManager(ctx context.Context, a actor, identifier string) {
	if !bh.Deps.Authorizer.CanRemoveManagers(a.Role) {
		bh.sendMainMenu(a, textNoAccess)
		return
	}
	outcome, target, err := bh.Deps.Authorizer.RemoveManager(ctx, identifier)
	if err != nil {
		a.log().WithError(err).Error("removeManager: ошибка снятия менеджера")
		bh.sendMainMenu(a, textNotSaved)
		return
	}
	switch outcome {
	case auth.OutcomeUpdated:
		bh.sendMainMenu(a, fmt.Sprintf("Пользователь %s успешно удален из менеджеров!", identifier))
	case auth.OutcomeProtected:
		bh.sendMainMenu(a, protectedText(identifier, target))
	default:
		bh.sendMainMenu(a, fmt.Sprintf("Не удалось найти менеджера с идентификатором %s.", identifier))
	}
}

func (bh *BotHandler) saveCar(ctx context.Context, a actor, draft dialog.CarDraft) {
	if !bh.Deps.Authorizer.CanManageCatalog(a.Role) {
		bh.sendMainMenu(a, textNoAccess)
		return
	}
	car, err := bh.Deps.Store.AddCar(ctx, draft.Country, draft.Description, draft.Photos)
	if err != nil {
		a.log().WithError(err).Error("saveCar: автомобиль не сохранен")
		bh.sendMainMenu(a, textNotSaved)
		return
	}
	a.log().WithFields(logrus.Fields{"car_id": car.ID, "country": car.Country, "photos": len(draft.Photos)}).Info("Автомобиль добавлен в подборку")
	bh.sendMainMenu(a, "Автомобиль успешно добавлен в подборку!")
}

// protectedText - ответ, когда роль администратора из списка не меняется.
func protectedText(identifier string, target models.User) string {
	return fmt.Sprintf("Пользователь %s имеет роль «%s», она не изменяется.", identifier, utils.GetRoleDisplayName(target.Role))
}
