package handlers

import (
	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"tanukibot/internal/auth"
	"tanukibot/internal/constants"
	"tanukibot/internal/content"
	"tanukibot/internal/dialog"
)

// mainKeyboard - основная клавиатура. Персонал дополнительно видит панель администратора.
func mainKeyboard(role auth.Role) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(constants.BTN_CALC_COST)),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(constants.BTN_WORK_PROCESS),
			tgbotapi.NewKeyboardButton(constants.BTN_CONTRACT),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(constants.BTN_COMPANY_INFO),
			tgbotapi.NewKeyboardButton(constants.BTN_PAYMENT),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(constants.BTN_CAR_PICKS),
			tgbotapi.NewKeyboardButton(constants.BTN_FAQ),
		),
	}
	if role.IsStaff() {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(constants.BTN_ADMIN_PANEL)))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(constants.BTN_CANCEL)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func contactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(constants.BTN_SHARE_PHONE)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(constants.BTN_CANCEL)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func finishPhotosKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(constants.BTN_FINISH_PHOTOS)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(constants.BTN_CANCEL)),
	)
	kb.ResizeKeyboard = true
	return kb
}

// startInlineKeyboard прикрепляется к приветствию.
func startInlineKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Расчитать стоимость авто", constants.CALLBACK_CALC_COST)),
	)
}

func faqKeyboard(c *content.Content) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(c.FAQ))
	for _, f := range c.FAQ {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(f.Question, constants.CALLBACK_PREFIX_FAQ+f.Key),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// countryKeyboard - выбор страны; prefix определяет назначение (просмотр или добавление).
func countryKeyboard(prefix string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(constants.Countries))
	for _, c := range constants.Countries {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(constants.CountryDisplayMap[c], prefix+c),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminPanelKeyboard(role auth.Role) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Список пользователей", constants.CALLBACK_ADMIN_USERS)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Добавить авто в подборку", constants.CALLBACK_ADMIN_ADD_CAR)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Назначить менеджера", constants.CALLBACK_ADMIN_ASSIGN_MANAGER)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Выгрузить заявки (Excel)", constants.CALLBACK_ADMIN_EXPORT_LEADS)),
	}
	if role == auth.RoleAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Удалить менеджера", constants.CALLBACK_ADMIN_REMOVE_MANAGER)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func carActionKeyboard(carID int64, staff bool) tgbotapi.InlineKeyboardMarkup {
	id := itoa(carID)
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Заказать подобный авто", constants.CALLBACK_PREFIX_ORDER_SIMILAR+id)),
	}
	if staff {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Удалить авто", constants.CALLBACK_PREFIX_DELETE_CAR+id),
			tgbotapi.NewInlineKeyboardButtonData("QR-код", constants.CALLBACK_PREFIX_QR_CAR+id),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func notFoundCarKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Расчитать другое авто", constants.CALLBACK_CALC_COST)),
	)
}

// promptKeyboard подбирает клавиатуру к вопросу диалога.
func promptKeyboard(p dialog.Prompt) interface{} {
	switch p {
	case dialog.PromptPhone, dialog.PromptPhoneInvalid:
		return contactKeyboard()
	case dialog.PromptCountry:
		return countryKeyboard(constants.CALLBACK_PREFIX_ADD_CAR)
	case dialog.PromptPhotos, dialog.PromptNoPhotos:
		return finishPhotosKeyboard()
	default:
		return cancelKeyboard()
	}
}
