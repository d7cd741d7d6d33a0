package handlers

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"tanukibot/internal/formatters"
)

// --- Вспомогательные функции для отправки сообщений ---
// --- Helper functions for sending messages ---

// Тексты, общие для нескольких обработчиков.
const (
	textChooseAction   = "Выберите действие:"
	textAskStart       = "Пожалуйста, начните с команды /start."
	textNoAccess       = "У вас нет доступа к этой команде."
	textNoRights       = "У вас нет прав для этого действия"
	textCancelled      = "Действие отменено."
	textNotSaved       = "❌ Не удалось сохранить данные. Попробуйте еще раз позже."
	textGenericError   = "❌ Произошла ошибка. Попробуйте еще раз позже."
	textCarNotFound    = "Автомобиль не найден"
	textNoCarsInRegion = "К сожалению, сейчас в этой подборке нет автомобилей. Оставьте заявку, и мы подберем авто под ваш запрос."
	textLeadThanks     = "СПАСИБО ЗА ОБРАЩЕНИЕ! 😊\nВ ближайшее время мы с вами свяжемся и направим подборку идеального автомобиля в ваш бюджет."
)

// sendMessage отправляет текст и логирует ошибку транспорта. Ошибки не возвращаются:
// пользователь не должен видеть сбои доставки. Длинный текст уходит несколькими
// сообщениями по границам строк, клавиатура прикрепляется к последнему.
// Возвращает ID последнего отправленного сообщения.
func (bh *BotHandler) sendMessage(chatID int64, text string, markup interface{}) int {
	chunks := formatters.SplitMessage(text, formatters.MaxMessageLength)
	lastID := 0
	for i, chunk := range chunks {
		var m interface{}
		if i == len(chunks)-1 {
			m = markup
		}
		id, err := bh.Deps.Messenger.SendText(chatID, chunk, m)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{"chat_id": chatID, "part": i + 1, "parts": len(chunks)}).Warn("sendMessage: не удалось отправить сообщение")
			return 0
		}
		lastID = id
	}
	return lastID
}

// sendMainMenu показывает основную клавиатуру с заданным текстом.
func (bh *BotHandler) sendMainMenu(a actor, text string) {
	if text == "" {
		text = textChooseAction
	}
	bh.sendMessage(a.ChatID, text, mainKeyboard(a.Role))
}

// answerCallback отвечает на нажатие кнопки; alert показывает всплывающее окно.
func (bh *BotHandler) answerCallback(q callbackQuery, text string, alert bool) {
	if err := bh.Deps.Messenger.AnswerCallback(q.ID, text, alert); err != nil {
		logrus.WithError(err).WithField("callback_id", q.ID).Debug("answerCallback: ошибка ответа на CallbackQuery")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
