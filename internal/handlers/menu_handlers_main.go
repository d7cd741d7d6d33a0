package handlers

import (
	"github.com/sirupsen/logrus"
)

// sendInfoPage отправляет информационную страницу, соответствующую кнопке меню.
func (bh *BotHandler) sendInfoPage(a actor, button string) {
	body, ok := bh.Deps.Content.Page(button)
	if !ok {
		a.log().WithField("button", button).Warn("sendInfoPage: страница не найдена в контенте")
		bh.sendMainMenu(a, "")
		return
	}
	bh.sendMessage(a.ChatID, body, mainKeyboard(a.Role))
}

// sendFAQ показывает список популярных вопросов.
func (bh *BotHandler) sendFAQ(a actor) {
	if len(bh.Deps.Content.FAQ) == 0 {
		bh.sendMainMenu(a, "")
		return
	}
	bh.sendMessage(a.ChatID, "Выберите интересующий вас вопрос:", faqKeyboard(bh.Deps.Content))
}

// handleFAQCallback отправляет ответ на выбранный вопрос.
func (bh *BotHandler) handleFAQCallback(q callbackQuery, key string) {
	entry, ok := bh.Deps.Content.FAQAnswer(key)
	if !ok {
		logrus.WithFields(logrus.Fields{"chat_id": q.ChatID, "faq_key": key}).Warn("handleFAQCallback: неизвестный вопрос")
		bh.answerCallback(q, "Вопрос не найден", true)
		return
	}
	bh.answerCallback(q, "", false)
	bh.sendMessage(q.ChatID, entry.Answer, nil)
}
