package dialog

import (
	"strings"

	"github.com/samber/lo"

	"tanukibot/internal/constants"
	"tanukibot/internal/utils"
)

// CancelToken - текст, отменяющий любой активный диалог.
const CancelToken = constants.BTN_CANCEL

// FinishPhotosToken завершает сбор фотографий.
const FinishPhotosToken = constants.BTN_FINISH_PHOTOS

// StartLead - расчет стоимости авто.
func StartLead() (Conversation, []Effect) {
	return Conversation{Flow: FlowLead, State: StateCollectingFIO}, ask(PromptFIO)
}

// StartOrderSimilar - заказ подобного авто из подборки; CarInfo заполняется описанием.
func StartOrderSimilar(carDescription string) (Conversation, []Effect) {
	conv := Conversation{
		Flow:   FlowOrderSimilar,
		State:  StateCollectingFIO,
		Fields: Fields{CarInfo: constants.OrderSimilarPrefix + carDescription},
	}
	return conv, ask(PromptOrderSimilarFIO)
}

func StartAssign() (Conversation, []Effect) {
	return Conversation{Flow: FlowAssignManager, State: StateCollectingTargetIdentifier}, ask(PromptTargetIdentifier)
}

func StartRemove() (Conversation, []Effect) {
	return Conversation{Flow: FlowRemoveManager, State: StateCollectingRemoveIdentifier}, ask(PromptRemoveIdentifier)
}

func StartCarIntake() (Conversation, []Effect) {
	return Conversation{Flow: FlowCarIntake, State: StateCollectingCountry}, ask(PromptCountry)
}

// Step - функция перехода. Входной диалог не изменяется.
// Неподходящее для шага событие повторяет вопрос текущего шага.
func Step(conv Conversation, ev Event) (Conversation, []Effect) {
	if !conv.Active() {
		return Conversation{}, nil
	}
	if ev.Kind == EventText && strings.TrimSpace(ev.Text) == CancelToken {
		return Conversation{}, []Effect{{Kind: EffectCancel}}
	}

	next := conv
	next.Fields.Photos = append([]string(nil), conv.Fields.Photos...)

	switch conv.State {
	case StateCollectingFIO:
		text, ok := rawTextOf(ev)
		if !ok {
			if conv.Flow == FlowOrderSimilar {
				return conv, ask(PromptOrderSimilarFIO)
			}
			return conv, ask(PromptFIO)
		}
		next.Fields.FIO = text
		if conv.Flow == FlowOrderSimilar {
			next.State = StateCollectingPhone
			return next, ask(PromptPhone)
		}
		next.State = StateCollectingCarInfo
		return next, ask(PromptCarInfo)

	case StateCollectingCarInfo:
		text, ok := rawTextOf(ev)
		if !ok {
			return conv, ask(PromptCarInfo)
		}
		next.Fields.CarInfo = text
		next.State = StateCollectingPhone
		return next, ask(PromptPhone)

	case StateCollectingPhone:
		var phone string
		switch ev.Kind {
		case EventContact:
			phone = ev.Phone
			if strings.TrimSpace(phone) == "" {
				return conv, ask(PromptPhone)
			}
		case EventText:
			if !utils.IsValidPhone(ev.Text) {
				return conv, ask(PromptPhoneInvalid)
			}
			phone = strings.TrimSpace(ev.Text)
		default:
			return conv, ask(PromptPhone)
		}
		lead := Lead{
			FIO:     next.Fields.FIO,
			CarInfo: next.Fields.CarInfo,
			Phone:   phone,
			Similar: conv.Flow == FlowOrderSimilar,
		}
		return Conversation{}, []Effect{{Kind: EffectSubmitLead, Lead: lead}}

	case StateCollectingTargetIdentifier:
		text, ok := textOf(ev)
		if !ok {
			return conv, ask(PromptTargetIdentifier)
		}
		return Conversation{}, []Effect{{Kind: EffectAssignManager, Identifier: text}}

	case StateCollectingRemoveIdentifier:
		text, ok := textOf(ev)
		if !ok {
			return conv, ask(PromptRemoveIdentifier)
		}
		return Conversation{}, []Effect{{Kind: EffectRemoveManager, Identifier: text}}

	case StateCollectingCountry:
		if ev.Kind != EventCountry || !isKnownCountry(ev.Country) {
			return conv, ask(PromptCountry)
		}
		next.Fields.Country = ev.Country
		next.State = StateCollectingPhotos
		return next, ask(PromptPhotos)

	case StateCollectingPhotos:
		switch {
		case ev.Kind == EventPhoto && ev.PhotoID != "":
			next.Fields.Photos = append(next.Fields.Photos, ev.PhotoID)
			return next, nil
		case ev.Kind == EventText && strings.TrimSpace(ev.Text) == FinishPhotosToken:
			if len(conv.Fields.Photos) == 0 {
				return conv, ask(PromptNoPhotos)
			}
			next.State = StateCollectingDescription
			return next, ask(PromptDescription)
		default:
			return conv, ask(PromptPhotos)
		}

	case StateCollectingDescription:
		if ev.Kind != EventText || strings.TrimSpace(ev.Text) == "" {
			return conv, ask(PromptDescription)
		}
		car := CarDraft{
			Country:     conv.Fields.Country,
			Description: ev.Text,
			Photos:      next.Fields.Photos,
		}
		return Conversation{}, []Effect{{Kind: EffectSaveCar, Car: car}}
	}

	return Conversation{}, nil
}

// rawTextOf возвращает текст события как есть; пробелы учитываются только
// при проверке на пустоту.
func rawTextOf(ev Event) (string, bool) {
	if ev.Kind != EventText {
		return "", false
	}
	return ev.Text, strings.TrimSpace(ev.Text) != ""
}

// textOf возвращает обрезанный непустой текст события.
func textOf(ev Event) (string, bool) {
	if ev.Kind != EventText {
		return "", false
	}
	text := strings.TrimSpace(ev.Text)
	return text, text != ""
}

func isKnownCountry(country string) bool {
	return lo.Contains(constants.Countries, country)
}

// Interrupts сообщает, прерывает ли текст активный диалог вместо того,
// чтобы стать его вводом: /start, /clear и кнопка расчета стоимости.
// Токен отмены обрабатывает сам Step.
func Interrupts(text string) bool {
	text = strings.TrimSpace(text)
	if text == constants.BTN_CALC_COST {
		return true
	}
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd == "/start" || cmd == "/clear"
}
