package dialog

// Prompt - идентификатор вопроса пользователю. Клавиатуру к нему подбирает обработчик.
type Prompt string

const (
	PromptFIO              Prompt = "fio"
	PromptOrderSimilarFIO  Prompt = "order_similar_fio"
	PromptCarInfo          Prompt = "car_info"
	PromptPhone            Prompt = "phone"
	PromptPhoneInvalid     Prompt = "phone_invalid"
	PromptTargetIdentifier Prompt = "target_identifier"
	PromptRemoveIdentifier Prompt = "remove_identifier"
	PromptCountry          Prompt = "country"
	PromptPhotos           Prompt = "photos"
	PromptNoPhotos         Prompt = "no_photos"
	PromptDescription      Prompt = "description"
)

var promptTexts = map[Prompt]string{
	PromptFIO:              "Пожалуйста, введите ваше ФИО",
	PromptOrderSimilarFIO:  "Решили заказать подобный авто? Отлично!\nПожалуйста, введите ваше ФИО",
	PromptCarInfo:          "Введите информацию о желаемом авто (Марка, модель, комплектация, год, бюджет)",
	PromptPhone:            "Пожалуйста, предоставьте ваш номер телефона",
	PromptPhoneInvalid:     "Неверный формат, введите номер телефона или нажмите кнопку ниже",
	PromptTargetIdentifier: "Введите Telegram ID или Username (без @) пользователя которого хотите назначить менеджером:",
	PromptRemoveIdentifier: "Введите Telegram ID или Username (без @) менеджера которого хотите удалить:",
	PromptCountry:          "Выберите страну для подборки:",
	PromptPhotos:           "Теперь отправьте фотографии автомобиля (по одной или альбомом). После отправки всех фото нажмите «Завершить отправку фото».",
	PromptNoPhotos:         "Вы не отправили ни одной фотографии! Отправьте фото или нажмите «Отменить».",
	PromptDescription:      "Фотографии получены. Теперь отправьте описание автомобиля:",
}

// Text возвращает текст вопроса.
func (p Prompt) Text() string {
	return promptTexts[p]
}
