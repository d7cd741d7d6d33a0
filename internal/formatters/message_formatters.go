package formatters

import (
	"fmt"
	"strings"

	"tanukibot/internal/constants"
	"tanukibot/internal/models"
	"tanukibot/internal/utils"
)

const (
	LeadHeadline        = "Новая заявка на расчет авто!"
	SimilarLeadHeadline = "Новая заявка на подобный авто!"
)

// FormatLeadNotification форматирует уведомление персоналу о новой заявке.
// Пользователь указывается через @username, а если его нет - именем и ID.
func FormatLeadNotification(req models.Request, owner models.User, similar bool) string {
	headline := LeadHeadline
	if similar {
		headline = SimilarLeadHeadline
	}
	var b strings.Builder
	b.WriteString(headline)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("ФИО: %s\n", req.FIO))
	b.WriteString(fmt.Sprintf("Авто: %s\n", req.CarInfo))
	b.WriteString(fmt.Sprintf("Телефон: %s\n", req.Phone))
	b.WriteString(fmt.Sprintf("Пользователь: %s", utils.GetUserDisplayName(owner)))
	return b.String()
}

// FormatUsersList - список пользователей для панели администратора.
func FormatUsersList(users []models.User) string {
	if len(users) == 0 {
		return "Список пользователей пуст."
	}
	var b strings.Builder
	b.WriteString("Список пользователей:\n\n")
	for i, u := range users {
		b.WriteString(fmt.Sprintf("%d. Имя: %s | Ник: %s | Тел: %s | Дата: %s | Роль: %s\n",
			i+1, u.Fullname, orNone(u.Handle()), orNone(utils.FormatPhoneNumber(u.Phone.String)), u.JoinDate.Format("2006-01-02"), u.Role))
	}
	return b.String()
}

// FormatManagersList - список менеджеров перед удалением.
func FormatManagersList(managers []models.User) string {
	if len(managers) == 0 {
		return "Список менеджеров пуст."
	}
	var b strings.Builder
	b.WriteString("Список менеджеров:\n\n")
	for i, u := range managers {
		b.WriteString(fmt.Sprintf("%d. Имя: %s | Ник: %s | Тел: %s | ID: %d\n",
			i+1, u.Fullname, orNone(u.Handle()), orNone(utils.FormatPhoneNumber(u.Phone.String)), u.TelegramID))
	}
	return b.String()
}

// FormatCarCard - описание автомобиля под альбомом.
func FormatCarCard(car models.Car) string {
	country := constants.CountryDisplayMap[car.Country]
	if country == "" {
		country = car.Country
	}
	return fmt.Sprintf("%s\n\n%s", country, car.Description)
}

// FormatGreeting подставляет имя пользователя в приветствие.
func FormatGreeting(template, name string) string {
	if strings.TrimSpace(name) == "" {
		name = "друг"
	}
	return strings.ReplaceAll(template, "{name}", name)
}

func orNone(s string) string {
	if s == "" {
		return "Нет"
	}
	return s
}
