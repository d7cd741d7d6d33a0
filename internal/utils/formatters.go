// Файл: internal/utils/formatters.go

package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"tanukibot/internal/constants"
	"tanukibot/internal/models"
)

var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

// FormatPhoneNumber форматирует номер телефона для отображения.
func FormatPhoneNumber(phone string) string {
	cleanedPhone := nonPhoneChars.ReplaceAllString(phone, "")

	if strings.HasPrefix(cleanedPhone, "+7") && len(cleanedPhone) == 12 {
		return fmt.Sprintf("+7 (%s) %s-%s-%s", cleanedPhone[2:5], cleanedPhone[5:8], cleanedPhone[8:10], cleanedPhone[10:12])
	}
	if len(cleanedPhone) == 11 && (cleanedPhone[0] == '8' || cleanedPhone[0] == '7') {
		return fmt.Sprintf("+7 (%s) %s-%s-%s", cleanedPhone[1:4], cleanedPhone[4:7], cleanedPhone[7:9], cleanedPhone[9:11])
	}
	if len(cleanedPhone) == 10 {
		return fmt.Sprintf("+7 (%s) %s-%s-%s", cleanedPhone[0:3], cleanedPhone[3:6], cleanedPhone[6:8], cleanedPhone[8:10])
	}
	return phone
}

// GetRoleDisplayName возвращает название роли на русском.
func GetRoleDisplayName(roleKey string) string {
	switch roleKey {
	case constants.ROLE_ADMIN:
		return "Администратор"
	case constants.ROLE_MANAGER:
		return "Менеджер"
	case constants.ROLE_USER:
		return "Пользователь"
	default:
		return "Гость"
	}
}

// GenerateUUID генерирует новый UUID (идентификатор HTTP-запроса).
func GenerateUUID() string {
	return uuid.New().String()
}

// GetUserDisplayName формирует отображаемое имя пользователя: "@handle", иначе "Имя (ID)".
func GetUserDisplayName(user models.User) string {
	if h := user.Handle(); h != "" {
		return h
	}
	name := strings.TrimSpace(user.Fullname)
	if name == "" {
		return fmt.Sprintf("User %d", user.TelegramID)
	}
	return fmt.Sprintf("%s (%d)", name, user.TelegramID)
}
