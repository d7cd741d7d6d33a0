package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// phoneRegex: +7/7/8 и 10 цифр, либо 10 цифр, начиная с 9.
// phoneRegex accepts +7/7/8 followed by 10 digits, or a bare 10-digit number starting with 9.
var phoneRegex = regexp.MustCompile(`^(?:\+7|7|8)\d{10}$|^9\d{9}$`)

// IsValidPhone проверяет номер, введенный текстом. Пробелы по краям игнорируются,
// внутренние пробелы и скобки не допускаются.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(strings.TrimSpace(phone))
}

// ParseIdentifier разбирает идентификатор пользователя, введенный персоналом:
// числовой Telegram ID или username (с "@" или без).
// Возвращает id и ok=true для числа, иначе username без "@".
func ParseIdentifier(raw string) (id int64, username string, ok bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "@")
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, "", true
	}
	return 0, s, false
}
