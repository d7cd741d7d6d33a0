package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"

	"tanukibot/internal/constants"
)

// CarDeepLink генерирует ссылку, открывающую бота сразу в заказе подобного авто.
func CarDeepLink(botUsername string, carID int64) (string, error) {
	if botUsername == "" {
		return "", fmt.Errorf("имя пользователя бота не настроено")
	}
	if carID <= 0 {
		return "", fmt.Errorf("невалидный ID автомобиля: %d", carID)
	}
	return fmt.Sprintf("https://t.me/%s?start=%s%d", botUsername, constants.START_PAYLOAD_CAR_PREFIX, carID), nil
}

// CarQRCode генерирует PNG QR-код для ссылки на автомобиль.
func CarQRCode(botUsername string, carID int64) ([]byte, error) {
	link, err := CarDeepLink(botUsername, carID)
	if err != nil {
		return nil, err
	}

	// qrcode.Medium - уровень коррекции ошибок, 256 - размер QR-кода в пикселях.
	qrBytes, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		logrus.WithError(err).WithField("link", link).Error("CarQRCode: ошибка кодирования QR-кода")
		return nil, err
	}
	return qrBytes, nil
}

// ParseCarPayload извлекает id автомобиля из параметра /start вида "car_<id>".
func ParseCarPayload(payload string) (int64, bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(payload), constants.START_PAYLOAD_CAR_PREFIX)
	if !found {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
