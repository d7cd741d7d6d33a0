package handlers

import (
	"context"
	"errors"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"tanukibot/internal/constants"
	"tanukibot/internal/db"
	"tanukibot/internal/formatters"
	"tanukibot/internal/utils"
)

// sendCatalogCountries - выбор страны подборки.
func (bh *BotHandler) sendCatalogCountries(a actor) {
	bh.sendMessage(a.ChatID, "Выберите страну подборки:", countryKeyboard(constants.CALLBACK_PREFIX_CARS))
}

// sendCatalog показывает все автомобили страны: альбом фотографий, затем
// описание с кнопками действий.
func (bh *BotHandler) sendCatalog(ctx context.Context, a actor, country string) {
	log := a.log().WithField("country", country)
	if !lo.Contains(constants.Countries, country) {
		log.Warn("sendCatalog: неизвестная страна")
		return
	}
	cars, err := bh.Deps.Store.ListCarsByCountry(ctx, country)
	if err != nil {
		log.WithError(err).Error("sendCatalog: ошибка чтения подборки")
		bh.sendMessage(a.ChatID, textGenericError, nil)
		return
	}
	if len(cars) == 0 {
		bh.sendMessage(a.ChatID, textNoCarsInRegion, notFoundCarKeyboard())
		return
	}

	staff := a.Role.IsStaff()
	for _, car := range cars {
		if photos := car.Photos(); len(photos) > 0 {
			if _, err := bh.Deps.Messenger.SendAlbum(a.ChatID, photos, ""); err != nil {
				log.WithError(err).WithField("car_id", car.ID).Warn("sendCatalog: не удалось отправить альбом")
			}
		}
		bh.sendMessage(a.ChatID, formatters.FormatCarCard(car), carActionKeyboard(car.ID, staff))
	}
	log.WithField("cars", len(cars)).Debug("sendCatalog: подборка отправлена")
}

// handleDeleteCar удаляет автомобиль из подборки. Только для персонала.
func (bh *BotHandler) handleDeleteCar(ctx context.Context, a actor, q callbackQuery, carID int64) {
	if !bh.Deps.Authorizer.CanManageCatalog(a.Role) {
		bh.answerCallback(q, textNoRights, true)
		return
	}
	bh.answerCallback(q, "", false)

	deleted, err := bh.Deps.Store.DeleteCar(ctx, carID)
	switch {
	case err != nil:
		a.log().WithError(err).WithField("car_id", carID).Error("handleDeleteCar: ошибка удаления")
		bh.sendMessage(a.ChatID, "Во время удаления произошла ошибка.", nil)
	case !deleted:
		bh.sendMessage(a.ChatID, "Автомобиль не найден или уже был удален.", nil)
	default:
		a.log().WithField("car_id", carID).Info("Автомобиль удален из подборки")
		bh.sendMessage(a.ChatID, "Автомобиль успешно удален.", nil)
	}
}

// handleCarQR отправляет персоналу QR-код со ссылкой на автомобиль.
func (bh *BotHandler) handleCarQR(ctx context.Context, a actor, q callbackQuery, carID int64) {
	if !bh.Deps.Authorizer.CanManageCatalog(a.Role) {
		bh.answerCallback(q, textNoRights, true)
		return
	}
	if _, err := bh.Deps.Store.GetCar(ctx, carID); err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			a.log().WithError(err).WithField("car_id", carID).Error("handleCarQR: ошибка чтения автомобиля")
		}
		bh.answerCallback(q, textCarNotFound, true)
		return
	}
	png, err := utils.CarQRCode(bh.Deps.Config.BotUsername, carID)
	if err != nil {
		a.log().WithError(err).WithField("car_id", carID).Warn("handleCarQR: QR-код не создан")
		bh.answerCallback(q, "Не удалось создать QR-код", true)
		return
	}
	bh.answerCallback(q, "", false)

	link, _ := utils.CarDeepLink(bh.Deps.Config.BotUsername, carID)
	photo := tgbotapi.FileBytes{Name: "car_" + itoa(carID) + ".png", Bytes: png}
	if _, err := bh.Deps.Messenger.SendPhoto(a.ChatID, photo, link, nil); err != nil {
		logrus.WithError(err).WithField("chat_id", a.ChatID).Warn("handleCarQR: не удалось отправить QR-код")
	}
}
