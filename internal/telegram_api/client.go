package telegram_api

import (
	"fmt"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/sirupsen/logrus"
)

// BotClient представляет собой обертку для Telegram Bot API.
// BotClient represents a wrapper for the Telegram Bot API.
type BotClient struct {
	api   *tgbotapi.BotAPI
	Debug bool
}

// InitBot инициализирует Telegram бота.
// token - API токен бота, debug - режим отладки tgbotapi.
// InitBot initializes the Telegram bot.
func InitBot(token string, debug bool) (*BotClient, error) {
	if token == "" {
		return nil, fmt.Errorf("токен Telegram API не предоставлен")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Telegram Bot API: %w", err)
	}
	api.Debug = debug

	logrus.Infof("Авторизован как аккаунт %s", api.Self.UserName)

	// Отключаем вебхук, если он активен (важно для getUpdates)
	// Disable webhook if active (important for getUpdates)
	deleteWebhookConfig := tgbotapi.DeleteWebhookConfig{DropPendingUpdates: false}
	if _, err := api.Request(deleteWebhookConfig); err != nil {
		logrus.WithError(err).Warn("Предупреждение при отключении вебхука. Это нормально, если вебхук не был установлен.")
	}

	return &BotClient{api: api, Debug: debug}, nil
}

// Username возвращает username бота без "@".
func (bc *BotClient) Username() string {
	if bc == nil || bc.api == nil {
		return ""
	}
	return bc.api.Self.UserName
}

// GetUpdatesChan возвращает канал обновлений от Telegram.
// GetUpdatesChan returns the update channel from Telegram.
func (bc *BotClient) GetUpdatesChan(config tgbotapi.UpdateConfig) (tgbotapi.UpdatesChannel, error) {
	if bc == nil || bc.api == nil {
		return nil, fmt.Errorf("BotClient или его API не инициализирован")
	}
	if bc.Debug {
		logrus.Debugf("Запрос канала обновлений с конфигурацией: %+v", config)
	}
	return bc.api.GetUpdatesChan(config), nil
}

// StopReceivingUpdates останавливает long polling.
func (bc *BotClient) StopReceivingUpdates() {
	if bc != nil && bc.api != nil {
		bc.api.StopReceivingUpdates()
	}
}

// Send отправляет сообщение через BotClient.
// Send sends a message via BotClient.
func (bc *BotClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if bc == nil || bc.api == nil {
		return tgbotapi.Message{}, fmt.Errorf("BotClient или его API не инициализирован")
	}
	if bc.Debug {
		switch msg := c.(type) {
		case tgbotapi.MessageConfig:
			logrus.Debugf("Отправка сообщения: ChatID=%d, Text='%.50s...'", msg.ChatID, msg.Text)
		case tgbotapi.PhotoConfig:
			logrus.Debugf("Отправка фото: ChatID=%d, Caption='%.50s...'", msg.ChatID, msg.Caption)
		default:
			logrus.Debugf("Отправка/запрос типа %T", c)
		}
	}
	return bc.api.Send(c)
}

// Request выполняет запрос через BotClient.
// Request performs a request via BotClient.
func (bc *BotClient) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if bc == nil || bc.api == nil {
		return nil, fmt.Errorf("BotClient или его API не инициализирован")
	}
	if bc.Debug {
		switch req := c.(type) {
		case tgbotapi.DeleteMessageConfig:
			logrus.Debugf("Запрос на удаление: ChatID=%d, MessageID=%d", req.ChatID, req.MessageID)
		case tgbotapi.DeleteMessagesConfig:
			logrus.Debugf("Запрос на удаление пачки: ChatID=%d, сообщений=%d", req.ChatID, len(req.MessageIDs))
		case tgbotapi.CallbackConfig:
			logrus.Debugf("Запрос ответа на коллбэк: CallbackQueryID=%s, Text='%.50s...'", req.CallbackQueryID, req.Text)
		default:
			logrus.Debugf("Выполнение запроса типа %T", c)
		}
	}
	return bc.api.Request(c)
}

// SendMediaGroup отправляет медиагруппу и возвращает отправленные сообщения.
// SendMediaGroup sends a media group via BotClient.
func (bc *BotClient) SendMediaGroup(cfg tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	if bc == nil || bc.api == nil {
		return nil, fmt.Errorf("BotClient или его API не инициализирован")
	}
	if bc.Debug {
		logrus.Debugf("Отправка медиагруппы: ChatID=%d, элементов=%d", cfg.ChatID, len(cfg.Media))
	}
	return bc.api.SendMediaGroup(cfg)
}
