package telegram_api

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/sirupsen/logrus"
)

// ErrNotInitialized возвращается, если клиент не был создан через InitBot.
var ErrNotInitialized = errors.New("BotClient не инициализирован")

// maxAlbumSize - ограничение Telegram на количество элементов медиагруппы.
const maxAlbumSize = 10

func (bc *BotClient) ready() error {
	if bc == nil || bc.api == nil {
		return ErrNotInitialized
	}
	return nil
}

// SendText отправляет текстовое сообщение. markup - любая клавиатура или nil.
// Возвращает ID отправленного сообщения.
func (bc *BotClient) SendText(chatID int64, text string, markup interface{}) (int, error) {
	if err := bc.ready(); err != nil {
		return 0, err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := bc.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send text to %d: %w", chatID, err)
	}
	return sent.MessageID, nil
}

// SendPhoto отправляет фото (file_id, байты или путь) с подписью.
func (bc *BotClient) SendPhoto(chatID int64, photo tgbotapi.RequestFileData, caption string, markup interface{}) (int, error) {
	if err := bc.ready(); err != nil {
		return 0, err
	}
	msg := tgbotapi.NewPhoto(chatID, photo)
	msg.Caption = caption
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := bc.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send photo to %d: %w", chatID, err)
	}
	return sent.MessageID, nil
}

// SendAlbum отправляет фотографии по file_id медиагруппами по 10 штук.
// Подпись ставится на первое фото первой группы.
func (bc *BotClient) SendAlbum(chatID int64, fileIDs []string, caption string) ([]int, error) {
	if err := bc.ready(); err != nil {
		return nil, err
	}

	var ids []int
	for start := 0; start < len(fileIDs); start += maxAlbumSize {
		end := min(start+maxAlbumSize, len(fileIDs))
		chunkCaption := ""
		if start == 0 {
			chunkCaption = caption
		}
		if end-start == 1 {
			// Медиагруппа из одного элемента не принимается, отправляем обычным фото.
			id, err := bc.SendPhoto(chatID, tgbotapi.FileID(fileIDs[start]), chunkCaption, nil)
			if err != nil {
				return ids, err
			}
			ids = append(ids, id)
			continue
		}
		sent, err := bc.SendMediaGroup(newAlbum(chatID, fileIDs[start:end], chunkCaption))
		if err != nil {
			return ids, fmt.Errorf("send album to %d: %w", chatID, err)
		}
		for _, m := range sent {
			ids = append(ids, m.MessageID)
		}
	}
	return ids, nil
}

// newAlbum собирает медиагруппу из file_id; caption - подпись первого фото.
func newAlbum(chatID int64, fileIDs []string, caption string) tgbotapi.MediaGroupConfig {
	media := make([]tgbotapi.InputMedia, 0, len(fileIDs))
	for i, fileID := range fileIDs {
		photo := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(fileID))
		if i == 0 {
			photo.Caption = caption
		}
		media = append(media, &photo)
	}
	return tgbotapi.NewMediaGroup(chatID, media)
}

// SendDocument отправляет файл из памяти.
func (bc *BotClient) SendDocument(chatID int64, name string, data []byte, caption string) (int, error) {
	if err := bc.ready(); err != nil {
		return 0, err
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	sent, err := bc.Send(doc)
	if err != nil {
		return 0, fmt.Errorf("send document to %d: %w", chatID, err)
	}
	return sent.MessageID, nil
}

// AnswerCallback отвечает на нажатие inline-кнопки. alert - показать всплывающее окно.
func (bc *BotClient) AnswerCallback(callbackID, text string, alert bool) error {
	if err := bc.ready(); err != nil {
		return err
	}
	cfg := tgbotapi.NewCallback(callbackID, text)
	if alert {
		cfg = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}
	if _, err := bc.Request(cfg); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// DeleteMessage удаляет одно сообщение.
func (bc *BotClient) DeleteMessage(chatID int64, messageID int) error {
	if err := bc.ready(); err != nil {
		return err
	}
	if messageID <= 0 {
		return nil
	}
	if _, err := bc.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		if isExpectedDeleteError(err) {
			logrus.WithFields(logrus.Fields{"chat_id": chatID, "message_id": messageID}).Debugf("DeleteMessage: %v", err)
		}
		return fmt.Errorf("delete message %d/%d: %w", chatID, messageID, err)
	}
	return nil
}

// DeleteMessages удаляет пачку сообщений одним запросом deleteMessages.
// Запрос выполняется целиком: если хотя бы одно сообщение не может быть удалено,
// Telegram возвращает ошибку для всей пачки.
func (bc *BotClient) DeleteMessages(chatID int64, messageIDs []int) error {
	if err := bc.ready(); err != nil {
		return err
	}
	if len(messageIDs) == 0 {
		return nil
	}
	if _, err := bc.Request(tgbotapi.NewDeleteMessages(chatID, messageIDs)); err != nil {
		return fmt.Errorf("bulk delete in %d: %w", chatID, err)
	}
	return nil
}

// isExpectedDeleteError - сообщение уже удалено или слишком старое.
func isExpectedDeleteError(err error) bool {
	s := err.Error()
	return strings.Contains(s, "message to delete not found") ||
		strings.Contains(s, "message can't be deleted") ||
		strings.Contains(s, "MESSAGE_ID_INVALID")
}
