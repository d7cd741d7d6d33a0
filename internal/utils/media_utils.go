// internal/utils/media_utils.go
package utils

import (
	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// LargestPhotoID возвращает file_id самого большого размера фотографии.
// Telegram присылает размеры по возрастанию.
func LargestPhotoID(sizes []tgbotapi.PhotoSize) string {
	if len(sizes) == 0 {
		return ""
	}
	return sizes[len(sizes)-1].FileID
}
