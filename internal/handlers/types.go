package handlers

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/sirupsen/logrus"

	"tanukibot/internal/auth"
	"tanukibot/internal/cleanup"
	"tanukibot/internal/config"
	"tanukibot/internal/content"
	"tanukibot/internal/db"
	"tanukibot/internal/models"
	"tanukibot/internal/notify"
	"tanukibot/internal/session"
)

// Messenger - операции транспорта, которые используют обработчики.
// Реализуется telegram_api.BotClient.
type Messenger interface {
	SendText(chatID int64, text string, markup interface{}) (int, error)
	SendPhoto(chatID int64, photo tgbotapi.RequestFileData, caption string, markup interface{}) (int, error)
	SendAlbum(chatID int64, fileIDs []string, caption string) ([]int, error)
	SendDocument(chatID int64, name string, data []byte, caption string) (int, error)
	AnswerCallback(callbackID, text string, alert bool) error
	DeleteMessage(chatID int64, messageID int) error
	DeleteMessages(chatID int64, messageIDs []int) error
}

// HandlerDependencies содержит все зависимости, необходимые для обработчиков.
// HandlerDependencies contains all dependencies required for handlers.
type HandlerDependencies struct {
	Config         *config.Config
	Messenger      Messenger
	Store          *db.Store
	SessionManager *session.SessionManager
	Authorizer     *auth.Authorizer
	Notifier       *notify.Notifier
	Cleaner        *cleanup.Cleaner
	Content        *content.Content
}

// BotHandler инкапсулирует логику обработки сообщений и коллбэков.
// BotHandler encapsulates the logic for handling messages and callbacks.
type BotHandler struct {
	Deps HandlerDependencies
}

// NewBotHandler создает новый экземпляр BotHandler. Authorizer, Notifier,
// Cleaner и Content создаются по умолчанию, если не переданы.
func NewBotHandler(deps HandlerDependencies) *BotHandler {
	if deps.Config == nil || deps.Messenger == nil || deps.Store == nil || deps.SessionManager == nil {
		panic("Не все зависимости для BotHandler были предоставлены.")
	}
	if deps.Authorizer == nil {
		deps.Authorizer = auth.NewAuthorizer(deps.Store, deps.Config.IsAdmin)
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewNotifier(deps.Messenger, deps.Store, deps.Config.AdminIDs...)
	}
	if deps.Cleaner == nil {
		deps.Cleaner = cleanup.NewCleaner(deps.Messenger, deps.Store)
	}
	if deps.Content == nil {
		deps.Content = content.Default()
	}
	return &BotHandler{Deps: deps}
}

// sender - автор входящего события.
type sender struct {
	ID        int64
	FirstName string
	LastName  string
	UserName  string
}

func (s sender) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	if s.FirstName == "" {
		return s.LastName
	}
	return s.FirstName + " " + s.LastName
}

// inbound - входящее сообщение без привязки к структурам tgbotapi.
type inbound struct {
	ChatID       int64
	MessageID    int
	From         sender
	Text         string
	PhotoID      string
	ContactPhone string
	HasContact   bool
}

// callbackQuery - нажатие inline-кнопки.
type callbackQuery struct {
	ID        string
	ChatID    int64
	MessageID int
	From      sender
	Data      string
}

// actor - пользователь, от имени которого выполняется действие.
type actor struct {
	ChatID int64
	User   models.User
	Role   auth.Role
}

func (a actor) log() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{"chat_id": a.ChatID, "user_id": a.User.TelegramID, "role": a.Role})
}

func senderFromTG(u *tgbotapi.User) sender {
	if u == nil {
		return sender{}
	}
	return sender{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, UserName: u.UserName}
}

// handlerTimeout ограничивает обработку одного обновления.
const handlerTimeout = 30 * time.Second

func newHandlerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}

// loadActor возвращает пользователя и его роль. found=false, если пользователя нет в БД.
func (bh *BotHandler) loadActor(ctx context.Context, chatID, userID int64) (actor, bool, error) {
	user, err := bh.Deps.Store.GetUserByTelegramID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return actor{}, false, nil
		}
		return actor{}, false, err
	}
	role, err := bh.Deps.Authorizer.Classify(ctx, userID)
	if err != nil {
		return actor{}, false, err
	}
	return actor{ChatID: chatID, User: user, Role: role}, true, nil
}
