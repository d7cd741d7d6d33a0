package session

import (
	"sync"

	"github.com/sirupsen/logrus"

	"tanukibot/internal/dialog"
)

// SessionManager хранит текущий диалог каждого пользователя.
// SessionManager keeps the in-flight conversation of every user.
type SessionManager struct {
	conversations map[int64]dialog.Conversation // Ключ: Telegram ID пользователя / Key: user Telegram ID
	mu            sync.RWMutex
}

// NewSessionManager создает и возвращает новый экземпляр SessionManager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		conversations: make(map[int64]dialog.Conversation),
	}
}

// Get возвращает диалог пользователя. Если диалога нет, возвращается пустой (неактивный).
// Get returns the user's conversation, or an idle one.
func (sm *SessionManager) Get(userID int64) dialog.Conversation {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.conversations[userID]
}

// Begin заменяет текущий диалог новым.
// Begin replaces any previous conversation.
func (sm *SessionManager) Begin(userID int64, conv dialog.Conversation) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if prev, ok := sm.conversations[userID]; ok && prev.Active() {
		logrus.WithFields(logrus.Fields{"user_id": userID, "flow": prev.Flow}).Debug("SessionManager.Begin: предыдущий диалог заменен")
	}
	sm.conversations[userID] = conv
}

// Update атомарно выполняет шаг диалога: чтение, переход и запись идут под
// одной блокировкой, поэтому параллельные сообщения одного пользователя не
// теряют изменений друг друга. Неактивный результат удаляется.
// Update applies fn to the user's conversation under the write lock.
func (sm *SessionManager) Update(userID int64, fn func(dialog.Conversation) (dialog.Conversation, []dialog.Effect)) []dialog.Effect {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	next, effects := fn(sm.conversations[userID])
	if !next.Active() {
		delete(sm.conversations, userID)
	} else {
		sm.conversations[userID] = next
	}
	return effects
}

// End завершает диалог пользователя.
// End discards the user's conversation.
func (sm *SessionManager) End(userID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.conversations, userID)
}

// ActiveCount - количество активных диалогов.
func (sm *SessionManager) ActiveCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.conversations)
}
