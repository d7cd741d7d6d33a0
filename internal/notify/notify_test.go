package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"tanukibot/internal/constants"
	"tanukibot/internal/db"
	"tanukibot/internal/models"
)

type fakeSender struct {
	mu      sync.Mutex
	nextID  int
	sent    map[int64][]string
	blocked map[int64]bool
}

func newFakeSender(blocked ...int64) *fakeSender {
	f := &fakeSender{nextID: 100, sent: map[int64][]string{}, blocked: map[int64]bool{}}
	for _, id := range blocked {
		f.blocked[id] = true
	}
	return f
}

func (f *fakeSender) SendText(chatID int64, text string, _ interface{}) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blocked[chatID] {
		return 0, errors.New("Forbidden: bot was blocked by the user")
	}
	f.nextID++
	f.sent[chatID] = append(f.sent[chatID], text)
	return f.nextID, nil
}

func newTestStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.InitDB(db.Options{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNotifyLead_FanOut(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for id, role := range map[int64]string{1: constants.ROLE_ADMIN, 2: constants.ROLE_MANAGER, 3: constants.ROLE_MANAGER, 4: constants.ROLE_USER} {
		if _, err := store.UpsertUser(ctx, id, "u", "", false); err != nil {
			t.Fatal(err)
		}
		if _, err := store.SetRole(ctx, id, role, ""); err != nil {
			t.Fatal(err)
		}
	}

	sender := newFakeSender(2)
	n := NewNotifier(sender, store)

	req := models.Request{ID: 9, FIO: "Иванов", CarInfo: "Honda", Phone: "89991234567"}
	owner := models.User{TelegramID: 4, Fullname: "Клиент"}
	res, err := n.NotifyLead(ctx, req, owner, false)
	if err != nil {
		t.Fatalf("NotifyLead: %v", err)
	}

	if res.Recipients != 3 || res.Delivered != 2 || res.Failed != 1 {
		t.Errorf("result = %+v, want 3 recipients, 2 delivered, 1 failed", res)
	}
	if len(sender.sent[1]) != 1 || len(sender.sent[3]) != 1 {
		t.Errorf("sent = %v, want exactly one notification per reachable staff member", sender.sent)
	}
	if len(sender.sent[4]) != 0 {
		t.Error("regular user received a staff notification")
	}
	if !strings.HasPrefix(sender.sent[1][0], "Новая заявка на расчет авто!") {
		t.Errorf("text = %q", sender.sent[1][0])
	}

	for _, chat := range []int64{1, 3} {
		ids, _ := store.ProtectedMessageIDs(ctx, chat, 0, 1000)
		if len(ids) != 1 {
			t.Errorf("chat %d protected = %v, want 1 marker", chat, ids)
		}
	}
	if ids, _ := store.ProtectedMessageIDs(ctx, 2, 0, 1000); len(ids) != 0 {
		t.Errorf("failed delivery was marked protected: %v", ids)
	}
}

func TestNotifyLead_StoreUnavailable(t *testing.T) {
	n := NewNotifier(newFakeSender(), &db.Store{})
	if _, err := n.NotifyLead(context.Background(), models.Request{}, models.User{}, true); !errors.Is(err, db.ErrStoreUnavailable) {
		t.Errorf("err = %v, want ErrStoreUnavailable", err)
	}
}

func TestNotifyLead_AllowListedAdmins(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// 10 попал в ADMIN_IDS после регистрации: сохраненная роль осталась user.
	if _, err := store.UpsertUser(ctx, 10, "Новый админ", "", false); err != nil {
		t.Fatal(err)
	}
	// 11 в списке и уже admin в БД.
	if _, err := store.UpsertUser(ctx, 11, "Админ", "", true); err != nil {
		t.Fatal(err)
	}
	if _, err := store.UpsertUser(ctx, 12, "Менеджер", "", false); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SetRole(ctx, 12, constants.ROLE_MANAGER, ""); err != nil {
		t.Fatal(err)
	}

	sender := newFakeSender()
	// 13 в списке, но без записи.
	n := NewNotifier(sender, store, 10, 11, 13)
	res, err := n.NotifyLead(ctx, models.Request{ID: 1, FIO: "Иванов"}, models.User{TelegramID: 99}, false)
	if err != nil {
		t.Fatalf("NotifyLead: %v", err)
	}

	if res.Recipients != 3 || res.Delivered != 3 {
		t.Errorf("result = %+v, want 3 recipients delivered", res)
	}
	for _, id := range []int64{10, 11, 12} {
		if got := len(sender.sent[id]); got != 1 {
			t.Errorf("chat %d got %d notifications, want 1", id, got)
		}
	}
	if len(sender.sent[13]) != 0 {
		t.Error("allow-listed id without a record was notified")
	}
}
