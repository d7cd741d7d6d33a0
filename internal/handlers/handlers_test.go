package handlers

import (
	"context"
	"strings"
	"sync"
	"testing"
	"unicode/utf16"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"tanukibot/internal/config"
	"tanukibot/internal/constants"
	"tanukibot/internal/db"
	"tanukibot/internal/dialog"
	"tanukibot/internal/formatters"
	"tanukibot/internal/session"
)

type sentMessage struct {
	ChatID int64
	Text   string
	Markup interface{}
}

type answer struct {
	Text  string
	Alert bool
}

// fakeMessenger записывает все исходящие вызовы.
type fakeMessenger struct {
	mu        sync.Mutex
	nextID    int
	texts     []sentMessage
	photos    []sentMessage
	albums    map[int64][][]string
	documents []string
	answers   []answer
	deleted   []int
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextID: 1000, albums: map[int64][][]string{}}
}

func (f *fakeMessenger) id() int {
	f.nextID++
	return f.nextID
}

func (f *fakeMessenger) SendText(chatID int64, text string, markup interface{}) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, sentMessage{ChatID: chatID, Text: text, Markup: markup})
	return f.id(), nil
}

func (f *fakeMessenger) SendPhoto(chatID int64, _ tgbotapi.RequestFileData, caption string, markup interface{}) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = append(f.photos, sentMessage{ChatID: chatID, Text: caption, Markup: markup})
	return f.id(), nil
}

func (f *fakeMessenger) SendAlbum(chatID int64, fileIDs []string, _ string) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.albums[chatID] = append(f.albums[chatID], fileIDs)
	ids := make([]int, len(fileIDs))
	for i := range ids {
		ids[i] = f.id()
	}
	return ids, nil
}

func (f *fakeMessenger) SendDocument(_ int64, name string, _ []byte, _ string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents = append(f.documents, name)
	return f.id(), nil
}

func (f *fakeMessenger) AnswerCallback(_ string, text string, alert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, answer{Text: text, Alert: alert})
	return nil
}

func (f *fakeMessenger) DeleteMessage(_ int64, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeMessenger) DeleteMessages(_ int64, ids []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeMessenger) textsTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.texts {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeMessenger) lastText(chatID int64) string {
	texts := f.textsTo(chatID)
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (f *fakeMessenger) lastAnswer() answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.answers) == 0 {
		return answer{}
	}
	return f.answers[len(f.answers)-1]
}

const (
	adminID   int64 = 1
	managerID int64 = 2
	clientID  int64 = 3
)

type testEnv struct {
	bh    *BotHandler
	msg   *fakeMessenger
	store *db.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := db.InitDB(db.Options{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{AdminIDs: []int64{adminID}, BotUsername: "tanuki_test_bot"}
	msg := newFakeMessenger()
	bh := NewBotHandler(HandlerDependencies{
		Config:         cfg,
		Messenger:      msg,
		Store:          store,
		SessionManager: session.NewSessionManager(),
	})
	return &testEnv{bh: bh, msg: msg, store: store}
}

func (e *testEnv) register(t *testing.T, id int64, name, handle string) {
	t.Helper()
	if _, err := e.store.UpsertUser(context.Background(), id, name, handle, e.bh.Deps.Config.IsAdmin(id)); err != nil {
		t.Fatalf("UpsertUser(%d): %v", id, err)
	}
}

func (e *testEnv) text(id int64, text string) {
	e.bh.handleInbound(context.Background(), inbound{ChatID: id, MessageID: 10, From: sender{ID: id, FirstName: "Tester"}, Text: text})
}

func (e *testEnv) photo(id int64, fileID string) {
	e.bh.handleInbound(context.Background(), inbound{ChatID: id, MessageID: 11, From: sender{ID: id}, PhotoID: fileID})
}

func (e *testEnv) contact(id int64, phone string) {
	e.bh.handleInbound(context.Background(), inbound{ChatID: id, MessageID: 12, From: sender{ID: id}, HasContact: true, ContactPhone: phone})
}

func (e *testEnv) press(id int64, data string) {
	e.bh.handleCallbackData(context.Background(), callbackQuery{ID: "cb", ChatID: id, MessageID: 20, From: sender{ID: id}, Data: data})
}

func TestUnknownUserAskedToStart(t *testing.T) {
	e := newTestEnv(t)
	e.text(clientID, constants.BTN_FAQ)
	if got := e.msg.lastText(clientID); got != textAskStart {
		t.Errorf("reply = %q, want /start prompt", got)
	}
}

func TestStartRegistersAndGreets(t *testing.T) {
	e := newTestEnv(t)
	e.bh.handleInbound(context.Background(), inbound{
		ChatID: clientID, MessageID: 5,
		From: sender{ID: clientID, FirstName: "Иван", UserName: "ivan"},
		Text: "/start",
	})

	u, err := e.store.GetUserByTelegramID(context.Background(), clientID)
	if err != nil {
		t.Fatalf("user not registered: %v", err)
	}
	if u.Fullname != "Иван" {
		t.Errorf("fullname = %q", u.Fullname)
	}
	texts := e.msg.textsTo(clientID)
	if len(texts) != 2 || !strings.Contains(texts[0], "Иван") || texts[1] != textChooseAction {
		t.Errorf("texts = %q, want greeting and menu", texts)
	}
}

func TestLeadEndToEnd(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.register(t, adminID, "Admin", "boss")
	e.register(t, managerID, "Manager", "mgr")
	e.register(t, clientID, "Client", "client")
	if _, err := e.store.SetRole(ctx, managerID, constants.ROLE_MANAGER, ""); err != nil {
		t.Fatal(err)
	}

	e.text(clientID, constants.BTN_CALC_COST)
	if got := e.msg.lastText(clientID); got != dialog.PromptFIO.Text() {
		t.Fatalf("prompt = %q, want FIO", got)
	}
	e.text(clientID, "Иванов Иван")
	e.text(clientID, "Toyota Prius 2018, до 1.5 млн")
	e.text(clientID, "12345")
	if got := e.msg.lastText(clientID); got != dialog.PromptPhoneInvalid.Text() {
		t.Fatalf("prompt = %q, want invalid phone", got)
	}
	e.text(clientID, "+79991234567")

	if got := e.msg.lastText(clientID); got != textLeadThanks {
		t.Errorf("reply = %q, want thanks", got)
	}
	if n, _ := e.store.CountLeads(ctx, clientID); n != 1 {
		t.Errorf("leads = %d, want 1", n)
	}
	for _, staff := range []int64{adminID, managerID} {
		texts := e.msg.textsTo(staff)
		if len(texts) != 1 || !strings.HasPrefix(texts[0], "Новая заявка на расчет авто!") {
			t.Errorf("staff %d notifications = %q", staff, texts)
		}
	}
	if e.bh.Deps.SessionManager.Get(clientID).Active() {
		t.Error("conversation still active after submit")
	}
}

func TestLeadWithContact(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, clientID, "Client", "")

	e.text(clientID, constants.BTN_CALC_COST)
	e.text(clientID, "ФИО")
	e.text(clientID, "Авто")
	e.contact(clientID, "not-a-valid-number")

	if n, _ := e.store.CountLeads(context.Background(), clientID); n != 1 {
		t.Errorf("leads = %d, want 1 (contact bypasses validation)", n)
	}
}

func TestCancelDiscardsConversation(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, clientID, "Client", "")

	e.text(clientID, constants.BTN_CALC_COST)
	e.text(clientID, "ФИО")
	e.text(clientID, constants.BTN_CANCEL)

	if got := e.msg.lastText(clientID); got != textCancelled {
		t.Errorf("reply = %q, want cancelled", got)
	}
	if e.bh.Deps.SessionManager.Get(clientID).Active() {
		t.Error("conversation survived cancel")
	}
	if n, _ := e.store.CountLeads(context.Background(), clientID); n != 0 {
		t.Errorf("leads = %d, want 0", n)
	}
}

func TestOrderSimilarUnknownCar(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, clientID, "Client", "")

	e.press(clientID, constants.CALLBACK_PREFIX_ORDER_SIMILAR+"999")

	if got := e.msg.lastAnswer(); got.Text != textCarNotFound || !got.Alert {
		t.Errorf("answer = %+v, want not-found alert", got)
	}
	if e.bh.Deps.SessionManager.Get(clientID).Active() {
		t.Error("conversation started for unknown car")
	}
}

func TestOrderSimilarFlow(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.register(t, adminID, "Admin", "")
	e.register(t, clientID, "Client", "")
	car, err := e.store.AddCar(ctx, constants.COUNTRY_KOREA, "Kia K5 2021", []string{"p1"})
	if err != nil {
		t.Fatal(err)
	}

	e.press(clientID, constants.CALLBACK_PREFIX_ORDER_SIMILAR+itoa(car.ID))
	e.text(clientID, "Петров Петр")
	e.text(clientID, "89991234567")

	leads, _ := e.store.ListLeads(ctx, 10)
	if len(leads) != 1 || leads[0].CarInfo != constants.OrderSimilarPrefix+"Kia K5 2021" {
		t.Fatalf("leads = %+v", leads)
	}
	if got := e.msg.textsTo(adminID); len(got) != 1 || !strings.HasPrefix(got[0], "Новая заявка на подобный авто!") {
		t.Errorf("admin notifications = %q", got)
	}
}

func TestCarIntake(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.register(t, managerID, "Manager", "")
	if _, err := e.store.SetRole(ctx, managerID, constants.ROLE_MANAGER, ""); err != nil {
		t.Fatal(err)
	}

	e.press(managerID, constants.CALLBACK_ADMIN_ADD_CAR)
	e.text(managerID, "Япония")
	if got := e.msg.lastText(managerID); got != dialog.PromptCountry.Text() {
		t.Fatalf("text in country step: reply = %q", got)
	}
	e.press(managerID, constants.CALLBACK_PREFIX_ADD_CAR+constants.COUNTRY_JAPAN)
	e.text(managerID, constants.BTN_FINISH_PHOTOS)
	if got := e.msg.lastText(managerID); got != dialog.PromptNoPhotos.Text() {
		t.Fatalf("finish with no photos: reply = %q", got)
	}
	e.photo(managerID, "a")
	e.photo(managerID, "b")
	e.text(managerID, constants.BTN_FINISH_PHOTOS)
	e.text(managerID, "Honda Fit 2019\nПробег 40 000 км")

	cars, err := e.store.ListCarsByCountry(ctx, constants.COUNTRY_JAPAN)
	if err != nil || len(cars) != 1 {
		t.Fatalf("cars = %v, %v", cars, err)
	}
	photos := cars[0].Photos()
	if len(photos) != 2 || photos[0] != "a" || photos[1] != "b" {
		t.Errorf("photos = %v, want [a b]", photos)
	}
	if cars[0].Description != "Honda Fit 2019\nПробег 40 000 км" {
		t.Errorf("description = %q", cars[0].Description)
	}
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.register(t, clientID, "Client", "")

	e.press(clientID, constants.CALLBACK_PREFIX_CARS+constants.COUNTRY_CHINA)
	if got := e.msg.lastText(clientID); got != textNoCarsInRegion {
		t.Errorf("empty catalog reply = %q", got)
	}

	if _, err := e.store.AddCar(ctx, constants.COUNTRY_CHINA, "BYD Han", []string{"x", "y"}); err != nil {
		t.Fatal(err)
	}
	e.press(clientID, constants.CALLBACK_PREFIX_CARS+constants.COUNTRY_CHINA)
	e.msg.mu.Lock()
	albums := e.msg.albums[clientID]
	e.msg.mu.Unlock()
	if len(albums) != 1 || len(albums[0]) != 2 {
		t.Errorf("albums = %v", albums)
	}
	if got := e.msg.lastText(clientID); !strings.HasSuffix(got, "BYD Han") {
		t.Errorf("card = %q", got)
	}
}

func TestGating(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.register(t, clientID, "Client", "")
	e.register(t, managerID, "Manager", "")
	if _, err := e.store.SetRole(ctx, managerID, constants.ROLE_MANAGER, ""); err != nil {
		t.Fatal(err)
	}

	e.text(clientID, constants.BTN_ADMIN_PANEL)
	if got := e.msg.lastText(clientID); got != textNoAccess {
		t.Errorf("user panel reply = %q", got)
	}

	e.press(clientID, constants.CALLBACK_PREFIX_DELETE_CAR+"1")
	if got := e.msg.lastAnswer(); got.Text != textNoRights || !got.Alert {
		t.Errorf("user delete answer = %+v", got)
	}

	e.press(managerID, constants.CALLBACK_ADMIN_REMOVE_MANAGER)
	if got := e.msg.lastAnswer(); got.Text != textNoAccess || !got.Alert {
		t.Errorf("manager remove answer = %+v", got)
	}
	if e.bh.Deps.SessionManager.Get(managerID).Active() {
		t.Error("manager started removal flow")
	}
}

func TestAssignAndRemoveManager(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.register(t, adminID, "Admin", "")
	e.register(t, clientID, "Client", "client")

	e.press(adminID, constants.CALLBACK_ADMIN_ASSIGN_MANAGER)
	e.text(adminID, "@client")
	if got := e.msg.lastText(adminID); got != "Пользователь @client успешно назначен менеджером!" {
		t.Errorf("assign reply = %q", got)
	}
	if u, _ := e.store.GetUserByTelegramID(ctx, clientID); u.Role != constants.ROLE_MANAGER {
		t.Errorf("role = %q, want manager", u.Role)
	}

	e.press(adminID, constants.CALLBACK_ADMIN_REMOVE_MANAGER)
	if got := e.msg.lastText(adminID); !strings.Contains(got, "Список менеджеров") || !strings.Contains(got, dialog.PromptRemoveIdentifier.Text()) {
		t.Errorf("remove prompt = %q", got)
	}
	e.text(adminID, itoa(clientID))
	if u, _ := e.store.GetUserByTelegramID(ctx, clientID); u.Role != constants.ROLE_USER {
		t.Errorf("role = %q, want user", u.Role)
	}

	e.press(adminID, constants.CALLBACK_ADMIN_REMOVE_MANAGER)
	if got := e.msg.lastText(adminID); got != "Список менеджеров пуст." {
		t.Errorf("empty list reply = %q", got)
	}
	if e.bh.Deps.SessionManager.Get(adminID).Active() {
		t.Error("removal flow started with no managers")
	}
}

func TestExportLeads(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, adminID, "Admin", "")

	e.press(adminID, constants.CALLBACK_ADMIN_EXPORT_LEADS)

	e.msg.mu.Lock()
	defer e.msg.mu.Unlock()
	if len(e.msg.documents) != 1 || !strings.HasSuffix(e.msg.documents[0], ".xlsx") {
		t.Errorf("documents = %v", e.msg.documents)
	}
}

func TestParseResetCommand(t *testing.T) {
	tests := []struct {
		in      string
		cmd     string
		payload string
		ok      bool
	}{
		{"/start", "/start", "", true},
		{"/start car_12", "/start", "car_12", true},
		{"/clear@tanuki_bot", "/clear", "", true},
		{"/help", "", "", false},
		{"start", "", "", false},
	}
	for _, tt := range tests {
		cmd, payload, ok := parseResetCommand(tt.in)
		if cmd != tt.cmd || payload != tt.payload || ok != tt.ok {
			t.Errorf("parseResetCommand(%q) = %q, %q, %v", tt.in, cmd, payload, ok)
		}
	}
}

func TestRemoveAllowListedAdminIsProtected(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.register(t, adminID, "Admin", "boss")
	e.register(t, managerID, "Manager", "")
	if _, err := e.store.SetRole(ctx, managerID, constants.ROLE_MANAGER, ""); err != nil {
		t.Fatal(err)
	}

	e.press(adminID, constants.CALLBACK_ADMIN_REMOVE_MANAGER)
	e.text(adminID, "boss")

	if got := e.msg.lastText(adminID); !strings.Contains(got, "не изменяется") {
		t.Errorf("reply = %q, want protected outcome", got)
	}
	if u, _ := e.store.GetUserByTelegramID(ctx, adminID); u.Role != constants.ROLE_ADMIN {
		t.Errorf("role = %q, want admin kept", u.Role)
	}
}

func TestCarIntakeAlbumKeepsDeliveryOrder(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.register(t, managerID, "Manager", "")
	if _, err := e.store.SetRole(ctx, managerID, constants.ROLE_MANAGER, ""); err != nil {
		t.Fatal(err)
	}
	e.press(managerID, constants.CALLBACK_ADMIN_ADD_CAR)
	e.press(managerID, constants.CALLBACK_PREFIX_ADD_CAR+constants.COUNTRY_CHINA)

	d := NewDispatcher()
	var want []string
	for i := 0; i < 10; i++ {
		fileID := "p" + itoa(int64(i))
		want = append(want, fileID)
		d.Dispatch(managerID, func() { e.photo(managerID, fileID) })
	}
	d.Dispatch(managerID, func() { e.text(managerID, constants.BTN_FINISH_PHOTOS) })
	d.Dispatch(managerID, func() { e.text(managerID, "Geely Monjaro 2024") })
	d.Wait()

	if d.Pending() != 0 {
		t.Errorf("pending queues = %d", d.Pending())
	}
	cars, err := e.store.ListCarsByCountry(ctx, constants.COUNTRY_CHINA)
	if err != nil || len(cars) != 1 {
		t.Fatalf("cars = %v, %v", cars, err)
	}
	if got := cars[0].Photos(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("photos = %v, want %v", got, want)
	}
}

func TestDispatcherRunsUsersIndependently(t *testing.T) {
	d := NewDispatcher()
	var mu sync.Mutex
	order := map[int64][]int{}
	for i := 0; i < 20; i++ {
		for _, user := range []int64{1, 2, 3} {
			user, n := user, i
			d.Dispatch(user, func() {
				mu.Lock()
				order[user] = append(order[user], n)
				mu.Unlock()
			})
		}
	}
	d.Wait()

	for user, got := range order {
		if len(got) != 20 {
			t.Fatalf("user %d ran %d jobs, want 20", user, len(got))
		}
		for i, n := range got {
			if n != i {
				t.Fatalf("user %d order = %v", user, got)
			}
		}
	}
}

func TestUsersListSplitIntoMessages(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, adminID, "Admin", "boss")
	for i := int64(0); i < 60; i++ {
		e.register(t, 100+i, "Александр Константинов", "user_name_"+itoa(i))
	}
	if err := e.store.DB.Exec("UPDATE users SET phone = ?", "+79991234567").Error; err != nil {
		t.Fatal(err)
	}

	e.press(adminID, constants.CALLBACK_ADMIN_USERS)

	texts := e.msg.textsTo(adminID)
	if len(texts) < 2 {
		t.Fatalf("messages = %d, want the list split into several", len(texts))
	}
	joined := strings.Join(texts, "")
	for i, text := range texts {
		if n := len(utf16.Encode([]rune(text))); n > formatters.MaxMessageLength {
			t.Errorf("message %d has %d UTF-16 units", i, n)
		}
	}
	if !strings.HasPrefix(joined, "Список пользователей:") || strings.Count(joined, "Имя: Александр Константинов") != constants.USERS_LIST_LIMIT {
		t.Errorf("list content lost across messages:\n%s", joined)
	}
}
