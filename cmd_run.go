package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tanukibot/internal/api"
	"tanukibot/internal/content"
	"tanukibot/internal/db"
	"tanukibot/internal/handlers"
	"tanukibot/internal/scheduler"
	"tanukibot/internal/session"
	"tanukibot/internal/telegram_api"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Запустить бота, HTTP API и планировщик",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context())
		},
	}
}

// runBot - основной режим работы. Ошибка БД не останавливает бота:
// он продолжает работу в деградированном режиме.
func runBot(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Блок инициализации ---
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := db.InitDB(storeOptions(cfg))
	if err != nil {
		logrus.WithError(err).Error("Не удалось инициализировать базу данных, бот работает без хранилища")
		store = &db.Store{}
	}
	defer store.Close()

	texts, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}

	bot, err := telegram_api.InitBot(cfg.TelegramToken, cfg.IsDev())
	if err != nil {
		return fmt.Errorf("не удалось инициализировать Telegram бота: %w", err)
	}
	if cfg.BotUsername == "" {
		cfg.BotUsername = bot.Username()
	}

	botHandler := handlers.NewBotHandler(handlers.HandlerDependencies{
		Config:         cfg,
		Messenger:      bot,
		Store:          store,
		SessionManager: session.NewSessionManager(),
		Content:        texts,
	})

	if store.Available() {
		sched, err := scheduler.New(store, cfg.PruneSchedule, cfg.ProtectedRetention)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	// Запускаем HTTP-сервер в отдельной горутине
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(api.ApiDependencies{Store: store, APIToken: cfg.APIToken}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithField("port", cfg.HTTPPort).Info("Запуск HTTP-сервера")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("HTTP-сервер остановлен с ошибкой")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("Ошибка остановки HTTP-сервера")
		}
	}()

	// Запуск самого бота
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := bot.GetUpdatesChan(u)
	if err != nil {
		return err
	}
	defer bot.StopReceivingUpdates()

	dispatcher := handlers.NewDispatcher()
	defer dispatcher.Wait()

	logrus.Info("Бот и API-сервер запущены и готовы к работе...")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("Получен сигнал остановки, завершаем работу")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			dispatchUpdate(dispatcher, botHandler, update)
		}
	}
}

// dispatchUpdate ставит обновление в очередь его автора: обновления одного
// пользователя обрабатываются по порядку, разных - параллельно.
func dispatchUpdate(d *handlers.Dispatcher, bh *handlers.BotHandler, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		d.Dispatch(updateAuthor(update), func() { bh.HandleMessage(update) })
	case update.CallbackQuery != nil:
		d.Dispatch(updateAuthor(update), func() { bh.HandleCallback(update) })
	}
}

// updateAuthor - ключ очереди: ID автора, иначе ID чата.
func updateAuthor(update tgbotapi.Update) int64 {
	if from := update.SentFrom(); from != nil {
		return from.ID
	}
	if chat := update.FromChat(); chat != nil {
		return chat.ID
	}
	return 0
}
