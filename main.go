package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tanukibot/internal/config"
	"tanukibot/internal/db"
)

// Версия задается через ldflags при сборке.
var (
	Version = "dev"
	Commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tanukibot",
		Short:         "Тануки Авто - Telegram-бот для заявок на авто из Азии",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context())
		},
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newExportLeadsCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Вывести версию",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tanukibot %s (commit: %s)\n", Version, Commit)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Создать или обновить схему БД и выйти",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := db.InitDB(storeOptions(cfg))
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "Схема базы данных обновлена.")
			return nil
		},
	}
}

// loadConfig читает .env (если есть), окружение и настраивает логирование.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("Файл .env не найден, используются переменные окружения.")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	setupLogging(cfg)
	return cfg, nil
}

func storeOptions(cfg *config.Config) db.Options {
	return db.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL, Debug: cfg.LogLevel == "debug"}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("Критическая ошибка")
		os.Exit(1)
	}
}
