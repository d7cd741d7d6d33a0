// internal/config/config.go
package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultDatabasePath       = "data/bot_database.sqlite"
	DefaultWelcomePhoto       = "data/hello.jpeg"
	DefaultHTTPPort           = "8080"
	DefaultProtectedRetention = 72 * time.Hour
	DefaultPruneSchedule      = "0 4 * * *"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	TelegramToken string
	BotUsername   string
	AppEnv        string

	// AdminIDs - статический список администраторов из ADMIN_IDS.
	AdminIDs []int64

	DBDriver    string
	DatabaseURL string

	HTTPPort string
	APIToken string

	ContentPath  string
	WelcomePhoto string

	ProtectedRetention time.Duration
	PruneSchedule      string

	LogLevel  string
	LogFormat string
}

var digitsRe = regexp.MustCompile(`\d+`)

// ParseAdminIDs извлекает все числовые идентификаторы из строки,
// разделители могут быть любыми ("1, 2", "[1 2]", "1;2").
func ParseAdminIDs(raw string) []int64 {
	var ids []int64
	for _, m := range digitsRe.FindAllString(raw, -1) {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("BOT_TOKEN"),
		BotUsername:   strings.TrimPrefix(os.Getenv("BOT_USERNAME"), "@"),
		AppEnv:        os.Getenv("ENV"),
		AdminIDs:      ParseAdminIDs(os.Getenv("ADMIN_IDS")),
		DBDriver:      strings.ToLower(os.Getenv("DB_DRIVER")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		HTTPPort:      os.Getenv("HTTP_PORT"),
		APIToken:      os.Getenv("API_TOKEN"),
		ContentPath:   os.Getenv("CONTENT_PATH"),
		WelcomePhoto:  os.Getenv("WELCOME_PHOTO"),
		PruneSchedule: os.Getenv("PRUNE_SCHEDULE"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFormat:     os.Getenv("LOG_FORMAT"),
	}
	cfg.applyDefaults()

	if raw := os.Getenv("PROTECTED_RETENTION"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			logrus.WithField("value", raw).Warn("Некорректное значение PROTECTED_RETENTION, используется значение по умолчанию.")
		} else {
			cfg.ProtectedRetention = d
		}
	}

	if cfg.TelegramToken == "" {
		logrus.Warn("BOT_TOKEN не установлен.")
	}
	if cfg.BotUsername == "" {
		logrus.Warn("BOT_USERNAME не установлен, ссылки и QR-коды на авто будут недоступны.")
	}
	if len(cfg.AdminIDs) == 0 {
		logrus.Warn("ADMIN_IDS пуст, администраторы из конфигурации не назначены.")
	}

	logrus.WithFields(logrus.Fields{
		"db_driver": cfg.DBDriver,
		"admins":    len(cfg.AdminIDs),
	}).Info("Конфигурация загружена.")
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DBDriver == "" {
		c.DBDriver = "sqlite"
	}
	if c.DatabaseURL == "" && c.DBDriver == "sqlite" {
		c.DatabaseURL = DefaultDatabasePath
	}
	if c.HTTPPort == "" {
		c.HTTPPort = DefaultHTTPPort
	}
	if c.WelcomePhoto == "" {
		c.WelcomePhoto = DefaultWelcomePhoto
	}
	if c.ProtectedRetention == 0 {
		c.ProtectedRetention = DefaultProtectedRetention
	}
	if c.PruneSchedule == "" {
		c.PruneSchedule = DefaultPruneSchedule
	}
}

// IsAdmin сообщает, входит ли идентификатор в статический список администраторов.
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

// IsDev включает отладочный режим Telegram API.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}
