// Файл: internal/db/db.go
package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tanukibot/internal/models"
)

var (
	// ErrStoreUnavailable возвращается всеми операциями, если БД не инициализирована.
	ErrStoreUnavailable = errors.New("db: store unavailable")
	// ErrNotFound оборачивает gorm.ErrRecordNotFound.
	ErrNotFound = fmt.Errorf("db: not found: %w", gorm.ErrRecordNotFound)
)

// Store - обертка над *gorm.DB. Нулевое значение допустимо: все операции
// вернут ErrStoreUnavailable, бот продолжит работать в деградированном режиме.
type Store struct {
	DB *gorm.DB
}

// Options описывает подключение.
type Options struct {
	Driver string // sqlite | mysql | postgres
	DSN    string
	Debug  bool
}

// InitDB открывает соединение с БД и выполняет миграции.
// InitDB opens the database and runs migrations.
func InitDB(opts Options) (*Store, error) {
	dialector, err := dialectorFor(opts)
	if err != nil {
		return &Store{}, err
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if opts.Debug {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return &Store{}, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return &Store{}, fmt.Errorf("ошибка получения *sql.DB: %w", err)
	}
	if d := driverName(opts.Driver); d == "mysql" || d == "postgres" {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	} else {
		// SQLite: один писатель.
		sqlDB.SetMaxOpenConns(1)
	}

	store := &Store{DB: gdb}
	if err := store.Migrate(); err != nil {
		return &Store{}, err
	}

	logrus.WithField("driver", driverName(opts.Driver)).Info("Успешное подключение к базе данных.")
	return store, nil
}

func driverName(d string) string {
	if d == "" {
		return "sqlite"
	}
	return d
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch driverName(opts.Driver) {
	case "sqlite":
		dsn := opts.DSN
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL не установлена")
		}
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if dir := filepath.Dir(dsn); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("ошибка создания каталога %s: %w", dir, err)
				}
			}
		}
		return sqlite.Open(dsn), nil
	case "mysql":
		if opts.DSN == "" {
			return nil, fmt.Errorf("DATABASE_URL не установлена")
		}
		return mysql.Open(opts.DSN), nil
	case "postgres":
		if opts.DSN == "" {
			return nil, fmt.Errorf("DATABASE_URL не установлена")
		}
		// Соединения открывает database/sql через драйвер lib/pq.
		return postgres.New(postgres.Config{DriverName: "postgres", DSN: opts.DSN}), nil
	default:
		return nil, fmt.Errorf("неизвестный DB_DRIVER: %q", opts.Driver)
	}
}

// Migrate создает или обновляет схему.
func (s *Store) Migrate() error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(&models.User{}, &models.Request{}, &models.Car{}, &models.ProtectedMessage{}); err != nil {
		return fmt.Errorf("ошибка миграции схемы: %w", err)
	}
	return nil
}

// Ping проверяет доступность БД.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close закрывает соединение.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Available сообщает, была ли БД успешно открыта.
func (s *Store) Available() bool {
	return s != nil && s.DB != nil
}

func (s *Store) conn() (*gorm.DB, error) {
	if !s.Available() {
		return nil, ErrStoreUnavailable
	}
	return s.DB, nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
