// Package auth классифицирует пользователей по ролям и управляет назначением менеджеров.
package auth

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"tanukibot/internal/constants"
	"tanukibot/internal/db"
	"tanukibot/internal/models"
	"tanukibot/internal/utils"
)

// Role - роль пользователя.
type Role string

const (
	RoleGuest   Role = constants.ROLE_GUEST
	RoleUser    Role = constants.ROLE_USER
	RoleManager Role = constants.ROLE_MANAGER
	RoleAdmin   Role = constants.ROLE_ADMIN
)

// IsStaff - менеджер или администратор.
func (r Role) IsStaff() bool { return r == RoleManager || r == RoleAdmin }

// Outcome - результат назначения или снятия менеджера.
type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeProtected Outcome = "protected"
)

// UserStore - операции хранилища, нужные авторизации.
type UserStore interface {
	GetUserByTelegramID(ctx context.Context, telegramID int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	SetRole(ctx context.Context, telegramID int64, role, onlyIfRole string) (bool, error)
}

// Authorizer определяет роли. isAdmin - статический список из конфигурации.
type Authorizer struct {
	users   UserStore
	isAdmin func(int64) bool
}

func NewAuthorizer(users UserStore, isAdmin func(int64) bool) *Authorizer {
	if isAdmin == nil {
		isAdmin = func(int64) bool { return false }
	}
	return &Authorizer{users: users, isAdmin: isAdmin}
}

// IsAllowListed сообщает, входит ли id в статический список администраторов.
func (a *Authorizer) IsAllowListed(telegramID int64) bool {
	return a.isAdmin(telegramID)
}

// Classify: нет записи - guest; id в списке администраторов - admin;
// иначе сохраненная роль как есть.
func (a *Authorizer) Classify(ctx context.Context, telegramID int64) (Role, error) {
	u, err := a.users.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return RoleGuest, nil
		}
		return RoleGuest, err
	}
	if a.isAdmin(telegramID) {
		return RoleAdmin, nil
	}
	return Role(u.Role), nil
}

// Gates.

func (a *Authorizer) CanViewPanel(r Role) bool      { return r.IsStaff() }
func (a *Authorizer) CanManageCatalog(r Role) bool  { return r.IsStaff() }
func (a *Authorizer) CanAssignManagers(r Role) bool { return r.IsStaff() }
func (a *Authorizer) CanExportLeads(r Role) bool    { return r.IsStaff() }
func (a *Authorizer) CanRemoveManagers(r Role) bool { return r == RoleAdmin }

// Resolve ищет пользователя по числовому id или username.
func (a *Authorizer) Resolve(ctx context.Context, identifier string) (models.User, error) {
	id, username, numeric := utils.ParseIdentifier(identifier)
	if numeric {
		return a.users.GetUserByTelegramID(ctx, id)
	}
	if username == "" {
		return models.User{}, db.ErrNotFound
	}
	return a.users.GetUserByUsername(ctx, username)
}

// AssignManager назначает пользователя менеджером. Администраторы
// (из списка или сохраненные) не понижаются.
func (a *Authorizer) AssignManager(ctx context.Context, identifier string) (Outcome, models.User, error) {
	u, err := a.Resolve(ctx, identifier)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return OutcomeNotFound, models.User{}, nil
		}
		return "", models.User{}, err
	}
	if a.isAdmin(u.TelegramID) || u.Role == constants.ROLE_ADMIN {
		return OutcomeProtected, u, nil
	}
	if _, err := a.users.SetRole(ctx, u.TelegramID, constants.ROLE_MANAGER, ""); err != nil {
		return "", u, err
	}
	u.Role = constants.ROLE_MANAGER
	logrus.WithField("user_id", u.TelegramID).Info("Пользователь назначен менеджером")
	return OutcomeUpdated, u, nil
}

// RemoveManager снимает роль менеджера. Совпадение только с сохраненной
// ролью manager; администраторы из списка не изменяются.
func (a *Authorizer) RemoveManager(ctx context.Context, identifier string) (Outcome, models.User, error) {
	u, err := a.Resolve(ctx, identifier)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return OutcomeNotFound, models.User{}, nil
		}
		return "", models.User{}, err
	}
	if a.isAdmin(u.TelegramID) {
		return OutcomeProtected, u, nil
	}
	ok, err := a.users.SetRole(ctx, u.TelegramID, constants.ROLE_USER, constants.ROLE_MANAGER)
	if err != nil {
		return "", u, err
	}
	if !ok {
		return OutcomeNotFound, u, nil
	}
	u.Role = constants.ROLE_USER
	logrus.WithField("user_id", u.TelegramID).Info("С пользователя снята роль менеджера")
	return OutcomeUpdated, u, nil
}
