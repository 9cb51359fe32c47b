package service

import (
	"context"
	"fmt"

	"github.com/MasloRich/Beauty-bot/internal/model"
)

// Roles роли пользователя. Роли независимы: администратор может быть и мастером.
// Клиент роль по умолчанию, отдельной проверки не требует
type Roles struct {
	TelegramID int64
	IsAdmin    bool
	Master     *model.Master
}

func (r Roles) IsMaster() bool {
	return r.Master != nil
}

// RoleService определяет роль по telegram ID
type RoleService struct {
	admins  map[int64]struct{}
	masters MasterStore
}

func NewRoleService(adminIDs []int64, masters MasterStore) *RoleService {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &RoleService{admins: admins, masters: masters}
}

// IsAdmin проверка по списку администраторов из конфигурации
func (s *RoleService) IsAdmin(telegramID int64) bool {
	_, ok := s.admins[telegramID]
	return ok
}

// Resolve возвращает все роли пользователя
func (s *RoleService) Resolve(ctx context.Context, telegramID int64) (Roles, error) {
	roles := Roles{TelegramID: telegramID, IsAdmin: s.IsAdmin(telegramID)}

	master, err := s.masters.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return roles, fmt.Errorf("get master: %w", err)
	}
	roles.Master = master

	return roles, nil
}

// RequireAdmin ErrNotAuthorized если пользователя нет в списке администраторов
func (s *RoleService) RequireAdmin(telegramID int64) error {
	if !s.IsAdmin(telegramID) {
		return fmt.Errorf("user %d is not an admin: %w", telegramID, model.ErrNotAuthorized)
	}
	return nil
}

// RequireMaster ErrNotAuthorized если пользователь не мастер
func (s *RoleService) RequireMaster(ctx context.Context, telegramID int64) (*model.Master, error) {
	master, err := s.masters.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get master: %w", err)
	}
	if master == nil {
		return nil, fmt.Errorf("user %d is not a master: %w", telegramID, model.ErrNotAuthorized)
	}
	return master, nil
}
