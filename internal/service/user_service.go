package service

import (
	"context"
	"errors"
	"fmt"

	"courtbook/internal/model"
	"courtbook/internal/repository"
)

// UserService содержит бизнес-логику, связанную с пользователями.
// Аутентификация вне системы; здесь только учет и активность.
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService создает новый сервис пользователей.
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register регистрирует нового пользователя в состоянии active.
func (s *UserService) Register(ctx context.Context, user *model.User) (*model.User, error) {
	if user.Name == "" || user.Surname == "" || user.Email == "" || user.Phone == "" {
		return nil, fmt.Errorf("%w: обязательны name, surname, email, phone", model.ErrValidation)
	}
	if user.Role == "" {
		user.Role = model.RoleClient
	}
	user.State = model.UserActive
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}

// GetByID возвращает пользователя по ID.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// List возвращает всех пользователей.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindAll(ctx)
}

// Update применяет частичное обновление пользователя.
func (s *UserService) Update(ctx context.Context, id int, patch model.UpdateUser) (*model.User, error) {
	return s.userRepo.Update(ctx, id, patch)
}

// Deactivate переводит пользователя в состояние inactive.
func (s *UserService) Deactivate(ctx context.Context, id int) error {
	return s.userRepo.Deactivate(ctx, id)
}

// AuthTelegram находит пользователя по Telegram ID и регистрирует
// нового, если не найден. Используется ботом при /start.
func (s *UserService) AuthTelegram(ctx context.Context, telegramID int64, name, surname string) (*model.User, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}
	newUser := &model.User{
		Name:       name,
		Surname:    surname,
		Email:      fmt.Sprintf("tg%d@telegram.local", telegramID),
		Phone:      "-",
		TelegramID: &telegramID,
		Role:       model.RoleClient,
		State:      model.UserActive,
	}
	id, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}
