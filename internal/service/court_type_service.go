package service

import (
	"context"
	"fmt"

	"courtbook/internal/model"
	"courtbook/internal/repository"
)

// CourtTypeService содержит бизнес-логику справочника типов кортов.
type CourtTypeService struct {
	repo *repository.CourtTypeRepository
}

// NewCourtTypeService создает новый сервис типов кортов.
func NewCourtTypeService(repo *repository.CourtTypeRepository) *CourtTypeService {
	return &CourtTypeService{repo: repo}
}

// List возвращает все типы кортов.
func (s *CourtTypeService) List(ctx context.Context) ([]model.CourtType, error) {
	return s.repo.FindAll(ctx)
}

// Get возвращает тип корта по ID.
func (s *CourtTypeService) Get(ctx context.Context, id int) (*model.CourtType, error) {
	return s.repo.GetByID(ctx, id)
}

// Create создает новый тип корта.
func (s *CourtTypeService) Create(ctx context.Context, ct *model.CourtType) (*model.CourtType, error) {
	if ct.Name == "" {
		return nil, fmt.Errorf("%w: обязательно name", model.ErrValidation)
	}
	id, err := s.repo.Create(ctx, ct)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update применяет частичное обновление типа корта.
func (s *CourtTypeService) Update(ctx context.Context, id int, patch model.UpdateCourtType) (*model.CourtType, error) {
	return s.repo.Update(ctx, id, patch)
}

// Delete удаляет тип корта.
func (s *CourtTypeService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
