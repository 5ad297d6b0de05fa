package service

import (
	"context"
	"fmt"

	"courtbook/internal/model"
	"courtbook/internal/repository"
)

// CourtService содержит бизнес-логику каталога кортов.
type CourtService struct {
	courtRepo     *repository.CourtRepository
	courtTypeRepo *repository.CourtTypeRepository
}

// NewCourtService создает новый сервис каталога кортов.
func NewCourtService(courtRepo *repository.CourtRepository, courtTypeRepo *repository.CourtTypeRepository) *CourtService {
	return &CourtService{courtRepo: courtRepo, courtTypeRepo: courtTypeRepo}
}

// List возвращает корты по фильтрам типа и состояния.
func (s *CourtService) List(ctx context.Context, courtTypeID int, state string) ([]model.Court, error) {
	return s.courtRepo.FindByFilters(ctx, courtTypeID, state)
}

// Get возвращает корт по ID.
func (s *CourtService) Get(ctx context.Context, id int) (*model.Court, error) {
	return s.courtRepo.GetByID(ctx, id)
}

// Create создает новый корт. Тип корта должен существовать.
func (s *CourtService) Create(ctx context.Context, court *model.Court) (*model.Court, error) {
	if court.Name == "" || court.CourtTypeID <= 0 || court.Capacity <= 0 || !court.HourlyRate.IsPositive() {
		return nil, fmt.Errorf("%w: обязательны name, court_type_id, capacity и положительная hourly_rate", model.ErrValidation)
	}
	if _, err := s.courtTypeRepo.GetByID(ctx, court.CourtTypeID); err != nil {
		return nil, err
	}
	if court.State == "" {
		court.State = model.CourtAvailable
	}
	id, err := s.courtRepo.Create(ctx, court)
	if err != nil {
		return nil, err
	}
	return s.courtRepo.GetByID(ctx, id)
}

// Update применяет частичное обновление корта.
func (s *CourtService) Update(ctx context.Context, id int, patch model.UpdateCourt) (*model.Court, error) {
	if patch.CourtTypeID != nil {
		if _, err := s.courtTypeRepo.GetByID(ctx, *patch.CourtTypeID); err != nil {
			return nil, err
		}
	}
	if patch.HourlyRate != nil && !patch.HourlyRate.IsPositive() {
		return nil, fmt.Errorf("%w: hourly_rate должна быть положительной", model.ErrValidation)
	}
	return s.courtRepo.Update(ctx, id, patch)
}

// Delete удаляет корт, если с ним не связаны брони.
func (s *CourtService) Delete(ctx context.Context, id int) error {
	return s.courtRepo.Delete(ctx, id)
}
