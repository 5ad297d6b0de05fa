package service

import (
	"context"
	"fmt"

	"courtbook/internal/model"
	"courtbook/internal/mq"

	"github.com/google/uuid"
)

// ReservationService решает, может ли бронь быть создана (допуск),
// считает ее цену и управляет жизненным циклом статусов. Все общее
// состояние живет в хранилище; сервис не держит ничего между вызовами.
type ReservationService struct {
	store        ReservationStore
	catalog      CourtCatalog
	users        UserDirectory
	availability *AvailabilityService
	publisher    Publisher // может быть nil
}

// NewReservationService создает новый сервис броней.
func NewReservationService(store ReservationStore, catalog CourtCatalog, users UserDirectory,
	availability *AvailabilityService, publisher Publisher) *ReservationService {
	return &ReservationService{
		store:        store,
		catalog:      catalog,
		users:        users,
		availability: availability,
		publisher:    publisher,
	}
}

// Create проверяет предусловия допуска в фиксированном порядке
// (валидация полей, пользователь, корт, конфликт слота), считает цену
// как длительность в часах × почасовую ставку и фиксирует бронь в
// статусе pending. Финальную проверку конфликта выполняет хранилище
// атомарно с вставкой, поэтому из двух конкурентных запросов на один
// слот успешен ровно один.
func (s *ReservationService) Create(ctx context.Context, in model.CreateReservation) (*model.Reservation, error) {
	if in.UserID <= 0 || in.CourtID <= 0 || in.Date == "" || in.StartTime == "" || in.EndTime == "" {
		return nil, fmt.Errorf("%w: обязательны user_id, court_id, date, start_time, end_time", model.ErrValidation)
	}
	if _, err := model.ParseDate(in.Date); err != nil {
		return nil, err
	}
	startMin, err := model.ParseTimeOfDay(in.StartTime)
	if err != nil {
		return nil, err
	}
	endMin, err := model.ParseTimeOfDay(in.EndTime)
	if err != nil {
		return nil, err
	}
	if endMin <= startMin {
		return nil, model.ErrInvalidTimeRange
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, model.ErrUserInactive
	}

	court, err := s.catalog.GetByID(ctx, in.CourtID)
	if err != nil {
		return nil, err
	}
	if court.State != model.CourtAvailable {
		return nil, model.ErrCourtUnavailable
	}

	free, err := s.availability.IsFree(ctx, in.CourtID, in.Date, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, model.ErrTimeConflict
	}

	// Времена сохраняются в каноничном виде "HH:MM" с ведущими нулями:
	// хранилище сравнивает их лексикографически, и незаполненный час
	// вроде "9:00" сломал бы и проверку конфликта, и сортировку.
	res := &model.Reservation{
		UserID:     in.UserID,
		CourtID:    in.CourtID,
		Date:       in.Date,
		StartTime:  model.FormatTimeOfDay(startMin),
		EndTime:    model.FormatTimeOfDay(endMin),
		TotalPrice: model.HoursBetween(startMin, endMin).Mul(court.HourlyRate),
		Status:     model.StatusPending,
		Notes:      in.Notes,
	}
	created, err := s.store.InsertIfFree(ctx, res)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, mq.EventReservationCreated, created)
	return created, nil
}

// UpdateStatus выполняет переход жизненного цикла. Повторная отмена
// уже отмененной брони — отдельная ошибка ErrAlreadyCancelled, чтобы
// вызывающая сторона могла отличить «ничего не изменилось» от
// примененного перехода.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) (*model.Reservation, error) {
	if !status.Valid() || status == model.StatusPending {
		return nil, fmt.Errorf("%w: недопустимый целевой статус %q", model.ErrValidation, status)
	}
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == model.StatusCancelled && current.Status == model.StatusCancelled {
		return nil, model.ErrAlreadyCancelled
	}
	if !current.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s → %s", model.ErrInvalidTransition, current.Status, status)
	}
	updated, err := s.store.UpdateStatus(ctx, id, current.Status, status)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, mq.EventReservationStatusChanged, updated)
	return updated, nil
}

// Cancel — сокращение для перехода в cancelled. Отмена немедленно
// освобождает интервал: занятые интервалы фильтруются по статусу,
// отдельного шага «освобождения» нет.
func (s *ReservationService) Cancel(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.UpdateStatus(ctx, id, model.StatusCancelled)
}

// UpdateFields обновляет изменяемые нестатусные поля (только заметки).
// Проверка конфликта не выполняется: время и корт после создания
// неизменяемы.
func (s *ReservationService) UpdateFields(ctx context.Context, id uuid.UUID, patch model.UpdateReservation) (*model.Reservation, error) {
	return s.store.UpdateFields(ctx, id, patch)
}

// Get возвращает бронь по идентификатору.
func (s *ReservationService) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.store.GetByID(ctx, id)
}

// List возвращает брони по фильтрам пользователя, корта и статуса.
func (s *ReservationService) List(ctx context.Context, userID, courtID int, status model.ReservationStatus) ([]model.Reservation, error) {
	return s.store.FindByFilters(ctx, userID, courtID, status)
}

func (s *ReservationService) publish(ctx context.Context, t mq.EventType, r *model.Reservation) {
	if s.publisher == nil {
		return
	}
	// Доставка уведомлений — внешняя обвязка: ее отказ не отменяет
	// уже зафиксированную бронь.
	_ = s.publisher.Publish(ctx, mq.NewEvent(t, r))
}
