package service

import (
	"context"
	"fmt"

	"courtbook/internal/model"
)

// Часы работы комплекса: свободные слоты считаются в этом окне.
const (
	openingMinute = 8 * 60  // 08:00
	closingMinute = 22 * 60 // 22:00
)

// AvailabilityService отвечает на вопрос «занят ли интервал»: строит
// множество занятых интервалов корта на дату и проверяет кандидата на
// конфликт. Множество пересчитывается при каждом запросе и нигде не
// кэшируется: устаревший снимок вернул бы окно для гонки.
type AvailabilityService struct {
	store ReservationStore
}

// NewAvailabilityService создает новый сервис доступности.
func NewAvailabilityService(store ReservationStore) *AvailabilityService {
	return &AvailabilityService{store: store}
}

// OccupiedIntervals возвращает занятые интервалы корта на дату
// (все неотмененные брони), отсортированные по времени начала.
// Отсутствие броней — пустой список, не ошибка.
func (s *AvailabilityService) OccupiedIntervals(ctx context.Context, courtID int, date string) ([]model.TimeSlot, error) {
	reservations, err := s.store.FindActiveByCourtAndDate(ctx, courtID, date)
	if err != nil {
		return nil, err
	}
	slots := make([]model.TimeSlot, 0, len(reservations))
	for _, r := range reservations {
		slots = append(slots, model.TimeSlot{StartTime: r.StartTime, EndTime: r.EndTime})
	}
	return slots, nil
}

// FreeSlots возвращает свободные промежутки корта на дату в пределах
// часов работы: дополнение занятых интервалов до окна [08:00, 22:00).
func (s *AvailabilityService) FreeSlots(ctx context.Context, courtID int, date string) ([]model.TimeSlot, error) {
	occupied, err := s.OccupiedIntervals(ctx, courtID, date)
	if err != nil {
		return nil, err
	}
	free := []model.TimeSlot{}
	cursor := openingMinute
	for _, slot := range occupied {
		startMin, err := model.ParseTimeOfDay(slot.StartTime)
		if err != nil {
			return nil, err
		}
		endMin, err := model.ParseTimeOfDay(slot.EndTime)
		if err != nil {
			return nil, err
		}
		if startMin > cursor {
			free = append(free, model.TimeSlot{
				StartTime: model.FormatTimeOfDay(cursor),
				EndTime:   model.FormatTimeOfDay(min(startMin, closingMinute)),
			})
		}
		if endMin > cursor {
			cursor = endMin
		}
	}
	if cursor < closingMinute {
		free = append(free, model.TimeSlot{
			StartTime: model.FormatTimeOfDay(cursor),
			EndTime:   model.FormatTimeOfDay(closingMinute),
		})
	}
	return free, nil
}

// IsFree проверяет, свободен ли интервал [startTime, endTime) корта на
// дату. Первичная проверка — совпадение времени начала с существующей
// бронью; поверх нее — общее пересечение полуоткрытых интервалов.
// Смежные брони (конец одной равен началу другой) конфликтом не
// считаются.
func (s *AvailabilityService) IsFree(ctx context.Context, courtID int, date, startTime, endTime string) (bool, error) {
	startMin, err := model.ParseTimeOfDay(startTime)
	if err != nil {
		return false, err
	}
	endMin, err := model.ParseTimeOfDay(endTime)
	if err != nil {
		return false, err
	}
	if endMin <= startMin {
		return false, model.ErrInvalidTimeRange
	}
	occupied, err := s.store.FindActiveByCourtAndDate(ctx, courtID, date)
	if err != nil {
		return false, err
	}
	for _, r := range occupied {
		exStart, err := model.ParseTimeOfDay(r.StartTime)
		if err != nil {
			return false, fmt.Errorf("%w: хранимое время брони %s", model.ErrStore, r.ID)
		}
		exEnd, err := model.ParseTimeOfDay(r.EndTime)
		if err != nil {
			return false, fmt.Errorf("%w: хранимое время брони %s", model.ErrStore, r.ID)
		}
		if exStart == startMin {
			return false, nil
		}
		if exStart < endMin && startMin < exEnd {
			return false, nil
		}
	}
	return true, nil
}
