package mq

import "courtbook/internal/model"

// Типы событий жизненного цикла броней.
type EventType string

const (
	EventReservationCreated       EventType = "ReservationCreated"
	EventReservationStatusChanged EventType = "ReservationStatusChanged"
)

// Event — событие, публикуемое в очередь после успешной фиксации
// изменения в хранилище. Потребители (cmd/notifier) доставляют
// уведомления пользователям.
type Event struct {
	Type          EventType               `json:"type"`
	ReservationID string                  `json:"reservation_id"`
	UserID        int                     `json:"user_id"`
	CourtID       int                     `json:"court_id"`
	Date          string                  `json:"date"`
	StartTime     string                  `json:"start_time"`
	EndTime       string                  `json:"end_time"`
	Status        model.ReservationStatus `json:"status"`
	TotalPrice    string                  `json:"total_price"`
}

// NewEvent собирает событие из записи брони.
func NewEvent(t EventType, r *model.Reservation) Event {
	return Event{
		Type:          t,
		ReservationID: r.ID.String(),
		UserID:        r.UserID,
		CourtID:       r.CourtID,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        r.Status,
		TotalPrice:    r.TotalPrice.String(),
	}
}
