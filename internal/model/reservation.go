package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus — статус брони в ее жизненном цикле.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// Valid сообщает, является ли значение одним из известных статусов.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal сообщает, является ли статус конечным: из cancelled и
// completed переходов больше нет.
func (s ReservationStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransition проверяет допустимость перехода статуса. Разрешены
// только: pending→confirmed, pending|confirmed→cancelled,
// confirmed→completed.
func (s ReservationStatus) CanTransition(to ReservationStatus) bool {
	switch to {
	case StatusConfirmed:
		return s == StatusPending
	case StatusCancelled:
		return s == StatusPending || s == StatusConfirmed
	case StatusCompleted:
		return s == StatusConfirmed
	}
	return false
}

// Reservation представляет бронь корта на интервал [StartTime, EndTime)
// в пределах одного дня. Активные брони (pending и confirmed) одного
// корта на одну дату не пересекаются.
type Reservation struct {
	ID         uuid.UUID         `db:"id" json:"id"`
	UserID     int               `db:"user_id" json:"user_id"`
	CourtID    int               `db:"court_id" json:"court_id"`
	Date       string            `db:"date" json:"date"`             // "YYYY-MM-DD"
	StartTime  string            `db:"start_time" json:"start_time"` // "HH:MM"
	EndTime    string            `db:"end_time" json:"end_time"`     // "HH:MM"
	TotalPrice decimal.Decimal   `db:"total_price" json:"total_price"`
	Status     ReservationStatus `db:"status" json:"status"`
	Notes      *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
}

// Active сообщает, занимает ли бронь свой интервал: отмененная бронь
// освобождает корт сразу и навсегда.
func (r *Reservation) Active() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// CreateReservation — входные данные для создания брони.
type CreateReservation struct {
	UserID    int     `json:"user_id"`
	CourtID   int     `json:"court_id"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Notes     *string `json:"notes"`
}

// UpdateReservation описывает частичное обновление брони. Время и корт
// после создания неизменяемы, поэтому обновлять можно только заметки.
type UpdateReservation struct {
	Notes *string `json:"notes"`
}

// TimeSlot — интервал [StartTime, EndTime) в пределах дня.
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
