package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Операционные состояния корта. Бронировать можно только корт в
// состоянии CourtAvailable; состояние проверяется заново в момент
// создания брони, а не берется из раннего чтения.
const (
	CourtAvailable   = "available"
	CourtMaintenance = "maintenance"
	CourtRetired     = "retired"
)

// Court представляет спортивный корт (площадку), доступный для бронирования.
type Court struct {
	ID          int             `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	CourtTypeID int             `db:"court_type_id" json:"court_type_id"`
	Description string          `db:"description" json:"description"`
	Capacity    int             `db:"capacity" json:"capacity"` // число игроков
	HourlyRate  decimal.Decimal `db:"hourly_rate" json:"hourly_rate"`
	State       string          `db:"state" json:"state"`
	ImageURL    *string         `db:"image_url" json:"image_url,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// CourtType представляет тип корта (футбол 5, теннис, падел и т.п.).
type CourtType struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// UpdateCourt описывает частичное обновление корта: заполненные поля
// применяются независимо, nil-поля не трогаются.
type UpdateCourt struct {
	Name        *string          `json:"name"`
	CourtTypeID *int             `json:"court_type_id"`
	Description *string          `json:"description"`
	Capacity    *int             `json:"capacity"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
	State       *string          `json:"state"`
	ImageURL    *string          `json:"image_url"`
}

// UpdateCourtType описывает частичное обновление типа корта.
type UpdateCourtType struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
