package service

import (
	"context"

	"courtbook/internal/model"
	"courtbook/internal/mq"

	"github.com/google/uuid"
)

// ReservationStore — хранилище броней, единственный владелец их
// записей. InsertIfFree обязан выполнять проверку конфликта и вставку
// атомарно (проверка на уровне приложения сама по себе гонку не
// закрывает). UpdateStatus применяет переход только если текущий статус
// равен from: конкурентный переход, прочитавший тот же снимок, получает
// model.ErrInvalidTransition.
type ReservationStore interface {
	FindActiveByCourtAndDate(ctx context.Context, courtID int, date string) ([]model.Reservation, error)
	InsertIfFree(ctx context.Context, res *model.Reservation) (*model.Reservation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ReservationStatus) (*model.Reservation, error)
	UpdateFields(ctx context.Context, id uuid.UUID, patch model.UpdateReservation) (*model.Reservation, error)
	FindByFilters(ctx context.Context, userID, courtID int, status model.ReservationStatus) ([]model.Reservation, error)
}

// CourtCatalog — каталог кортов (для ядра доступен только на чтение).
type CourtCatalog interface {
	GetByID(ctx context.Context, id int) (*model.Court, error)
}

// UserDirectory — справочник пользователей (внешняя проверка личности;
// ядро проверяет лишь существование и активность).
type UserDirectory interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
}

// Publisher получает события жизненного цикла броней после фиксации.
// nil-издатель допустим: публикация — внешняя обвязка уведомлений.
type Publisher interface {
	Publish(ctx context.Context, event mq.Event) error
}
