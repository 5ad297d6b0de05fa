package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courtbook/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Код ошибки PostgreSQL unique_violation: срабатывание частичного
// уникального индекса по (court_id, date, start_time) активных броней.
const pgUniqueViolation = "23505"

// ReservationRepository обеспечивает доступ к данным броней в базе данных.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository создает новый репозиторий броней.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// FindActiveByCourtAndDate возвращает все неотмененные брони корта на
// дату, отсортированные по времени начала. Пустой список — не ошибка.
func (r *ReservationRepository) FindActiveByCourtAndDate(ctx context.Context, courtID int, date string) ([]model.Reservation, error) {
	reservations := []model.Reservation{}
	err := r.db.SelectContext(ctx, &reservations,
		`SELECT * FROM reservations
		 WHERE court_id=$1 AND date=$2 AND status <> $3
		 ORDER BY start_time`,
		courtID, date, model.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("%w: брони корта на дату: %v", model.ErrStore, err)
	}
	return reservations, nil
}

// InsertIfFree атомарно вставляет бронь, если запрошенный интервал
// свободен. Проверка конфликта и вставка выполняются в одной
// транзакции под блокировкой строки корта, поэтому два конкурентных
// вызова по одному корту сериализуются: ровно один получает слот,
// второй — model.ErrTimeConflict. Состояние корта перечитывается под
// той же блокировкой.
func (r *ReservationRepository) InsertIfFree(ctx context.Context, res *model.Reservation) (*model.Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: открытие транзакции: %v", model.ErrStore, err)
	}
	defer tx.Rollback()

	var state string
	err = tx.GetContext(ctx, &state, "SELECT state FROM courts WHERE id=$1 FOR UPDATE", res.CourtID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: блокировка корта: %v", model.ErrStore, err)
	}
	if state != model.CourtAvailable {
		return nil, model.ErrCourtUnavailable
	}

	// Конфликт: совпадение времени начала либо пересечение полуоткрытых
	// интервалов. Строки "HH:MM" с ведущими нулями сравниваются
	// лексикографически корректно.
	var busy bool
	err = tx.GetContext(ctx, &busy,
		`SELECT EXISTS (
		   SELECT 1 FROM reservations
		   WHERE court_id=$1 AND date=$2 AND status <> $3
		     AND (start_time = $4 OR (start_time < $5 AND $4 < end_time))
		 )`,
		res.CourtID, res.Date, model.StatusCancelled, res.StartTime, res.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: проверка конфликта: %v", model.ErrStore, err)
	}
	if busy {
		return nil, model.ErrTimeConflict
	}

	res.ID = uuid.New()
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO reservations (id, user_id, court_id, date, start_time, end_time, total_price, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		res.ID, res.UserID, res.CourtID, res.Date, res.StartTime, res.EndTime,
		res.TotalPrice, res.Status, res.Notes).Scan(&res.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, model.ErrTimeConflict
		}
		return nil, fmt.Errorf("%w: вставка брони: %v", model.ErrStore, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: фиксация брони: %v", model.ErrStore, err)
	}
	return res, nil
}

// GetByID возвращает бронь по идентификатору.
func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.GetContext(ctx, &res, "SELECT * FROM reservations WHERE id=$1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: загрузка брони: %v", model.ErrStore, err)
	}
	return &res, nil
}

// UpdateStatus устанавливает новый статус брони и возвращает
// обновленную запись. Допустимость перехода проверяет сервисный слой;
// здесь переход применяется как compare-and-set по прочитанному статусу,
// чтобы два конкурентных перехода из одного снимка не прошли оба.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ReservationStatus) (*model.Reservation, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET status=$1 WHERE id=$2 AND status=$3", to, id, from)
	if err != nil {
		return nil, fmt.Errorf("%w: обновление статуса брони: %v", model.ErrStore, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("%w: статус изменен конкурентно", model.ErrInvalidTransition)
	}
	return r.GetByID(ctx, id)
}

// UpdateFields применяет частичное обновление изменяемых полей брони
// (после создания изменяемы только заметки).
func (r *ReservationRepository) UpdateFields(ctx context.Context, id uuid.UUID, patch model.UpdateReservation) (*model.Reservation, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET notes=COALESCE($1, notes) WHERE id=$2", patch.Notes, id)
	if err != nil {
		return nil, fmt.Errorf("%w: обновление брони: %v", model.ErrStore, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrReservationNotFound
	}
	return r.GetByID(ctx, id)
}

// FindByFilters возвращает брони, отфильтрованные по пользователю,
// корту и/или статусу (нулевые фильтры игнорируются), в порядке
// убывания даты и времени начала.
func (r *ReservationRepository) FindByFilters(ctx context.Context, userID, courtID int, status model.ReservationStatus) ([]model.Reservation, error) {
	query := "SELECT * FROM reservations WHERE 1=1"
	args := []interface{}{}
	if userID > 0 {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	if courtID > 0 {
		query += " AND court_id = ?"
		args = append(args, courtID)
	}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY date DESC, start_time DESC"
	query = sqlx.Rebind(sqlx.DOLLAR, query)
	reservations := []model.Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, fmt.Errorf("%w: поиск броней: %v", model.ErrStore, err)
	}
	return reservations, nil
}
