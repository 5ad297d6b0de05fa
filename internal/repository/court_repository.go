package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courtbook/internal/model"

	"github.com/jmoiron/sqlx"
)

// CourtRepository обеспечивает доступ к данным кортов в базе данных.
type CourtRepository struct {
	db *sqlx.DB
}

// NewCourtRepository создает новый репозиторий кортов.
func NewCourtRepository(db *sqlx.DB) *CourtRepository {
	return &CourtRepository{db: db}
}

// FindByFilters возвращает корты, отфильтрованные по типу и/или
// состоянию (нулевые значения фильтров игнорируются).
func (r *CourtRepository) FindByFilters(ctx context.Context, courtTypeID int, state string) ([]model.Court, error) {
	query := "SELECT * FROM courts WHERE 1=1"
	args := []interface{}{}
	if courtTypeID > 0 {
		query += " AND court_type_id = ?"
		args = append(args, courtTypeID)
	}
	if state != "" {
		query += " AND state = ?"
		args = append(args, state)
	}
	query += " ORDER BY name"
	query = sqlx.Rebind(sqlx.DOLLAR, query)
	courts := []model.Court{}
	if err := r.db.SelectContext(ctx, &courts, query, args...); err != nil {
		return nil, fmt.Errorf("%w: поиск кортов: %v", model.ErrStore, err)
	}
	return courts, nil
}

// GetByID возвращает корт по идентификатору.
func (r *CourtRepository) GetByID(ctx context.Context, id int) (*model.Court, error) {
	var court model.Court
	err := r.db.GetContext(ctx, &court, "SELECT * FROM courts WHERE id=$1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: загрузка корта: %v", model.ErrStore, err)
	}
	return &court, nil
}

// Create добавляет новый корт. Возвращает ID созданной записи.
func (r *CourtRepository) Create(ctx context.Context, court *model.Court) (int, error) {
	query := `INSERT INTO courts (name, court_type_id, description, capacity, hourly_rate, state, image_url)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	var id int
	err := r.db.QueryRowContext(ctx, query,
		court.Name, court.CourtTypeID, court.Description, court.Capacity,
		court.HourlyRate, court.State, court.ImageURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: не удалось создать корт: %v", model.ErrStore, err)
	}
	return id, nil
}

// Update применяет частичное обновление корта: заполненные поля patch
// накладываются независимо.
func (r *CourtRepository) Update(ctx context.Context, id int, patch model.UpdateCourt) (*model.Court, error) {
	query := `UPDATE courts SET
	            name          = COALESCE($1, name),
	            court_type_id = COALESCE($2, court_type_id),
	            description   = COALESCE($3, description),
	            capacity      = COALESCE($4, capacity),
	            hourly_rate   = COALESCE($5, hourly_rate),
	            state         = COALESCE($6, state),
	            image_url     = COALESCE($7, image_url),
	            updated_at    = NOW()
	          WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query,
		patch.Name, patch.CourtTypeID, patch.Description, patch.Capacity,
		patch.HourlyRate, patch.State, patch.ImageURL, id)
	if err != nil {
		return nil, fmt.Errorf("%w: обновление корта: %v", model.ErrStore, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrCourtNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete удаляет корт. Корт с привязанными бронями удалить нельзя.
func (r *CourtRepository) Delete(ctx context.Context, id int) error {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM reservations WHERE court_id=$1", id)
	if err != nil {
		return fmt.Errorf("%w: проверка броней корта: %v", model.ErrStore, err)
	}
	if total > 0 {
		return model.ErrCourtHasReservations
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM courts WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("%w: удаление корта: %v", model.ErrStore, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrCourtNotFound
	}
	return nil
}
