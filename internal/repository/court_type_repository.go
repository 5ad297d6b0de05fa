package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courtbook/internal/model"

	"github.com/jmoiron/sqlx"
)

// CourtTypeRepository обеспечивает доступ к справочнику типов кортов.
type CourtTypeRepository struct {
	db *sqlx.DB
}

// NewCourtTypeRepository создает новый репозиторий типов кортов.
func NewCourtTypeRepository(db *sqlx.DB) *CourtTypeRepository {
	return &CourtTypeRepository{db: db}
}

// FindAll возвращает все типы кортов.
func (r *CourtTypeRepository) FindAll(ctx context.Context) ([]model.CourtType, error) {
	types := []model.CourtType{}
	err := r.db.SelectContext(ctx, &types, "SELECT * FROM court_types ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("%w: список типов кортов: %v", model.ErrStore, err)
	}
	return types, nil
}

// GetByID возвращает тип корта по идентификатору.
func (r *CourtTypeRepository) GetByID(ctx context.Context, id int) (*model.CourtType, error) {
	var ct model.CourtType
	err := r.db.GetContext(ctx, &ct, "SELECT * FROM court_types WHERE id=$1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCourtTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: загрузка типа корта: %v", model.ErrStore, err)
	}
	return &ct, nil
}

// Create добавляет новый тип корта. Возвращает ID созданной записи.
func (r *CourtTypeRepository) Create(ctx context.Context, ct *model.CourtType) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO court_types (name, description) VALUES ($1, $2) RETURNING id",
		ct.Name, ct.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: не удалось создать тип корта: %v", model.ErrStore, err)
	}
	return id, nil
}

// Update применяет частичное обновление типа корта.
func (r *CourtTypeRepository) Update(ctx context.Context, id int, patch model.UpdateCourtType) (*model.CourtType, error) {
	query := `UPDATE court_types SET
	            name        = COALESCE($1, name),
	            description = COALESCE($2, description)
	          WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, patch.Name, patch.Description, id)
	if err != nil {
		return nil, fmt.Errorf("%w: обновление типа корта: %v", model.ErrStore, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrCourtTypeNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete удаляет тип корта.
func (r *CourtTypeRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM court_types WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("%w: удаление типа корта: %v", model.ErrStore, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrCourtTypeNotFound
	}
	return nil
}
