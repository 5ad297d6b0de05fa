package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courtbook/internal/model"

	"github.com/jmoiron/sqlx"
)

// UserRepository обеспечивает доступ к данным пользователей в базе данных.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создает новый репозиторий пользователей.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create добавляет нового пользователя. Возвращает ID созданной записи.
func (r *UserRepository) Create(ctx context.Context, user *model.User) (int, error) {
	query := `INSERT INTO users (name, surname, email, phone, telegram_id, role, state)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	var id int
	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Surname, user.Email, user.Phone, user.TelegramID, user.Role, user.State).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: не удалось создать пользователя: %v", model.ErrStore, err)
	}
	return id, nil
}

// GetByID возвращает пользователя по внутреннему идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id=$1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: загрузка пользователя: %v", model.ErrStore, err)
	}
	return &user, nil
}

// GetByTelegramID ищет пользователя по его Telegram ID.
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE telegram_id=$1", telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: загрузка пользователя: %v", model.ErrStore, err)
	}
	return &user, nil
}

// FindAll возвращает всех пользователей.
func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := r.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: список пользователей: %v", model.ErrStore, err)
	}
	return users, nil
}

// Update применяет частичное обновление: каждое заполненное поле patch
// накладывается независимо, nil-поля остаются как есть.
func (r *UserRepository) Update(ctx context.Context, id int, patch model.UpdateUser) (*model.User, error) {
	query := `UPDATE users SET
	            name    = COALESCE($1, name),
	            surname = COALESCE($2, surname),
	            email   = COALESCE($3, email),
	            phone   = COALESCE($4, phone),
	            state   = COALESCE($5, state)
	          WHERE id=$6`
	res, err := r.db.ExecContext(ctx, query,
		patch.Name, patch.Surname, patch.Email, patch.Phone, patch.State, id)
	if err != nil {
		return nil, fmt.Errorf("%w: обновление пользователя: %v", model.ErrStore, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

// Deactivate переводит учетную запись в состояние inactive (мягкое удаление).
func (r *UserRepository) Deactivate(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET state=$1 WHERE id=$2", model.UserInactive, id)
	if err != nil {
		return fmt.Errorf("%w: деактивация пользователя: %v", model.ErrStore, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
