package model

import "time"

// Роли пользователей.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// Состояния учетной записи пользователя.
const (
	UserActive   = "active"
	UserInactive = "inactive"
)

// User представляет пользователя системы (клиента или администратора).
type User struct {
	ID         int       `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Surname    string    `db:"surname" json:"surname"`
	Email      string    `db:"email" json:"email"`
	Phone      string    `db:"phone" json:"phone"`
	TelegramID *int64    `db:"telegram_id" json:"telegram_id,omitempty"` // заполняется при регистрации через бота
	Role       string    `db:"role" json:"role"`
	State      string    `db:"state" json:"state"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// IsActive сообщает, активна ли учетная запись пользователя.
func (u *User) IsActive() bool {
	return u.State == UserActive
}

// UpdateUser описывает частичное обновление пользователя: заполненные
// поля применяются независимо, nil-поля не трогаются.
type UpdateUser struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	State   *string `json:"state"`
}
