package model

import "errors"

// Классификация ошибок ядра. Каждая ошибка, пересекающая границу
// сервисного слоя, принадлежит одному из этих видов; обертки через
// fmt.Errorf("...: %w", err) сохраняют вид для errors.Is.
var (
	// Ошибки входных данных (вина вызывающей стороны, повтор бесполезен).
	ErrValidation       = errors.New("validation failed")
	ErrInvalidTimeRange = errors.New("end time must be after start time")

	// Отсутствие или непригодность сущностей.
	ErrUserNotFound        = errors.New("user not found")
	ErrUserInactive        = errors.New("user is inactive")
	ErrCourtNotFound       = errors.New("court not found")
	ErrCourtTypeNotFound   = errors.New("court type not found")
	ErrCourtUnavailable    = errors.New("court is not available for booking")
	ErrReservationNotFound = errors.New("reservation not found")

	// Конфликт слота: запрошенный интервал уже занят. Повтор имеет
	// смысл только с другим интервалом.
	ErrTimeConflict = errors.New("time slot already reserved")

	// Нарушения жизненного цикла.
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyCancelled  = errors.New("reservation already cancelled")

	// Удаление корта с привязанными бронями запрещено.
	ErrCourtHasReservations = errors.New("court has associated reservations")

	// Отказ хранилища (поверхность для ошибок БД, без деталей).
	ErrStore = errors.New("storage failure")
)
