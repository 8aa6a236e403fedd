package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrForbidden        = errors.New("access denied")
)

// ValidationError - клиентская ошибка валидации
// Блокирует любой вызов хранилища; пользователь правит форму и повторяет
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError создает ошибку валидации с сообщением для пользователя
func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

// IsValidationError сообщает, является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
