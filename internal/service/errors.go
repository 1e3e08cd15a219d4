package service

import "errors"

// ErrBookingNotFound бронь по заданным ключам не существует
var ErrBookingNotFound = errors.New("booking not found")

// ValidationError некорректный вход на границе API (формат ключей,
// диапазон длительности, пустые поля). До conflict engine не доходит.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError пересечение броней. Ожидаемая, частая, пользовательская
// ошибка — текст называет конкретный конфликтный слот.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
