package storage

import (
	"context"
	"errors"

	"github.com/Freeeeeet/booking_calendar/internal/model"
)

// ErrVersionConflict возвращается когда документ изменился между чтением
// и записью. Сервис перечитывает документ и повторяет попытку.
var ErrVersionConflict = errors.New("document version conflict")

// DocumentStore хранилище документов календаря: один BookingSet на slug
// инстанса плюс его конфигурация. Запись — compare-and-swap по версии,
// чтобы конкурентные read-modify-write не теряли чужие изменения.
//
// Для несуществующего документа GetBookings возвращает пустой набор и
// версию 0; PutBookings с expectedVersion 0 создаёт документ.
type DocumentStore interface {
	GetBookings(ctx context.Context, slug string) (model.BookingSet, int64, error)
	PutBookings(ctx context.Context, slug string, set model.BookingSet, expectedVersion int64) error

	// GetConfig возвращает nil без ошибки если конфигурации нет —
	// вызывающий подставляет дефолтную.
	GetConfig(ctx context.Context, slug string) (*model.InstanceConfig, error)

	Ping(ctx context.Context) error
	Close() error
}
