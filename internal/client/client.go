package client

import (
	"context"

	"github.com/Freeeeeet/booking_calendar/internal/model"
)

// Remote источник истины для клиентского кеша. Две реализации:
// APIClient ходит в сервис по HTTP, LocalClient держит тот же документ
// в файле на диске и валидирует конфликты сам. Выбирается один раз
// на старте, дальше весь код работает через интерфейс.
type Remote interface {
	FetchBookings(ctx context.Context) (model.BookingSet, error)
	FetchConfig(ctx context.Context) (*model.InstanceConfig, error)
	CreateBooking(ctx context.Context, req model.CreateBookingRequest) error
	UpdateBooking(ctx context.Context, req model.UpdateBookingRequest) (*model.Booking, error)
	DeleteBooking(ctx context.Context, req model.DeleteBookingRequest) error
}
