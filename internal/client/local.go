package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Freeeeeet/booking_calendar/internal/conflict"
	"github.com/Freeeeeet/booking_calendar/internal/model"
	"github.com/Freeeeeet/booking_calendar/internal/timegrid"
)

// LocalClient локальный режим без сервиса: тот же документ хранится
// файлом на диске, правила конфликтов проверяются на месте тем же
// conflict engine. Документ в файле байт-в-байт совместим с серверным.
type LocalClient struct {
	path string
	slug string
}

func NewLocalClient(path, slug string) *LocalClient {
	return &LocalClient{path: path, slug: slug}
}

func (c *LocalClient) FetchBookings(context.Context) (model.BookingSet, error) {
	return c.load()
}

// FetchConfig в локальном режиме конфигурации неоткуда взяться —
// всегда дефолтная
func (c *LocalClient) FetchConfig(context.Context) (*model.InstanceConfig, error) {
	return model.DefaultInstanceConfig(c.slug), nil
}

func (c *LocalClient) CreateBooking(_ context.Context, req model.CreateBookingRequest) error {
	set, err := c.load()
	if err != nil {
		return err
	}

	startHour, err := timegrid.ParseTimeKey(req.TimeKey)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	// стартовый слот может быть не только занят напрямую, но и накрыт
	// чужой многочасовой бронью — правила те же, что у сервиса
	if st := conflict.StatusOf(set, req.DateKey, req.TimeKey, startHour); st.Status != conflict.StatusAvailable {
		return errors.New("Slot already booked")
	}
	for i := 1; i < req.Duration; i++ {
		checkHour := startHour + i
		checkKey := timegrid.TimeKey(checkHour)
		if st := conflict.StatusOf(set, req.DateKey, checkKey, checkHour); st.Status != conflict.StatusAvailable {
			return fmt.Errorf("Slot %s conflicts with booking duration", checkKey)
		}
	}

	set.Set(req.DateKey, req.TimeKey, model.Booking{User: req.User, Duration: req.Duration})
	return c.save(set)
}

func (c *LocalClient) UpdateBooking(_ context.Context, req model.UpdateBookingRequest) (*model.Booking, error) {
	set, err := c.load()
	if err != nil {
		return nil, err
	}

	current, ok := set.Get(req.DateKey, req.TimeKey)
	if !ok {
		return nil, errors.New("Booking not found")
	}

	if req.Updates.Duration != nil && *req.Updates.Duration != current.Duration {
		startHour, err := timegrid.ParseTimeKey(req.TimeKey)
		if err != nil {
			return nil, fmt.Errorf("update booking: %w", err)
		}
		for i := current.Duration; i < *req.Updates.Duration; i++ {
			checkHour := startHour + i
			checkKey := timegrid.TimeKey(checkHour)
			st := conflict.StatusOf(set, req.DateKey, checkKey, checkHour)
			if st.Status == conflict.StatusBooked || (st.Status == conflict.StatusBlocked && st.StartKey != req.TimeKey) {
				return nil, fmt.Errorf("Cannot extend: slot %s is already booked", checkKey)
			}
		}
	}

	updated := req.Updates.Apply(current)
	set.Set(req.DateKey, req.TimeKey, updated)
	if err := c.save(set); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *LocalClient) DeleteBooking(_ context.Context, req model.DeleteBookingRequest) error {
	set, err := c.load()
	if err != nil {
		return err
	}
	if !set.Remove(req.DateKey, req.TimeKey) {
		return errors.New("Booking not found")
	}
	return c.save(set)
}

// load читает документ из файла; отсутствующий файл — пустой набор
func (c *LocalClient) load() (model.BookingSet, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return model.BookingSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bookings file: %w", err)
	}

	var set model.BookingSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode bookings file: %w", err)
	}
	if set == nil {
		set = model.BookingSet{}
	}
	return set, nil
}

func (c *LocalClient) save(set model.BookingSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode bookings file: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write bookings file: %w", err)
	}
	return nil
}
