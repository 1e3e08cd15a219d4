package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Freeeeeet/booking_calendar/internal/conflict"
	"github.com/Freeeeeet/booking_calendar/internal/model"
	"github.com/Freeeeeet/booking_calendar/internal/storage"
	"github.com/Freeeeeet/booking_calendar/internal/timegrid"
)

// Сколько раз повторять read-modify-write при конфликте версий документа.
// Это не ретрай мутации клиента: внутри одной попытки правила конфликтов
// перепроверяются по свежему документу.
const maxPutAttempts = 3

// Notifier уведомляет о мутациях календаря (опционально)
type Notifier interface {
	BookingCreated(dateKey, timeKey string, b model.Booking)
	BookingDeleted(dateKey, timeKey string)
}

// BookingService серверная логика календаря: валидация входа, проверка
// конфликтов по текущему документу и запись документа целиком.
// Оптимистичная проверка клиента — только совет, авторитет здесь.
type BookingService struct {
	store    storage.DocumentStore
	slug     string
	notifier Notifier
	logger   *zap.Logger
}

func NewBookingService(store storage.DocumentStore, slug string, notifier Notifier, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:    store,
		slug:     slug,
		notifier: notifier,
		logger:   logger,
	}
}

// Bookings возвращает весь документ календаря
func (s *BookingService) Bookings(ctx context.Context) (model.BookingSet, error) {
	set, _, err := s.store.GetBookings(ctx, s.slug)
	if err != nil {
		return nil, fmt.Errorf("fetch bookings: %w", err)
	}
	return set, nil
}

// Config возвращает конфигурацию инстанса, дефолтную если в хранилище её нет
func (s *BookingService) Config(ctx context.Context) (*model.InstanceConfig, error) {
	cfg, err := s.store.GetConfig(ctx, s.slug)
	if err != nil {
		return nil, fmt.Errorf("fetch instance config: %w", err)
	}
	if cfg == nil {
		cfg = model.DefaultInstanceConfig(s.slug)
	}
	return cfg, nil
}

// Create создаёт бронь. Конфликтные правила те же, что у клиента:
// занят стартовый слот — отказ, занят любой час внутри длительности — отказ
// с указанием конкретного слота.
func (s *BookingService) Create(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	req.User = model.SanitizeUser(req.User)

	if !model.ValidDateKey(req.DateKey) || !model.ValidTimeKey(req.TimeKey) || req.User == "" || !model.ValidDuration(req.Duration) {
		return nil, &ValidationError{Message: "Missing or invalid fields: dateKey, timeKey, user, duration"}
	}

	startHour, err := timegrid.ParseTimeKey(req.TimeKey)
	if err != nil {
		return nil, &ValidationError{Message: "Missing or invalid fields: dateKey, timeKey, user, duration"}
	}
	if startHour < timegrid.StartHour || startHour+req.Duration > timegrid.EndHour {
		return nil, &ValidationError{Message: fmt.Sprintf("Booking must fit within %02d:00-%02d:00", timegrid.StartHour, timegrid.EndHour)}
	}

	booking := model.Booking{User: req.User, Duration: req.Duration}

	err = s.writeWithRetry(ctx, func(set model.BookingSet) error {
		if st := conflict.StatusOf(set, req.DateKey, req.TimeKey, startHour); st.Status != conflict.StatusAvailable {
			return &ConflictError{Message: "Slot already booked"}
		}
		for i := 1; i < req.Duration; i++ {
			checkHour := startHour + i
			checkKey := timegrid.TimeKey(checkHour)
			if st := conflict.StatusOf(set, req.DateKey, checkKey, checkHour); st.Status != conflict.StatusAvailable {
				return &ConflictError{Message: fmt.Sprintf("Slot %s conflicts with booking duration", checkKey)}
			}
		}
		set.Set(req.DateKey, req.TimeKey, booking)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("date", req.DateKey),
		zap.String("time", req.TimeKey),
		zap.String("user", req.User),
		zap.Int("duration", req.Duration))

	if s.notifier != nil {
		s.notifier.BookingCreated(req.DateKey, req.TimeKey, booking)
	}

	return &booking, nil
}

// Update меняет поля существующей брони. При увеличении длительности
// проверяются только добавляемые часы; часы самой брони конфликтом
// не считаются.
func (s *BookingService) Update(ctx context.Context, req model.UpdateBookingRequest) (*model.Booking, error) {
	if req.Updates.User != nil {
		sanitized := model.SanitizeUser(*req.Updates.User)
		req.Updates.User = &sanitized
	}

	if !model.ValidDateKey(req.DateKey) || !model.ValidTimeKey(req.TimeKey) {
		return nil, &ValidationError{Message: "Missing or invalid fields: dateKey, timeKey, updates"}
	}
	if req.Updates.User == nil && req.Updates.Duration == nil {
		return nil, &ValidationError{Message: "Missing or invalid fields: dateKey, timeKey, updates"}
	}
	if req.Updates.User != nil && *req.Updates.User == "" {
		return nil, &ValidationError{Message: "Missing or invalid fields: dateKey, timeKey, updates"}
	}
	if req.Updates.Duration != nil && !model.ValidDuration(*req.Updates.Duration) {
		return nil, &ValidationError{Message: "Missing or invalid fields: dateKey, timeKey, updates"}
	}

	startHour, err := timegrid.ParseTimeKey(req.TimeKey)
	if err != nil {
		return nil, &ValidationError{Message: "Missing or invalid fields: dateKey, timeKey, updates"}
	}

	var updated model.Booking

	err = s.writeWithRetry(ctx, func(set model.BookingSet) error {
		current, ok := set.Get(req.DateKey, req.TimeKey)
		if !ok {
			return ErrBookingNotFound
		}

		if req.Updates.Duration != nil {
			newDuration := *req.Updates.Duration
			if startHour+newDuration > timegrid.EndHour {
				return &ValidationError{Message: fmt.Sprintf("Booking must fit within %02d:00-%02d:00", timegrid.StartHour, timegrid.EndHour)}
			}
			for i := current.Duration; i < newDuration; i++ {
				checkHour := startHour + i
				checkKey := timegrid.TimeKey(checkHour)
				st := conflict.StatusOf(set, req.DateKey, checkKey, checkHour)
				if st.Status == conflict.StatusBooked || (st.Status == conflict.StatusBlocked && st.StartKey != req.TimeKey) {
					return &ConflictError{Message: fmt.Sprintf("Cannot extend: slot %s is already booked", checkKey)}
				}
			}
		}

		updated = req.Updates.Apply(current)
		set.Set(req.DateKey, req.TimeKey, updated)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking updated",
		zap.String("date", req.DateKey),
		zap.String("time", req.TimeKey),
		zap.Int("duration", updated.Duration))

	return &updated, nil
}

// Delete удаляет бронь; опустевший день удаляется из документа целиком
func (s *BookingService) Delete(ctx context.Context, req model.DeleteBookingRequest) error {
	if !model.ValidDateKey(req.DateKey) || !model.ValidTimeKey(req.TimeKey) {
		return &ValidationError{Message: "Missing or invalid fields: dateKey, timeKey"}
	}

	err := s.writeWithRetry(ctx, func(set model.BookingSet) error {
		if !set.Remove(req.DateKey, req.TimeKey) {
			return ErrBookingNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Booking deleted",
		zap.String("date", req.DateKey),
		zap.String("time", req.TimeKey))

	if s.notifier != nil {
		s.notifier.BookingDeleted(req.DateKey, req.TimeKey)
	}

	return nil
}

// writeWithRetry выполняет read-modify-write документа с CAS по версии.
// mutate работает с копией свежего документа; при конфликте версий
// документ перечитывается и правила применяются заново.
func (s *BookingService) writeWithRetry(ctx context.Context, mutate func(set model.BookingSet) error) error {
	var lastErr error

	for attempt := 0; attempt < maxPutAttempts; attempt++ {
		set, version, err := s.store.GetBookings(ctx, s.slug)
		if err != nil {
			return fmt.Errorf("fetch bookings: %w", err)
		}

		working := set.Clone()
		if err := mutate(working); err != nil {
			return err
		}

		err = s.store.PutBookings(ctx, s.slug, working, version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return fmt.Errorf("save bookings: %w", err)
		}

		s.logger.Warn("Document version conflict, retrying",
			zap.Int("attempt", attempt+1))
		lastErr = err
	}

	return fmt.Errorf("save bookings: %w", lastErr)
}
