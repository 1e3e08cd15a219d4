package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Freeeeeet/booking_calendar/internal/client"
	"github.com/Freeeeeet/booking_calendar/internal/conflict"
	"github.com/Freeeeeet/booking_calendar/internal/model"
	"github.com/Freeeeeet/booking_calendar/internal/timegrid"
)

// Store клиентский кеш броней с оптимистичными мутациями.
//
// Мутация применяется к кешу сразу, до сетевого запроса, и видна
// читателям немедленно. Если запись на сервер не удалась, никакого
// пофилдового отката нет: кеш целиком заменяется свежим документом
// сервера (ForceSync). До этого кеш может одну итерацию показывать
// неподтверждённое состояние — это осознанная цена отзывчивости.
//
// Кеш защищён мьютексом: фоновый поллер и вызывающий код работают
// из разных горутин.
type Store struct {
	remote client.Remote
	logger *zap.Logger

	mu       sync.RWMutex
	bookings model.BookingSet
	loading  bool
	lastErr  error
	closed   bool

	syncing atomic.Bool
}

func NewStore(remote client.Remote, logger *zap.Logger) *Store {
	return &Store{
		remote:   remote,
		logger:   logger,
		bookings: model.BookingSet{},
		loading:  true,
	}
}

// Load начальная загрузка: документ сервера заменяет кеш целиком.
// loading снимается и при успехе, и при ошибке; при ошибке кеш
// остаётся прежним, ошибка сохраняется.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	set, err := s.remote.FetchBookings(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if s.closed {
		return nil
	}
	if err != nil {
		s.lastErr = err
		return fmt.Errorf("load bookings: %w", err)
	}
	s.bookings = set
	return nil
}

// Create оптимистично создаёт бронь. Предусловие: вызывающий уже
// проверил CanCreate по текущему кешу.
func (s *Store) Create(ctx context.Context, dateKey, timeKey, user string, duration int) error {
	s.mu.Lock()
	next := s.bookings.Clone()
	next.Set(dateKey, timeKey, model.Booking{User: user, Duration: duration})
	s.bookings = next
	s.mu.Unlock()

	err := s.remote.CreateBooking(ctx, model.CreateBookingRequest{
		DateKey:  dateKey,
		TimeKey:  timeKey,
		User:     user,
		Duration: duration,
	})
	if err != nil {
		s.recoverAfterFailure(ctx, "create", err)
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// Update оптимистично меняет только переданные поля брони
func (s *Store) Update(ctx context.Context, dateKey, timeKey string, updates model.BookingUpdate) error {
	s.mu.Lock()
	if current, ok := s.bookings.Get(dateKey, timeKey); ok {
		next := s.bookings.Clone()
		next.Set(dateKey, timeKey, updates.Apply(current))
		s.bookings = next
	}
	s.mu.Unlock()

	_, err := s.remote.UpdateBooking(ctx, model.UpdateBookingRequest{
		DateKey: dateKey,
		TimeKey: timeKey,
		Updates: updates,
	})
	if err != nil {
		s.recoverAfterFailure(ctx, "update", err)
		return fmt.Errorf("update booking: %w", err)
	}
	return nil
}

// Remove оптимистично удаляет бронь; опустевший день уходит из кеша сразу
func (s *Store) Remove(ctx context.Context, dateKey, timeKey string) error {
	s.mu.Lock()
	next := s.bookings.Clone()
	next.Remove(dateKey, timeKey)
	s.bookings = next
	s.mu.Unlock()

	err := s.remote.DeleteBooking(ctx, model.DeleteBookingRequest{
		DateKey: dateKey,
		TimeKey: timeKey,
	})
	if err != nil {
		s.recoverAfterFailure(ctx, "delete", err)
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}

// recoverAfterFailure единственный путь восстановления после неудачной
// мутации: запомнить ошибку и принудительно перечитать документ сервера
func (s *Store) recoverAfterFailure(ctx context.Context, op string, err error) {
	s.logger.Error("Booking mutation failed, forcing re-sync",
		zap.String("op", op),
		zap.Error(err))

	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()

	if syncErr := s.ForceSync(ctx); syncErr != nil {
		s.logger.Warn("Recovery sync failed", zap.Error(syncErr))
	}
}

// ForceSync немедленный fetch-and-replace вне каденции поллера.
// Повторный вызов при незавершённом предыдущем пропускается: летящий
// fetch всё равно заменит кеш. После Close результат не применяется.
func (s *Store) ForceSync(ctx context.Context) error {
	if !s.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer s.syncing.Store(false)

	set, err := s.remote.FetchBookings(ctx)
	if err != nil {
		return fmt.Errorf("sync bookings: %w", err)
	}
	if set == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.bookings = set
	return nil
}

// Snapshot глубокая копия кеша: вызывающий никогда не аласит живой документ
func (s *Store) Snapshot() model.BookingSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookings.Clone()
}

// ForDate брони одного дня (копия)
func (s *Store) ForDate(dateKey string) model.DayBookings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := s.bookings.ForDate(dateKey)
	out := make(model.DayBookings, len(day))
	for k, v := range day {
		out[k] = v
	}
	return out
}

// StatusOf статус слота по текущему кешу
func (s *Store) StatusOf(dateKey, timeKey string, hour int) conflict.SlotStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return conflict.StatusOf(s.bookings, dateKey, timeKey, hour)
}

// CanCreate проверка создания по текущему кешу. Границы дневного окна
// проверяются здесь: сам движок о них не знает.
func (s *Store) CanCreate(dateKey string, startHour, duration int) bool {
	if startHour < timegrid.StartHour || startHour+duration > timegrid.EndHour {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return conflict.CanCreate(s.bookings, dateKey, startHour, duration)
}

// CanResize проверка смены длительности по текущему кешу
func (s *Store) CanResize(dateKey, timeKey string, startHour, currentDuration, newDuration int) bool {
	if startHour+newDuration > timegrid.EndHour {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return conflict.CanResize(s.bookings, dateKey, timeKey, startHour, currentDuration, newDuration)
}

// Loading идёт ли начальная загрузка
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err последняя ошибка мутации или загрузки
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearErr сбрасывает ошибку после показа пользователю
func (s *Store) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// Close помечает стор закрытым: результаты летящих fetch-ей больше
// не применяются
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
