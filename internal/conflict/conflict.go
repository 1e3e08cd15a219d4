package conflict

import (
	"github.com/Freeeeeet/booking_calendar/internal/model"
	"github.com/Freeeeeet/booking_calendar/internal/timegrid"
)

// Чистые функции над снапшотом BookingSet: статус слота и проверка
// конфликтов при создании/изменении брони. Никакого состояния и
// побочных эффектов — и клиент, и сервер валидируют одним кодом.

type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
	StatusBlocked   Status = "blocked"
)

// SlotStatus вычисленный статус слота. Никогда не хранится — всегда
// выводится заново из текущего BookingSet.
//   - available: Booking == nil
//   - booked:    слот — начало брони, Booking заполнен
//   - blocked:   слот внутри многочасовой брони, Booking и StartKey
//     указывают на владеющую бронь
type SlotStatus struct {
	Status   Status
	Booking  *model.Booking
	StartKey string
}

// StatusOf определяет статус одного слота.
// Сначала прямое попадание по ключу (начало брони), затем линейный скан
// броней дня на предмет перекрытия — дней максимум 16 слотов, O(n) по
// броням дня достаточно.
func StatusOf(set model.BookingSet, dateKey, timeKey string, hour int) SlotStatus {
	day := set.ForDate(dateKey)

	if b, ok := day[timeKey]; ok {
		return SlotStatus{Status: StatusBooked, Booking: &b, StartKey: timeKey}
	}

	if b, startKey, ok := blockedBy(day, hour); ok {
		return SlotStatus{Status: StatusBlocked, Booking: &b, StartKey: startKey}
	}

	return SlotStatus{Status: StatusAvailable}
}

// blockedBy ищет бронь, внутрь которой попадает час.
// Заблокированы только строго внутренние часы: сам стартовый час — booked,
// а первый час после конца брони уже свободен.
func blockedBy(day model.DayBookings, hour int) (model.Booking, string, bool) {
	for startKey, b := range day {
		startHour, err := timegrid.ParseTimeKey(startKey)
		if err != nil {
			continue
		}
		duration := b.Duration
		if duration < 1 {
			duration = 1
		}
		if hour > startHour && hour < startHour+duration {
			return b, startKey, true
		}
	}
	return model.Booking{}, "", false
}

// CanCreate проверяет, можно ли создать бронь на duration часов начиная
// с startHour. Всё или ничего: один конфликтный час отклоняет всю бронь.
// Границы дневного окна движок не знает — их проверяет вызывающий.
func CanCreate(set model.BookingSet, dateKey string, startHour, duration int) bool {
	day := set.ForDate(dateKey)

	for i := 0; i < duration; i++ {
		checkHour := startHour + i
		if _, ok := day[timegrid.TimeKey(checkHour)]; ok {
			return false
		}
		if _, _, ok := blockedBy(day, checkHour); ok {
			return false
		}
	}
	return true
}

// CanResize проверяет смену длительности существующей брони.
// Проверяются только добавляемые часы (i >= currentDuration): часы, уже
// занятые самой бронью, не считаются конфликтом, как и blocked-статус,
// принадлежащий ей же (совпадение по стартовому ключу). Сжатие всегда
// проходит — новых часов нет.
func CanResize(set model.BookingSet, dateKey, timeKey string, startHour, currentDuration, newDuration int) bool {
	if newDuration <= currentDuration {
		return true
	}

	day := set.ForDate(dateKey)

	for i := currentDuration; i < newDuration; i++ {
		checkHour := startHour + i
		if _, ok := day[timegrid.TimeKey(checkHour)]; ok {
			return false
		}
		if _, startKey, ok := blockedBy(day, checkHour); ok && startKey != timeKey {
			return false
		}
	}
	return true
}
