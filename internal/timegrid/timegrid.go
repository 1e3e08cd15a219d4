package timegrid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Дневное окно бронирования: 06:00 - 22:00, 16 часовых слотов.
// Это фиксированные константы, не конфигурация.
const (
	StartHour = 6
	EndHour   = 22
	SlotCount = EndHour - StartHour
)

// Slot один бронируемый час дня
type Slot struct {
	Hour    int
	TimeKey string
}

// SlotsForDay возвращает фиксированную упорядоченную сетку слотов дня
func SlotsForDay() []Slot {
	slots := make([]Slot, 0, SlotCount)
	for hour := StartHour; hour < EndHour; hour++ {
		slots = append(slots, Slot{Hour: hour, TimeKey: TimeKey(hour)})
	}
	return slots
}

// TimeKey канонический ключ слота: "HH:00"
func TimeKey(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// DateKey канонический ключ дня: "YYYY-MM-DD"
func DateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// ParseTimeKey обратное преобразование ключа слота в час
func ParseTimeKey(key string) (int, error) {
	h, rest, ok := strings.Cut(key, ":")
	if !ok || rest != "00" {
		return 0, fmt.Errorf("invalid time key %q", key)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid time key %q: %w", key, err)
	}
	return hour, nil
}

// ParseDateKey обратное преобразование ключа дня в дату (полночь, локальная зона)
func ParseDateKey(key string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return date, nil
}

// IsPast проверяет, прошёл ли слот. Слот считается прошедшим только когда
// часы дошли до начала СЛЕДУЮЩЕГО часа: весь свой 60-минутный интервал
// слот остаётся бронируемым, даже если час уже начался.
func IsPast(date time.Time, hour int, now time.Time) bool {
	slotEnd := time.Date(date.Year(), date.Month(), date.Day(), hour+1, 0, 0, 0, date.Location())
	return !now.Before(slotEnd)
}

// IsToday проверяет что дата — сегодня
func IsToday(date time.Time, now time.Time) bool {
	return DateKey(date) == DateKey(now)
}

// AddDays сдвигает дату на days дней
func AddDays(date time.Time, days int) time.Time {
	return date.AddDate(0, 0, days)
}

// StartOfWeek возвращает понедельник недели, в которую попадает дата
func StartOfWeek(date time.Time) time.Time {
	diff := int(time.Monday - date.Weekday())
	if date.Weekday() == time.Sunday {
		diff = -6
	}
	return AddDays(date, diff)
}

// WeekDays возвращает 7 дней недели начиная со startDate
func WeekDays(startDate time.Time) []time.Time {
	days := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, AddDays(startDate, i))
	}
	return days
}
