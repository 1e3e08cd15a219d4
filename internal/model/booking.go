package model

// Booking одна бронь: пользователь занимает duration последовательных часовых
// слотов начиная с того слота, под ключом которого бронь хранится
type Booking struct {
	User     string `json:"user"`
	Duration int    `json:"duration"`
}

// DayBookings все брони одного дня, ключ — timeKey ("HH:00")
type DayBookings map[string]Booking

// BookingSet весь документ календаря: dateKey ("YYYY-MM-DD") -> брони дня.
// Инвариант: пустые дни не хранятся (день удаляется вместе с последней бронью).
// Непересечение броней обеспечивает conflict engine, не сама структура.
type BookingSet map[string]DayBookings

// Get возвращает бронь по ключам дня и слота
func (s BookingSet) Get(dateKey, timeKey string) (Booking, bool) {
	day, ok := s[dateKey]
	if !ok {
		return Booking{}, false
	}
	b, ok := day[timeKey]
	return b, ok
}

// ForDate возвращает брони одного дня (nil если дня нет)
func (s BookingSet) ForDate(dateKey string) DayBookings {
	return s[dateKey]
}

// Set кладёт бронь, создавая день при необходимости
func (s BookingSet) Set(dateKey, timeKey string, b Booking) {
	day, ok := s[dateKey]
	if !ok {
		day = DayBookings{}
		s[dateKey] = day
	}
	day[timeKey] = b
}

// Remove удаляет бронь и подчищает опустевший день.
// Возвращает false если брони не было.
func (s BookingSet) Remove(dateKey, timeKey string) bool {
	day, ok := s[dateKey]
	if !ok {
		return false
	}
	if _, ok := day[timeKey]; !ok {
		return false
	}
	delete(day, timeKey)
	if len(day) == 0 {
		delete(s, dateKey)
	}
	return true
}

// Clone делает глубокую копию документа.
// Кеш клиента и сервис сервера всегда работают с копиями, чтобы
// оптимистичные мутации не аласили чужие снапшоты.
func (s BookingSet) Clone() BookingSet {
	out := make(BookingSet, len(s))
	for dateKey, day := range s {
		dayCopy := make(DayBookings, len(day))
		for timeKey, b := range day {
			dayCopy[timeKey] = b
		}
		out[dateKey] = dayCopy
	}
	return out
}

// Count общее число броней в документе
func (s BookingSet) Count() int {
	n := 0
	for _, day := range s {
		n += len(day)
	}
	return n
}

// BookingUpdate частичное обновление брони: меняются только заданные поля
type BookingUpdate struct {
	User     *string `json:"user,omitempty"`
	Duration *int    `json:"duration,omitempty"`
}

// Apply накладывает обновление на существующую бронь
func (u BookingUpdate) Apply(b Booking) Booking {
	if u.User != nil {
		b.User = *u.User
	}
	if u.Duration != nil {
		b.Duration = *u.Duration
	}
	return b
}
