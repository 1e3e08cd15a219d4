package model

// DTO общего контракта API: их использует и сервер, и HTTP-клиент.

// CreateBookingRequest тело POST /api/bookings
type CreateBookingRequest struct {
	DateKey  string `json:"dateKey"`
	TimeKey  string `json:"timeKey"`
	User     string `json:"user"`
	Duration int    `json:"duration"`
}

// UpdateBookingRequest тело PUT /api/bookings/update
type UpdateBookingRequest struct {
	DateKey string        `json:"dateKey"`
	TimeKey string        `json:"timeKey"`
	Updates BookingUpdate `json:"updates"`
}

// DeleteBookingRequest тело DELETE /api/bookings/update
type DeleteBookingRequest struct {
	DateKey string `json:"dateKey"`
	TimeKey string `json:"timeKey"`
}

// BookingResponse успешный ответ create/update
type BookingResponse struct {
	Success bool     `json:"success"`
	Booking *Booking `json:"booking,omitempty"`
}

// CreatedBookingResponse ответ create возвращает бронь вместе с её ключами
type CreatedBookingResponse struct {
	Success bool                 `json:"success"`
	Booking CreateBookingRequest `json:"booking"`
}

// ErrorResponse ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}
