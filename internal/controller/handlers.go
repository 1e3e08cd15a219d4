package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/Freeeeeet/booking_calendar/internal/model"
	"github.com/Freeeeeet/booking_calendar/internal/service"
)

// Handlers HTTP-обработчики API календаря
type Handlers struct {
	bookingService *service.BookingService
	logger         *zap.Logger
}

func NewHandlers(bookingService *service.BookingService, logger *zap.Logger) *Handlers {
	return &Handlers{
		bookingService: bookingService,
		logger:         logger,
	}
}

// HandleHealth простой health check
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleGetBookings GET /api/bookings — весь документ, пустой объект если броней нет
func (h *Handlers) HandleGetBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	set, err := h.bookingService.Bookings(r.Context())
	if err != nil {
		h.serverError(w, "Error handling bookings", err)
		return
	}
	if set == nil {
		set = model.BookingSet{}
	}
	writeJSON(w, http.StatusOK, set)
}

// HandleCreateBooking POST /api/bookings
func (h *Handlers) HandleCreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	created, err := h.bookingService.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "Error handling bookings", err)
		return
	}

	// в ответ уходит сохранённая бронь: user мог быть подрезан санитайзером
	writeJSON(w, http.StatusCreated, model.CreatedBookingResponse{
		Success: true,
		Booking: model.CreateBookingRequest{
			DateKey:  req.DateKey,
			TimeKey:  req.TimeKey,
			User:     created.User,
			Duration: created.Duration,
		},
	})
}

// HandleUpdateBooking PUT /api/bookings/update
func (h *Handlers) HandleUpdateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	booking, err := h.bookingService.Update(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "Error handling booking update", err)
		return
	}

	writeJSON(w, http.StatusOK, model.BookingResponse{Success: true, Booking: booking})
}

// HandleDeleteBooking DELETE /api/bookings/update
func (h *Handlers) HandleDeleteBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.DeleteBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.bookingService.Delete(r.Context(), req); err != nil {
		h.writeServiceError(w, "Error handling booking delete", err)
		return
	}

	writeJSON(w, http.StatusOK, model.BookingResponse{Success: true})
}

// HandleGetConfig GET /api/config — конфигурация инстанса только на чтение
func (h *Handlers) HandleGetConfig(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cfg, err := h.bookingService.Config(r.Context())
	if err != nil {
		h.serverError(w, "Error fetching config", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// writeServiceError транслирует ошибки сервиса в HTTP-статусы:
// валидация — 400, не найдено — 404, конфликт броней — 409
func (h *Handlers) writeServiceError(w http.ResponseWriter, logMsg string, err error) {
	var validationErr *service.ValidationError
	var conflictErr *service.ConflictError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, service.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "Booking not found")
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, conflictErr.Message)
	default:
		h.serverError(w, logMsg, err)
	}
}

func (h *Handlers) serverError(w http.ResponseWriter, logMsg string, err error) {
	h.logger.Error(logMsg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
