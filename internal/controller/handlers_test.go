package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/Freeeeeet/booking_calendar/internal/model"
	"github.com/Freeeeeet/booking_calendar/internal/service"
	"github.com/Freeeeeet/booking_calendar/internal/storage"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := service.NewBookingService(store, "test-instance", nil, zap.NewNop())
	handlers := NewHandlers(svc, zap.NewNop())
	return NewRouter(handlers, []string{"http://localhost:5173"}, zap.NewNop())
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp model.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp.Error
}

func TestGetBookings_EmptyDocument(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/bookings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := bytes.TrimSpace(rec.Body.Bytes()); string(body) != "{}" {
		t.Errorf("empty document must serialize as {}, got %s", body)
	}
}

func TestCreateAndFetch(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/bookings", model.CreateBookingRequest{
		DateKey: "2026-02-13", TimeKey: "09:00", User: "Jack", Duration: 2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created model.CreatedBookingResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.Success || created.Booking.User != "Jack" {
		t.Errorf("unexpected create response: %+v", created)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/bookings", nil)
	var set model.BookingSet
	if err := json.NewDecoder(rec.Body).Decode(&set); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b, ok := set.Get("2026-02-13", "09:00"); !ok || b.Duration != 2 {
		t.Errorf("created booking missing from fetched document: %v", set)
	}
}

func TestCreate_ConflictResponses(t *testing.T) {
	router := newTestRouter(t)

	seed := model.CreateBookingRequest{DateKey: "2026-02-13", TimeKey: "09:00", User: "Jack", Duration: 2}
	if rec := doJSON(t, router, http.MethodPost, "/api/bookings", seed); rec.Code != http.StatusCreated {
		t.Fatalf("seed status = %d", rec.Code)
	}

	t.Run("direct conflict", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/bookings", seed)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d", rec.Code)
		}
		if msg := decodeError(t, rec); msg != "Slot already booked" {
			t.Errorf("error = %q", msg)
		}
	})

	t.Run("duration conflict names the slot", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/bookings", model.CreateBookingRequest{
			DateKey: "2026-02-13", TimeKey: "07:00", User: "Rue", Duration: 3,
		})
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d", rec.Code)
		}
		if msg := decodeError(t, rec); msg != "Slot 09:00 conflicts with booking duration" {
			t.Errorf("error = %q", msg)
		}
	})

	t.Run("validation error", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/bookings", model.CreateBookingRequest{
			DateKey: "2026-02-13", TimeKey: "09:30", User: "Rue", Duration: 1,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestUpdateAndDelete(t *testing.T) {
	router := newTestRouter(t)

	seed := model.CreateBookingRequest{DateKey: "2026-02-13", TimeKey: "09:00", User: "Jack", Duration: 2}
	if rec := doJSON(t, router, http.MethodPost, "/api/bookings", seed); rec.Code != http.StatusCreated {
		t.Fatalf("seed status = %d", rec.Code)
	}

	t.Run("update merges fields", func(t *testing.T) {
		user := "Rue"
		rec := doJSON(t, router, http.MethodPut, "/api/bookings/update", model.UpdateBookingRequest{
			DateKey: "2026-02-13", TimeKey: "09:00",
			Updates: model.BookingUpdate{User: &user},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp model.BookingResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Booking.User != "Rue" || resp.Booking.Duration != 2 {
			t.Errorf("merged booking = %+v", resp.Booking)
		}
	})

	t.Run("update missing booking", func(t *testing.T) {
		user := "Rue"
		rec := doJSON(t, router, http.MethodPut, "/api/bookings/update", model.UpdateBookingRequest{
			DateKey: "2026-02-14", TimeKey: "09:00",
			Updates: model.BookingUpdate{User: &user},
		})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d", rec.Code)
		}
		if msg := decodeError(t, rec); msg != "Booking not found" {
			t.Errorf("error = %q", msg)
		}
	})

	t.Run("extend conflict", func(t *testing.T) {
		blocker := model.CreateBookingRequest{DateKey: "2026-02-13", TimeKey: "11:00", User: "Joel", Duration: 1}
		if rec := doJSON(t, router, http.MethodPost, "/api/bookings", blocker); rec.Code != http.StatusCreated {
			t.Fatalf("blocker status = %d", rec.Code)
		}

		duration := 3
		rec := doJSON(t, router, http.MethodPut, "/api/bookings/update", model.UpdateBookingRequest{
			DateKey: "2026-02-13", TimeKey: "09:00",
			Updates: model.BookingUpdate{Duration: &duration},
		})
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d", rec.Code)
		}
		if msg := decodeError(t, rec); msg != "Cannot extend: slot 11:00 is already booked" {
			t.Errorf("error = %q", msg)
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/bookings/update", model.DeleteBookingRequest{
			DateKey: "2026-02-13", TimeKey: "09:00",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}

		rec = doJSON(t, router, http.MethodDelete, "/api/bookings/update", model.DeleteBookingRequest{
			DateKey: "2026-02-13", TimeKey: "09:00",
		})
		if rec.Code != http.StatusNotFound {
			t.Errorf("repeat delete status = %d", rec.Code)
		}
	})
}

func TestGetConfig_DefaultFallback(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var cfg model.InstanceConfig
	if err := json.NewDecoder(rec.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Slug != "test-instance" || len(cfg.Users) == 0 {
		t.Errorf("default config not served: %+v", cfg)
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}
}
