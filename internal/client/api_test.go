package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Freeeeeet/booking_calendar/internal/model"
)

func TestAPIClient_FetchBookings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/bookings" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"2026-02-13":{"09:00":{"user":"Jack","duration":2}}}`))
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)
	set, err := c.FetchBookings(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if b, ok := set.Get("2026-02-13", "09:00"); !ok || b.Duration != 2 {
		t.Errorf("unexpected set: %v", set)
	}
}

func TestAPIClient_CreateSendsPayload(t *testing.T) {
	var got model.CreateBookingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.CreatedBookingResponse{Success: true, Booking: got})
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)
	err := c.CreateBooking(context.Background(), model.CreateBookingRequest{
		DateKey: "2026-02-13", TimeKey: "09:00", User: "Jack", Duration: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.User != "Jack" || got.Duration != 2 {
		t.Errorf("server saw %+v", got)
	}
}

func TestAPIClient_ServerErrorMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(model.ErrorResponse{Error: "Slot already booked"})
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)
	err := c.CreateBooking(context.Background(), model.CreateBookingRequest{
		DateKey: "2026-02-13", TimeKey: "09:00", User: "Jack", Duration: 1,
	})
	if err == nil || err.Error() != "Slot already booked" {
		t.Errorf("err = %v", err)
	}
}

func TestAPIClient_OpaqueErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)
	_, err := c.FetchBookings(context.Background())
	if err == nil {
		t.Fatal("expected error for non-JSON error body")
	}
}
