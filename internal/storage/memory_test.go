package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/booking_calendar/internal/model"
)

func TestMemoryStore_VersionSemantics(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	set, version, err := s.GetBookings(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if version != 0 || len(set) != 0 {
		t.Fatalf("fresh document: set=%v version=%d", set, version)
	}

	set.Set("2026-02-13", "09:00", model.Booking{User: "Jack", Duration: 1})
	if err := s.PutBookings(ctx, "a", set, 0); err != nil {
		t.Fatalf("first put: %v", err)
	}

	_, version, _ = s.GetBookings(ctx, "a")
	if version != 1 {
		t.Errorf("version after first put = %d, want 1", version)
	}

	// A stale writer must be rejected
	err = s.PutBookings(ctx, "a", set, 0)
	if !errors.Is(err, ErrVersionConflict) {
		t.Errorf("stale put: expected ErrVersionConflict, got %v", err)
	}

	if err := s.PutBookings(ctx, "a", set, 1); err != nil {
		t.Errorf("current-version put: %v", err)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	seed := model.BookingSet{}
	seed.Set("2026-02-13", "09:00", model.Booking{User: "Jack", Duration: 1})
	if err := s.PutBookings(ctx, "a", seed, 0); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, version, _ := s.GetBookings(ctx, "a")
	got.Set("2026-02-13", "10:00", model.Booking{User: "Rue", Duration: 1})

	again, _, _ := s.GetBookings(ctx, "a")
	if _, ok := again.Get("2026-02-13", "10:00"); ok {
		t.Error("mutating a fetched set must not touch the stored document")
	}
	if version != 1 {
		t.Errorf("version = %d", version)
	}
}

func TestMemoryStore_SlugsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	set := model.BookingSet{}
	set.Set("2026-02-13", "09:00", model.Booking{User: "Jack", Duration: 1})
	if err := s.PutBookings(ctx, "a", set, 0); err != nil {
		t.Fatalf("put: %v", err)
	}

	other, version, _ := s.GetBookings(ctx, "b")
	if len(other) != 0 || version != 0 {
		t.Errorf("instance b must be empty: set=%v version=%d", other, version)
	}
}

func TestMemoryStore_Config(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cfg, err := s.GetConfig(ctx, "a")
	if err != nil || cfg != nil {
		t.Fatalf("missing config must be (nil, nil), got (%v, %v)", cfg, err)
	}

	s.SetConfig("a", &model.InstanceConfig{Slug: "a", Title: "Test"})
	cfg, err = s.GetConfig(ctx, "a")
	if err != nil || cfg == nil || cfg.Title != "Test" {
		t.Errorf("stored config: (%v, %v)", cfg, err)
	}
}
