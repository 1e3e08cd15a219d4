package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/booking_calendar/internal/app"
	"github.com/Freeeeeet/booking_calendar/internal/client"
	"github.com/Freeeeeet/booking_calendar/internal/conflict"
	"github.com/Freeeeeet/booking_calendar/internal/model"
	"github.com/Freeeeeet/booking_calendar/internal/store"
	"github.com/Freeeeeet/booking_calendar/internal/timegrid"
)

// Консольный клиент календаря: смотрит сетку дня, бронирует и отменяет
// слоты через тот же клиентский кеш с оптимистичными мутациями, что и UI.
func main() {
	var (
		apiURL    = flag.String("api", "http://localhost:8080", "base URL of the booking API")
		localPath = flag.String("local", "", "path to a local bookings file (offline mode, overrides -api)")
		action    = flag.String("action", "list", "list | book | resize | cancel | watch")
		date      = flag.String("date", timegrid.DateKey(time.Now()), "date key (YYYY-MM-DD)")
		timeKey   = flag.String("time", "", "time key (HH:00)")
		user      = flag.String("user", "", "user name for booking")
		duration  = flag.Int("duration", 1, "booking duration in hours")
	)
	flag.Parse()

	logger := app.NewLogger(os.Getenv("ENV"))
	defer logger.Sync()

	var remote client.Remote
	if *localPath != "" {
		remote = client.NewLocalClient(*localPath, "local")
	} else {
		remote = client.NewAPIClient(*apiURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := store.NewStore(remote, logger)
	defer s.Close()

	if err := s.Load(ctx); err != nil {
		log.Fatalf("Failed to load bookings: %v", err)
	}

	switch *action {
	case "list":
		printDay(s, *date)

	case "book":
		if *timeKey == "" || *user == "" {
			log.Fatal("Flags -time and -user are required for booking")
		}
		hour := mustHour(*timeKey)
		if !s.CanCreate(*date, hour, *duration) {
			log.Fatalf("Slot %s on %s conflicts with an existing booking", *timeKey, *date)
		}
		if err := s.Create(ctx, *date, *timeKey, *user, *duration); err != nil {
			log.Fatalf("Booking rejected: %v", err)
		}
		printDay(s, *date)

	case "resize":
		if *timeKey == "" {
			log.Fatal("Flag -time is required for resize")
		}
		hour := mustHour(*timeKey)
		current, ok := s.Snapshot().Get(*date, *timeKey)
		if !ok {
			log.Fatalf("No booking at %s %s", *date, *timeKey)
		}
		if !s.CanResize(*date, *timeKey, hour, current.Duration, *duration) {
			log.Fatalf("Cannot resize booking at %s to %d hours", *timeKey, *duration)
		}
		if err := s.Update(ctx, *date, *timeKey, model.BookingUpdate{Duration: duration}); err != nil {
			log.Fatalf("Resize rejected: %v", err)
		}
		printDay(s, *date)

	case "cancel":
		if *timeKey == "" {
			log.Fatal("Flag -time is required for cancel")
		}
		if err := s.Remove(ctx, *date, *timeKey); err != nil {
			log.Fatalf("Cancel rejected: %v", err)
		}
		printDay(s, *date)

	case "watch":
		// Фоновая синхронизация + перерисовка: видно, как чужие брони
		// приезжают в кеш раз в интервал опроса
		poller := store.NewPoller(s, store.DefaultSyncInterval, logger)
		poller.Start(ctx)
		defer poller.Stop()

		ticker := time.NewTicker(store.DefaultSyncInterval)
		defer ticker.Stop()
		printDay(s, *date)
		for {
			select {
			case <-ticker.C:
				printDay(s, *date)
			case <-ctx.Done():
				return
			}
		}

	default:
		log.Fatalf("Unknown action %q", *action)
	}
}

func mustHour(timeKey string) int {
	hour, err := timegrid.ParseTimeKey(timeKey)
	if err != nil {
		log.Fatalf("Invalid time key: %v", err)
	}
	return hour
}

func printDay(s *store.Store, dateKey string) {
	fmt.Printf("\n%s\n", dateKey)

	date, err := timegrid.ParseDateKey(dateKey)
	if err != nil {
		log.Fatalf("Invalid date key: %v", err)
	}
	now := time.Now()

	for _, slot := range timegrid.SlotsForDay() {
		marker := " "
		if timegrid.IsPast(date, slot.Hour, now) {
			marker = "·"
		}

		st := s.StatusOf(dateKey, slot.TimeKey, slot.Hour)
		switch st.Status {
		case conflict.StatusBooked:
			fmt.Printf("%s %s  %s (%d h)\n", marker, slot.TimeKey, st.Booking.User, st.Booking.Duration)
		case conflict.StatusBlocked:
			fmt.Printf("%s %s  └─ %s (from %s)\n", marker, slot.TimeKey, st.Booking.User, st.StartKey)
		default:
			fmt.Printf("%s %s  —\n", marker, slot.TimeKey)
		}
	}
}
