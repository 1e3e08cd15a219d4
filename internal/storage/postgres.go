package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/booking_calendar/internal/model"
)

// PostgresStore хранит документ календаря строкой jsonb на инстанс.
// CAS — обычный UPDATE ... WHERE version = $n.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// GetBookings читает документ; отсутствие строки — пустой набор, версия 0
func (s *PostgresStore) GetBookings(ctx context.Context, slug string) (model.BookingSet, int64, error) {
	query := `
		SELECT bookings, version
		FROM calendar_documents
		WHERE slug = $1
	`

	var data []byte
	var version int64
	err := s.pool.QueryRow(ctx, query, slug).Scan(&data, &version)
	if err == pgx.ErrNoRows {
		return model.BookingSet{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("get bookings document: %w", err)
	}

	var set model.BookingSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, 0, fmt.Errorf("decode bookings document: %w", err)
	}
	if set == nil {
		set = model.BookingSet{}
	}
	return set, version, nil
}

// PutBookings записывает документ целиком, CAS по версии
func (s *PostgresStore) PutBookings(ctx context.Context, slug string, set model.BookingSet, expectedVersion int64) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode bookings document: %w", err)
	}

	if expectedVersion == 0 {
		query := `
			INSERT INTO calendar_documents (slug, bookings, version)
			VALUES ($1, $2, 1)
			ON CONFLICT (slug) DO NOTHING
		`
		tag, err := s.pool.Exec(ctx, query, slug, data)
		if err != nil {
			return fmt.Errorf("insert bookings document: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrVersionConflict
		}
		return nil
	}

	query := `
		UPDATE calendar_documents
		SET bookings = $2, version = version + 1, updated_at = now()
		WHERE slug = $1 AND version = $3
	`
	tag, err := s.pool.Exec(ctx, query, slug, data, expectedVersion)
	if err != nil {
		return fmt.Errorf("update bookings document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

// GetConfig читает конфигурацию инстанса, nil если её нет
func (s *PostgresStore) GetConfig(ctx context.Context, slug string) (*model.InstanceConfig, error) {
	query := `
		SELECT config
		FROM calendar_configs
		WHERE slug = $1
	`

	var data []byte
	err := s.pool.QueryRow(ctx, query, slug).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get instance config: %w", err)
	}

	var cfg model.InstanceConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode instance config: %w", err)
	}
	return &cfg, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close ничего не закрывает: пулом владеет main
func (s *PostgresStore) Close() error {
	return nil
}
