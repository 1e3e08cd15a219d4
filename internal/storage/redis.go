package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Freeeeeet/booking_calendar/internal/model"
)

// RedisStore хранит документ календаря одним JSON-блобом в Redis.
// CAS реализован через WATCH-транзакцию: версия лежит внутри обёртки
// документа, конкурентная запись между чтением и EXEC роняет транзакцию.
type RedisStore struct {
	client *redis.Client
}

// redisDocument обёртка документа в Redis: брони плюс версия для CAS
type redisDocument struct {
	Version  int64            `json:"version"`
	Bookings model.BookingSet `json:"bookings"`
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password, // может быть пустым
		DB:       db,
	})
	return &RedisStore{client: rdb}
}

func bookingsKey(slug string) string {
	return fmt.Sprintf("instance:%s:bookings", slug)
}

func configKey(slug string) string {
	return fmt.Sprintf("instance:%s:config", slug)
}

// GetBookings читает документ; отсутствие ключа — пустой набор, версия 0
func (s *RedisStore) GetBookings(ctx context.Context, slug string) (model.BookingSet, int64, error) {
	val, err := s.client.Get(ctx, bookingsKey(slug)).Result()
	if err == redis.Nil {
		return model.BookingSet{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("get bookings document: %w", err)
	}

	var doc redisDocument
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return nil, 0, fmt.Errorf("decode bookings document: %w", err)
	}
	if doc.Bookings == nil {
		doc.Bookings = model.BookingSet{}
	}
	return doc.Bookings, doc.Version, nil
}

// PutBookings записывает документ целиком, CAS по версии
func (s *RedisStore) PutBookings(ctx context.Context, slug string, set model.BookingSet, expectedVersion int64) error {
	key := bookingsKey(slug)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		current := int64(0)
		if err == nil {
			var doc redisDocument
			if err := json.Unmarshal([]byte(val), &doc); err != nil {
				return fmt.Errorf("decode bookings document: %w", err)
			}
			current = doc.Version
		} else if err != redis.Nil {
			return fmt.Errorf("get bookings document: %w", err)
		}

		if current != expectedVersion {
			return ErrVersionConflict
		}

		data, err := json.Marshal(redisDocument{Version: expectedVersion + 1, Bookings: set})
		if err != nil {
			return fmt.Errorf("encode bookings document: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)

	// WATCH сработал: кто-то записал ключ между GET и EXEC
	if errors.Is(err, redis.TxFailedErr) {
		return ErrVersionConflict
	}
	return err
}

// GetConfig читает конфигурацию инстанса, nil если её нет
func (s *RedisStore) GetConfig(ctx context.Context, slug string) (*model.InstanceConfig, error) {
	val, err := s.client.Get(ctx, configKey(slug)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get instance config: %w", err)
	}

	var cfg model.InstanceConfig
	if err := json.Unmarshal([]byte(val), &cfg); err != nil {
		return nil, fmt.Errorf("decode instance config: %w", err)
	}
	return &cfg, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
